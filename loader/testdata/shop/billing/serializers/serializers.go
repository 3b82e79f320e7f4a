package serializers

import (
	"time"

	"example.com/shop/base"
	users "example.com/shop/users/serializers"
)

// Status is the lifecycle state of an invoice.
type Status string

const (
	StatusDraft Status = "draft" // Draft
	StatusPaid  Status = "paid"  // Paid in full
)

// DefaultCurrency is used when none is given.
const DefaultCurrency = "EUR"

// Registry is exported state, not a type.
var Registry = map[string]int{}

// Account is re-exported from users.
type Account = users.AccountSerializer

// InvoiceSerializer is an issued invoice.
type InvoiceSerializer struct {
	base.Serializer

	// Number is the human readable invoice number.
	Number   string                   `json:"number" validate:"required,max=32"`
	Status   Status                   `json:"status"`
	Customer *users.AccountSerializer `json:"customer"`
	Lines    []LineItemSerializer     `json:"lines" validate:"min=1"`
	IssuedAt time.Time                `json:"issued_at"`
	Notes    string                   `json:"notes,omitempty"`
	Currency string                   `json:"currency" validate:"oneof=EUR USD"`
	Secret   string                   `json:"-"`
	internal string
}

// LineItemSerializer is one invoice line.
type LineItemSerializer struct {
	base.Serializer
	Amount float64 `json:"amount" validate:"gte=0"`
}

// AuditedSerializer is a schema through its embedded line item.
type AuditedSerializer struct {
	LineItemSerializer
	Auditor string `json:"auditor"` // who signed off
}

// Money is a plain struct.
type Money struct {
	Amount int64 `json:"amount"`
}

type draftSerializer struct {
	base.Serializer
}

// NewInvoice returns an empty invoice.
func NewInvoice() *InvoiceSerializer {
	return &InvoiceSerializer{internal: "new"}
}
