package serializers

import "example.com/shop/base"

// AccountSerializer is a customer account.
type AccountSerializer struct {
	base.Serializer
	ID    int    `json:"id"`
	Email string `json:"email" validate:"required,email"`
}
