package internal

import "example.com/shop/base"

type LedgerSerializer struct {
	base.Serializer
	Balance int64 `json:"balance"`
}
