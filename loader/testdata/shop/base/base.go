// Package base holds the shop's schema base type.
package base

// Serializer marks a struct as a schema declaration.
type Serializer struct{}
