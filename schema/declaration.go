// Package schema holds the data model shared by discovery and emission:
// schema declarations, their fields, and the namespace tree they live in.
package schema

import "strings"

// Serializer is the base schema type. A struct that embeds it, directly or
// through another schema struct, is a schema declaration:
//
//	type InvoiceSerializer struct {
//	    schema.Serializer
//	    Number string `json:"number"`
//	}
type Serializer struct{}

// BaseType is the fully qualified name of Serializer, the default capability
// marker the loader looks for.
const BaseType = "github.com/teranos/typomatic/schema.Serializer"

// Declaration is a class-like data shape discovered in a namespace.
type Declaration struct {
	// Name is the declared name (Go type name)
	Name string

	// Origin is the dotted namespace that defines the declaration, e.g.
	// "billing.serializers". Re-exports never change it.
	Origin string

	// Schema is the capability marker: true when the declaration derives
	// from the recognized base schema type.
	Schema bool

	// Doc is the declaration's doc comment, if any
	Doc string

	Fields []Field
}

// Qualified returns "<origin>.<name>".
func (d *Declaration) Qualified() string {
	if d.Origin == "" {
		return d.Name
	}
	return d.Origin + "." + d.Name
}

// Context returns the output context the declaration is emitted into.
func (d *Declaration) Context() OutputContext {
	return ContextOf(d.Origin)
}

// Field is one serialized attribute of a declaration.
type Field struct {
	// Name is the Go field name
	Name string
	// JSONName is the wire name (json tag or Go name)
	JSONName string
	Type     TypeRef
	// Optional fields may be absent from the payload
	Optional bool
	// Nullable fields may be null
	Nullable bool
	Doc      string
	Choices  []Choice
	Rules    []Rule
}

// TypeKind classifies a TypeRef.
type TypeKind int

const (
	KindAny TypeKind = iota
	KindBasic
	KindRef
	KindList
	KindMap
)

// Basic type names used by TypeRef.Name when Kind is KindBasic.
const (
	BasicString   = "string"
	BasicInteger  = "integer"
	BasicFloat    = "float"
	BasicBoolean  = "boolean"
	BasicDateTime = "datetime"
)

// TypeRef is a language-neutral reference to a field's type.
type TypeRef struct {
	Kind TypeKind
	// Name is the basic type name or the referenced declaration's name
	Name string
	// Origin is the defining namespace of a referenced declaration
	Origin string
	// Schema is set when a KindRef points at a schema declaration
	Schema bool
	// Decl is the referenced declaration, when the loader has it
	Decl *Declaration
	Elem *TypeRef
	Key  *TypeRef
}

// Basic returns a basic TypeRef.
func Basic(name string) TypeRef {
	return TypeRef{Kind: KindBasic, Name: name}
}

// ListOf returns a list TypeRef.
func ListOf(elem TypeRef) TypeRef {
	return TypeRef{Kind: KindList, Elem: &elem}
}

// MapOf returns a map TypeRef.
func MapOf(key, elem TypeRef) TypeRef {
	return TypeRef{Kind: KindMap, Key: &key, Elem: &elem}
}

// RefTo returns a reference to another declaration.
func RefTo(decl *Declaration) TypeRef {
	return TypeRef{Kind: KindRef, Name: decl.Name, Origin: decl.Origin, Schema: decl.Schema, Decl: decl}
}

// Choice is one allowed value of a choices field.
type Choice struct {
	Value string
	// Key is the identifier-safe name, e.g. "DRAFT"
	Key string
	// Label is the display name, e.g. "Draft"
	Label string
}

// Rule is a validation constraint such as min=3 or email.
type Rule struct {
	Name  string
	Value string
}

// IsPublic reports whether a bound name is public: not underscore-prefixed.
func IsPublic(name string) bool {
	return name != "" && !strings.HasPrefix(name, "_")
}
