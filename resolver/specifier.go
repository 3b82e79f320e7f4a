package resolver

import (
	"strings"

	"github.com/teranos/typomatic/errors"
)

// Shape is the form of a specifier, decided purely by its segment count.
type Shape int

const (
	// ShapePackage is "namespace": scan namespace.serializers
	ShapePackage Shape = iota + 1
	// ShapeDeclaration is "namespace.Name": one declaration of namespace.serializers
	ShapeDeclaration
	// ShapeNamespace is three or more segments: scan that exact namespace
	ShapeNamespace
)

func (s Shape) String() string {
	switch s {
	case ShapePackage:
		return "package"
	case ShapeDeclaration:
		return "declaration"
	case ShapeNamespace:
		return "namespace"
	default:
		return "unknown"
	}
}

// Specifier is a parsed user-supplied selector.
type Specifier struct {
	Raw   string
	Shape Shape
	// Package is the first segment
	Package string
	// Name is the declaration name for ShapeDeclaration
	Name string
}

// ParseSpecifier splits raw on "." and classifies it. A specifier with three
// or more segments is always a namespace path, even when the last segment
// looks like a declaration name.
func ParseSpecifier(raw string) (Specifier, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Specifier{}, errors.NewInvalidSpecifierError("empty specifier")
	}

	parts := strings.Split(trimmed, ".")
	for _, p := range parts {
		if p == "" {
			return Specifier{}, errors.NewInvalidSpecifierError("empty segment in %q", raw)
		}
	}

	spec := Specifier{Raw: trimmed, Package: parts[0]}
	switch len(parts) {
	case 1:
		spec.Shape = ShapePackage
	case 2:
		spec.Shape = ShapeDeclaration
		spec.Name = parts[1]
	default:
		spec.Shape = ShapeNamespace
	}
	return spec, nil
}

// ValidateSpecifiers parses every specifier and returns the first error.
func ValidateSpecifiers(raw []string) error {
	for _, r := range raw {
		if _, err := ParseSpecifier(r); err != nil {
			return err
		}
	}
	return nil
}
