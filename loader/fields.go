package loader

import (
	"go/types"
	"reflect"
	"strings"

	"github.com/teranos/typomatic/schema"
)

// Well-known named types with a fixed wire representation.
var wellKnown = map[string]schema.TypeRef{
	"time.Time":                   schema.Basic(schema.BasicDateTime),
	"time.Duration":               schema.Basic(schema.BasicInteger),
	"encoding/json.RawMessage":    {Kind: schema.KindAny},
	"encoding/json.Number":        schema.Basic(schema.BasicFloat),
	"github.com/google/uuid.UUID": schema.Basic(schema.BasicString),
	"database/sql.NullString":     schema.Basic(schema.BasicString),
	"database/sql.NullInt64":      schema.Basic(schema.BasicInteger),
	"database/sql.NullInt32":      schema.Basic(schema.BasicInteger),
	"database/sql.NullFloat64":    schema.Basic(schema.BasicFloat),
	"database/sql.NullBool":       schema.Basic(schema.BasicBoolean),
	"database/sql.NullTime":       schema.Basic(schema.BasicDateTime),
	"math/big.Int":                schema.Basic(schema.BasicString),
	"net/url.URL":                 schema.Basic(schema.BasicString),
}

// nullableWellKnown are the database/sql wrappers that marshal to null
var nullableWellKnown = map[string]bool{
	"database/sql.NullString":  true,
	"database/sql.NullInt64":   true,
	"database/sql.NullInt32":   true,
	"database/sql.NullFloat64": true,
	"database/sql.NullBool":    true,
	"database/sql.NullTime":    true,
}

// tagInfo is what typomatic reads from a struct field tag
type tagInfo struct {
	JSONName  string
	Omitempty bool
	Skip      bool
	Validate  []schema.Rule
	Required  bool
	OneOf     []string
	Pattern   string
	Default   string
}

// parseTag reads json, validate, pattern and default keys from a raw tag
func parseTag(raw string) tagInfo {
	info := tagInfo{}
	st := reflect.StructTag(raw)

	if jsonTag, ok := st.Lookup("json"); ok {
		parts := strings.Split(jsonTag, ",")
		if parts[0] == "-" && len(parts) == 1 {
			info.Skip = true
			return info
		}
		info.JSONName = parts[0]
		for _, opt := range parts[1:] {
			if opt == "omitempty" || opt == "omitzero" {
				info.Omitempty = true
			}
		}
	}

	if v := st.Get("validate"); v != "" {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			// Rules after dive apply to elements, not the field
			if part == "dive" {
				break
			}
			name, value, _ := strings.Cut(part, "=")
			switch name {
			case "required":
				info.Required = true
			case "omitempty":
			case "oneof":
				info.OneOf = strings.Fields(value)
			default:
				info.Validate = append(info.Validate, schema.Rule{Name: name, Value: value})
			}
		}
	}

	info.Pattern = st.Get("pattern")
	info.Default = st.Get("default")
	return info
}

// structFields returns the serialized fields of named. Embedded structs
// without a json name are flattened; the base type contributes nothing.
func (b *builder) structFields(named *types.Named, visiting map[string]bool) []schema.Field {
	key := qualifiedName(named)
	if visiting[key] {
		return nil
	}
	visiting[key] = true
	defer delete(visiting, key)

	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil
	}

	var fields []schema.Field
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		tag := parseTag(st.Tag(i))
		if tag.Skip {
			continue
		}

		if f.Embedded() && tag.JSONName == "" {
			embedded, ok := namedOf(f.Type())
			if ok && qualifiedName(embedded) == b.baseType {
				continue
			}
			if ok {
				if _, isStruct := embedded.Underlying().(*types.Struct); isStruct {
					fields = append(fields, b.structFields(embedded, visiting)...)
					continue
				}
			}
		}

		if !f.Exported() {
			continue
		}
		fields = append(fields, b.field(key, f, tag))
	}
	return fields
}

func (b *builder) field(owner string, f *types.Var, tag tagInfo) schema.Field {
	field := schema.Field{
		Name:     f.Name(),
		JSONName: tag.JSONName,
		Optional: tag.Omitempty,
		Doc:      b.docs.fieldDoc(owner + "." + f.Name()),
		Rules:    tag.Validate,
	}
	if field.JSONName == "" {
		field.JSONName = f.Name()
	}

	ref, nullable := b.typeRef(f.Type())
	field.Type = ref
	if nullable {
		field.Optional = true
		field.Nullable = true
	}
	if tag.Required {
		field.Optional = false
	}

	if len(tag.OneOf) > 0 {
		for _, v := range tag.OneOf {
			field.Choices = append(field.Choices, schema.Choice{Value: v})
		}
	} else if named, ok := choiceSource(f.Type()); ok {
		field.Choices = b.choicesFor(named)
	}

	if tag.Pattern != "" {
		field.Rules = append(field.Rules, schema.Rule{Name: "pattern", Value: tag.Pattern})
	}
	if tag.Default != "" {
		field.Rules = append(field.Rules, schema.Rule{Name: "default", Value: tag.Default})
	}
	return field
}

// choiceSource finds the named type whose constants enumerate a field's
// values: T, *T or []T.
func choiceSource(t types.Type) (*types.Named, bool) {
	t = types.Unalias(t)
	if s, ok := t.(*types.Slice); ok {
		t = s.Elem()
	}
	return namedOf(t)
}

// typeRef converts a Go type into a TypeRef. The second result reports
// whether the value may be null on the wire.
func (b *builder) typeRef(t types.Type) (schema.TypeRef, bool) {
	switch t := t.(type) {
	case *types.Alias:
		return b.typeRef(types.Unalias(t))

	case *types.Pointer:
		ref, _ := b.typeRef(t.Elem())
		return ref, true

	case *types.Named:
		key := qualifiedName(t)
		if ref, ok := wellKnown[key]; ok {
			return ref, nullableWellKnown[key]
		}
		if _, isStruct := t.Underlying().(*types.Struct); isStruct && t.TypeParams().Len() == 0 {
			return schema.RefTo(b.declFor(t)), false
		}
		return b.typeRef(t.Underlying())

	case *types.Basic:
		info := t.Info()
		switch {
		case info&types.IsBoolean != 0:
			return schema.Basic(schema.BasicBoolean), false
		case info&types.IsString != 0:
			return schema.Basic(schema.BasicString), false
		case info&types.IsInteger != 0:
			return schema.Basic(schema.BasicInteger), false
		case info&types.IsFloat != 0:
			return schema.Basic(schema.BasicFloat), false
		}
		return schema.TypeRef{Kind: schema.KindAny}, false

	// Nil slices and maps encode as null but are typed as their empty value;
	// only pointers and the database/sql wrappers are nullable.
	case *types.Slice:
		if basic, ok := t.Elem().(*types.Basic); ok && basic.Kind() == types.Byte {
			// encoding/json writes []byte as base64
			return schema.Basic(schema.BasicString), false
		}
		elem, _ := b.typeRef(t.Elem())
		return schema.ListOf(elem), false

	case *types.Array:
		elem, _ := b.typeRef(t.Elem())
		return schema.ListOf(elem), false

	case *types.Map:
		key, _ := b.typeRef(t.Key())
		elem, _ := b.typeRef(t.Elem())
		return schema.MapOf(key, elem), false
	}

	return schema.TypeRef{Kind: schema.KindAny}, false
}
