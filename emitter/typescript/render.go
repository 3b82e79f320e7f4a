package typescript

import (
	"fmt"
	"sort"
	"strings"

	"github.com/teranos/typomatic/emitter"
	"github.com/teranos/typomatic/schema"
)

// Header is written at the top of every generated file.
const Header = "/* eslint-disable */\n// Code generated by typomatic. DO NOT EDIT.\n"

// Render produces the TypeScript module for one output context. decls are the
// declarations registered under ctx. linked names the other contexts written
// in the same run: schema references into them become imports, while
// referenced declarations of ctx itself or of any unlinked context are
// rendered alongside decls.
func Render(ctx schema.OutputContext, decls []*schema.Declaration, opts emitter.Options, linked ...schema.OutputContext) string {
	r := &renderer{ctx: ctx, opts: opts, linked: make(map[schema.OutputContext]bool, len(linked))}
	for _, l := range linked {
		if l != ctx {
			r.linked[l] = true
		}
	}
	all := r.collect(decls)

	var sb strings.Builder
	sb.WriteString(Header)
	sb.WriteString(fmt.Sprintf("// Output context: %s\n", ctx))

	if imports := r.imports(all); imports != "" {
		sb.WriteString("\n")
		sb.WriteString(imports)
	}

	for _, decl := range all {
		iface := r.typeName(decl.Name)
		for _, field := range decl.Fields {
			if len(field.Choices) == 0 {
				continue
			}
			if block := r.choiceBlocks(iface, field); block != "" {
				sb.WriteString("\n")
				sb.WriteString(block)
			}
		}
	}

	for _, decl := range all {
		sb.WriteString("\n")
		sb.WriteString(r.interfaceBlock(decl))
	}

	return sb.String()
}

type renderer struct {
	ctx    schema.OutputContext
	opts   emitter.Options
	linked map[schema.OutputContext]bool
}

// local reports whether a schema reference into target is rendered in this
// file rather than imported
func (r *renderer) local(target schema.OutputContext) bool {
	return target == r.ctx || !r.linked[target]
}

// collect returns decls plus every schema declaration reachable through their
// fields that is not imported from a linked context, sorted by emitted name.
func (r *renderer) collect(decls []*schema.Declaration) []*schema.Declaration {
	seen := make(map[string]bool)
	var out []*schema.Declaration

	var visit func(d *schema.Declaration)
	visit = func(d *schema.Declaration) {
		if seen[d.Name] {
			return
		}
		seen[d.Name] = true
		out = append(out, d)
		for _, f := range d.Fields {
			walkRefs(f.Type, func(ref schema.TypeRef) {
				if ref.Decl != nil && ref.Schema && r.local(schema.ContextOf(ref.Origin)) {
					visit(ref.Decl)
				}
			})
		}
	}

	for _, d := range decls {
		visit(d)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return r.typeName(out[i].Name) < r.typeName(out[j].Name)
	})
	return out
}

// imports builds `import type` lines for schema references into linked contexts
func (r *renderer) imports(decls []*schema.Declaration) string {
	byContext := make(map[schema.OutputContext]map[string]bool)

	for _, d := range decls {
		for _, f := range d.Fields {
			walkRefs(f.Type, func(ref schema.TypeRef) {
				if !ref.Schema {
					return
				}
				target := schema.ContextOf(ref.Origin)
				if target == "" || r.local(target) {
					return
				}
				if byContext[target] == nil {
					byContext[target] = make(map[string]bool)
				}
				byContext[target][r.typeName(ref.Name)] = true
			})
		}
	}

	if len(byContext) == 0 {
		return ""
	}

	contexts := make([]string, 0, len(byContext))
	for ctx := range byContext {
		contexts = append(contexts, string(ctx))
	}
	sort.Strings(contexts)

	var sb strings.Builder
	for _, ctx := range contexts {
		names := make([]string, 0, len(byContext[schema.OutputContext(ctx)]))
		for name := range byContext[schema.OutputContext(ctx)] {
			names = append(names, name)
		}
		sort.Strings(names)
		sb.WriteString(fmt.Sprintf("import type { %s } from '../%s';\n", strings.Join(names, ", "), ctx))
	}
	return sb.String()
}

func (r *renderer) interfaceBlock(decl *schema.Declaration) string {
	var sb strings.Builder

	if decl.Doc != "" {
		sb.WriteString(jsDoc("", docLines(decl.Doc)))
	}
	sb.WriteString(fmt.Sprintf("export interface %s {\n", r.typeName(decl.Name)))

	iface := r.typeName(decl.Name)
	for _, field := range decl.Fields {
		if r.opts.Annotations {
			lines := docLines(field.Doc)
			lines = append(lines, annotations(field)...)
			sb.WriteString(jsDoc("  ", lines))
		}

		name := r.fieldName(field)
		optional := ""
		if field.Optional {
			optional = "?"
		}
		tsType := r.fieldType(iface, field)
		if field.Nullable {
			tsType += " | null"
		}
		sb.WriteString(fmt.Sprintf("  %s%s: %s;\n", name, optional, tsType))
	}

	sb.WriteString("}\n")
	return sb.String()
}

func (r *renderer) fieldName(f schema.Field) string {
	name := f.JSONName
	if name == "" {
		name = f.Name
	}
	if r.opts.Camelize {
		name = toCamelCase(name)
	}
	if !isIdentifier(name) {
		return quote(name)
	}
	return name
}

func (r *renderer) fieldType(iface string, f schema.Field) string {
	if len(f.Choices) == 0 {
		return r.typeExpr(f.Type)
	}

	if r.opts.EnumChoices {
		name := enumName(iface, f)
		if f.Type.Kind == schema.KindList {
			return name + "[]"
		}
		return name
	}

	values := make([]string, len(f.Choices))
	for i, c := range f.Choices {
		values[i] = quote(c.Value)
	}
	union := strings.Join(values, " | ")
	if f.Type.Kind == schema.KindList {
		return "(" + union + ")[]"
	}
	return union
}

// typeExpr maps a TypeRef to a TypeScript type expression
func (r *renderer) typeExpr(t schema.TypeRef) string {
	switch t.Kind {
	case schema.KindBasic:
		switch t.Name {
		case schema.BasicString, schema.BasicDateTime:
			return "string"
		case schema.BasicInteger, schema.BasicFloat:
			return "number"
		case schema.BasicBoolean:
			return "boolean"
		}
		return "unknown"
	case schema.KindRef:
		if !t.Schema {
			return "Record<string, unknown>"
		}
		return r.typeName(t.Name)
	case schema.KindList:
		if t.Elem == nil {
			return "unknown[]"
		}
		elem := r.typeExpr(*t.Elem)
		if strings.ContainsAny(elem, " |") {
			return "(" + elem + ")[]"
		}
		return elem + "[]"
	case schema.KindMap:
		key, val := "string", "unknown"
		if t.Key != nil && t.Key.Kind == schema.KindBasic &&
			(t.Key.Name == schema.BasicInteger || t.Key.Name == schema.BasicFloat) {
			key = "number"
		}
		if t.Elem != nil {
			val = r.typeExpr(*t.Elem)
		}
		return fmt.Sprintf("Record<%s, %s>", key, val)
	}
	return "unknown"
}

// typeName applies suffix trimming to a declared name
func (r *renderer) typeName(name string) string {
	if !r.opts.TrimSuffix {
		return name
	}
	suffix := r.opts.Suffix
	if suffix == "" {
		suffix = emitter.DefaultSuffix
	}
	if trimmed := strings.TrimSuffix(name, suffix); trimmed != "" {
		return trimmed
	}
	return name
}

// choiceBlocks renders the enum and lookup maps requested for a choices field
func (r *renderer) choiceBlocks(iface string, f schema.Field) string {
	var sb strings.Builder
	name := enumName(iface, f)
	keys := choiceKeys(f.Choices)

	if r.opts.EnumChoices {
		sb.WriteString(fmt.Sprintf("export enum %s {\n", name))
		for i, c := range f.Choices {
			sb.WriteString(fmt.Sprintf("  %s = %s,\n", keys[i], quote(c.Value)))
		}
		sb.WriteString("}\n")
	}

	if r.opts.EnumValues {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("export const %sValues = {\n", name))
		for _, c := range f.Choices {
			sb.WriteString(fmt.Sprintf("  %s: %s,\n", quote(c.Value), quote(choiceLabel(c))))
		}
		sb.WriteString("} as const;\n")
	}

	if r.opts.EnumKeys {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("export const %sKeys = {\n", name))
		for i, c := range f.Choices {
			sb.WriteString(fmt.Sprintf("  %s: %s,\n", quote(c.Value), quote(keys[i])))
		}
		sb.WriteString("} as const;\n")
	}

	return sb.String()
}

// enumName is <Interface><Field>ChoiceEnum
func enumName(iface string, f schema.Field) string {
	field := f.JSONName
	if field == "" {
		field = f.Name
	}
	return iface + toPascalCase(field) + "ChoiceEnum"
}

func choiceKey(c schema.Choice) string {
	if c.Key != "" {
		return toConstantCase(c.Key)
	}
	return toConstantCase(c.Value)
}

// choiceKeys returns one enum member name per choice. A key already taken
// within the field gets the lowest free numeric suffix: IN_PROGRESS_2.
func choiceKeys(choices []schema.Choice) []string {
	taken := make(map[string]bool, len(choices))
	for _, c := range choices {
		taken[choiceKey(c)] = true
	}

	used := make(map[string]bool, len(choices))
	keys := make([]string, len(choices))
	for i, c := range choices {
		key := choiceKey(c)
		if used[key] {
			base := key
			for n := 2; used[key] || taken[key]; n++ {
				key = fmt.Sprintf("%s_%d", base, n)
			}
		}
		used[key] = true
		keys[i] = key
	}
	return keys
}

func choiceLabel(c schema.Choice) string {
	if c.Label != "" {
		return c.Label
	}
	return toLabel(c.Value)
}

// annotations maps validation rules to JSDoc tags
func annotations(f schema.Field) []string {
	var out []string
	kind := measureOf(f.Type)

	for _, rule := range f.Rules {
		switch rule.Name {
		case "min":
			out = append(out, fmt.Sprintf("@%s %s", kind.min, rule.Value))
		case "max":
			out = append(out, fmt.Sprintf("@%s %s", kind.max, rule.Value))
		case "len":
			out = append(out,
				fmt.Sprintf("@%s %s", kind.min, rule.Value),
				fmt.Sprintf("@%s %s", kind.max, rule.Value))
		case "gte":
			out = append(out, "@minimum "+rule.Value)
		case "lte":
			out = append(out, "@maximum "+rule.Value)
		case "gt":
			out = append(out, "@exclusiveMinimum "+rule.Value)
		case "lt":
			out = append(out, "@exclusiveMaximum "+rule.Value)
		case "email", "url", "uuid":
			out = append(out, "@format "+rule.Name)
		case "pattern":
			out = append(out, "@pattern "+rule.Value)
		case "default":
			out = append(out, "@default "+rule.Value)
		case "required", "omitempty", "oneof":
			// expressed by the type itself
		default:
			if rule.Value == "" {
				out = append(out, "@"+rule.Name)
			} else {
				out = append(out, fmt.Sprintf("@%s %s", rule.Name, rule.Value))
			}
		}
	}
	return out
}

type measure struct{ min, max string }

func measureOf(t schema.TypeRef) measure {
	switch {
	case t.Kind == schema.KindList:
		return measure{"minItems", "maxItems"}
	case t.Kind == schema.KindBasic && (t.Name == schema.BasicInteger || t.Name == schema.BasicFloat):
		return measure{"minimum", "maximum"}
	}
	return measure{"minLength", "maxLength"}
}

func walkRefs(t schema.TypeRef, fn func(schema.TypeRef)) {
	switch t.Kind {
	case schema.KindRef:
		fn(t)
	case schema.KindList, schema.KindMap:
		if t.Elem != nil {
			walkRefs(*t.Elem, fn)
		}
	}
}

func jsDoc(indent string, lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(indent + "/**\n")
	for _, line := range lines {
		if line == "" {
			sb.WriteString(indent + " *\n")
			continue
		}
		sb.WriteString(indent + " * " + line + "\n")
	}
	sb.WriteString(indent + " */\n")
	return sb.String()
}

func docLines(doc string) []string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return nil
	}
	lines := strings.Split(doc, "\n")
	for i, l := range lines {
		lines[i] = strings.ReplaceAll(strings.TrimRight(l, " \t"), "*/", "*\\/")
	}
	return lines
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return "'" + s + "'"
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
