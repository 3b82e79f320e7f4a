package loader

import (
	"go/ast"
	"go/token"
	"strings"

	"golang.org/x/tools/go/packages"
)

// docIndex holds comments from package syntax, keyed by qualified Go name:
// "<import path>.<Type>", "<import path>.<Type>.<Field>" and
// "<import path>.<Const>". Types known only from export data have no entry.
type docIndex struct {
	types  map[string]string
	fields map[string]string
	labels map[string]string
}

func newDocIndex() *docIndex {
	return &docIndex{
		types:  make(map[string]string),
		fields: make(map[string]string),
		labels: make(map[string]string),
	}
}

func (d *docIndex) add(pkg *packages.Package) {
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok {
				continue
			}
			switch gen.Tok {
			case token.TYPE:
				d.addTypes(pkg.PkgPath, gen)
			case token.CONST:
				d.addConsts(pkg.PkgPath, gen)
			}
		}
	}
}

func (d *docIndex) addTypes(pkgPath string, gen *ast.GenDecl) {
	for _, spec := range gen.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		key := pkgPath + "." + ts.Name.Name

		doc := commentText(ts.Doc)
		if doc == "" && len(gen.Specs) == 1 {
			doc = commentText(gen.Doc)
		}
		if doc != "" {
			d.types[key] = doc
		}

		st, ok := ts.Type.(*ast.StructType)
		if !ok {
			continue
		}
		for _, field := range st.Fields.List {
			text := fieldComment(field)
			if text == "" {
				continue
			}
			for _, name := range field.Names {
				d.fields[key+"."+name.Name] = text
			}
		}
	}
}

// addConsts records trailing line comments of constants as choice labels:
//
//	StatusPaid Status = "paid" // Paid in full
func (d *docIndex) addConsts(pkgPath string, gen *ast.GenDecl) {
	for _, spec := range gen.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok || vs.Comment == nil {
			continue
		}
		label := commentText(vs.Comment)
		if label == "" {
			continue
		}
		for _, name := range vs.Names {
			d.labels[pkgPath+"."+name.Name] = label
		}
	}
}

func (d *docIndex) typeDoc(key string) string    { return d.types[key] }
func (d *docIndex) fieldDoc(key string) string   { return d.fields[key] }
func (d *docIndex) constLabel(key string) string { return d.labels[key] }

// fieldComment prefers the doc comment above a field over the inline one
func fieldComment(field *ast.Field) string {
	if text := commentText(field.Doc); text != "" {
		return text
	}
	return commentText(field.Comment)
}

func commentText(group *ast.CommentGroup) string {
	if group == nil {
		return ""
	}
	return strings.TrimSpace(group.Text())
}
