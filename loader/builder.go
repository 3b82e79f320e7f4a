package loader

import (
	"go/constant"
	"go/types"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/teranos/typomatic/logger"
	"github.com/teranos/typomatic/schema"
)

// builder converts type-checked packages into tree bindings and
// declarations. Declarations are cached by qualified Go name so that a type
// reached through an alias, a field or its own package is one *Declaration.
type builder struct {
	baseType string
	module   string
	tree     *schema.Tree
	decls    map[string]*schema.Declaration
	docs     *docIndex
	log      *zap.SugaredLogger
	declared int
}

func newBuilder(baseType, module string, log *zap.SugaredLogger) *builder {
	return &builder{
		baseType: baseType,
		module:   module,
		tree:     schema.NewTree(),
		decls:    make(map[string]*schema.Declaration),
		docs:     newDocIndex(),
		log:      log,
	}
}

func (b *builder) indexDocs(pkg *packages.Package) {
	b.docs.add(pkg)
}

// addPackage binds every exported package-scope object of pkg
func (b *builder) addPackage(pkg *packages.Package) {
	ns := Namespace(pkg.PkgPath, b.module)
	b.tree.Namespace(ns)

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		obj := scope.Lookup(name)
		if !obj.Exported() {
			continue
		}

		switch obj := obj.(type) {
		case *types.TypeName:
			b.bindTypeName(ns, obj)
		case *types.Func:
			b.tree.Bind(ns, name, schema.BindFunc, nil)
		case *types.Const:
			b.tree.Bind(ns, name, schema.BindConst, nil)
		case *types.Var:
			b.tree.Bind(ns, name, schema.BindVar, nil)
		}
	}

	b.log.Debugw("Indexed package",
		logger.FieldPackage, pkg.PkgPath,
		logger.FieldNamespace, ns,
		logger.FieldCount, scope.Len())
}

// bindTypeName binds a type or alias. Aliases of named structs bind the
// target's declaration, whose origin stays the target's package.
func (b *builder) bindTypeName(ns string, obj *types.TypeName) {
	named, ok := types.Unalias(obj.Type()).(*types.Named)
	if !ok || named.TypeParams().Len() > 0 {
		b.tree.Bind(ns, obj.Name(), schema.BindType, nil)
		return
	}
	if _, isStruct := named.Underlying().(*types.Struct); !isStruct {
		b.tree.Bind(ns, obj.Name(), schema.BindType, nil)
		return
	}

	decl := b.declFor(named)
	b.tree.Bind(ns, obj.Name(), schema.BindStruct, decl)

	if obj.IsAlias() {
		b.log.Debugw("Bound re-export",
			logger.FieldNamespace, ns,
			logger.FieldDeclaration, decl.Qualified())
	}
}

// declFor returns the cached declaration for a named struct, building it on
// first use. The cache entry is stored before fields are built so that
// self-referencing structs terminate.
func (b *builder) declFor(named *types.Named) *schema.Declaration {
	key := qualifiedName(named)
	if decl, ok := b.decls[key]; ok {
		return decl
	}

	obj := named.Obj()
	decl := &schema.Declaration{
		Name:   obj.Name(),
		Origin: b.originOf(obj),
		Doc:    b.docs.typeDoc(key),
	}
	b.decls[key] = decl

	decl.Schema = b.isSchema(named, make(map[string]bool))
	if decl.Schema {
		b.declared++
	}
	decl.Fields = b.structFields(named, make(map[string]bool))
	return decl
}

func (b *builder) originOf(obj *types.TypeName) string {
	if obj.Pkg() == nil {
		return ""
	}
	return Namespace(obj.Pkg().Path(), b.module)
}

// isSchema reports whether named embeds the base type, directly or through
// an embedded struct that does. visiting guards against pointer cycles.
func (b *builder) isSchema(named *types.Named, visiting map[string]bool) bool {
	key := qualifiedName(named)
	if visiting[key] {
		return false
	}
	visiting[key] = true

	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return false
	}
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if !f.Embedded() {
			continue
		}
		embedded, ok := namedOf(f.Type())
		if !ok {
			continue
		}
		if qualifiedName(embedded) == b.baseType {
			return true
		}
		if b.isSchema(embedded, visiting) {
			return true
		}
	}
	return false
}

// choicesFor returns the string constants declared for a named string type,
// in source order.
func (b *builder) choicesFor(named *types.Named) []schema.Choice {
	basic, ok := named.Underlying().(*types.Basic)
	if !ok || basic.Info()&types.IsString == 0 {
		return nil
	}
	pkg := named.Obj().Pkg()
	if pkg == nil {
		return nil
	}

	var consts []*types.Const
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if !ok || !c.Exported() || !types.Identical(c.Type(), named) {
			continue
		}
		if c.Val().Kind() != constant.String {
			continue
		}
		consts = append(consts, c)
	}
	sort.Slice(consts, func(i, j int) bool { return consts[i].Pos() < consts[j].Pos() })

	choices := make([]schema.Choice, 0, len(consts))
	for _, c := range consts {
		key := strings.TrimPrefix(c.Name(), named.Obj().Name())
		if key == "" {
			key = c.Name()
		}
		choices = append(choices, schema.Choice{
			Value: constant.StringVal(c.Val()),
			Key:   key,
			Label: b.docs.constLabel(pkg.Path() + "." + c.Name()),
		})
	}
	return choices
}

// namedOf strips pointers and aliases and returns the named type, if any.
func namedOf(t types.Type) (*types.Named, bool) {
	t = types.Unalias(t)
	if p, ok := t.(*types.Pointer); ok {
		t = types.Unalias(p.Elem())
	}
	named, ok := t.(*types.Named)
	return named, ok
}

// qualifiedName is "<import path>.<Name>"
func qualifiedName(named *types.Named) string {
	obj := named.Obj()
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}
