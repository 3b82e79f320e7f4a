// Package resolver maps specifiers onto the schema declarations they denote.
package resolver

import (
	"go.uber.org/zap"

	"github.com/teranos/typomatic/logger"
	"github.com/teranos/typomatic/schema"
)

// DefaultSubNamespace is the conventional sub-namespace scanned for package
// and package.Name specifiers.
const DefaultSubNamespace = "serializers"

// Resolver resolves specifiers against a namespace tree.
type Resolver struct {
	tree *schema.Tree
	sub  string
	log  *zap.SugaredLogger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSubNamespace overrides the conventional "serializers" sub-namespace.
func WithSubNamespace(name string) Option {
	return func(r *Resolver) {
		if name != "" {
			r.sub = name
		}
	}
}

// WithLogger sets the logger used for resolution diagnostics.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(r *Resolver) {
		r.log = log
	}
}

// New creates a resolver over tree.
func New(tree *schema.Tree, opts ...Option) *Resolver {
	r := &Resolver{
		tree: tree,
		sub:  DefaultSubNamespace,
		log:  logger.ComponentLogger("resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the schema declarations raw denotes, sorted by name.
// Misses (unknown namespace, unknown name, invalid specifier) yield an empty
// result, never an error.
func (r *Resolver) Resolve(raw string) []*schema.Declaration {
	spec, err := ParseSpecifier(raw)
	if err != nil {
		r.log.Debugw("Skipping invalid specifier", logger.FieldSpecifier, raw, logger.FieldError, err)
		return nil
	}
	return r.ResolveSpecifier(spec)
}

// ResolveSpecifier is Resolve for an already parsed specifier.
func (r *Resolver) ResolveSpecifier(spec Specifier) []*schema.Declaration {
	var (
		namespace string
		name      string
	)
	switch spec.Shape {
	case ShapePackage:
		namespace = spec.Package + "." + r.sub
	case ShapeDeclaration:
		namespace = spec.Package + "." + r.sub
		name = spec.Name
	default:
		namespace = spec.Raw
	}

	decls := r.scan(namespace, name)
	if len(decls) == 0 {
		r.log.Debugw("Specifier matched no declarations",
			logger.FieldSpecifier, spec.Raw,
			logger.FieldNamespace, namespace)
	}
	return decls
}

// ResolveAll resolves every specifier in order and removes duplicates by
// qualified name, keeping the first occurrence.
func (r *Resolver) ResolveAll(specifiers []string) []*schema.Declaration {
	seen := make(map[string]bool)
	var out []*schema.Declaration
	for _, raw := range specifiers {
		for _, decl := range r.Resolve(raw) {
			q := decl.Qualified()
			if seen[q] {
				continue
			}
			seen[q] = true
			out = append(out, decl)
		}
	}
	return out
}

// scan enumerates the public members of namespace and keeps the schema
// declarations defined there. A non-empty name narrows to that declaration.
func (r *Resolver) scan(namespace, name string) []*schema.Declaration {
	ns, ok := r.tree.Lookup(namespace)
	if !ok {
		return nil
	}

	seen := make(map[*schema.Declaration]bool)
	var out []*schema.Declaration
	for _, b := range ns.Members() {
		if !schema.IsPublic(b.Name) {
			continue
		}
		if b.Kind != schema.BindStruct || b.Decl == nil {
			continue
		}
		// Re-exports carry a foreign origin
		if b.Decl.Origin != namespace {
			continue
		}
		if name != "" && b.Decl.Name != name {
			continue
		}
		if !b.Decl.Schema || seen[b.Decl] {
			continue
		}
		seen[b.Decl] = true
		out = append(out, b.Decl)
	}
	return out
}
