package emitter

import (
	"github.com/teranos/typomatic/schema"
)

// Registry is the per-run accumulator of declarations, grouped by output
// context. Registration is set-like, keyed by declared name within a context.
// Emitters embed it; nothing shares a Registry across runs.
type Registry struct {
	contexts map[schema.OutputContext]*contextEntries
	order    []schema.OutputContext
}

type contextEntries struct {
	byName map[string]*schema.Declaration
	order  []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{contexts: make(map[schema.OutputContext]*contextEntries)}
}

// Register adds decl under ctx and reports whether it was not present yet.
// A second declaration with the same name under the same context replaces
// nothing and returns false.
func (r *Registry) Register(decl *schema.Declaration, ctx schema.OutputContext) bool {
	entries, ok := r.contexts[ctx]
	if !ok {
		entries = &contextEntries{byName: make(map[string]*schema.Declaration)}
		r.contexts[ctx] = entries
		r.order = append(r.order, ctx)
	}
	if _, exists := entries.byName[decl.Name]; exists {
		return false
	}
	entries.byName[decl.Name] = decl
	entries.order = append(entries.order, decl.Name)
	return true
}

// Declarations returns the declarations registered under ctx in
// registration order.
func (r *Registry) Declarations(ctx schema.OutputContext) []*schema.Declaration {
	entries, ok := r.contexts[ctx]
	if !ok {
		return nil
	}
	out := make([]*schema.Declaration, 0, len(entries.order))
	for _, name := range entries.order {
		out = append(out, entries.byName[name])
	}
	return out
}

// Contexts returns every context with at least one registration, in the
// order they were first seen.
func (r *Registry) Contexts() []schema.OutputContext {
	out := make([]schema.OutputContext, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the total number of registered declarations.
func (r *Registry) Len() int {
	n := 0
	for _, entries := range r.contexts {
		n += len(entries.order)
	}
	return n
}
