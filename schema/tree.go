package schema

import (
	"sort"
	"strings"
)

// BindingKind classifies what a public name in a namespace is bound to.
type BindingKind int

const (
	// BindStruct is a named struct type: the only class-like kind
	BindStruct BindingKind = iota
	// BindType is a named non-struct type
	BindType
	BindFunc
	BindConst
	BindVar
)

func (k BindingKind) String() string {
	switch k {
	case BindStruct:
		return "struct"
	case BindType:
		return "type"
	case BindFunc:
		return "func"
	case BindConst:
		return "const"
	case BindVar:
		return "var"
	default:
		return "unknown"
	}
}

// Binding is one name bound inside a namespace. Decl is set for struct
// bindings and may be defined in another namespace (a re-export).
type Binding struct {
	Name string
	Kind BindingKind
	Decl *Declaration
}

// Namespace is a dotted path with the names bound directly inside it.
type Namespace struct {
	Path     string
	bindings map[string]Binding
}

// Members returns the namespace's bindings sorted by name.
func (n *Namespace) Members() []Binding {
	members := make([]Binding, 0, len(n.bindings))
	for _, b := range n.bindings {
		members = append(members, b)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members
}

// Lookup returns the binding for name.
func (n *Namespace) Lookup(name string) (Binding, bool) {
	b, ok := n.bindings[name]
	return b, ok
}

// Len returns the number of bound names.
func (n *Namespace) Len() int {
	return len(n.bindings)
}

// Tree is an explicitly populated registry of namespaces. It replaces runtime
// introspection: loaders (or tests) register every namespace and binding up
// front, and resolution only ever reads it.
type Tree struct {
	namespaces map[string]*Namespace
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{namespaces: make(map[string]*Namespace)}
}

// Namespace returns the namespace at path, creating it if needed.
func (t *Tree) Namespace(path string) *Namespace {
	if ns, ok := t.namespaces[path]; ok {
		return ns
	}
	ns := &Namespace{Path: path, bindings: make(map[string]Binding)}
	t.namespaces[path] = ns
	return ns
}

// Lookup returns the namespace at path if it was registered.
func (t *Tree) Lookup(path string) (*Namespace, bool) {
	ns, ok := t.namespaces[path]
	return ns, ok
}

// Define binds decl under its own origin namespace.
func (t *Tree) Define(decl *Declaration) {
	t.Bind(decl.Origin, decl.Name, BindStruct, decl)
}

// Bind binds name inside namespace. Binding a declaration under a name or
// namespace other than its own models a re-export. Rebinding a name replaces
// the previous binding.
func (t *Tree) Bind(namespace, name string, kind BindingKind, decl *Declaration) {
	t.Namespace(namespace).bindings[name] = Binding{Name: name, Kind: kind, Decl: decl}
}

// Paths returns every registered namespace path, sorted.
func (t *Tree) Paths() []string {
	paths := make([]string, 0, len(t.namespaces))
	for p := range t.namespaces {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// TopLevel returns the distinct first segments of every namespace, sorted.
func (t *Tree) TopLevel() []string {
	seen := make(map[string]bool)
	var out []string
	for p := range t.namespaces {
		top, _, _ := strings.Cut(p, ".")
		if top != "" && !seen[top] {
			seen[top] = true
			out = append(out, top)
		}
	}
	sort.Strings(out)
	return out
}
