package schema

import "strings"

// OutputContext names the destination artifact a declaration accumulates
// into. It is the top-level segment of the declaration's origin.
type OutputContext string

// ContextOf derives the output context from a dotted origin namespace.
func ContextOf(origin string) OutputContext {
	if i := strings.IndexByte(origin, '.'); i >= 0 {
		return OutputContext(origin[:i])
	}
	return OutputContext(origin)
}

func (c OutputContext) String() string {
	return string(c)
}
