package layer

import "fmt"

// assertf panics when cond is false. It guards structural invariants whose
// violation would corrupt the tree.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("layer: "+format, args...))
	}
}

// forbidListMutation marks l's child lists as being iterated. The returned
// func restores the previous state; nested iterations over the same layer
// are allowed.
func (l *Layer) forbidListMutation() func() {
	prev := l.listMutationAllowed
	l.listMutationAllowed = false
	return func() { l.listMutationAllowed = prev }
}

func (l *Layer) assertListMutationAllowed() {
	if l.tree.opts.DebugAssertions && !l.listMutationAllowed {
		panic(fmt.Sprintf("layer: %s: z-order or normal-flow list mutated while being iterated", l.Name()))
	}
}
