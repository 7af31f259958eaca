package binder

import (
	"github.com/teranos/attrbind/symbols"
	"github.com/teranos/attrbind/syntax"
)

// IsConditionallyOmitted reports whether an application of class in tree
// must be left out of emitted output. Each conditional class in the
// ancestry is checked in turn: the application is kept as soon as one of
// a class's own symbols is defined, and omitted once the walk reaches an
// ancestor that is not conditional. The early pass never omits.
func IsConditionallyOmitted(class *symbols.NamedType, tree *syntax.Tree, cond ConditionalSymbols, early bool) bool {
	if early || class == nil || cond == nil || !symbols.IsConditional(class) {
		return false
	}
	for t := class; ; t = t.Base {
		if len(t.ConditionalSymbols) > 0 && cond.AnyDefined(tree, t.ConditionalSymbols) {
			return false
		}
		if t.Base == nil || !symbols.IsConditional(t.Base) {
			return true
		}
	}
}
