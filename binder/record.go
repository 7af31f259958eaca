package binder

import (
	"sync/atomic"

	"github.com/teranos/attrbind/constant"
	"github.com/teranos/attrbind/symbols"
	"github.com/teranos/attrbind/syntax"
)

// NamedConstant is one folded Name = value assignment
type NamedConstant struct {
	Name  string
	Value constant.TypedConstant
}

// Record is the bound form of one attribute application.
//
// Everything but the omitted flag is fixed at construction. The omitted
// flag may be recomputed once full binding context is available.
type Record struct {
	recordCore
	omitted atomic.Bool
}

// recordCore holds the fields that never change after binding
type recordCore struct {
	site          *syntax.Attribute
	class         symbols.Type
	constructor   *symbols.Method
	positional    []constant.TypedConstant
	sourceIndices []int
	argCount      int
	named         []NamedConstant
	hasErrors     bool
}

func newRecord(core recordCore, omitted bool) *Record {
	r := &Record{recordCore: core}
	r.omitted.Store(omitted)
	return r
}

// errorRecord is the empty record for an application that could not be
// bound to a usable constructor
func errorRecord(site *syntax.Attribute, class symbols.Type, ctor *symbols.Method) *Record {
	return newRecord(recordCore{site: site, class: class, constructor: ctor, hasErrors: true}, false)
}

// Site returns the attribute application syntax
func (r *Record) Site() *syntax.Attribute { return r.site }

// Class returns the attribute class, an *symbols.ErrorType when it could
// not be resolved
func (r *Record) Class() symbols.Type { return r.class }

// Constructor returns the selected constructor, or nil
func (r *Record) Constructor() *symbols.Method { return r.constructor }

// Positional returns the constructor argument constants. Once binding
// succeeded there is exactly one per constructor parameter, in declared
// order.
func (r *Record) Positional() []constant.TypedConstant {
	return append([]constant.TypedConstant(nil), r.positional...)
}

// SourceIndices maps each parameter to the index of the written argument
// that supplied it, -1 for defaulted parameters. It is nil when the
// written order already matches the declared order.
func (r *Record) SourceIndices() []int {
	if r.sourceIndices == nil {
		return nil
	}
	return append([]int(nil), r.sourceIndices...)
}

// Named returns the field and property assignments in source order
func (r *Record) Named() []NamedConstant {
	return append([]NamedConstant(nil), r.named...)
}

// HasErrors reports whether binding reported any error
func (r *Record) HasErrors() bool { return r.hasErrors }

// Omitted reports whether the application is left out of emitted output
func (r *Record) Omitted() bool { return r.omitted.Load() }

// RecomputeOmitted re-evaluates the omitted flag against the current
// preprocessor state. It never touches the bound constants.
func (r *Record) RecomputeOmitted(cond ConditionalSymbols, early bool) bool {
	class, _ := r.class.(*symbols.NamedType)
	var tree *syntax.Tree
	if r.site != nil {
		tree = r.site.Tree
	}
	omitted := IsConditionallyOmitted(class, tree, cond, early)
	r.omitted.Store(omitted)
	return omitted
}

// EffectiveArgument is one constructor parameter with its value and the
// written argument it came from (-1 when defaulted)
type EffectiveArgument struct {
	Parameter   *symbols.Parameter
	Value       constant.TypedConstant
	SourceIndex int
}

// EffectiveArguments pairs each constructor parameter with its value. It
// is empty for records that could not be canonicalized.
func (r *Record) EffectiveArguments() []EffectiveArgument {
	if r.constructor == nil || len(r.positional) != len(r.constructor.Params) {
		return nil
	}
	out := make([]EffectiveArgument, len(r.positional))
	for i, v := range r.positional {
		index := i
		switch {
		case r.sourceIndices != nil:
			index = r.sourceIndices[i]
		case i >= r.argCount:
			index = -1
		}
		out[i] = EffectiveArgument{Parameter: r.constructor.Params[i], Value: v, SourceIndex: index}
	}
	return out
}
