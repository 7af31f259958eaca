// Package bound holds type-checked attribute argument expressions as
// produced by the expression binder and consumed by the constant folder.
package bound

import (
	"github.com/teranos/attrbind/symbols"
	"github.com/teranos/attrbind/syntax"
)

// Expr is a bound expression
type Expr interface {
	// Type is the static type; nil for the null literal
	Type() symbols.Type
	Syntax() syntax.Expr
	// HasErrors reports errors anywhere in the expression
	HasErrors() bool
}

// Literal is any expression with a known constant value: literals, enum
// members, const fields and folded casts or operators. Bad marks a
// constant whose evaluation failed upstream.
type Literal struct {
	Value interface{}
	Typ   symbols.Type
	Bad   bool
	Node  syntax.Expr
}

// Conversion wraps an operand converted to Typ
type Conversion struct {
	Kind    symbols.ConversionKind
	Operand Expr
	Typ     symbols.Type
	Bad     bool
	Node    syntax.Expr
}

// TypeOf is typeof(Operand), typed System.Type
type TypeOf struct {
	Operand symbols.Type
	Typ     symbols.Type
	Bad     bool
	Node    syntax.Expr
}

// ArrayCreation is new T[...] with optional initializer. Init is nil when
// no initializer was written.
type ArrayCreation struct {
	Typ    *symbols.ArrayType
	Bounds []Expr
	Init   []Expr
	Bad    bool
	Node   syntax.Expr
}

// HasInitializer reports whether an initializer was written
func (a *ArrayCreation) HasInitializer() bool { return a.Init != nil }

// Bad is an expression that failed to bind
type Bad struct {
	Typ      symbols.Type
	Children []Expr
	Node     syntax.Expr
}

// Other is a well-formed expression that is not a constant, such as a
// method call or a non-const field
type Other struct {
	Typ  symbols.Type
	Node syntax.Expr
}

func (e *Literal) Type() symbols.Type       { return e.Typ }
func (e *Conversion) Type() symbols.Type    { return e.Typ }
func (e *TypeOf) Type() symbols.Type        { return e.Typ }
func (e *ArrayCreation) Type() symbols.Type { return e.Typ }
func (e *Bad) Type() symbols.Type           { return e.Typ }
func (e *Other) Type() symbols.Type         { return e.Typ }

func (e *Literal) Syntax() syntax.Expr       { return e.Node }
func (e *Conversion) Syntax() syntax.Expr    { return e.Node }
func (e *TypeOf) Syntax() syntax.Expr        { return e.Node }
func (e *ArrayCreation) Syntax() syntax.Expr { return e.Node }
func (e *Bad) Syntax() syntax.Expr           { return e.Node }
func (e *Other) Syntax() syntax.Expr         { return e.Node }

func (e *Literal) HasErrors() bool { return e.Bad }
func (e *Bad) HasErrors() bool     { return true }
func (e *Other) HasErrors() bool   { return false }

func (e *Conversion) HasErrors() bool {
	return e.Bad || e.Operand.HasErrors()
}

func (e *TypeOf) HasErrors() bool {
	return e.Bad || symbols.IsErrorType(e.Operand)
}

func (e *ArrayCreation) HasErrors() bool {
	if e.Bad {
		return true
	}
	for _, b := range e.Bounds {
		if b.HasErrors() {
			return true
		}
	}
	for _, x := range e.Init {
		if x.HasErrors() {
			return true
		}
	}
	return false
}

// ConstantValue returns the constant value of e, if it has one
func ConstantValue(e Expr) (value interface{}, ok bool) {
	lit, ok := e.(*Literal)
	if !ok || lit.Bad {
		return nil, false
	}
	return lit.Value, true
}

// IsNullLiteral reports the untyped null literal
func IsNullLiteral(e Expr) bool {
	lit, ok := e.(*Literal)
	return ok && !lit.Bad && lit.Typ == nil && lit.Value == nil
}

// Span returns the source span of e, or the zero span
func Span(e Expr) syntax.Span {
	if e == nil || e.Syntax() == nil {
		return syntax.Span{}
	}
	return e.Syntax().Span()
}
