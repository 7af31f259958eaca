package binder

import (
	"github.com/teranos/attrbind/bound"
	"github.com/teranos/attrbind/diag"
	"github.com/teranos/attrbind/symbols"
	"github.com/teranos/attrbind/syntax"
)

// ClassResolver resolves the attribute name of an application to a class
type ClassResolver interface {
	ResolveAttributeClass(attr *syntax.Attribute) symbols.ClassResolution
}

// ExpressionBinder type-checks argument expressions. Site is the
// attribute application the expression belongs to.
type ExpressionBinder interface {
	BindExpression(expr syntax.Expr, site *syntax.Attribute, sink diag.Sink) bound.Expr
	Convert(expr bound.Expr, target symbols.Type, site *syntax.Attribute, sink diag.Sink) bound.Expr
	ClassifyConversion(expr bound.Expr, target symbols.Type) symbols.ConversionKind
}

// OverloadResolver selects the constructor for an application. It never
// fails outright: failures are reported through OverloadResult.
type OverloadResolver interface {
	ResolveConstructor(class *symbols.NamedType, args *Arguments, suppress bool, sink diag.Sink) OverloadResult
}

// ConditionalSymbols answers preprocessor queries at an application site
type ConditionalSymbols interface {
	AnyDefined(tree *syntax.Tree, names []string) bool
}

// SpecialTypes provides the predefined types
type SpecialTypes interface {
	Special(s symbols.SpecialType) *symbols.NamedType
}

// Collaborators bundles everything the resolver consumes
type Collaborators struct {
	Classes     ClassResolver
	Expressions ExpressionBinder
	Overloads   OverloadResolver
	Symbols     ConditionalSymbols
	Types       SpecialTypes
	Diagnostics diag.Sink
}

// FailureReason explains an overload resolution failure
type FailureReason int

const (
	FailureNone FailureReason = iota
	FailureNoApplicable
	FailureInaccessible
	FailureAmbiguous
)

func (r FailureReason) String() string {
	switch r {
	case FailureNoApplicable:
		return "no applicable constructor"
	case FailureInaccessible:
		return "constructor is inaccessible"
	case FailureAmbiguous:
		return "ambiguous constructor call"
	}
	return "none"
}

// OverloadResult is the outcome of constructor selection.
//
// On success Constructor is set, Converted holds the constructor
// arguments in source order converted to their parameter types (element
// types for arguments collected into an expanded params array), and
// ArgsToParams maps each argument to a parameter ordinal. A nil
// ArgsToParams means argument i maps to parameter i.
//
// On failure Constructor is nil and Candidates lists the best failing
// constructors.
type OverloadResult struct {
	Constructor  *symbols.Method
	ArgsToParams []int
	Expanded     bool
	Converted    []bound.Expr
	Candidates   []*symbols.Method
	Failure      FailureReason
}

// Succeeded reports whether a constructor was selected
func (r OverloadResult) Succeeded() bool {
	return r.Failure == FailureNone && r.Constructor != nil
}
