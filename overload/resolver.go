// Package overload is the reference constructor overload resolver used by
// the attribute binder.
package overload

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/attrbind/binder"
	"github.com/teranos/attrbind/bound"
	"github.com/teranos/attrbind/diag"
	"github.com/teranos/attrbind/logger"
	"github.com/teranos/attrbind/symbols"
	"github.com/teranos/attrbind/syntax"
)

// Converter classifies and applies argument conversions
type Converter interface {
	Convert(expr bound.Expr, target symbols.Type, site *syntax.Attribute, sink diag.Sink) bound.Expr
	ClassifyConversion(expr bound.Expr, target symbols.Type) symbols.ConversionKind
}

// Resolver picks attribute constructors
type Resolver struct {
	conv   Converter
	logger *zap.SugaredLogger
}

// New creates a resolver converting arguments with conv
func New(conv Converter) *Resolver {
	return &Resolver{conv: conv, logger: logger.ComponentLogger("overload")}
}

// candidate is one applicable constructor in normal or expanded form
type candidate struct {
	ctor         *symbols.Method
	expanded     bool
	argsToParams []int
	defaults     int
	identities   int
}

// compare orders candidates: normal form beats expanded form, then fewer
// defaulted parameters, then more identity conversions. Negative means a
// is better.
func compare(a, b *candidate) int {
	if a.expanded != b.expanded {
		if !a.expanded {
			return -1
		}
		return 1
	}
	if a.defaults != b.defaults {
		return a.defaults - b.defaults
	}
	return b.identities - a.identities
}

// ResolveConstructor selects the constructor of class for args. Failures
// are reported to sink unless suppress is set.
func (r *Resolver) ResolveConstructor(class *symbols.NamedType, args *binder.Arguments, suppress bool, sink diag.Sink) binder.OverloadResult {
	if sink == nil {
		sink = diag.Discard
	}
	var public, hidden []*symbols.Method
	for _, ctor := range class.Constructors {
		if ctor.Access == symbols.Public {
			public = append(public, ctor)
		} else {
			hidden = append(hidden, ctor)
		}
	}

	best, ties := r.pick(public, args)
	switch {
	case best != nil && len(ties) == 0:
		return r.success(best, args, sink)

	case best != nil:
		all := append([]*symbols.Method{best.ctor}, methods(ties)...)
		r.report(args, suppress, sink, "the call is ambiguous between the following constructors: %s", joinMethods(all))
		return binder.OverloadResult{Candidates: all, Failure: binder.FailureAmbiguous}
	}

	if inaccessible, _ := r.pick(hidden, args); inaccessible != nil {
		r.report(args, suppress, sink, "'%s' is inaccessible due to its protection level", inaccessible.ctor)
		return binder.OverloadResult{Candidates: []*symbols.Method{inaccessible.ctor}, Failure: binder.FailureInaccessible}
	}

	if len(class.Constructors) == 1 {
		r.report(args, suppress, sink, "no argument list matches constructor '%s'", class.Constructors[0])
	} else {
		r.report(args, suppress, sink, "'%s' does not contain a constructor that takes %d arguments", class, args.Count())
	}
	return binder.OverloadResult{
		Candidates: append([]*symbols.Method(nil), class.Constructors...),
		Failure:    binder.FailureNoApplicable,
	}
}

func (r *Resolver) report(args *binder.Arguments, suppress bool, sink diag.Sink, format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	r.logger.Debugw("overload resolution failed",
		logger.FieldAttribute, siteString(args.Site),
		logger.FieldError, msg,
		"suppressed", suppress)
	if suppress {
		return
	}
	var tree *syntax.Tree
	var span syntax.Span
	if args.Site != nil {
		tree, span = args.Site.Tree, args.Site.Span
	}
	sink.Add(diag.Errorf(diag.CodeOverloadResolutionFailed, tree, span, "%s", msg))
}

// pick returns the best applicable candidate and any candidates tied
// with it
func (r *Resolver) pick(ctors []*symbols.Method, args *binder.Arguments) (*candidate, []*candidate) {
	var best *candidate
	var ties []*candidate
	for _, ctor := range ctors {
		c := r.applicable(ctor, args, false)
		if c == nil {
			c = r.applicable(ctor, args, true)
		}
		if c == nil {
			continue
		}
		if best == nil {
			best = c
			continue
		}
		switch cmp := compare(c, best); {
		case cmp < 0:
			best, ties = c, nil
		case cmp == 0:
			ties = append(ties, c)
		}
	}
	return best, ties
}

// applicable maps args onto ctor's parameters and checks every argument
// converts implicitly. It returns nil when ctor is not applicable in the
// requested form.
func (r *Resolver) applicable(ctor *symbols.Method, args *binder.Arguments, expanded bool) *candidate {
	params := ctor.Params
	n := len(params)
	if expanded && (n == 0 || !params[n-1].IsVariadicArray()) {
		return nil
	}
	for _, p := range params {
		if p.RefKind == symbols.RefRef || p.RefKind == symbols.RefOut {
			return nil
		}
	}

	mapping := make([]int, args.Count())
	filled := make([]bool, n)
	outOfPosition := false
	for i, name := range args.Names {
		var ordinal int
		switch {
		case name != "":
			p := ctor.ParamByName(name)
			if p == nil {
				return nil
			}
			ordinal = p.Ordinal
			if ordinal != i {
				outOfPosition = true
			}
		case outOfPosition:
			return nil
		case i < n:
			ordinal = i
		case expanded:
			ordinal = n - 1
		default:
			return nil
		}
		mapping[i] = ordinal
		filled[ordinal] = true
	}

	c := &candidate{ctor: ctor, expanded: expanded, argsToParams: mapping}
	for j, p := range params {
		switch {
		case filled[j]:
		case expanded && j == n-1:
		case p.Optional:
			c.defaults++
		default:
			return nil
		}
	}

	for i, arg := range args.Positional {
		target := r.targetType(ctor, mapping[i], expanded)
		kind := r.conv.ClassifyConversion(arg, target)
		if !kind.IsImplicit() {
			return nil
		}
		if kind == symbols.ConversionIdentity {
			c.identities++
		}
	}
	return c
}

func (r *Resolver) targetType(ctor *symbols.Method, ordinal int, expanded bool) symbols.Type {
	p := ctor.Params[ordinal]
	if expanded && ordinal == len(ctor.Params)-1 {
		return p.Type.(*symbols.ArrayType).Elem
	}
	return p.Type
}

func (r *Resolver) success(c *candidate, args *binder.Arguments, sink diag.Sink) binder.OverloadResult {
	converted := make([]bound.Expr, args.Count())
	for i, arg := range args.Positional {
		converted[i] = r.conv.Convert(arg, r.targetType(c.ctor, c.argsToParams[i], c.expanded), args.Site, sink)
	}
	var argsToParams []int
	if c.expanded || args.HasNames() {
		argsToParams = c.argsToParams
	}
	return binder.OverloadResult{
		Constructor:  c.ctor,
		ArgsToParams: argsToParams,
		Expanded:     c.expanded,
		Converted:    converted,
	}
}

func methods(cs []*candidate) []*symbols.Method {
	out := make([]*symbols.Method, len(cs))
	for i, c := range cs {
		out[i] = c.ctor
	}
	return out
}

func joinMethods(ms []*symbols.Method) string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = "'" + m.String() + "'"
	}
	return strings.Join(parts, ", ")
}

func siteString(site *syntax.Attribute) string {
	if site == nil {
		return ""
	}
	return site.String()
}
