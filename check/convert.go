package check

import (
	"github.com/teranos/attrbind/bound"
	"github.com/teranos/attrbind/constant"
	"github.com/teranos/attrbind/diag"
	"github.com/teranos/attrbind/symbols"
	"github.com/teranos/attrbind/syntax"
)

// Convert applies the implicit conversion of e to target, reporting
// cannot-convert when none exists. Constant operands are folded into a
// literal of the target type.
func (c *Checker) Convert(e bound.Expr, target symbols.Type, site *syntax.Attribute, sink diag.Sink) bound.Expr {
	return c.convert(c.binderFor(site, sink), e, target)
}

func (c *Checker) convert(b *exprBinder, e bound.Expr, target symbols.Type) bound.Expr {
	if symbols.IsErrorType(target) {
		return &bound.Conversion{Operand: e, Typ: target, Bad: true, Node: e.Syntax()}
	}
	if e.HasErrors() && (e.Type() == nil || symbols.IsErrorType(e.Type())) {
		return e
	}

	switch kind := c.ClassifyConversion(e, target); kind {
	case symbols.ConversionIdentity:
		return e
	case symbols.ConversionNullLiteral:
		return &bound.Literal{Typ: target, Node: e.Syntax()}
	case symbols.ConversionImplicitNumeric, symbols.ConversionImplicitConstant:
		if v, ok := bound.ConstantValue(e); ok {
			cv, _ := constant.Cast(v, symbols.SpecialOf(symbols.EnumUnderlying(target)))
			return &bound.Literal{Value: cv, Typ: target, Node: e.Syntax()}
		}
		return &bound.Conversion{Kind: kind, Operand: e, Typ: target, Node: e.Syntax()}
	case symbols.ConversionImplicitReference, symbols.ConversionBoxing:
		return &bound.Conversion{Kind: kind, Operand: e, Typ: target, Node: e.Syntax()}
	}

	if e.HasErrors() {
		return &bound.Conversion{Operand: e, Typ: target, Node: e.Syntax()}
	}
	if e.Type() == nil {
		b.errorf(diag.CodeCannotConvert, bound.Span(e), "cannot convert null to '%s' because it is a non-nullable value type", target)
	} else {
		b.errorf(diag.CodeCannotConvert, bound.Span(e), "cannot implicitly convert type '%s' to '%s'", e.Type(), target)
	}
	return &bound.Conversion{Operand: e, Typ: target, Bad: true, Node: e.Syntax()}
}

// ClassifyConversion classifies the implicit conversion of e to target,
// taking constant values into account: an int constant converts to a
// narrower integral type when it fits, and an integral zero converts to
// any enum.
func (c *Checker) ClassifyConversion(e bound.Expr, target symbols.Type) symbols.ConversionKind {
	// expressions that failed to bind convert to anything so that the
	// failure is not reported again by overload resolution
	if _, bad := e.(*bound.Bad); bad {
		return symbols.ConversionIdentity
	}
	if bound.IsNullLiteral(e) {
		if symbols.IsReferenceType(target) || symbols.IsErrorType(target) {
			return symbols.ConversionNullLiteral
		}
		return symbols.ConversionNone
	}
	if k := symbols.ClassifyConversion(e.Type(), target); k != symbols.ConversionNone {
		return k
	}

	v, ok := bound.ConstantValue(e)
	if !ok {
		return symbols.ConversionNone
	}
	from, to := symbols.SpecialOf(e.Type()), symbols.SpecialOf(target)

	if n, isNamed := target.(*symbols.NamedType); isNamed && n.IsEnum() {
		if from.IsIntegral() && constant.IsZeroValue(v) {
			return symbols.ConversionImplicitConstant
		}
		return symbols.ConversionNone
	}

	switch from {
	case symbols.SpecialInt32:
		switch to {
		case symbols.SpecialSByte, symbols.SpecialByte, symbols.SpecialInt16,
			symbols.SpecialUInt16, symbols.SpecialUInt32, symbols.SpecialUInt64:
			if constant.Fits(v, to) {
				return symbols.ConversionImplicitConstant
			}
		}
	case symbols.SpecialInt64:
		if to == symbols.SpecialUInt64 && constant.Fits(v, to) {
			return symbols.ConversionImplicitConstant
		}
	}
	return symbols.ConversionNone
}
