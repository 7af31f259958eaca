package check

import (
	"fmt"
	"math"
	"strings"

	"github.com/teranos/attrbind/bound"
	"github.com/teranos/attrbind/constant"
	"github.com/teranos/attrbind/diag"
	"github.com/teranos/attrbind/symbols"
	"github.com/teranos/attrbind/syntax"
)

// exprBinder binds the expressions of one attribute application
type exprBinder struct {
	c     *Checker
	tree  *syntax.Tree
	scope []*symbols.TypeParam
	sink  diag.Sink
}

func (c *Checker) binderFor(site *syntax.Attribute, sink diag.Sink) *exprBinder {
	if sink == nil {
		sink = diag.Discard
	}
	b := &exprBinder{c: c, sink: sink}
	if site != nil {
		b.tree = site.Tree
		b.scope = c.scope(site.Member)
	}
	return b
}

// BindExpression binds an argument expression to its natural type
func (c *Checker) BindExpression(expr syntax.Expr, site *syntax.Attribute, sink diag.Sink) bound.Expr {
	return c.binderFor(site, sink).bind(expr)
}

func (b *exprBinder) special(s symbols.SpecialType) *symbols.NamedType {
	return b.c.table.Special(s)
}

func (b *exprBinder) errorf(code diag.Code, span syntax.Span, format string, args ...interface{}) {
	b.sink.Add(diag.Errorf(code, b.tree, span, format, args...))
}

func (b *exprBinder) bind(expr syntax.Expr) bound.Expr {
	switch e := expr.(type) {
	case *syntax.Literal:
		return b.literal(e)
	case *syntax.Ident:
		b.errorf(diag.CodeNameNotFound, e.Pos, "the name '%s' does not exist in the current context", e.Name)
		return &bound.Bad{Typ: &symbols.ErrorType{Name: e.Name}, Node: e}
	case *syntax.MemberAccess:
		return b.memberAccess(e)
	case *syntax.TypeOf:
		return b.typeOf(e)
	case *syntax.ArrayCreation:
		return b.arrayCreation(e)
	case *syntax.ArrayInit:
		b.errorf(diag.CodeCannotConvert, e.Pos, "array initializers can only be used in array creation expressions")
		return &bound.Bad{Typ: &symbols.ErrorType{Name: "?"}, Node: e}
	case *syntax.Cast:
		return b.cast(e)
	case *syntax.Invocation:
		return b.invocation(e)
	case *syntax.Unary:
		return b.unary(e)
	case *syntax.Binary:
		return b.binary(e)
	}
	b.errorf(diag.CodeCannotConvert, expr.Span(), "unsupported expression")
	return &bound.Bad{Typ: &symbols.ErrorType{Name: "?"}, Node: expr}
}

func (b *exprBinder) literal(l *syntax.Literal) bound.Expr {
	switch l.Kind {
	case syntax.LitInt:
		return b.intLiteral(l)
	case syntax.LitReal:
		v := l.Real
		if l.Negative {
			v = -v
		}
		switch l.Suffix {
		case "f":
			return &bound.Literal{Value: float32(v), Typ: b.special(symbols.SpecialSingle), Node: l}
		case "m":
			return &bound.Literal{Value: v, Typ: b.special(symbols.SpecialDecimal), Node: l}
		}
		return &bound.Literal{Value: v, Typ: b.special(symbols.SpecialDouble), Node: l}
	case syntax.LitString:
		return &bound.Literal{Value: l.Text, Typ: b.special(symbols.SpecialString), Node: l}
	case syntax.LitChar:
		r := []rune(l.Text)
		if len(r) != 1 || r[0] > math.MaxUint16 {
			return &bound.Literal{Typ: b.special(symbols.SpecialChar), Bad: true, Node: l}
		}
		return &bound.Literal{Value: uint16(r[0]), Typ: b.special(symbols.SpecialChar), Node: l}
	case syntax.LitBool:
		return &bound.Literal{Value: l.Bool, Typ: b.special(symbols.SpecialBoolean), Node: l}
	}
	return &bound.Literal{Node: l}
}

// intLiteral types an integer literal: int, uint, long, ulong in that
// order of preference, narrowed by suffix
func (b *exprBinder) intLiteral(l *syntax.Literal) bound.Expr {
	mag := l.Int
	lit := func(v interface{}, s symbols.SpecialType) bound.Expr {
		return &bound.Literal{Value: v, Typ: b.special(s), Node: l}
	}
	tooLarge := func() bound.Expr {
		b.errorf(diag.CodeCannotConvert, l.Pos, "integral constant is too large")
		return &bound.Literal{Typ: b.special(symbols.SpecialInt64), Bad: true, Node: l}
	}

	if l.Negative {
		switch l.Suffix {
		case "":
			if mag <= math.MaxInt32+1 {
				return lit(int32(-int64(mag)), symbols.SpecialInt32)
			}
			fallthrough
		case "l":
			if mag <= math.MaxInt64 {
				return lit(-int64(mag), symbols.SpecialInt64)
			}
			if mag == math.MaxInt64+1 {
				return lit(int64(math.MinInt64), symbols.SpecialInt64)
			}
			return tooLarge()
		case "u":
			if mag <= math.MaxUint32 {
				return lit(-int64(mag), symbols.SpecialInt64)
			}
		}
		b.errorf(diag.CodeCannotConvert, l.Pos, "operator '-' cannot be applied to operand of type 'ulong'")
		return &bound.Literal{Typ: b.special(symbols.SpecialUInt64), Bad: true, Node: l}
	}

	switch l.Suffix {
	case "":
		switch {
		case mag <= math.MaxInt32:
			return lit(int32(mag), symbols.SpecialInt32)
		case mag <= math.MaxUint32:
			return lit(uint32(mag), symbols.SpecialUInt32)
		case mag <= math.MaxInt64:
			return lit(int64(mag), symbols.SpecialInt64)
		}
	case "u":
		if mag <= math.MaxUint32 {
			return lit(uint32(mag), symbols.SpecialUInt32)
		}
	case "l":
		if mag <= math.MaxInt64 {
			return lit(int64(mag), symbols.SpecialInt64)
		}
	}
	return lit(mag, symbols.SpecialUInt64)
}

func (b *exprBinder) memberAccess(e *syntax.MemberAccess) bound.Expr {
	prefix, ok := syntax.DottedName(e.X)
	if !ok {
		x := b.bind(e.X)
		if !x.HasErrors() {
			b.errorf(diag.CodeNameNotFound, e.Sel.Pos, "'%s' is not a member of a type", e.Sel.Name)
		}
		return &bound.Bad{Typ: &symbols.ErrorType{Name: e.Sel.Name}, Children: []bound.Expr{x}, Node: e}
	}

	typ := b.c.table.Lookup(prefix, 0)
	if typ == nil {
		b.errorf(diag.CodeNameNotFound, e.X.Span(), "the name '%s' does not exist in the current context", prefix)
		return &bound.Bad{Typ: &symbols.ErrorType{Name: prefix + "." + e.Sel.Name}, Node: e}
	}

	switch m := typ.LookupMember(e.Sel.Name).(type) {
	case *symbols.Field:
		if m.Const {
			return &bound.Literal{Value: m.ConstValue, Typ: m.Type, Node: e}
		}
		if !m.Static {
			b.errorf(diag.CodeNameNotFound, e.Sel.Pos, "an object reference is required for the non-static field '%s.%s'", typ, m.Name)
			return &bound.Bad{Typ: m.Type, Node: e}
		}
		return &bound.Other{Typ: m.Type, Node: e}
	case *symbols.Property:
		return &bound.Other{Typ: m.Type, Node: e}
	}
	b.errorf(diag.CodeNameNotFound, e.Sel.Pos, "'%s' does not contain a definition for '%s'", typ, e.Sel.Name)
	return &bound.Bad{Typ: &symbols.ErrorType{Name: prefix + "." + e.Sel.Name}, Node: e}
}

func (b *exprBinder) resolveType(tn *syntax.TypeName) (symbols.Type, bool) {
	t, err := ResolveType(b.c.table, tn, b.scope)
	if err != nil {
		b.errorf(diag.CodeNameNotFound, tn.Span, "the type or namespace name '%s' could not be found", tn.String())
		return &symbols.ErrorType{Name: tn.String()}, false
	}
	return t, true
}

func (b *exprBinder) typeOf(e *syntax.TypeOf) bound.Expr {
	t, _ := b.resolveType(e.Type)
	return &bound.TypeOf{Operand: t, Typ: b.special(symbols.SpecialSystemType), Node: e}
}

func (b *exprBinder) arrayCreation(e *syntax.ArrayCreation) bound.Expr {
	t, ok := b.resolveType(e.Type)
	arr, isArray := t.(*symbols.ArrayType)
	if !ok || !isArray {
		var children []bound.Expr
		for _, x := range e.Bounds {
			children = append(children, b.bind(x))
		}
		return &bound.Bad{Typ: t, Children: children, Node: e}
	}

	out := &bound.ArrayCreation{Typ: arr, Node: e}
	intType := b.special(symbols.SpecialInt32)
	for _, x := range e.Bounds {
		out.Bounds = append(out.Bounds, b.c.convert(b, b.bind(x), intType))
	}
	if e.Init != nil {
		out.Init = b.initializer(e.Init, arr)
		if len(out.Bounds) == 1 {
			if v, ok := bound.ConstantValue(out.Bounds[0]); ok {
				if n, isInt := v.(int32); isInt && int(n) != len(out.Init) {
					b.errorf(diag.CodeCannotConvert, e.Init.Pos, "an array initializer of length '%d' is expected", n)
					out.Bad = true
				}
			}
		}
	}
	return out
}

// initializer binds the elements of a brace initializer. Rows of a
// multi-dimensional initializer become nested array creations.
func (b *exprBinder) initializer(init *syntax.ArrayInit, arr *symbols.ArrayType) []bound.Expr {
	elems := make([]bound.Expr, 0, len(init.Elems))
	for _, x := range init.Elems {
		nested, isInit := x.(*syntax.ArrayInit)
		switch {
		case arr.Rank > 1 && isInit:
			row := symbols.NewArray(arr.Elem, arr.Rank-1)
			elems = append(elems, &bound.ArrayCreation{Typ: row, Init: b.initializer(nested, row), Node: nested})
		case arr.Rank > 1:
			b.errorf(diag.CodeCannotConvert, x.Span(), "a nested array initializer is expected")
			elems = append(elems, &bound.Bad{Typ: arr.Elem, Node: x})
		case isInit:
			b.errorf(diag.CodeCannotConvert, x.Span(), "array initializers can only be used in array creation expressions")
			elems = append(elems, &bound.Bad{Typ: arr.Elem, Node: x})
		default:
			elems = append(elems, b.c.convert(b, b.bind(x), arr.Elem))
		}
	}
	return elems
}

func (b *exprBinder) cast(e *syntax.Cast) bound.Expr {
	target, ok := b.resolveType(e.Type)
	x := b.bind(e.X)
	if !ok || x.HasErrors() {
		return &bound.Conversion{Operand: x, Typ: target, Bad: !ok, Node: e}
	}

	if bound.IsNullLiteral(x) {
		if symbols.IsReferenceType(target) {
			return &bound.Literal{Typ: target, Node: e}
		}
		b.errorf(diag.CodeCannotConvert, e.Pos, "cannot convert null to '%s' because it is a non-nullable value type", target)
		return &bound.Literal{Typ: target, Bad: true, Node: e}
	}

	if k := b.c.ClassifyConversion(x, target); k.IsImplicit() {
		conv := b.c.convert(b, x, target)
		if lit, isLit := conv.(*bound.Literal); isLit {
			return &bound.Literal{Value: lit.Value, Typ: lit.Typ, Bad: lit.Bad, Node: e}
		}
		if c, isConv := conv.(*bound.Conversion); isConv {
			return &bound.Conversion{Kind: c.Kind, Operand: c.Operand, Typ: c.Typ, Bad: c.Bad, Node: e}
		}
		return conv
	}

	kind := symbols.ClassifyExplicit(x.Type(), target)
	if kind == symbols.ConversionNone {
		b.errorf(diag.CodeCannotConvert, e.Pos, "cannot convert type '%s' to '%s'", typeName(x.Type()), target)
		return &bound.Conversion{Operand: x, Typ: target, Bad: true, Node: e}
	}

	v, isConst := bound.ConstantValue(x)
	if isConst && (kind == symbols.ConversionExplicitNumeric || kind == symbols.ConversionExplicitEnum) {
		special := symbols.SpecialOf(symbols.EnumUnderlying(target))
		if !constant.Fits(v, special) {
			b.errorf(diag.CodeCannotConvert, e.Pos, "constant value '%v' cannot be converted to a '%s'", v, target)
			return &bound.Literal{Typ: target, Bad: true, Node: e}
		}
		cv, _ := constant.Cast(v, special)
		return &bound.Literal{Value: cv, Typ: target, Node: e}
	}
	return &bound.Conversion{Kind: kind, Operand: x, Typ: target, Node: e}
}

func (b *exprBinder) invocation(e *syntax.Invocation) bound.Expr {
	if id, ok := e.Fun.(*syntax.Ident); ok && id.Name == "nameof" && len(e.Args) == 1 {
		if name, ok := syntax.DottedName(e.Args[0]); ok {
			if i := strings.LastIndexByte(name, '.'); i >= 0 {
				name = name[i+1:]
			}
			return &bound.Literal{Value: name, Typ: b.special(symbols.SpecialString), Node: e}
		}
	}

	children := make([]bound.Expr, 0, len(e.Args))
	for _, a := range e.Args {
		children = append(children, b.bind(a))
	}
	name, _ := syntax.DottedName(e.Fun)
	b.errorf(diag.CodeNameNotFound, e.Fun.Span(), "the name '%s' does not exist in the current context", name)
	return &bound.Bad{Typ: &symbols.ErrorType{Name: name}, Children: children, Node: e}
}

func (b *exprBinder) unary(e *syntax.Unary) bound.Expr {
	x := b.bind(e.X)
	if x.HasErrors() {
		return &bound.Bad{Typ: x.Type(), Children: []bound.Expr{x}, Node: e}
	}
	if isEnumType(x.Type()) {
		b.errorf(diag.CodeCannotConvert, e.Pos, "operator '-' cannot be applied to operand of type '%s'", typeName(x.Type()))
		return &bound.Bad{Typ: x.Type(), Children: []bound.Expr{x}, Node: e}
	}
	if v, ok := bound.ConstantValue(x); ok {
		if neg, ok := constant.Negate(v); ok {
			typ := x.Type()
			if symbols.SpecialOf(typ) != symbols.SpecialDecimal {
				typ = b.special(specialOfValue(neg))
			}
			return &bound.Literal{Value: neg, Typ: typ, Node: e}
		}
	}
	if s := symbols.SpecialOf(x.Type()); s.IsNumeric() && s != symbols.SpecialUInt64 {
		return &bound.Other{Typ: x.Type(), Node: e}
	}
	b.errorf(diag.CodeCannotConvert, e.Pos, "operator '-' cannot be applied to operand of type '%s'", typeName(x.Type()))
	return &bound.Bad{Typ: x.Type(), Children: []bound.Expr{x}, Node: e}
}

func specialOfValue(v interface{}) symbols.SpecialType {
	switch v.(type) {
	case int32:
		return symbols.SpecialInt32
	case int64:
		return symbols.SpecialInt64
	case float32:
		return symbols.SpecialSingle
	case float64:
		return symbols.SpecialDouble
	}
	return symbols.SpecialNone
}

func (b *exprBinder) binary(e *syntax.Binary) bound.Expr {
	x, y := b.bind(e.X), b.bind(e.Y)
	if x.HasErrors() || y.HasErrors() {
		return &bound.Bad{Typ: x.Type(), Children: []bound.Expr{x, y}, Node: e}
	}
	xv, xConst := bound.ConstantValue(x)
	yv, yConst := bound.ConstantValue(y)
	both := xConst && yConst
	xt, yt := x.Type(), y.Type()
	xs, ys := symbols.SpecialOf(xt), symbols.SpecialOf(yt)

	switch {
	case e.Op == "+" && (xs == symbols.SpecialString || ys == symbols.SpecialString):
		str := b.special(symbols.SpecialString)
		if both {
			return &bound.Literal{Value: concatText(xv) + concatText(yv), Typ: str, Node: e}
		}
		return &bound.Other{Typ: str, Node: e}

	case isEnumType(xt) && symbols.Identical(xt, yt) && (e.Op == "|" || e.Op == "&"):
		if !both {
			return &bound.Other{Typ: xt, Node: e}
		}
		under := symbols.SpecialOf(symbols.EnumUnderlying(xt))
		v, _ := constant.Arith(e.Op, xv, yv, under)
		return &bound.Literal{Value: v, Typ: xt, Node: e}

	case xs == symbols.SpecialBoolean && ys == symbols.SpecialBoolean && (e.Op == "|" || e.Op == "&"):
		if !both {
			return &bound.Other{Typ: xt, Node: e}
		}
		xb, yb := xv.(bool), yv.(bool)
		if e.Op == "|" {
			return &bound.Literal{Value: xb || yb, Typ: xt, Node: e}
		}
		return &bound.Literal{Value: xb && yb, Typ: xt, Node: e}
	}

	result, ok := promote(xs, ys)
	if ok && !result.IsIntegral() && (e.Op == "|" || e.Op == "&") {
		ok = false
	}
	if !ok {
		b.errorf(diag.CodeCannotConvert, e.Span(), "operator '%s' cannot be applied to operands of type '%s' and '%s'",
			e.Op, typeName(xt), typeName(yt))
		return &bound.Bad{Typ: xt, Children: []bound.Expr{x, y}, Node: e}
	}
	typ := b.special(result)
	if !both {
		return &bound.Other{Typ: typ, Node: e}
	}
	if constant.ArithOverflows(e.Op, xv, yv, result) {
		b.errorf(diag.CodeCannotConvert, e.Span(), "the operation overflows at compile time in checked mode")
		return &bound.Literal{Typ: typ, Bad: true, Node: e}
	}
	v, _ := constant.Arith(e.Op, xv, yv, result)
	return &bound.Literal{Value: v, Typ: typ, Node: e}
}

func isEnumType(t symbols.Type) bool {
	n, ok := t.(*symbols.NamedType)
	return ok && n.IsEnum()
}

func concatText(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case uint16:
		return string(rune(v))
	case bool:
		if v {
			return "True"
		}
		return "False"
	}
	return fmt.Sprint(v)
}

// promote applies binary numeric promotion
func promote(a, b symbols.SpecialType) (symbols.SpecialType, bool) {
	numeric := func(s symbols.SpecialType) bool { return s.IsNumeric() || s == symbols.SpecialChar }
	if !numeric(a) || !numeric(b) {
		return symbols.SpecialNone, false
	}
	signed := func(s symbols.SpecialType) bool {
		return s == symbols.SpecialSByte || s == symbols.SpecialInt16 || s == symbols.SpecialInt32 || s == symbols.SpecialInt64
	}
	has := func(s symbols.SpecialType) bool { return a == s || b == s }

	switch {
	case has(symbols.SpecialDecimal):
		if has(symbols.SpecialSingle) || has(symbols.SpecialDouble) {
			return symbols.SpecialNone, false
		}
		return symbols.SpecialDecimal, true
	case has(symbols.SpecialDouble):
		return symbols.SpecialDouble, true
	case has(symbols.SpecialSingle):
		return symbols.SpecialSingle, true
	case has(symbols.SpecialUInt64):
		if signed(a) || signed(b) {
			return symbols.SpecialNone, false
		}
		return symbols.SpecialUInt64, true
	case has(symbols.SpecialInt64):
		return symbols.SpecialInt64, true
	case has(symbols.SpecialUInt32):
		if signed(a) || signed(b) {
			return symbols.SpecialInt64, true
		}
		return symbols.SpecialUInt32, true
	}
	return symbols.SpecialInt32, true
}

func typeName(t symbols.Type) string {
	if t == nil {
		return "<null>"
	}
	return t.String()
}
