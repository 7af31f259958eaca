package binder

import (
	"github.com/teranos/attrbind/bound"
	"github.com/teranos/attrbind/constant"
	"github.com/teranos/attrbind/diag"
	"github.com/teranos/attrbind/symbols"
	"github.com/teranos/attrbind/syntax"
)

// canonicalizer reorders folded constructor arguments into declared
// parameter order for one application
type canonicalizer struct {
	site   *syntax.Attribute
	ctor   *symbols.Method
	args   []constant.TypedConstant // source order
	names  []string                 // aligned with args, "" when unnamed
	syntax []*syntax.Argument       // aligned with args
	// argsToParams maps a source argument to a parameter ordinal;
	// nil means argument i fills parameter i
	argsToParams []int

	exprs  ExpressionBinder
	types  SpecialTypes
	sink   diag.Sink
	early  bool

	hasErrors bool
}

// canonical is the reordered constructor argument list
type canonical struct {
	values []constant.TypedConstant
	// sourceIndices maps each parameter to the source argument that
	// filled it, -1 when defaulted. nil when every parameter was filled
	// by the argument at the same position.
	sourceIndices []int
	hasErrors     bool
}

func (c *canonicalizer) hasNames() bool {
	for _, n := range c.names {
		if n != "" {
			return true
		}
	}
	return false
}

func (c *canonicalizer) run() canonical {
	params := c.ctor.Params
	count := len(c.args)
	named := c.hasNames()
	consumed := 0
	firstNamed := -1

	values := make([]constant.TypedConstant, len(params))
	var sourceIndices []int
	allocate := func(upTo int) {
		if sourceIndices != nil {
			return
		}
		sourceIndices = make([]int, len(params))
		for j := 0; j < upTo; j++ {
			sourceIndices[j] = j
		}
	}

	for i, p := range params {
		var value constant.TypedConstant

		switch {
		case i == len(params)-1 && p.IsVariadicArray():
			var index int
			var foundNamed bool
			value, index, foundNamed = c.variadic(p, consumed)
			if foundNamed {
				allocate(i)
			}
			if sourceIndices != nil {
				sourceIndices[i] = index
			}

		case consumed < count && (!named || c.names[consumed] == ""):
			value = c.args[consumed]
			if sourceIndices != nil {
				sourceIndices[i] = consumed
			}
			consumed++

		case consumed < count:
			if firstNamed == -1 {
				firstNamed = consumed
			}
			index := c.argumentFor(p.Ordinal, firstNamed)
			if index >= 0 {
				value = c.args[index]
				consumed++
			} else {
				value = c.defaultArgument(p)
			}
			allocate(i)
			sourceIndices[i] = index

		default:
			value = c.defaultArgument(p)
			allocate(i)
			sourceIndices[i] = -1
		}

		c.check(p, value)
		values[i] = value
	}

	return canonical{values: values, sourceIndices: sourceIndices, hasErrors: c.hasErrors}
}

// check propagates errors and rejects array values whose type differs
// from the declared array type, since covariant conversions cannot be
// represented in the output
func (c *canonicalizer) check(p *symbols.Parameter, v constant.TypedConstant) {
	if v.IsNull() {
		return
	}
	if v.IsError() {
		c.hasErrors = true
		return
	}
	if c.hasErrors || v.Kind() != constant.KindArray {
		return
	}
	if _, isArray := p.Type.(*symbols.ArrayType); isArray && !symbols.Identical(v.Type(), p.Type) {
		c.sink.Add(diag.Errorf(diag.CodeArrayCovariance, c.site.Tree, c.site.Span,
			"argument for parameter '%s' of type '%s' uses an array covariant conversion from '%s'", p.Name, p.Type, v.Type()))
		c.hasErrors = true
	}
}

// argumentFor finds the first source argument at or after from that maps
// to the parameter ordinal, or -1
func (c *canonicalizer) argumentFor(ordinal, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(c.args); i++ {
		target := i
		if c.argsToParams != nil {
			target = c.argsToParams[i]
		}
		if target == ordinal {
			return i
		}
	}
	return -1
}

// variadic produces the value of a trailing params array parameter. A
// name: argument for the parameter takes precedence over any remaining
// positional arguments. index is the single source argument used
// directly, or -1.
func (c *canonicalizer) variadic(p *symbols.Parameter, consumed int) (value constant.TypedConstant, index int, foundNamed bool) {
	for i, n := range c.names {
		if n == p.Name {
			if c.isNormalValue(p, c.args[i]) {
				return c.args[i], i, true
			}
			return constant.Array(p.Type, []constant.TypedConstant{c.args[i]}), i, true
		}
	}

	remaining := len(c.args) - consumed
	if remaining == 1 && c.isNormalValue(p, c.args[consumed]) {
		return c.args[consumed], consumed, false
	}
	if remaining == 1 {
		index = consumed
	} else {
		index = -1
	}
	elems := make([]constant.TypedConstant, 0, remaining)
	elems = append(elems, c.args[consumed:]...)
	return constant.Array(p.Type, elems), index, false
}

// isNormalValue reports an array constant passed as the params array
// itself rather than as its only element
func (c *canonicalizer) isNormalValue(p *symbols.Parameter, v constant.TypedConstant) bool {
	if v.Kind() != constant.KindArray {
		return false
	}
	if symbols.Identical(v.Type(), p.Type) {
		return true
	}
	switch symbols.ClassifyConversion(v.Type(), p.Type) {
	case symbols.ConversionIdentity, symbols.ConversionImplicitReference:
		return true
	}
	return false
}

// defaultArgument supplies the value of a parameter with no argument.
// Caller information is substituted first, except during the early pass,
// then the declared default, then the zero value of the type.
func (c *canonicalizer) defaultArgument(p *symbols.Parameter) constant.TypedConstant {
	tree := c.site.Tree
	nameSpan := c.site.NameSpan()
	str := c.types.Special(symbols.SpecialString)

	if !c.early {
		switch p.CallerInfo {
		case symbols.CallerLineNumber:
			return c.callerLine(p, tree.Line(nameSpan))
		case symbols.CallerFilePath:
			return constant.Scalar(constant.KindPrimitive, str, tree.DisplayPath)
		case symbols.CallerMemberName:
			if c.site.Member != nil {
				return constant.Scalar(constant.KindPrimitive, str, c.site.Member.CallerName())
			}
		case symbols.CallerArgumentExpression:
			if text, ok := c.callerArgumentText(p); ok {
				return constant.Scalar(constant.KindPrimitive, str, text)
			}
		}
	}

	def := p.Default
	if !p.Optional {
		def = nil
	}
	switch {
	case def == nil:
		if symbols.IsObject(p.Type) {
			c.sink.Add(diag.Errorf(diag.CodeOptionalObjectNoDefault, tree, nameSpan,
				"attribute constructor parameter '%s' is optional, but no default parameter value was specified", p.Name))
			return constant.Error(p.Type)
		}
		return c.valueOf(p.Type, constant.ZeroValue(p.Type))
	case def.Bad:
		return constant.Error(p.Type)
	case symbols.IsReferenceType(p.Type) && symbols.SpecialOf(p.Type) != symbols.SpecialString && def.Value != nil:
		c.sink.Add(diag.Errorf(diag.CodeNonNullReferenceDefault, tree, c.site.Span,
			"'%s' is of type '%s'. A default parameter value of a reference type other than string can only be initialized with null", p.Name, p.Type))
		return constant.Error(p.Type)
	}
	return c.valueOf(p.Type, def.Value)
}

func (c *canonicalizer) valueOf(t symbols.Type, value interface{}) constant.TypedConstant {
	switch kind := constant.ValueKind(t); kind {
	case constant.KindArray:
		return constant.NullArray(t)
	case constant.KindError:
		return constant.Error(t)
	default:
		return constant.Scalar(kind, t, value)
	}
}

// callerLine converts the line number into the parameter type when a
// numeric or constant conversion exists, and boxes it as int otherwise
func (c *canonicalizer) callerLine(p *symbols.Parameter, line int) constant.TypedConstant {
	i32 := c.types.Special(symbols.SpecialInt32)
	lit := &bound.Literal{Value: int32(line), Typ: i32}
	switch c.exprs.ClassifyConversion(lit, p.Type) {
	case symbols.ConversionImplicitNumeric, symbols.ConversionImplicitConstant:
		special := symbols.SpecialOf(symbols.EnumUnderlying(p.Type))
		if v, ok := constant.Cast(int32(line), special); ok {
			return constant.Scalar(constant.ValueKind(p.Type), p.Type, v)
		}
	}
	return constant.Scalar(constant.KindPrimitive, i32, int32(line))
}

// callerArgumentText returns the source text of the argument passed to
// the parameter designated by p
func (c *canonicalizer) callerArgumentText(p *symbols.Parameter) (string, bool) {
	if len(c.args) == 0 || p.CallerArgumentParam < 0 {
		return "", false
	}
	index := c.argumentFor(p.CallerArgumentParam, 0)
	if index < 0 || index >= len(c.syntax) || c.syntax[index] == nil {
		return "", false
	}
	return c.site.Tree.Text(c.syntax[index].Expr.Span()), true
}
