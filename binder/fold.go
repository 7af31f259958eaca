package binder

import (
	"github.com/teranos/attrbind/bound"
	"github.com/teranos/attrbind/constant"
	"github.com/teranos/attrbind/diag"
	"github.com/teranos/attrbind/symbols"
	"github.com/teranos/attrbind/syntax"
)

// Folder evaluates bound attribute arguments into typed constants.
//
// Only constants, typeof expressions, single-dimensional array creations
// of those, and conversions of them to object or object[] are accepted.
// Anything else folds to an Error constant. A diagnostic is reported once
// per erroneous argument: once a sub-expression is known to be bad, its
// descendants fold silently.
type Folder struct {
	tree      *syntax.Tree
	sink      diag.Sink
	hasErrors bool
}

// NewFolder creates a folder reporting against tree
func NewFolder(tree *syntax.Tree, sink diag.Sink) *Folder {
	if sink == nil {
		sink = diag.Discard
	}
	return &Folder{tree: tree, sink: sink}
}

// HasErrors reports whether any folded value was erroneous
func (f *Folder) HasErrors() bool { return f.hasErrors }

// Fold folds one argument expression
func (f *Folder) Fold(e bound.Expr) constant.TypedConstant {
	return f.visit(e, e.HasErrors())
}

// FoldSilently folds an argument whose errors were already reported
func (f *Folder) FoldSilently(e bound.Expr) constant.TypedConstant {
	return f.visit(e, true)
}

func (f *Folder) visit(e bound.Expr, argErr bool) constant.TypedConstant {
	kind := constant.KindOf(e.Type())
	return f.visitKind(e, kind, argErr || kind == constant.KindError)
}

func (f *Folder) visitKind(e bound.Expr, kind constant.Kind, argErr bool) constant.TypedConstant {
	switch x := e.(type) {
	case *bound.Literal:
		if x.Bad {
			kind = constant.KindError
		}
		return f.create(e, kind, argErr, x.Value, nil)
	case *bound.Conversion:
		return f.visitConversion(x, argErr)
	case *bound.TypeOf:
		return f.visitTypeOf(x, kind, argErr)
	case *bound.ArrayCreation:
		return f.visitArrayCreation(x, argErr)
	}
	return f.create(e, constant.KindError, argErr, nil, nil)
}

// visitConversion folds the operand of a conversion to object or to an
// object array using the operand's own kind
func (f *Folder) visitConversion(c *bound.Conversion, argErr bool) constant.TypedConstant {
	target, operandType := c.Typ, c.Operand.Type()
	if target != nil && operandType != nil && !c.Bad {
		toObject := symbols.IsObject(target)
		if arr, ok := target.(*symbols.ArrayType); ok && symbols.IsObject(arr.Elem) {
			toObject = true
		}
		if toObject {
			return f.visitKind(c.Operand, constant.KindOf(operandType), argErr)
		}
	}
	return f.create(c, constant.KindError, argErr, nil, nil)
}

// visitTypeOf rejects open types. Unbound generic types are allowed.
func (f *Folder) visitTypeOf(t *bound.TypeOf, kind constant.Kind, argErr bool) constant.TypedConstant {
	operand := t.Operand
	if operand != nil && isOpenType(operand) {
		if !argErr {
			f.sink.Add(diag.Errorf(diag.CodeOpenGenericTypeOf, f.tree, bound.Span(t),
				"an attribute argument cannot use type parameters (typeof(%s))", operand))
		}
		f.hasErrors = true
		return constant.Error(t.Typ)
	}
	return f.create(t, kind, argErr, operand, nil)
}

func isOpenType(t symbols.Type) bool {
	if _, ok := t.(*symbols.TypeParam); ok {
		return true
	}
	return !symbols.IsUnboundGeneric(t) && symbols.ContainsTypeParameter(t)
}

func (f *Folder) visitArrayCreation(a *bound.ArrayCreation, argErr bool) constant.TypedConstant {
	kind := constant.KindOf(a.Typ)
	if !a.HasInitializer() {
		switch {
		case kind == constant.KindError:
		case len(a.Bounds) == 1 && isZeroBound(a.Bounds[0]):
			return f.create(a, kind, argErr, nil, []constant.TypedConstant{})
		default:
			kind = constant.KindError
		}
		return f.create(a, kind, argErr, nil, nil)
	}

	elems := make([]constant.TypedConstant, len(a.Init))
	for i, x := range a.Init {
		elems[i] = f.visit(x, argErr || x.HasErrors())
	}
	return f.create(a, kind, argErr, nil, elems)
}

func isZeroBound(e bound.Expr) bool {
	v, ok := bound.ConstantValue(e)
	if !ok {
		return false
	}
	n, ok := v.(int32)
	return ok && n == 0
}

// create builds the constant for e. Constants of types that still
// mention a type parameter cannot be serialized and become errors. An
// Array kind without elements is a null array.
func (f *Folder) create(e bound.Expr, kind constant.Kind, argErr bool, value interface{}, elems []constant.TypedConstant) constant.TypedConstant {
	typ := e.Type()
	if kind != constant.KindError && symbols.ContainsTypeParameter(typ) {
		kind = constant.KindError
	}

	switch kind {
	case constant.KindError:
		if !argErr {
			f.sink.Add(diag.Errorf(diag.CodeBadAttributeArgument, f.tree, bound.Span(e),
				"an attribute argument must be a constant expression, typeof expression or array creation expression of an attribute parameter type"))
		}
		f.hasErrors = true
		return constant.Error(typ)
	case constant.KindArray:
		if elems == nil {
			return constant.NullArray(typ)
		}
		return constant.Array(typ, elems)
	}
	return constant.Scalar(kind, typ, value)
}
