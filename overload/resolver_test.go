package overload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/attrbind/binder"
	"github.com/teranos/attrbind/check"
	"github.com/teranos/attrbind/diag"
	"github.com/teranos/attrbind/symbols"
	"github.com/teranos/attrbind/syntax"
)

type env struct {
	table   *symbols.Table
	checker *check.Checker
	i32     *symbols.NamedType
}

func newEnv() *env {
	table := symbols.NewTable()
	return &env{table: table, checker: check.New(table), i32: table.Special(symbols.SpecialInt32)}
}

func (e *env) special(s symbols.SpecialType) *symbols.NamedType { return e.table.Special(s) }

// class defines an attribute class named A with the given constructors
func (e *env) class(t *testing.T, ctors ...*symbols.Method) *symbols.NamedType {
	t.Helper()
	a := &symbols.NamedType{Name: "AAttribute", Base: e.special(symbols.SpecialAttribute)}
	for _, c := range ctors {
		c.Name = ".ctor"
		c.Owner = a
		for i, p := range c.Params {
			p.Ordinal = i
		}
	}
	a.Constructors = ctors
	require.NoError(t, e.table.Define(a))
	return a
}

func ctor(params ...*symbols.Parameter) *symbols.Method {
	return &symbols.Method{Params: params}
}

func param(name string, t symbols.Type) *symbols.Parameter {
	return &symbols.Parameter{Name: name, Type: t, CallerArgumentParam: -1}
}

// args binds the argument list of "[A(src)]"
func (e *env) args(t *testing.T, src string) *binder.Arguments {
	t.Helper()
	file, err := syntax.ParseString("t.cs", "[A("+src+")]")
	require.NoError(t, err)
	site := file.Attributes[0]
	args := &binder.Arguments{Site: site}
	for _, a := range site.Args.Args {
		name := ""
		if a.NameColon != nil {
			name = a.NameColon.Name
		}
		args.Positional = append(args.Positional, e.checker.BindExpression(a.Expr, site, diag.Discard))
		args.Names = append(args.Names, name)
		args.Syntax = append(args.Syntax, a)
	}
	return args
}

func TestNormalFormPreferred(t *testing.T) {
	e := newEnv()
	single := ctor(param("x", e.i32))
	variadic := ctor(&symbols.Parameter{Name: "xs", Type: symbols.NewArray(e.i32, 1), Variadic: true, CallerArgumentParam: -1})
	class := e.class(t, variadic, single)

	bag := diag.NewBag()
	res := New(e.checker).ResolveConstructor(class, e.args(t, "1"), false, bag)

	require.True(t, res.Succeeded())
	assert.Same(t, single, res.Constructor)
	assert.False(t, res.Expanded)
	assert.Nil(t, res.ArgsToParams)
	assert.Zero(t, bag.Len())
}

func TestExpandedForm(t *testing.T) {
	e := newEnv()
	str := e.special(symbols.SpecialString)
	c := ctor(param("s", str), &symbols.Parameter{Name: "xs", Type: symbols.NewArray(e.i32, 1), Variadic: true, CallerArgumentParam: -1})
	class := e.class(t, c)
	r := New(e.checker)

	t.Run("several elements", func(t *testing.T) {
		res := r.ResolveConstructor(class, e.args(t, `"a", 1, 2`), false, diag.Discard)
		require.True(t, res.Succeeded())
		assert.True(t, res.Expanded)
		assert.Equal(t, []int{0, 1, 1}, res.ArgsToParams)
		require.Len(t, res.Converted, 3)
		assert.True(t, symbols.Identical(e.i32, res.Converted[2].Type()))
	})

	t.Run("no elements", func(t *testing.T) {
		res := r.ResolveConstructor(class, e.args(t, `"a"`), false, diag.Discard)
		require.True(t, res.Succeeded())
		assert.True(t, res.Expanded)
		assert.Equal(t, []int{0}, res.ArgsToParams)
	})

	t.Run("array passed directly", func(t *testing.T) {
		res := r.ResolveConstructor(class, e.args(t, `"a", new int[] { 1 }`), false, diag.Discard)
		require.True(t, res.Succeeded())
		assert.False(t, res.Expanded)
	})
}

func TestNamedArguments(t *testing.T) {
	e := newEnv()
	c := ctor(param("x", e.i32), param("y", e.i32))
	class := e.class(t, c)
	r := New(e.checker)

	res := r.ResolveConstructor(class, e.args(t, "y: 1, x: 2"), false, diag.Discard)
	require.True(t, res.Succeeded())
	assert.Equal(t, []int{1, 0}, res.ArgsToParams)

	// a positional argument after an out-of-position name cannot be placed
	bag := diag.NewBag()
	res = r.ResolveConstructor(class, e.args(t, "y: 1, 2"), false, bag)
	assert.False(t, res.Succeeded())
	assert.Equal(t, binder.FailureNoApplicable, res.Failure)
	assert.Equal(t, 1, bag.Count(diag.CodeOverloadResolutionFailed))

	res = r.ResolveConstructor(class, e.args(t, "x: 1, z: 2"), false, diag.Discard)
	assert.Equal(t, binder.FailureNoApplicable, res.Failure)
}

func TestFewerDefaultsPreferred(t *testing.T) {
	e := newEnv()
	short := ctor(param("x", e.i32))
	long := ctor(param("x", e.i32), &symbols.Parameter{Name: "y", Type: e.i32, Optional: true, CallerArgumentParam: -1})
	class := e.class(t, long, short)

	res := New(e.checker).ResolveConstructor(class, e.args(t, "1"), false, diag.Discard)
	require.True(t, res.Succeeded())
	assert.Same(t, short, res.Constructor)
}

func TestIdentityPreferred(t *testing.T) {
	e := newEnv()
	exact := ctor(param("x", e.i32))
	widened := ctor(param("x", e.special(symbols.SpecialInt64)))
	class := e.class(t, widened, exact)

	res := New(e.checker).ResolveConstructor(class, e.args(t, "1"), false, diag.Discard)
	require.True(t, res.Succeeded())
	assert.Same(t, exact, res.Constructor)
}

func TestFailures(t *testing.T) {
	tests := []struct {
		name    string
		ctors   func(e *env) []*symbols.Method
		args    string
		failure binder.FailureReason
		message string
	}{
		{
			name: "ambiguous",
			ctors: func(e *env) []*symbols.Method {
				return []*symbols.Method{
					ctor(param("x", e.special(symbols.SpecialInt64))),
					ctor(param("x", e.special(symbols.SpecialDouble))),
				}
			},
			args:    "1",
			failure: binder.FailureAmbiguous,
			message: "ambiguous",
		},
		{
			name: "inaccessible",
			ctors: func(e *env) []*symbols.Method {
				c := ctor(param("x", e.i32))
				c.Access = symbols.Private
				return []*symbols.Method{c}
			},
			args:    "1",
			failure: binder.FailureInaccessible,
			message: "inaccessible",
		},
		{
			name: "single constructor mismatch",
			ctors: func(e *env) []*symbols.Method {
				return []*symbols.Method{ctor(param("s", e.special(symbols.SpecialString)))}
			},
			args:    "1",
			failure: binder.FailureNoApplicable,
			message: "no argument list matches",
		},
		{
			name: "wrong arity",
			ctors: func(e *env) []*symbols.Method {
				return []*symbols.Method{ctor(), ctor(param("x", e.i32))}
			},
			args:    "1, 2",
			failure: binder.FailureNoApplicable,
			message: "takes 2 arguments",
		},
		{
			name: "ref parameter",
			ctors: func(e *env) []*symbols.Method {
				p := param("x", e.i32)
				p.RefKind = symbols.RefRef
				return []*symbols.Method{ctor(p)}
			},
			args:    "1",
			failure: binder.FailureNoApplicable,
			message: "no argument list matches",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv()
			class := e.class(t, tt.ctors(e)...)
			r := New(e.checker)

			bag := diag.NewBag()
			res := r.ResolveConstructor(class, e.args(t, tt.args), false, bag)
			assert.False(t, res.Succeeded())
			assert.Nil(t, res.Constructor)
			assert.Equal(t, tt.failure, res.Failure)
			assert.NotEmpty(t, res.Candidates)
			require.Equal(t, 1, bag.Len())
			assert.Contains(t, bag.Items()[0].Message, tt.message)

			quiet := diag.NewBag()
			res = r.ResolveConstructor(class, e.args(t, tt.args), true, quiet)
			assert.Equal(t, tt.failure, res.Failure)
			assert.Zero(t, quiet.Len())
		})
	}
}
