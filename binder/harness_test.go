package binder_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/teranos/attrbind/binder"
	"github.com/teranos/attrbind/check"
	"github.com/teranos/attrbind/constant"
	"github.com/teranos/attrbind/diag"
	"github.com/teranos/attrbind/overload"
	"github.com/teranos/attrbind/symbols"
	"github.com/teranos/attrbind/syntax"
)

// harness wires the reference collaborators around one symbol table
type harness struct {
	table    *symbols.Table
	checker  *check.Checker
	bag      *diag.Bag
	resolver *binder.Resolver
}

func newHarness(t *testing.T, opts binder.Options, define func(h *harness)) *harness {
	t.Helper()
	table := symbols.NewTable()
	h := &harness{table: table, checker: check.New(table), bag: diag.NewBag()}
	if define != nil {
		define(h)
	}
	r, err := binder.New(binder.Collaborators{
		Classes:     h.checker,
		Expressions: h.checker,
		Overloads:   overload.New(h.checker),
		Symbols:     h.checker,
		Types:       h.checker,
		Diagnostics: h.bag,
	}, opts)
	require.NoError(t, err)
	h.resolver = r
	return h
}

func (h *harness) special(s symbols.SpecialType) *symbols.NamedType { return h.table.Special(s) }
func (h *harness) i32() *symbols.NamedType { return h.special(symbols.SpecialInt32) }
func (h *harness) str() *symbols.NamedType { return h.special(symbols.SpecialString) }
func (h *harness) object() *symbols.NamedType { return h.special(symbols.SpecialObject) }

// attribute defines a public attribute class deriving from base, or from
// the attribute root when base is nil
func (h *harness) attribute(name string, base *symbols.NamedType, ctors ...*symbols.Method) *symbols.NamedType {
	if base == nil {
		base = h.special(symbols.SpecialAttribute)
	}
	a := &symbols.NamedType{Name: name, Base: base}
	if len(ctors) == 0 {
		ctors = []*symbols.Method{{}}
	}
	for _, c := range ctors {
		c.Name = ".ctor"
		c.Owner = a
		for i, p := range c.Params {
			p.Ordinal = i
		}
	}
	a.Constructors = ctors
	h.define(a)
	return a
}

func (h *harness) define(n *symbols.NamedType) {
	if err := h.table.Define(n); err != nil {
		panic(err)
	}
}

func ctor(params ...*symbols.Parameter) *symbols.Method {
	return &symbols.Method{Params: params}
}

func param(name string, t symbols.Type) *symbols.Parameter {
	return &symbols.Parameter{Name: name, Type: t, CallerArgumentParam: -1}
}

func optional(name string, t symbols.Type, def interface{}) *symbols.Parameter {
	p := param(name, t)
	p.Optional = true
	p.Default = &symbols.DefaultValue{Value: def}
	return p
}

func variadic(name string, elem symbols.Type) *symbols.Parameter {
	p := param(name, symbols.NewArray(elem, 1))
	p.Variadic = true
	return p
}

func parse(t *testing.T, src string, defined ...string) *syntax.File {
	t.Helper()
	file, err := syntax.ParseString("t.cs", src, defined...)
	require.NoError(t, err)
	return file
}

// bindAll parses src and binds every application in it
func (h *harness) bindAll(t *testing.T, src string, defined ...string) []*binder.Record {
	t.Helper()
	file := parse(t, src, defined...)
	records, err := h.resolver.BindAll(context.Background(), file.Attributes)
	require.NoError(t, err)
	return records
}

// bindOne binds the single application in src
func (h *harness) bindOne(t *testing.T, src string, defined ...string) *binder.Record {
	t.Helper()
	records := h.bindAll(t, src, defined...)
	require.Len(t, records, 1)
	require.NotNil(t, records[0])
	return records[0]
}

// values returns the scalar values of constants
func values(cs []constant.TypedConstant) []interface{} {
	out := make([]interface{}, len(cs))
	for i, c := range cs {
		out[i] = c.Value()
	}
	return out
}
