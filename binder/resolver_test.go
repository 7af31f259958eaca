package binder_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/attrbind/binder"
	"github.com/teranos/attrbind/constant"
	"github.com/teranos/attrbind/diag"
	"github.com/teranos/attrbind/symbols"
)

// catalogHarness defines a small set of attribute classes shared by the
// resolver tests
func catalogHarness(t *testing.T, opts binder.Options) *harness {
	return newHarness(t, opts, func(h *harness) {
		i32, str := h.i32(), h.str()
		object := h.object()

		widget := &symbols.NamedType{Name: "Widget", Base: object}
		h.define(widget)

		holder := &symbols.NamedType{Name: "Holder", Base: object}
		holder.Fields = []*symbols.Field{
			{Name: "Max", Type: i32, Static: true, Const: true, ConstValue: int32(10)},
			{Name: "Total", Type: i32, Static: true},
		}
		h.define(holder)

		h.attribute("IntAttribute", nil, ctor(param("a", i32)))
		h.attribute("ObjAttribute", nil, ctor(param("o", object)))
		h.attribute("TypeAttribute", nil, ctor(param("t", h.special(symbols.SpecialSystemType))))
		h.attribute("WidgetParamAttribute", nil, ctor(param("w", widget)))

		named := h.attribute("NamedAttribute", nil)
		named.Fields = []*symbols.Field{
			{Name: "Count", Type: i32},
			{Name: "Fixed", Type: i32, ReadOnly: true},
			{Name: "Shared", Type: i32, Static: true},
			{Name: "Gadget", Type: widget},
		}
		named.Properties = []*symbols.Property{
			{Name: "Label", Type: str, Getter: &symbols.Accessor{}, Setter: &symbols.Accessor{}},
			{Name: "Size", Type: i32, Getter: &symbols.Accessor{}},
		}

		abstract := h.attribute("BaseAttribute", nil)
		abstract.Abstract = true

		old := ctor(param("a", i32))
		old.Obsolete = true
		old.ObsoleteMessage = "use New"
		h.attribute("OldAttribute", nil, old)

		in := param("a", i32)
		in.RefKind = symbols.RefIn
		h.attribute("InAttribute", nil, ctor(in))

		list := &symbols.NamedType{Name: "List", Base: object, TypeParams: []*symbols.TypeParam{{Name: "T"}}}
		h.define(list)
	})
}

func TestBindNonConstantArgument(t *testing.T) {
	h := catalogHarness(t, binder.Options{})

	rec := h.bindOne(t, "[Int(Holder.Max)]")
	require.False(t, rec.HasErrors())
	assert.Equal(t, []interface{}{int32(10)}, values(rec.Positional()))

	rec = h.bindOne(t, "[Int(Holder.Total)]")
	assert.True(t, rec.HasErrors())
	assert.True(t, rec.Positional()[0].IsError())
	assert.Equal(t, 1, h.bag.Count(diag.CodeBadAttributeArgument))
}

func TestErrorContagionInArrays(t *testing.T) {
	h := catalogHarness(t, binder.Options{})

	rec := h.bindOne(t, "[Obj(new int[] { 1, Missing })]")
	assert.True(t, rec.HasErrors())
	pos := rec.Positional()
	require.Len(t, pos, 1)
	assert.True(t, pos[0].ContainsError())

	// the lookup failure is the only report
	assert.Equal(t, 1, h.bag.Count(diag.CodeNameNotFound))
	assert.Zero(t, h.bag.Count(diag.CodeBadAttributeArgument))
	assert.Zero(t, h.bag.Count(diag.CodeOverloadResolutionFailed))
}

func TestBoxedArguments(t *testing.T) {
	h := catalogHarness(t, binder.Options{})

	rec := h.bindOne(t, `[Obj(new object[] { 1, "a", typeof(int) })]`)
	require.False(t, rec.HasErrors(), "diagnostics: %v", h.bag.Items())
	elems := rec.Positional()[0].Elements()
	require.Len(t, elems, 3)
	assert.Equal(t, constant.KindPrimitive, elems[0].Kind())
	assert.Equal(t, int32(1), elems[0].Value())
	assert.Equal(t, "a", elems[1].Value())
	assert.Equal(t, constant.KindType, elems[2].Kind())

	rec = h.bindOne(t, "[Obj(5)]")
	require.False(t, rec.HasErrors())
	assert.Equal(t, int32(5), rec.Positional()[0].Value())
}

func TestTypeOfArguments(t *testing.T) {
	h := catalogHarness(t, binder.Options{})

	rec := h.bindOne(t, "[Type(typeof(List<>))] M<T>")
	require.False(t, rec.HasErrors(), "diagnostics: %v", h.bag.Items())
	assert.Equal(t, constant.KindType, rec.Positional()[0].Kind())
	assert.True(t, symbols.IsUnboundGeneric(rec.Positional()[0].Value().(symbols.Type)))

	for _, src := range []string{"[Type(typeof(T))] M<T>", "[Type(typeof(List<T>))] M<T>"} {
		bag := h.bag.Count(diag.CodeOpenGenericTypeOf)
		rec = h.bindOne(t, src)
		assert.True(t, rec.HasErrors(), src)
		assert.True(t, rec.Positional()[0].IsError(), src)
		assert.Equal(t, bag+1, h.bag.Count(diag.CodeOpenGenericTypeOf), src)
	}
	assert.Zero(t, h.bag.Count(diag.CodeBadAttributeArgument))
}

func TestNamedAssignments(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		errors bool
		code   diag.Code
		named  []string
	}{
		{name: "field and property", src: `[Named(Count = 3, Label = "a")]`, named: []string{"Count", "Label"}},
		{name: "missing member", src: "[Named(Missing = 1)]", errors: true, code: diag.CodeBadNamedArgument},
		{name: "readonly field", src: "[Named(Fixed = 1)]", errors: true, code: diag.CodeBadNamedArgument, named: []string{"Fixed"}},
		{name: "static field", src: "[Named(Shared = 1)]", errors: true, code: diag.CodeBadNamedArgument, named: []string{"Shared"}},
		{name: "getter only property", src: "[Named(Size = 1)]", errors: true, code: diag.CodeBadNamedArgument, named: []string{"Size"}},
		{name: "invalid member type", src: "[Named(Gadget = null)]", errors: true, code: diag.CodeBadNamedArgumentType, named: []string{"Gadget"}},
		{name: "duplicate", src: "[Named(Count = 1, Count = 2)]", errors: true, code: diag.CodeDuplicateNamedArgument, named: []string{"Count", "Count"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := catalogHarness(t, binder.Options{})
			rec := h.bindOne(t, tt.src)

			assert.Equal(t, tt.errors, rec.HasErrors())
			if tt.code != "" {
				assert.Equal(t, 1, h.bag.Count(tt.code))
				assert.Equal(t, 1, h.bag.Len(), "diagnostics: %v", h.bag.Items())
			} else {
				assert.Zero(t, h.bag.Len())
			}

			var names []string
			for _, n := range rec.Named() {
				names = append(names, n.Name)
				if tt.errors && tt.code != diag.CodeDuplicateNamedArgument {
					assert.True(t, n.Value.IsError())
				}
			}
			assert.Equal(t, tt.named, names)
		})
	}
}

func TestArgumentShapeErrors(t *testing.T) {
	h := catalogHarness(t, binder.Options{})

	// duplicate constructor names keep the first value
	rec := h.bindOne(t, "[Int(a: 1, a: 2)]")
	assert.True(t, rec.HasErrors())
	assert.Equal(t, 1, h.bag.Count(diag.CodeDuplicateNamedArgument))
	assert.Zero(t, h.bag.Count(diag.CodeOverloadResolutionFailed))
	assert.Equal(t, []interface{}{int32(1)}, values(rec.Positional()))

	rec = h.bindOne(t, "[Named(Count = 1, 2, 3)]")
	assert.True(t, rec.HasErrors())
	assert.Equal(t, 1, h.bag.Count(diag.CodeNamedArgumentExpected))

	rec = h.bindOne(t, "[Int(ref Holder.Max)]")
	assert.True(t, rec.HasErrors())
	assert.Equal(t, 1, h.bag.Count(diag.CodeRefArgumentNotAllowed))
}

func TestUnresolvedClass(t *testing.T) {
	h := catalogHarness(t, binder.Options{})

	rec := h.bindOne(t, "[Missing(1)]")
	assert.True(t, rec.HasErrors())
	assert.Nil(t, rec.Constructor())
	assert.Empty(t, rec.Positional())
	assert.Nil(t, rec.EffectiveArguments())
	assert.True(t, symbols.IsErrorType(rec.Class()))
	assert.Equal(t, 1, h.bag.Count(diag.CodeUnresolvedType))

	// the single candidate is still used for binding, without reporting
	// overload failures
	rec = h.bindOne(t, "[Widget(1, 2)]")
	assert.True(t, rec.HasErrors())
	assert.Nil(t, rec.Constructor())
	assert.Equal(t, 2, h.bag.Count(diag.CodeUnresolvedType))
	assert.Zero(t, h.bag.Count(diag.CodeOverloadResolutionFailed))
}

func TestConstructorSelectionFailures(t *testing.T) {
	h := catalogHarness(t, binder.Options{})

	rec := h.bindOne(t, "[Base]")
	assert.True(t, rec.HasErrors())
	assert.Nil(t, rec.Constructor())
	assert.Equal(t, "BaseAttribute", rec.Class().String())
	assert.Equal(t, 1, h.bag.Count(diag.CodeAbstractAttributeClass))
	assert.Zero(t, h.bag.Count(diag.CodeOverloadResolutionFailed))

	rec = h.bindOne(t, `[Int("a")]`)
	assert.True(t, rec.HasErrors())
	assert.Nil(t, rec.Constructor())
	assert.Empty(t, rec.Positional())
	assert.Equal(t, 1, h.bag.Count(diag.CodeOverloadResolutionFailed))
}

func TestConstructorChecks(t *testing.T) {
	h := catalogHarness(t, binder.Options{})

	rec := h.bindOne(t, "[Old(1)]")
	assert.False(t, rec.HasErrors())
	require.Equal(t, 1, h.bag.Count(diag.CodeObsoleteConstructor))
	assert.False(t, h.bag.HasErrors())
	assert.Contains(t, h.bag.Items()[0].Message, "use New")

	rec = h.bindOne(t, "[In(1)]")
	assert.True(t, rec.HasErrors())
	assert.NotNil(t, rec.Constructor())
	assert.Equal(t, 1, h.bag.Count(diag.CodeInParameterConstructor))

	rec = h.bindOne(t, "[WidgetParam(null)]")
	assert.True(t, rec.HasErrors())
	assert.Equal(t, 1, h.bag.Count(diag.CodeBadAttributeParamType))
	assert.Zero(t, h.bag.Count(diag.CodeBadAttributeArgument))
}

func conditionalHarness(t *testing.T, opts binder.Options) *harness {
	return newHarness(t, opts, func(h *harness) {
		x := h.attribute("XAttribute", nil)
		x.ConditionalSymbols = []string{"DEBUG"}
		y := h.attribute("YAttribute", x)
		y.ConditionalSymbols = []string{"TRACE"}
		h.attribute("ZAttribute", nil)
		h.attribute("PlainAttribute", y)
	})
}

func TestConditionalOmission(t *testing.T) {
	tests := []struct {
		src     string
		defined []string
		omitted bool
	}{
		{"[Y]", nil, true},
		{"[Y]", []string{"TRACE"}, false},
		{"[Y]", []string{"DEBUG"}, false},
		{"[X]", []string{"TRACE"}, true},
		{"[X]", []string{"DEBUG"}, false},
		{"#define DEBUG\n[X]", nil, false},
		{"[Z]", nil, false},
		{"[Plain]", nil, true},
		{"[Plain]", []string{"DEBUG"}, false},
	}

	for _, tt := range tests {
		h := conditionalHarness(t, binder.Options{})
		rec := h.bindOne(t, tt.src, tt.defined...)
		assert.Equal(t, tt.omitted, rec.Omitted(), "%q with %v", tt.src, tt.defined)
		assert.False(t, rec.HasErrors())
	}

	early := conditionalHarness(t, binder.Options{Early: true})
	assert.False(t, early.bindOne(t, "[Y]").Omitted())
}

func TestRebindRecomputesOmission(t *testing.T) {
	h := conditionalHarness(t, binder.Options{})
	file := parse(t, "[Y(), Z]")
	ctx := context.Background()

	first, err := h.resolver.BindAll(ctx, file.Attributes)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.True(t, first[0].Omitted())

	file.Tree.Define("TRACE")
	second, err := h.resolver.Rebind(ctx, file.Attributes, first)
	require.NoError(t, err)
	assert.Same(t, first[0], second[0])
	assert.Same(t, first[1], second[1])
	assert.False(t, second[0].Omitted())

	third, err := h.resolver.Rebind(ctx, file.Attributes, second)
	require.NoError(t, err)
	assert.Same(t, second[0], third[0])
	assert.Equal(t, second[0].Positional(), third[0].Positional())
	assert.Zero(t, h.bag.Len())
}

func TestRebindRetriesErroneousRecords(t *testing.T) {
	h := catalogHarness(t, binder.Options{})
	file := parse(t, "[Missing]")
	ctx := context.Background()

	first, err := h.resolver.BindAll(ctx, file.Attributes)
	require.NoError(t, err)
	second, err := h.resolver.Rebind(ctx, file.Attributes, first)
	require.NoError(t, err)
	assert.NotSame(t, first[0], second[0])
	assert.True(t, second[0].HasErrors())
	// same site, same code: reported once
	assert.Equal(t, 1, h.bag.Count(diag.CodeUnresolvedType))
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := binder.New(binder.Collaborators{}, binder.Options{})
	require.Error(t, err)
}

func TestArrayCreationBounds(t *testing.T) {
	h := catalogHarness(t, binder.Options{})

	rec := h.bindOne(t, "[Obj(new int[0])]")
	require.False(t, rec.HasErrors())
	pos := rec.Positional()
	assert.Equal(t, constant.KindArray, pos[0].Kind())
	assert.False(t, pos[0].IsNull())
	assert.Zero(t, pos[0].Len())

	rec = h.bindOne(t, "[Obj(new int[2])]")
	assert.True(t, rec.HasErrors())
	assert.Equal(t, 1, h.bag.Count(diag.CodeBadAttributeArgument))
}
