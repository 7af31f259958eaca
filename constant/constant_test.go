package constant

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teranos/attrbind/symbols"
)

func TestKindOf(t *testing.T) {
	table := symbols.NewTable()
	intType := table.Special(symbols.SpecialInt32)
	color := &symbols.NamedType{Name: "Color", Kind: symbols.KindEnum, EnumUnderlying: intType}
	widget := &symbols.NamedType{Name: "Widget", Kind: symbols.KindClass}

	tests := []struct {
		name string
		typ  symbols.Type
		want Kind
	}{
		{"nil", nil, KindError},
		{"int", intType, KindPrimitive},
		{"string", table.Special(symbols.SpecialString), KindPrimitive},
		{"object", table.Special(symbols.SpecialObject), KindPrimitive},
		{"decimal", table.Special(symbols.SpecialDecimal), KindError},
		{"type", table.Special(symbols.SpecialSystemType), KindType},
		{"enum", color, KindEnum},
		{"int array", symbols.NewArray(intType, 1), KindArray},
		{"enum array", symbols.NewArray(color, 1), KindArray},
		{"type array", symbols.NewArray(table.Special(symbols.SpecialSystemType), 1), KindArray},
		{"jagged", symbols.NewArray(symbols.NewArray(intType, 1), 1), KindError},
		{"multi-dimensional", symbols.NewArray(intType, 2), KindError},
		{"class", widget, KindError},
		{"type parameter", &symbols.TypeParam{Name: "T"}, KindError},
		{"enum without underlying", &symbols.NamedType{Name: "E", Kind: symbols.KindEnum}, KindError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.typ))
		})
	}

	assert.Equal(t, KindArray, ValueKind(symbols.NewArray(widget, 1)))
	assert.Equal(t, KindEnum, ValueKind(color))
}

func TestConstantAccessors(t *testing.T) {
	table := symbols.NewTable()
	intType := table.Special(symbols.SpecialInt32)
	arrType := symbols.NewArray(intType, 1)

	one := Scalar(KindPrimitive, intType, int32(1))
	bad := Error(intType)
	arr := Array(arrType, []TypedConstant{one, bad})

	assert.False(t, one.IsNull())
	assert.False(t, one.ContainsError())
	assert.True(t, bad.IsError())
	assert.False(t, bad.IsNull())
	assert.True(t, arr.ContainsError())
	assert.False(t, arr.IsError())
	assert.Equal(t, 2, arr.Len())

	elems := arr.Elements()
	elems[0] = bad
	assert.True(t, arr.Elements()[0].Equal(one), "elements are copied out")

	null := NullArray(arrType)
	assert.True(t, null.IsNull())
	assert.Nil(t, null.Elements())
	assert.False(t, null.Equal(Array(arrType, nil)))
	assert.True(t, Array(arrType, nil).Equal(Array(arrType, []TypedConstant{})))
}

func TestConstantEqual(t *testing.T) {
	table := symbols.NewTable()
	intType := table.Special(symbols.SpecialInt32)
	typeType := table.Special(symbols.SpecialSystemType)
	list := &symbols.NamedType{Name: "List", TypeParams: []*symbols.TypeParam{{Name: "T"}}}

	assert.True(t, Scalar(KindPrimitive, intType, int32(1)).Equal(Scalar(KindPrimitive, intType, int32(1))))
	assert.False(t, Scalar(KindPrimitive, intType, int32(1)).Equal(Scalar(KindPrimitive, intType, int32(2))))
	assert.False(t, Scalar(KindPrimitive, intType, int32(1)).Equal(Scalar(KindPrimitive, intType, int64(1))))

	a := Scalar(KindType, typeType, symbols.Construct(list, []symbols.Type{intType}))
	b := Scalar(KindType, typeType, symbols.Construct(list, []symbols.Type{intType}))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(Scalar(KindType, typeType, symbols.ConstructUnbound(list))))
}

func TestConstantString(t *testing.T) {
	table := symbols.NewTable()
	intType := table.Special(symbols.SpecialInt32)
	color := &symbols.NamedType{Name: "Color", Kind: symbols.KindEnum, EnumUnderlying: intType}

	tests := []struct {
		c    TypedConstant
		want string
	}{
		{Scalar(KindPrimitive, table.Special(symbols.SpecialString), "a\"b"), `"a\"b"`},
		{Scalar(KindPrimitive, table.Special(symbols.SpecialString), nil), "null"},
		{Scalar(KindPrimitive, table.Special(symbols.SpecialChar), uint16('x')), "'x'"},
		{Scalar(KindPrimitive, table.Special(symbols.SpecialSingle), float32(1.5)), "1.5"},
		{Scalar(KindEnum, color, int32(2)), "(Color)2"},
		{Scalar(KindType, table.Special(symbols.SpecialSystemType), intType), "typeof(Int32)"},
		{Array(symbols.NewArray(intType, 1), []TypedConstant{Scalar(KindPrimitive, intType, int32(1)), Error(intType)}), "{1, <error>}"},
		{NullArray(symbols.NewArray(intType, 1)), "null"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.c.String())
	}
}

func TestCastAndFits(t *testing.T) {
	v, ok := Cast(int32(300), symbols.SpecialByte)
	assert.True(t, ok)
	assert.Equal(t, uint8(44), v)

	v, ok = Cast(int32(7), symbols.SpecialSingle)
	assert.True(t, ok)
	assert.Equal(t, float32(7), v)

	v, ok = Cast(uint16('A'), symbols.SpecialInt32)
	assert.True(t, ok)
	assert.Equal(t, int32(65), v)

	_, ok = Cast("x", symbols.SpecialInt32)
	assert.False(t, ok)

	assert.True(t, Fits(int32(255), symbols.SpecialByte))
	assert.False(t, Fits(int32(256), symbols.SpecialByte))
	assert.False(t, Fits(int32(-1), symbols.SpecialUInt32))
	assert.True(t, Fits(int64(-1), symbols.SpecialInt64))
	assert.False(t, Fits(uint64(math.MaxUint64), symbols.SpecialInt64))
	assert.False(t, Fits(int64(-5), symbols.SpecialUInt64))
	assert.True(t, Fits(uint64(math.MaxUint64), symbols.SpecialUInt64))
	assert.False(t, Fits("1", symbols.SpecialInt32))
}

func TestZeroValue(t *testing.T) {
	table := symbols.NewTable()
	color := &symbols.NamedType{Name: "Color", Kind: symbols.KindEnum, EnumUnderlying: table.Special(symbols.SpecialInt16)}

	assert.Equal(t, int32(0), ZeroValue(table.Special(symbols.SpecialInt32)))
	assert.Equal(t, false, ZeroValue(table.Special(symbols.SpecialBoolean)))
	assert.Equal(t, uint16(0), ZeroValue(table.Special(symbols.SpecialChar)))
	assert.Equal(t, int16(0), ZeroValue(color))
	assert.Nil(t, ZeroValue(table.Special(symbols.SpecialString)))
	assert.Nil(t, ZeroValue(symbols.NewArray(color, 1)))
}

func TestArith(t *testing.T) {
	v, ok := Arith("+", int32(1), int32(2), symbols.SpecialInt32)
	assert.True(t, ok)
	assert.Equal(t, int32(3), v)

	v, ok = Arith("|", int32(1), int32(4), symbols.SpecialInt32)
	assert.True(t, ok)
	assert.Equal(t, int32(5), v)

	v, ok = Arith("-", 2.5, 1.0, symbols.SpecialDouble)
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)

	_, ok = Arith("|", 2.5, 1.0, symbols.SpecialDouble)
	assert.False(t, ok)

	assert.True(t, ArithOverflows("+", int32(math.MaxInt32), int32(1), symbols.SpecialInt32))
	assert.False(t, ArithOverflows("+", int32(1), int32(1), symbols.SpecialInt32))

	neg, ok := Negate(uint32(5))
	assert.True(t, ok)
	assert.Equal(t, int64(-5), neg)
	_, ok = Negate(uint64(5))
	assert.False(t, ok)
}
