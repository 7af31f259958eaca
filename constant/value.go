package constant

import (
	"math"

	"github.com/teranos/attrbind/symbols"
)

// number is a constant numeric value widened for arithmetic
type number struct {
	float    bool
	unsigned bool
	f        float64
	i        int64
	u        uint64
}

func toNumber(v interface{}) (number, bool) {
	switch v := v.(type) {
	case int8:
		return number{i: int64(v)}, true
	case int16:
		return number{i: int64(v)}, true
	case int32:
		return number{i: int64(v)}, true
	case int64:
		return number{i: v}, true
	case int:
		return number{i: int64(v)}, true
	case uint8:
		return number{unsigned: true, u: uint64(v)}, true
	case uint16:
		return number{unsigned: true, u: uint64(v)}, true
	case uint32:
		return number{unsigned: true, u: uint64(v)}, true
	case uint64:
		return number{unsigned: true, u: v}, true
	case float32:
		return number{float: true, f: float64(v)}, true
	case float64:
		return number{float: true, f: v}, true
	}
	return number{}, false
}

func (n number) asFloat() float64 {
	switch {
	case n.float:
		return n.f
	case n.unsigned:
		return float64(n.u)
	}
	return float64(n.i)
}

func (n number) asInt64() int64 {
	switch {
	case n.float:
		return int64(n.f)
	case n.unsigned:
		return int64(n.u)
	}
	return n.i
}

func (n number) asUint64() uint64 {
	switch {
	case n.float:
		return uint64(n.f)
	case n.unsigned:
		return n.u
	}
	return uint64(n.i)
}

// IsNumeric reports whether v is a numeric constant value (char included)
func IsNumeric(v interface{}) bool {
	_, ok := toNumber(v)
	return ok
}

// Cast converts a numeric value to the representation of special without
// overflow checking. ok is false when either side is not numeric.
func Cast(v interface{}, special symbols.SpecialType) (interface{}, bool) {
	n, ok := toNumber(v)
	if !ok {
		return nil, false
	}
	switch special {
	case symbols.SpecialSByte:
		return int8(n.asInt64()), true
	case symbols.SpecialByte:
		return uint8(n.asUint64()), true
	case symbols.SpecialInt16:
		return int16(n.asInt64()), true
	case symbols.SpecialUInt16:
		return uint16(n.asUint64()), true
	case symbols.SpecialChar:
		return uint16(n.asUint64()), true
	case symbols.SpecialInt32:
		return int32(n.asInt64()), true
	case symbols.SpecialUInt32:
		return uint32(n.asUint64()), true
	case symbols.SpecialInt64:
		return n.asInt64(), true
	case symbols.SpecialUInt64:
		return n.asUint64(), true
	case symbols.SpecialSingle:
		return float32(n.asFloat()), true
	case symbols.SpecialDouble, symbols.SpecialDecimal:
		return n.asFloat(), true
	}
	return nil, false
}

var integralRange = map[symbols.SpecialType]struct {
	min float64
	max float64
}{
	symbols.SpecialSByte:  {math.MinInt8, math.MaxInt8},
	symbols.SpecialByte:   {0, math.MaxUint8},
	symbols.SpecialInt16:  {math.MinInt16, math.MaxInt16},
	symbols.SpecialUInt16: {0, math.MaxUint16},
	symbols.SpecialChar:   {0, math.MaxUint16},
	symbols.SpecialInt32:  {math.MinInt32, math.MaxInt32},
	symbols.SpecialUInt32: {0, math.MaxUint32},
}

// Fits reports whether a numeric value is representable in special
// without loss of its integral part
func Fits(v interface{}, special symbols.SpecialType) bool {
	n, ok := toNumber(v)
	if !ok {
		return false
	}
	switch special {
	case symbols.SpecialSingle, symbols.SpecialDouble, symbols.SpecialDecimal:
		return true
	case symbols.SpecialInt64:
		if n.float {
			return n.f >= math.MinInt64 && n.f < math.MaxInt64
		}
		return !n.unsigned || n.u <= math.MaxInt64
	case symbols.SpecialUInt64:
		if n.float {
			return n.f >= 0 && n.f < math.MaxUint64
		}
		return n.unsigned || n.i >= 0
	}
	r, ok := integralRange[special]
	if !ok {
		return false
	}
	if n.float {
		return n.f > r.min-1 && n.f < r.max+1
	}
	if n.unsigned {
		return float64(n.u) <= r.max
	}
	return float64(n.i) >= r.min && float64(n.i) <= r.max
}

// IsIntegerValue reports whether v is an integral (non-float) numeric value
func IsIntegerValue(v interface{}) bool {
	n, ok := toNumber(v)
	return ok && !n.float
}

// IsZeroValue reports a numeric zero
func IsZeroValue(v interface{}) bool {
	n, ok := toNumber(v)
	if !ok {
		return false
	}
	return n.asFloat() == 0
}

// ZeroValue returns default(t) in the constant representation
func ZeroValue(t symbols.Type) interface{} {
	special := symbols.SpecialOf(symbols.EnumUnderlying(t))
	switch special {
	case symbols.SpecialBoolean:
		return false
	case symbols.SpecialString, symbols.SpecialObject, symbols.SpecialSystemType, symbols.SpecialNone:
		return nil
	}
	v, _ := Cast(int64(0), special)
	return v
}

// Negate returns -v, promoting unsigned 32-bit values to long.
// ok is false for ulong and non-numeric values.
func Negate(v interface{}) (interface{}, bool) {
	switch v := v.(type) {
	case int32:
		return -v, true
	case int64:
		return -v, true
	case uint32:
		return -int64(v), true
	case float32:
		return -v, true
	case float64:
		return -v, true
	case int8:
		return -int32(v), true
	case int16:
		return -int32(v), true
	case uint8:
		return -int32(v), true
	case uint16:
		return -int32(v), true
	}
	return nil, false
}

// Arith applies +, -, |, & to two numeric values already promoted to
// special. ok is false for unsupported operands.
func Arith(op string, x, y interface{}, special symbols.SpecialType) (interface{}, bool) {
	a, okA := toNumber(x)
	b, okB := toNumber(y)
	if !okA || !okB {
		return nil, false
	}
	switch special {
	case symbols.SpecialSingle, symbols.SpecialDouble, symbols.SpecialDecimal:
		var r float64
		switch op {
		case "+":
			r = a.asFloat() + b.asFloat()
		case "-":
			r = a.asFloat() - b.asFloat()
		default:
			return nil, false
		}
		return Cast(r, special)
	case symbols.SpecialUInt32, symbols.SpecialUInt64:
		ua, ub := a.asUint64(), b.asUint64()
		var r uint64
		switch op {
		case "+":
			r = ua + ub
		case "-":
			r = ua - ub
		case "|":
			r = ua | ub
		case "&":
			r = ua & ub
		default:
			return nil, false
		}
		return Cast(r, special)
	}
	ia, ib := a.asInt64(), b.asInt64()
	var r int64
	switch op {
	case "+":
		r = ia + ib
	case "-":
		r = ia - ib
	case "|":
		r = ia | ib
	case "&":
		r = ia & ib
	default:
		return nil, false
	}
	return Cast(r, special)
}

// ArithOverflows reports whether the exact integer result of op does not
// fit special. Floating point operations never overflow.
func ArithOverflows(op string, x, y interface{}, special symbols.SpecialType) bool {
	if op != "+" && op != "-" {
		return false
	}
	a, okA := toNumber(x)
	b, okB := toNumber(y)
	if !okA || !okB || a.float || b.float {
		return false
	}
	r := a.asFloat() + b.asFloat()
	if op == "-" {
		r = a.asFloat() - b.asFloat()
	}
	return !Fits(r, special)
}
