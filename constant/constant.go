// Package constant holds the typed constant: the folded, serializable value
// of one attribute argument or parameter default.
//
// Scalar values use Go types matching the static type: bool, uint16 for
// char, int8..uint64, float32, float64, string, and symbols.Type for type
// literals. A nil value is null. Enum constants hold the underlying value.
package constant

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/teranos/attrbind/symbols"
)

// Kind classifies a typed constant
type Kind int

const (
	KindError Kind = iota
	KindPrimitive
	KindEnum
	KindType
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindEnum:
		return "enum"
	case KindType:
		return "type"
	case KindArray:
		return "array"
	}
	return "error"
}

// TypedConstant is an immutable folded value
type TypedConstant struct {
	kind     Kind
	typ      symbols.Type
	value    interface{}
	elements []TypedConstant
	null     bool // null array
}

// Scalar creates a Primitive, Enum or Type constant
func Scalar(kind Kind, typ symbols.Type, value interface{}) TypedConstant {
	return TypedConstant{kind: kind, typ: typ, value: value}
}

// Array creates an array constant; elements are copied
func Array(typ symbols.Type, elements []TypedConstant) TypedConstant {
	elems := make([]TypedConstant, len(elements))
	copy(elems, elements)
	return TypedConstant{kind: KindArray, typ: typ, elements: elems}
}

// NullArray creates a null constant of array type
func NullArray(typ symbols.Type) TypedConstant {
	return TypedConstant{kind: KindArray, typ: typ, null: true}
}

// Error creates an Error constant; it carries no value
func Error(typ symbols.Type) TypedConstant {
	return TypedConstant{kind: KindError, typ: typ}
}

func (c TypedConstant) Kind() Kind         { return c.kind }
func (c TypedConstant) Type() symbols.Type { return c.typ }
func (c TypedConstant) Value() interface{} { return c.value }
func (c TypedConstant) IsError() bool      { return c.kind == KindError }

// Elements returns a copy of the array elements, nil for scalars
func (c TypedConstant) Elements() []TypedConstant {
	if c.elements == nil {
		return nil
	}
	out := make([]TypedConstant, len(c.elements))
	copy(out, c.elements)
	return out
}

// Len returns the number of array elements
func (c TypedConstant) Len() int { return len(c.elements) }

// IsNull reports a null scalar or null array
func (c TypedConstant) IsNull() bool {
	if c.kind == KindArray {
		return c.null
	}
	return c.kind != KindError && c.value == nil
}

// ContainsError reports an Error constant at any nesting level
func (c TypedConstant) ContainsError() bool {
	if c.kind == KindError {
		return true
	}
	for _, e := range c.elements {
		if e.ContainsError() {
			return true
		}
	}
	return false
}

// Equal reports deep equality, comparing types structurally
func (c TypedConstant) Equal(o TypedConstant) bool {
	if c.kind != o.kind || c.null != o.null || len(c.elements) != len(o.elements) {
		return false
	}
	if !symbols.Identical(c.typ, o.typ) {
		return false
	}
	if c.kind == KindType {
		a, _ := c.value.(symbols.Type)
		b, _ := o.value.(symbols.Type)
		return symbols.Identical(a, b)
	}
	if c.value != o.value {
		return false
	}
	for i := range c.elements {
		if !c.elements[i].Equal(o.elements[i]) {
			return false
		}
	}
	return true
}

// String renders the constant in source-like form
func (c TypedConstant) String() string {
	switch c.kind {
	case KindError:
		return "<error>"
	case KindArray:
		if c.null {
			return "null"
		}
		parts := make([]string, len(c.elements))
		for i, e := range c.elements {
			parts[i] = e.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindType:
		if c.value == nil {
			return "null"
		}
		return "typeof(" + c.value.(symbols.Type).String() + ")"
	case KindEnum:
		return "(" + c.typ.String() + ")" + formatScalar(c.value)
	}
	if symbols.SpecialOf(c.typ) == symbols.SpecialChar {
		if ch, ok := c.value.(uint16); ok {
			return strconv.QuoteRune(rune(ch))
		}
	}
	return formatScalar(c.value)
}

func formatScalar(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// KindOf returns the kind a constant of type t takes as an attribute
// argument: single-dimensional arrays of valid element types are Array,
// enums are Enum, primitives, string and object are Primitive, System.Type
// is Type. Everything else, including nested and multi-dimensional arrays,
// is Error.
func KindOf(t symbols.Type) Kind {
	if t == nil {
		return KindError
	}
	kind := KindError
	if arr, ok := t.(*symbols.ArrayType); ok {
		if !arr.IsSZArray() {
			return KindError
		}
		kind = KindArray
		t = arr.Elem
	}
	if n, ok := t.(*symbols.NamedType); ok && n.IsEnum() {
		if n.EnumUnderlying == nil {
			return KindError
		}
		if kind == KindError {
			kind = KindEnum
		}
		t = n.EnumUnderlying
	}
	switch inner := baseKind(t); inner {
	case KindArray, KindEnum, KindError:
		return KindError
	default:
		if kind == KindArray || kind == KindEnum {
			return kind
		}
		return inner
	}
}

// baseKind classifies a type without unwrapping arrays or enums
func baseKind(t symbols.Type) Kind {
	switch t := t.(type) {
	case *symbols.ArrayType:
		return KindArray
	case *symbols.NamedType:
		if t.IsEnum() {
			return KindEnum
		}
		switch {
		case t.Special.IsPrimitive(), t.Special == symbols.SpecialString, t.Special == symbols.SpecialObject:
			return KindPrimitive
		case t.Special == symbols.SpecialSystemType:
			return KindType
		}
	}
	return KindError
}

// ValueKind returns the plain classification used for defaults: enums and
// arrays are reported as such without validating their element type
func ValueKind(t symbols.Type) Kind {
	return baseKind(t)
}
