// Package symbols is the type-system surface the attribute binder consumes:
// named types with their members, arrays, type parameters, error
// placeholders and the tagged class-resolution result.
package symbols

import (
	"strings"
)

// Type is a sealed interface over the four type shapes
type Type interface {
	String() string
	isType()
}

// TypeKind classifies named types
type TypeKind int

const (
	KindClass TypeKind = iota
	KindStruct
	KindEnum
	KindInterface
)

func (k TypeKind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindInterface:
		return "interface"
	default:
		return "class"
	}
}

// SpecialType tags the well-known types
type SpecialType int

const (
	SpecialNone SpecialType = iota
	SpecialObject
	SpecialString
	SpecialBoolean
	SpecialChar
	SpecialSByte
	SpecialByte
	SpecialInt16
	SpecialUInt16
	SpecialInt32
	SpecialUInt32
	SpecialInt64
	SpecialUInt64
	SpecialSingle
	SpecialDouble
	SpecialDecimal
	SpecialSystemType
	SpecialAttribute
	SpecialValueType
	SpecialEnum
	SpecialArray
)

// IsNumeric reports integral and floating point types, char excluded
func (s SpecialType) IsNumeric() bool {
	return s >= SpecialSByte && s <= SpecialDecimal
}

// IsIntegral reports the integral numeric types
func (s SpecialType) IsIntegral() bool {
	return s >= SpecialSByte && s <= SpecialUInt64
}

// IsPrimitive reports types whose constants are stored as plain values
func (s SpecialType) IsPrimitive() bool {
	return s >= SpecialBoolean && s <= SpecialDouble
}

// Accessibility of a type or member
type Accessibility int

const (
	Public Accessibility = iota
	Internal
	Protected
	Private
)

func (a Accessibility) String() string {
	switch a {
	case Internal:
		return "internal"
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "public"
	}
}

// ParseAccessibility maps a keyword to an Accessibility. Empty means public.
func ParseAccessibility(s string) (Accessibility, bool) {
	switch strings.ToLower(s) {
	case "", "public":
		return Public, true
	case "internal":
		return Internal, true
	case "protected":
		return Protected, true
	case "private":
		return Private, true
	}
	return Public, false
}

// NamedType is a class, struct, enum or interface, possibly constructed
// from a generic definition
type NamedType struct {
	Name     string
	Kind     TypeKind
	Special  SpecialType
	Base     *NamedType
	Access   Accessibility
	Abstract bool

	TypeParams []*TypeParam
	TypeArgs   []Type
	Unbound    bool       // List<> in typeof
	Definition *NamedType // generic definition of a constructed type

	EnumUnderlying *NamedType

	Fields       []*Field // enum members are const fields
	Properties   []*Property
	Constructors []*Method

	// ConditionalSymbols are the type's own conditional symbols
	ConditionalSymbols []string

	Obsolete        bool
	ObsoleteMessage string
}

// ArrayType is Elem[] (Rank 1) or Elem[,...] (Rank > 1)
type ArrayType struct {
	Elem Type
	Rank int
}

// TypeParam is a type parameter in scope at an attribute application
type TypeParam struct {
	Name string
}

// ErrorType stands in for a type that could not be resolved
type ErrorType struct {
	Name       string
	Candidates []*NamedType
	Quality    LookupQuality
}

func (*NamedType) isType() {}
func (*ArrayType) isType() {}
func (*TypeParam) isType() {}
func (*ErrorType) isType() {}

// NewArray returns an array type
func NewArray(elem Type, rank int) *ArrayType {
	if rank < 1 {
		rank = 1
	}
	return &ArrayType{Elem: elem, Rank: rank}
}

// IsSZArray reports a single-dimensional array
func (a *ArrayType) IsSZArray() bool { return a.Rank == 1 }

// String renders C#-style: the innermost element, then ranks outermost first
func (a *ArrayType) String() string {
	var ranks strings.Builder
	var t Type = a
	for {
		arr, ok := t.(*ArrayType)
		if !ok {
			break
		}
		ranks.WriteByte('[')
		ranks.WriteString(strings.Repeat(",", arr.Rank-1))
		ranks.WriteByte(']')
		t = arr.Elem
	}
	return typeString(t) + ranks.String()
}

func (p *TypeParam) String() string { return p.Name }

func (e *ErrorType) String() string { return e.Name }

func (n *NamedType) String() string {
	switch {
	case n.Unbound:
		return n.Name + "<" + strings.Repeat(",", len(n.Definition.TypeParams)-1) + ">"
	case len(n.TypeArgs) > 0:
		args := make([]string, len(n.TypeArgs))
		for i, a := range n.TypeArgs {
			args[i] = typeString(a)
		}
		return n.Name + "<" + strings.Join(args, ", ") + ">"
	case len(n.TypeParams) > 0:
		params := make([]string, len(n.TypeParams))
		for i, p := range n.TypeParams {
			params[i] = p.Name
		}
		return n.Name + "<" + strings.Join(params, ", ") + ">"
	}
	return n.Name
}

func typeString(t Type) string {
	if t == nil {
		return "<null>"
	}
	return t.String()
}

// OriginalDefinition returns the generic definition or n itself
func (n *NamedType) OriginalDefinition() *NamedType {
	if n.Definition != nil {
		return n.Definition
	}
	return n
}

// IsGenericDefinition reports an unconstructed generic type
func (n *NamedType) IsGenericDefinition() bool {
	return len(n.TypeParams) > 0 && n.Definition == nil
}

// IsEnum reports an enum type
func (n *NamedType) IsEnum() bool { return n.Kind == KindEnum }

// IsValueType reports structs and enums
func (n *NamedType) IsValueType() bool {
	return n.Kind == KindStruct || n.Kind == KindEnum
}

// ContainsTypeParameter reports whether t mentions a type parameter
// anywhere in its structure
func ContainsTypeParameter(t Type) bool {
	switch t := t.(type) {
	case *TypeParam:
		return true
	case *ArrayType:
		return ContainsTypeParameter(t.Elem)
	case *NamedType:
		for _, a := range t.TypeArgs {
			if ContainsTypeParameter(a) {
				return true
			}
		}
		if t.IsGenericDefinition() {
			return true
		}
	}
	return false
}

// IsUnboundGeneric reports an unbound generic type such as List<>
func IsUnboundGeneric(t Type) bool {
	n, ok := t.(*NamedType)
	return ok && n.Unbound
}

// IsErrorType reports an error placeholder
func IsErrorType(t Type) bool {
	_, ok := t.(*ErrorType)
	return ok
}

// IsReferenceType reports classes, interfaces, arrays, string and object
func IsReferenceType(t Type) bool {
	switch t := t.(type) {
	case *ArrayType:
		return true
	case *NamedType:
		return t.Kind == KindClass || t.Kind == KindInterface
	}
	return false
}

// IsObject reports System.Object
func IsObject(t Type) bool {
	return SpecialOf(t) == SpecialObject
}

// SpecialOf returns the special tag of a named type, SpecialNone otherwise
func SpecialOf(t Type) SpecialType {
	if n, ok := t.(*NamedType); ok {
		return n.Special
	}
	return SpecialNone
}

// EnumUnderlying returns the underlying type of an enum, or t itself
func EnumUnderlying(t Type) Type {
	if n, ok := t.(*NamedType); ok && n.IsEnum() && n.EnumUnderlying != nil {
		return n.EnumUnderlying
	}
	return t
}

// Identical reports structural type identity
func Identical(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case *NamedType:
		b, ok := b.(*NamedType)
		if !ok {
			return false
		}
		if a == b {
			return true
		}
		if a.OriginalDefinition() != b.OriginalDefinition() || a.Unbound != b.Unbound {
			return false
		}
		if len(a.TypeArgs) != len(b.TypeArgs) {
			return false
		}
		for i := range a.TypeArgs {
			if !Identical(a.TypeArgs[i], b.TypeArgs[i]) {
				return false
			}
		}
		return true
	case *ArrayType:
		b, ok := b.(*ArrayType)
		return ok && a.Rank == b.Rank && Identical(a.Elem, b.Elem)
	case *TypeParam:
		return a == b
	case *ErrorType:
		b, ok := b.(*ErrorType)
		return ok && a.Name == b.Name
	}
	return false
}

// DerivesFrom reports whether n is base or inherits from it
func DerivesFrom(n, base *NamedType) bool {
	for t := n; t != nil; t = t.Base {
		if Identical(t, base) {
			return true
		}
	}
	return false
}

// IsAttributeClass reports whether t inherits from the attribute root
func IsAttributeClass(t Type) bool {
	n, ok := t.(*NamedType)
	if !ok || n.Kind != KindClass {
		return false
	}
	for b := n; b != nil; b = b.Base {
		if b.Special == SpecialAttribute {
			return true
		}
	}
	return false
}

// IsConditional reports whether the type or any ancestor declares
// conditional symbols
func IsConditional(n *NamedType) bool {
	for t := n; t != nil; t = t.Base {
		if len(t.ConditionalSymbols) > 0 {
			return true
		}
	}
	return false
}

// Substitute replaces type parameters of params with args throughout t
func Substitute(t Type, params []*TypeParam, args []Type) Type {
	switch t := t.(type) {
	case *TypeParam:
		for i, p := range params {
			if p == t && i < len(args) {
				return args[i]
			}
		}
		return t
	case *ArrayType:
		elem := Substitute(t.Elem, params, args)
		if elem == t.Elem {
			return t
		}
		return NewArray(elem, t.Rank)
	case *NamedType:
		if len(t.TypeArgs) == 0 {
			return t
		}
		changed := false
		newArgs := make([]Type, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			newArgs[i] = Substitute(a, params, args)
			changed = changed || newArgs[i] != a
		}
		if !changed {
			return t
		}
		return Construct(t.OriginalDefinition(), newArgs)
	}
	return t
}

// Construct instantiates a generic definition with type arguments.
// Member types are substituted; members keep their identity otherwise.
func Construct(def *NamedType, args []Type) *NamedType {
	c := &NamedType{
		Name:               def.Name,
		Kind:               def.Kind,
		Special:            def.Special,
		Base:               def.Base,
		Access:             def.Access,
		Abstract:           def.Abstract,
		TypeArgs:           args,
		Definition:         def,
		EnumUnderlying:     def.EnumUnderlying,
		ConditionalSymbols: def.ConditionalSymbols,
		Obsolete:           def.Obsolete,
		ObsoleteMessage:    def.ObsoleteMessage,
	}
	sub := func(t Type) Type { return Substitute(t, def.TypeParams, args) }
	for _, f := range def.Fields {
		cf := *f
		cf.Type = sub(f.Type)
		c.Fields = append(c.Fields, &cf)
	}
	for _, p := range def.Properties {
		cp := *p
		cp.Type = sub(p.Type)
		c.Properties = append(c.Properties, &cp)
	}
	for _, m := range def.Constructors {
		cm := *m
		cm.Owner = c
		cm.Params = make([]*Parameter, len(m.Params))
		for i, p := range m.Params {
			cp := *p
			cp.Type = sub(p.Type)
			cm.Params[i] = &cp
		}
		c.Constructors = append(c.Constructors, &cm)
	}
	return c
}

// ConstructUnbound returns the unbound form of a generic definition (List<>)
func ConstructUnbound(def *NamedType) *NamedType {
	return &NamedType{
		Name:       def.Name,
		Kind:       def.Kind,
		Base:       def.Base,
		Access:     def.Access,
		Abstract:   def.Abstract,
		Unbound:    true,
		Definition: def,
	}
}
