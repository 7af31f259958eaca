package symbols

import (
	"fmt"
	"strings"
)

// Member is a field, property or method of a named type
type Member interface {
	MemberName() string
	MemberType() Type
}

// Field is a field or enum member. Enum members are Const fields whose
// ConstValue holds the underlying value.
type Field struct {
	Name       string
	Type       Type
	Access     Accessibility
	Static     bool
	ReadOnly   bool
	Const      bool
	ConstValue interface{}
}

// Accessor is a property getter or setter
type Accessor struct {
	Access Accessibility
}

// Property with optional accessors
type Property struct {
	Name   string
	Type   Type
	Static bool
	Getter *Accessor
	Setter *Accessor
}

// RefKind is a parameter passing mode
type RefKind int

const (
	RefNone RefKind = iota
	RefRef
	RefOut
	RefIn
)

func (k RefKind) String() string {
	switch k {
	case RefRef:
		return "ref"
	case RefOut:
		return "out"
	case RefIn:
		return "in"
	}
	return ""
}

// CallerInfo marks a contextual parameter
type CallerInfo int

const (
	CallerNone CallerInfo = iota
	CallerLineNumber
	CallerFilePath
	CallerMemberName
	CallerArgumentExpression
)

func (c CallerInfo) String() string {
	switch c {
	case CallerLineNumber:
		return "line"
	case CallerFilePath:
		return "file_path"
	case CallerMemberName:
		return "member_name"
	case CallerArgumentExpression:
		return "argument_expression"
	}
	return ""
}

// DefaultValue is an explicitly declared parameter default.
// Value uses the constant value representation; nil is null.
type DefaultValue struct {
	Value interface{}
	Bad   bool
}

// Parameter of a constructor
type Parameter struct {
	Name     string
	Ordinal  int
	Type     Type
	RefKind  RefKind
	Variadic bool // params T[]
	Optional bool
	Default  *DefaultValue // nil when optional without an explicit value

	CallerInfo CallerInfo
	// CallerArgumentParam is the ordinal of the parameter whose argument
	// text is captured, -1 when unset
	CallerArgumentParam int
}

// IsVariadicArray reports a params parameter of single-dimensional array type
func (p *Parameter) IsVariadicArray() bool {
	if !p.Variadic {
		return false
	}
	arr, ok := p.Type.(*ArrayType)
	return ok && arr.IsSZArray()
}

// Method is a constructor
type Method struct {
	Name            string
	Owner           *NamedType
	Params          []*Parameter
	Access          Accessibility
	Obsolete        bool
	ObsoleteMessage string
}

func (f *Field) MemberName() string    { return f.Name }
func (f *Field) MemberType() Type      { return f.Type }
func (p *Property) MemberName() string { return p.Name }
func (p *Property) MemberType() Type   { return p.Type }
func (m *Method) MemberName() string   { return m.Name }
func (m *Method) MemberType() Type     { return m.Owner }

// String renders Owner(Type name, ...)
func (m *Method) String() string {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		var b strings.Builder
		if p.RefKind != RefNone {
			b.WriteString(p.RefKind.String() + " ")
		}
		if p.Variadic {
			b.WriteString("params ")
		}
		fmt.Fprintf(&b, "%s %s", typeString(p.Type), p.Name)
		params[i] = b.String()
	}
	owner := "?"
	if m.Owner != nil {
		owner = m.Owner.String()
	}
	return owner + "(" + strings.Join(params, ", ") + ")"
}

// ParamByName finds a parameter by ordinal name comparison
func (m *Method) ParamByName(name string) *Parameter {
	for _, p := range m.Params {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// LookupMember finds a field or property by name on n or its ancestors
func (n *NamedType) LookupMember(name string) Member {
	for t := n; t != nil; t = t.Base {
		for _, f := range t.Fields {
			if f.Name == name {
				return f
			}
		}
		for _, p := range t.Properties {
			if p.Name == name {
				return p
			}
		}
	}
	return nil
}

// LookupField finds a field by name on n or its ancestors
func (n *NamedType) LookupField(name string) *Field {
	if f, ok := n.LookupMember(name).(*Field); ok {
		return f
	}
	return nil
}
