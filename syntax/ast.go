package syntax

import "strings"

// File is the result of parsing one tree
type File struct {
	Tree       *Tree
	Attributes []*Attribute // source order
	Members    []*Member
}

// Member is a declaration that attribute sections are attached to
type Member struct {
	Name       string
	TypeParams []string
	Span       Span
}

// CallerName is the name substituted for caller-member-name parameters.
// Accessors report their property, constructors keep their metadata name.
func (m *Member) CallerName() string {
	if m == nil {
		return ""
	}
	for _, prefix := range []string{"get_", "set_", "add_", "remove_"} {
		if strings.HasPrefix(m.Name, prefix) && len(m.Name) > len(prefix) {
			return m.Name[len(prefix):]
		}
	}
	return m.Name
}

// Attribute is one attribute application
type Attribute struct {
	Tree   *Tree
	Target string // "return", "assembly", ... or empty
	Name   *TypeName
	Args   *ArgumentList // nil when written without parentheses
	Member *Member       // nil when no declaration follows
	Span   Span
}

// NameSpan is the span of the attribute name
func (a *Attribute) NameSpan() Span {
	return a.Name.Span
}

// String returns the attribute as written
func (a *Attribute) String() string {
	if a.Tree == nil {
		return a.Name.String()
	}
	return a.Tree.Text(a.Span)
}

// ArgumentList is a parenthesized argument list
type ArgumentList struct {
	Args []*Argument
	Span Span
}

// RefKind is an argument passing modifier
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
	default:
		return ""
	}
}

// Argument is one attribute argument.
// NameEquals targets a field or property (Name = expr);
// NameColon names a constructor parameter (name: expr).
type Argument struct {
	NameEquals *Ident
	NameColon  *Ident
	RefKind    RefKind
	RefSpan    Span
	Expr       Expr
	Span       Span
}

// Expr is an expression node
type Expr interface {
	Span() Span
	exprNode()
}

// LitKind classifies literals
type LitKind int

const (
	LitInt LitKind = iota
	LitReal
	LitString
	LitChar
	LitBool
	LitNull
)

// Literal is a literal token, with a folded leading minus for numbers
type Literal struct {
	Kind     LitKind
	Raw      string
	Int      uint64 // magnitude for LitInt
	Real     float64
	Negative bool
	Suffix   string // lower-cased numeric suffix
	Text     string // decoded value for LitString and LitChar
	Bool     bool
	Pos      Span
}

// Ident is a simple name
type Ident struct {
	Name string
	Pos  Span
}

// MemberAccess is X.Sel
type MemberAccess struct {
	X   Expr
	Sel *Ident
}

// TypeOf is typeof(Type)
type TypeOf struct {
	Type *TypeName
	Pos  Span
}

// ArrayCreation is new T[bounds]{init}. Type includes every rank specifier.
// Bounds holds the sizes written in the first specifier (nil for [] or [,]).
type ArrayCreation struct {
	Type   *TypeName
	Bounds []Expr
	Init   *ArrayInit // nil without initializer
	Pos    Span
}

// ArrayInit is a brace-enclosed initializer
type ArrayInit struct {
	Elems []Expr
	Pos   Span
}

// Cast is (Type)X
type Cast struct {
	Type *TypeName
	X    Expr
	Pos  Span
}

// Invocation is Fun(args)
type Invocation struct {
	Fun  Expr
	Args []Expr
	Pos  Span
}

// Unary is a prefix operator applied to a non-literal operand
type Unary struct {
	Op  string
	X   Expr
	Pos Span
}

// Binary is X Op Y for |, &, + and -
type Binary struct {
	Op   string
	X, Y Expr
}

func (e *Literal) Span() Span       { return e.Pos }
func (e *Ident) Span() Span         { return e.Pos }
func (e *MemberAccess) Span() Span  { return e.X.Span().Cover(e.Sel.Pos) }
func (e *TypeOf) Span() Span        { return e.Pos }
func (e *ArrayCreation) Span() Span { return e.Pos }
func (e *ArrayInit) Span() Span     { return e.Pos }
func (e *Cast) Span() Span          { return e.Pos }
func (e *Invocation) Span() Span    { return e.Pos }
func (e *Unary) Span() Span         { return e.Pos }
func (e *Binary) Span() Span        { return e.X.Span().Cover(e.Y.Span()) }

func (*Literal) exprNode()       {}
func (*Ident) exprNode()         {}
func (*MemberAccess) exprNode()  {}
func (*TypeOf) exprNode()        {}
func (*ArrayCreation) exprNode() {}
func (*ArrayInit) exprNode()     {}
func (*Cast) exprNode()          {}
func (*Invocation) exprNode()    {}
func (*Unary) exprNode()         {}
func (*Binary) exprNode()        {}

// DottedName flattens an Ident/MemberAccess chain ("A.B.C").
// ok is false for any other shape.
func DottedName(e Expr) (name string, ok bool) {
	switch e := e.(type) {
	case *Ident:
		return e.Name, true
	case *MemberAccess:
		prefix, ok := DottedName(e.X)
		if !ok {
			return "", false
		}
		return prefix + "." + e.Sel.Name, true
	default:
		return "", false
	}
}

// TypeName is a written type: qualified parts with type arguments,
// followed by array rank specifiers (outermost first).
type TypeName struct {
	Parts []NamePart
	Ranks []int
	Span  Span
}

// NamePart is one dotted segment of a type name
type NamePart struct {
	Name    string
	Args    []*TypeName
	Unbound int // arity of an omitted argument list: List<> is 1, Dictionary<,> is 2
}

// Arity returns the number of type arguments, written or omitted
func (p NamePart) Arity() int {
	if p.Unbound > 0 {
		return p.Unbound
	}
	return len(p.Args)
}

// Qualified returns the dotted name without type arguments or ranks
func (t *TypeName) Qualified() string {
	names := make([]string, len(t.Parts))
	for i, p := range t.Parts {
		names[i] = p.Name
	}
	return strings.Join(names, ".")
}

// Last returns the final name segment
func (t *TypeName) Last() NamePart {
	return t.Parts[len(t.Parts)-1]
}

// String renders the type name in source form
func (t *TypeName) String() string {
	var b strings.Builder
	for i, p := range t.Parts {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(p.Name)
		switch {
		case p.Unbound > 0:
			b.WriteByte('<')
			b.WriteString(strings.Repeat(",", p.Unbound-1))
			b.WriteByte('>')
		case len(p.Args) > 0:
			b.WriteByte('<')
			for j, a := range p.Args {
				if j > 0 {
					b.WriteString(", ")
				}
				b.WriteString(a.String())
			}
			b.WriteByte('>')
		}
	}
	for _, r := range t.Ranks {
		b.WriteByte('[')
		b.WriteString(strings.Repeat(",", r-1))
		b.WriteByte(']')
	}
	return b.String()
}
