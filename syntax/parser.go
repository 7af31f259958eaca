package syntax

// bailout unwinds to the nearest recovery point after an error is recorded
type bailout struct{}

type parser struct {
	tree *Tree
	toks []token
	pos  int
	errs ErrorList
}

// Parse parses every attribute section and member declaration in tree.
// Parsing continues past errors; the returned file holds everything that
// parsed and the error, if non-nil, is an ErrorList.
func Parse(tree *Tree) (*File, error) {
	toks, lexErrs := tokenize(tree)
	p := &parser{tree: tree, toks: toks, errs: lexErrs}
	file := p.file()
	return file, p.errs.Err()
}

// ParseString is Parse on a tree built from source
func ParseString(path, source string, symbols ...string) (*File, error) {
	return Parse(NewTree(path, source, symbols...))
}

func (p *parser) tok() token { return p.toks[p.pos] }

func (p *parser) peek(n int) token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) prev() token {
	if p.pos == 0 {
		return p.toks[0]
	}
	return p.toks[p.pos-1]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isPunct(text string) bool {
	t := p.tok()
	return t.kind == tokPunct && t.text == text
}

func (p *parser) peekPunct(n int, text string) bool {
	t := p.peek(n)
	return t.kind == tokPunct && t.text == text
}

func (p *parser) isKeyword(t token, kw string) bool {
	return t.kind == tokIdent && t.text == kw
}

func (p *parser) errorf(span Span, format string, args ...interface{}) {
	p.errs = append(p.errs, newError(p.tree, span, format, args...))
}

func (p *parser) fail(span Span, format string, args ...interface{}) {
	p.errorf(span, format, args...)
	panic(bailout{})
}

func describe(t token) string {
	if t.kind == tokEOF {
		return "end of file"
	}
	return "'" + t.text + "'"
}

func (p *parser) expect(text string) token {
	if !p.isPunct(text) {
		t := p.tok()
		p.fail(t.span, "expected '%s', found %s", text, describe(t))
	}
	return p.next()
}

func (p *parser) expectIdent() *Ident {
	t := p.tok()
	if t.kind != tokIdent {
		p.fail(t.span, "expected identifier, found %s", describe(t))
	}
	p.next()
	return &Ident{Name: t.str, Pos: t.span}
}

// recover turns a bailout into a skip to the closing bracket of the
// current section so the next section still parses
func (p *parser) recoverSection() {
	r := recover()
	if r == nil {
		return
	}
	if _, ok := r.(bailout); !ok {
		panic(r)
	}
	depth := 0
	for p.tok().kind != tokEOF {
		t := p.next()
		if t.kind != tokPunct {
			continue
		}
		switch t.text {
		case "[":
			depth++
		case "]":
			if depth == 0 {
				return
			}
			depth--
		}
	}
}

func (p *parser) file() *File {
	file := &File{Tree: p.tree}
	var pending []*Attribute

	for p.tok().kind != tokEOF {
		t := p.tok()
		switch {
		case t.kind == tokDirective:
			p.next()
			if t.text == "define" {
				p.tree.Define(t.str)
			} else {
				p.tree.Undefine(t.str)
			}
		case p.isPunct("["):
			attrs := p.section()
			pending = append(pending, attrs...)
			file.Attributes = append(file.Attributes, attrs...)
		case p.isPunct(";"):
			p.next()
		case t.kind == tokIdent || p.isPunct("."):
			if m := p.member(); m != nil {
				for _, a := range pending {
					a.Member = m
				}
				pending = nil
				file.Members = append(file.Members, m)
			}
		default:
			p.errorf(t.span, "unexpected %s", describe(t))
			p.next()
		}
	}
	return file
}

func (p *parser) section() (attrs []*Attribute) {
	defer p.recoverSection()

	open := p.expect("[")
	target := ""
	if p.tok().kind == tokIdent && p.peekPunct(1, ":") {
		target = p.next().str
		p.next()
	}

	for !p.isPunct("]") {
		attrs = append(attrs, p.attribute(target))
		if !p.isPunct(",") {
			break
		}
		p.next()
	}
	closing := p.expect("]")
	if len(attrs) == 0 {
		p.errorf(Span{open.span.Start, closing.span.End}, "attribute section is empty")
	}
	return attrs
}

func (p *parser) attribute(target string) *Attribute {
	name := p.typeName(false)
	a := &Attribute{Tree: p.tree, Target: target, Name: name, Span: name.Span}
	if p.isPunct("(") {
		a.Args = p.argumentList()
		a.Span = a.Span.Cover(a.Args.Span)
	}
	return a
}

func (p *parser) argumentList() *ArgumentList {
	open := p.expect("(")
	list := &ArgumentList{}
	if !p.isPunct(")") {
		for {
			list.Args = append(list.Args, p.argument())
			if !p.isPunct(",") {
				break
			}
			p.next()
		}
	}
	closing := p.expect(")")
	list.Span = Span{open.span.Start, closing.span.End}
	return list
}

func (p *parser) argument() *Argument {
	start := p.tok().span.Start
	arg := &Argument{}

	if p.tok().kind == tokIdent && p.peekPunct(1, "=") {
		arg.NameEquals = p.expectIdent()
		p.next()
	} else if p.tok().kind == tokIdent && p.peekPunct(1, ":") {
		arg.NameColon = p.expectIdent()
		p.next()
	}

	if t := p.tok(); t.kind == tokIdent && !p.peekPunct(1, ",") && !p.peekPunct(1, ")") {
		switch t.text {
		case "ref":
			arg.RefKind = RefRef
		case "out":
			arg.RefKind = RefOut
		case "in":
			arg.RefKind = RefIn
		}
		if arg.RefKind != RefNone {
			arg.RefSpan = t.span
			p.next()
		}
	}

	arg.Expr = p.expr()
	arg.Span = Span{start, arg.Expr.Span().End}
	return arg
}

var precedence = map[string]int{"|": 1, "&": 2, "+": 3, "-": 3}

func (p *parser) expr() Expr {
	return p.binary(1)
}

func (p *parser) binary(minPrec int) Expr {
	x := p.unary()
	for {
		t := p.tok()
		prec := 0
		if t.kind == tokPunct {
			prec = precedence[t.text]
		}
		if prec == 0 || prec < minPrec {
			return x
		}
		p.next()
		y := p.binary(prec + 1)
		x = &Binary{Op: t.text, X: x, Y: y}
	}
}

func (p *parser) unary() Expr {
	if !p.isPunct("-") {
		return p.primary()
	}
	minus := p.next()
	if t := p.tok(); t.kind == tokInt || t.kind == tokReal {
		lit := p.literal()
		lit.Negative = true
		lit.Pos.Start = minus.span.Start
		lit.Raw = p.tree.Text(lit.Pos)
		return lit
	}
	x := p.unary()
	return &Unary{Op: "-", X: x, Pos: Span{minus.span.Start, x.Span().End}}
}

func (p *parser) literal() *Literal {
	t := p.next()
	lit := &Literal{Raw: t.text, Pos: t.span, Suffix: t.suffix}
	switch t.kind {
	case tokInt:
		lit.Kind = LitInt
		lit.Int = t.num
	case tokReal:
		lit.Kind = LitReal
		lit.Real = t.real
	case tokString:
		lit.Kind = LitString
		lit.Text = t.str
	case tokChar:
		lit.Kind = LitChar
		lit.Text = t.str
	default:
		p.fail(t.span, "expected literal, found %s", describe(t))
	}
	return lit
}

func (p *parser) primary() Expr {
	t := p.tok()
	switch t.kind {
	case tokInt, tokReal, tokString, tokChar:
		return p.literal()

	case tokIdent:
		switch t.text {
		case "true", "false":
			p.next()
			return &Literal{Kind: LitBool, Raw: t.text, Bool: t.text == "true", Pos: t.span}
		case "null":
			p.next()
			return &Literal{Kind: LitNull, Raw: t.text, Pos: t.span}
		case "typeof":
			return p.typeOf()
		case "new":
			return p.arrayCreation()
		}

		var x Expr = p.expectIdent()
		for p.isPunct(".") {
			p.next()
			x = &MemberAccess{X: x, Sel: p.expectIdent()}
		}
		if p.isPunct("(") {
			args, span := p.callArgs()
			x = &Invocation{Fun: x, Args: args, Pos: Span{x.Span().Start, span.End}}
		}
		return x

	case tokPunct:
		if t.text == "(" {
			return p.parenOrCast()
		}
	}

	p.fail(t.span, "expected expression, found %s", describe(t))
	return nil
}

func (p *parser) callArgs() ([]Expr, Span) {
	open := p.expect("(")
	var args []Expr
	if !p.isPunct(")") {
		for {
			args = append(args, p.expr())
			if !p.isPunct(",") {
				break
			}
			p.next()
		}
	}
	closing := p.expect(")")
	return args, Span{open.span.Start, closing.span.End}
}

func (p *parser) typeOf() Expr {
	kw := p.next()
	p.expect("(")
	tn := p.typeName(true)
	closing := p.expect(")")
	return &TypeOf{Type: tn, Pos: Span{kw.span.Start, closing.span.End}}
}

func (p *parser) arrayCreation() Expr {
	kw := p.next()
	tn := p.typeName(false)
	if !p.isPunct("[") {
		p.fail(p.tok().span, "only array creation expressions are supported after 'new'")
	}

	expr := &ArrayCreation{Type: tn}

	// First specifier: either sizes or a bare rank
	p.next()
	if p.isPunct("]") || p.isPunct(",") {
		rank := 1
		for p.isPunct(",") {
			p.next()
			rank++
		}
		tn.Ranks = append(tn.Ranks, rank)
	} else {
		for {
			expr.Bounds = append(expr.Bounds, p.expr())
			if !p.isPunct(",") {
				break
			}
			p.next()
		}
		tn.Ranks = append(tn.Ranks, len(expr.Bounds))
	}
	end := p.expect("]").span.End

	for p.isPunct("[") {
		p.next()
		rank := 1
		for p.isPunct(",") {
			p.next()
			rank++
		}
		end = p.expect("]").span.End
		tn.Ranks = append(tn.Ranks, rank)
	}
	tn.Span.End = end

	if p.isPunct("{") {
		expr.Init = p.arrayInit()
		end = expr.Init.Pos.End
	}
	expr.Pos = Span{kw.span.Start, end}
	return expr
}

func (p *parser) arrayInit() *ArrayInit {
	open := p.expect("{")
	init := &ArrayInit{}
	for !p.isPunct("}") {
		if p.isPunct("{") {
			init.Elems = append(init.Elems, p.arrayInit())
		} else {
			init.Elems = append(init.Elems, p.expr())
		}
		if !p.isPunct(",") {
			break
		}
		p.next()
	}
	closing := p.expect("}")
	init.Pos = Span{open.span.Start, closing.span.End}
	return init
}

// predefinedTypes are the keyword types; a cast to one of these may be
// followed by a unary minus
var predefinedTypes = map[string]bool{
	"bool": true, "byte": true, "sbyte": true, "char": true, "short": true, "ushort": true,
	"int": true, "uint": true, "long": true, "ulong": true, "float": true, "double": true,
	"string": true, "object": true,
}

func (p *parser) parenOrCast() Expr {
	open := p.next()
	save, saveErrs := p.pos, len(p.errs)

	if tn, ok := p.tryTypeName(); ok && p.isPunct(")") && p.castFollows(p.peek(1), tn) {
		p.next()
		x := p.unary()
		return &Cast{Type: tn, X: x, Pos: Span{open.span.Start, x.Span().End}}
	}

	p.pos, p.errs = save, p.errs[:saveErrs]
	x := p.expr()
	p.expect(")")
	return x
}

func (p *parser) tryTypeName() (tn *TypeName, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isBail := r.(bailout); !isBail {
				panic(r)
			}
			tn, ok = nil, false
		}
	}()
	return p.typeName(true), true
}

func (p *parser) castFollows(t token, tn *TypeName) bool {
	switch t.kind {
	case tokInt, tokReal, tokString, tokChar, tokIdent:
		return true
	case tokPunct:
		switch t.text {
		case "(":
			return true
		case "-":
			return len(tn.Parts) == 1 && len(tn.Ranks) == 0 && predefinedTypes[tn.Parts[0].Name]
		}
	}
	return false
}

func (p *parser) typeName(allowRanks bool) *TypeName {
	start := p.tok().span.Start
	tn := &TypeName{}

	for {
		id := p.expectIdent()
		part := NamePart{Name: id.Name}
		if p.isPunct("<") {
			p.next()
			if p.isPunct(">") || p.isPunct(",") {
				part.Unbound = 1
				for p.isPunct(",") {
					p.next()
					part.Unbound++
				}
			} else {
				for {
					part.Args = append(part.Args, p.typeName(true))
					if !p.isPunct(",") {
						break
					}
					p.next()
				}
			}
			p.expect(">")
		}
		tn.Parts = append(tn.Parts, part)

		if p.isPunct(".") && p.peek(1).kind == tokIdent {
			p.next()
			continue
		}
		break
	}

	end := p.prev().span.End
	if allowRanks {
		for p.isPunct("[") && (p.peekPunct(1, "]") || p.peekPunct(1, ",")) {
			p.next()
			rank := 1
			for p.isPunct(",") {
				p.next()
				rank++
			}
			end = p.expect("]").span.End
			tn.Ranks = append(tn.Ranks, rank)
		}
	}
	tn.Span = Span{start, end}
	return tn
}

// member parses "Name", "Name<T, U>", ".ctor" with an optional
// parenthesized parameter list that is skipped
func (p *parser) member() (m *Member) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			m = nil
			for p.tok().kind != tokEOF && !p.isPunct("[") && p.tok().kind != tokDirective {
				p.next()
			}
		}
	}()

	start := p.tok().span.Start
	m = &Member{}
	if p.isPunct(".") {
		p.next()
		m.Name = "." + p.expectIdent().Name
	} else {
		m.Name = p.expectIdent().Name
	}

	if p.isPunct("<") {
		p.next()
		for {
			m.TypeParams = append(m.TypeParams, p.expectIdent().Name)
			if !p.isPunct(",") {
				break
			}
			p.next()
		}
		p.expect(">")
	}

	if p.isPunct("(") {
		depth := 0
		for p.tok().kind != tokEOF {
			t := p.next()
			if t.kind != tokPunct {
				continue
			}
			if t.text == "(" {
				depth++
			} else if t.text == ")" {
				depth--
				if depth == 0 {
					break
				}
			}
		}
	}

	m.Span = Span{start, p.prev().span.End}
	return m
}

// ParseTypeName parses a standalone type such as "int[]" or "List<string>"
func ParseTypeName(text string) (*TypeName, error) {
	tree := NewTree("", text)
	toks, lexErrs := tokenize(tree)
	p := &parser{tree: tree, toks: toks, errs: lexErrs}

	var tn *TypeName
	func() {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(bailout); !ok {
					panic(r)
				}
			}
		}()
		tn = p.typeName(true)
		if t := p.tok(); t.kind != tokEOF {
			p.errorf(t.span, "unexpected %s after type", describe(t))
		}
	}()
	if err := p.errs.Err(); err != nil {
		return nil, err
	}
	return tn, nil
}
