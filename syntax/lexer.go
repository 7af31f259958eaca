package syntax

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokReal
	tokString
	tokChar
	tokPunct
	tokDirective
)

type token struct {
	kind tokenKind
	text string // raw source text; punctuation itself for tokPunct
	span Span

	// decoded payloads
	str    string // string/char value, directive argument
	num    uint64
	real   float64
	suffix string
}

// lexer splits source into tokens, collecting errors instead of stopping
type lexer struct {
	src    string
	pos    int
	tokens []token
	errs   ErrorList
	tree   *Tree
}

func tokenize(tree *Tree) ([]token, ErrorList) {
	lx := &lexer{src: tree.Source, tree: tree}
	lx.run()
	return lx.tokens, lx.errs
}

func (lx *lexer) errorf(offset int, format string, args ...interface{}) {
	lx.errs = append(lx.errs, newError(lx.tree, Span{offset, offset + 1}, format, args...))
}

func (lx *lexer) emit(kind tokenKind, start int) *token {
	lx.tokens = append(lx.tokens, token{kind: kind, text: lx.src[start:lx.pos], span: Span{start, lx.pos}})
	return &lx.tokens[len(lx.tokens)-1]
}

func (lx *lexer) peekByte(off int) byte {
	if lx.pos+off < len(lx.src) {
		return lx.src[lx.pos+off]
	}
	return 0
}

func (lx *lexer) atLineStart(offset int) bool {
	for i := offset - 1; i >= 0; i-- {
		switch lx.src[i] {
		case ' ', '\t', '\r':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

func (lx *lexer) run() {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			lx.pos++
		case c == '/' && lx.peekByte(1) == '/':
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.pos++
			}
		case c == '/' && lx.peekByte(1) == '*':
			start := lx.pos
			end := strings.Index(lx.src[lx.pos+2:], "*/")
			if end < 0 {
				lx.errorf(start, "unterminated comment")
				lx.pos = len(lx.src)
			} else {
				lx.pos += end + 4
			}
		case c == '#' && lx.atLineStart(lx.pos):
			lx.directive()
		case c == '@' && lx.peekByte(1) == '"':
			lx.verbatimString()
		case c == '@' && isIdentStart(rune(lx.peekByte(1))):
			lx.pos++
			lx.ident()
		case c == '"':
			lx.quoted('"', tokString)
		case c == '\'':
			lx.quoted('\'', tokChar)
		case c >= '0' && c <= '9', c == '.' && lx.peekByte(1) >= '0' && lx.peekByte(1) <= '9':
			lx.number()
		case strings.IndexByte("[](){},:=.<>-|&+;", c) >= 0:
			start := lx.pos
			lx.pos++
			lx.emit(tokPunct, start)
		default:
			r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
			if isIdentStart(r) {
				lx.ident()
				continue
			}
			lx.errorf(lx.pos, "unexpected character %q", r)
			lx.pos += size
		}
	}
	lx.tokens = append(lx.tokens, token{kind: tokEOF, span: Span{len(lx.src), len(lx.src)}})
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (lx *lexer) ident() {
	start := lx.pos
	for lx.pos < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if !isIdentPart(r) {
			break
		}
		lx.pos += size
	}
	tok := lx.emit(tokIdent, start)
	tok.str = strings.TrimPrefix(tok.text, "@")
}

// directive lexes "#define NAME" / "#undef NAME" to the end of the line
func (lx *lexer) directive() {
	start := lx.pos
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
		lx.pos++
	}
	line := strings.TrimSpace(lx.src[start+1 : lx.pos])
	if i := strings.Index(line, "//"); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	fields := strings.Fields(line)
	if len(fields) != 2 || (fields[0] != "define" && fields[0] != "undef") {
		lx.errorf(start, "unsupported preprocessor directive %q", "#"+line)
		return
	}
	tok := lx.emit(tokDirective, start)
	tok.text = fields[0]
	tok.str = fields[1]
}

func (lx *lexer) quoted(quote byte, kind tokenKind) {
	start := lx.pos
	lx.pos++
	var b strings.Builder
	for {
		if lx.pos >= len(lx.src) || lx.src[lx.pos] == '\n' {
			lx.errorf(start, "unterminated literal")
			break
		}
		c := lx.src[lx.pos]
		if c == quote {
			lx.pos++
			break
		}
		if c != '\\' {
			r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
			b.WriteRune(r)
			lx.pos += size
			continue
		}
		lx.pos++
		if lx.pos >= len(lx.src) {
			continue
		}
		esc := lx.src[lx.pos]
		lx.pos++
		switch esc {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\\', '\'', '"':
			b.WriteByte(esc)
		case 'u':
			if lx.pos+4 > len(lx.src) {
				lx.errorf(lx.pos-2, "invalid unicode escape")
				continue
			}
			v, err := strconv.ParseUint(lx.src[lx.pos:lx.pos+4], 16, 16)
			if err != nil {
				lx.errorf(lx.pos-2, "invalid unicode escape")
			}
			b.WriteRune(rune(v))
			lx.pos += 4
		default:
			lx.errorf(lx.pos-2, "unrecognized escape sequence \\%c", esc)
		}
	}
	tok := lx.emit(kind, start)
	tok.str = b.String()
	if kind == tokChar && utf8.RuneCountInString(tok.str) != 1 {
		lx.errorf(start, "character literal must contain exactly one character")
	}
}

func (lx *lexer) verbatimString() {
	start := lx.pos
	lx.pos += 2
	var b strings.Builder
	for {
		if lx.pos >= len(lx.src) {
			lx.errorf(start, "unterminated literal")
			break
		}
		c := lx.src[lx.pos]
		if c == '"' {
			if lx.peekByte(1) == '"' {
				b.WriteByte('"')
				lx.pos += 2
				continue
			}
			lx.pos++
			break
		}
		b.WriteByte(c)
		lx.pos++
	}
	tok := lx.emit(tokString, start)
	tok.str = b.String()
}

func (lx *lexer) number() {
	start := lx.pos
	isReal := false

	if lx.src[lx.pos] == '0' && (lx.peekByte(1) == 'x' || lx.peekByte(1) == 'X') {
		lx.pos += 2
		for lx.pos < len(lx.src) && isHexDigit(lx.src[lx.pos]) {
			lx.pos++
		}
		digits := strings.ReplaceAll(lx.src[start+2:lx.pos], "_", "")
		suffix := lx.numberSuffix()
		tok := lx.emit(tokInt, start)
		tok.suffix = suffix
		v, err := strconv.ParseUint(digits, 16, 64)
		if err != nil {
			lx.errorf(start, "integral constant is too large")
		}
		tok.num = v
		return
	}

	lx.digits()
	if lx.peekByte(0) == '.' && lx.peekByte(1) >= '0' && lx.peekByte(1) <= '9' {
		isReal = true
		lx.pos++
		lx.digits()
	}
	if c := lx.peekByte(0); c == 'e' || c == 'E' {
		isReal = true
		lx.pos++
		if c := lx.peekByte(0); c == '+' || c == '-' {
			lx.pos++
		}
		lx.digits()
	}
	body := strings.ReplaceAll(lx.src[start:lx.pos], "_", "")
	suffix := lx.numberSuffix()
	if suffix == "f" || suffix == "d" || suffix == "m" {
		isReal = true
	}

	if isReal {
		tok := lx.emit(tokReal, start)
		tok.suffix = suffix
		v, err := strconv.ParseFloat(body, 64)
		if err != nil {
			lx.errorf(start, "invalid real literal")
		}
		tok.real = v
		return
	}

	tok := lx.emit(tokInt, start)
	tok.suffix = suffix
	v, err := strconv.ParseUint(body, 10, 64)
	if err != nil {
		lx.errorf(start, "integral constant is too large")
	}
	tok.num = v
}

func (lx *lexer) digits() {
	for lx.pos < len(lx.src) && (lx.src[lx.pos] >= '0' && lx.src[lx.pos] <= '9' || lx.src[lx.pos] == '_') {
		lx.pos++
	}
}

func (lx *lexer) numberSuffix() string {
	start := lx.pos
	for lx.pos < len(lx.src) && strings.IndexByte("uUlLfFdDmM", lx.src[lx.pos]) >= 0 {
		lx.pos++
	}
	suffix := strings.ToLower(lx.src[start:lx.pos])
	switch suffix {
	case "", "u", "l", "ul", "lu", "f", "d", "m":
		if suffix == "lu" {
			suffix = "ul"
		}
		return suffix
	default:
		lx.errorf(start, "invalid numeric suffix %q", suffix)
		return ""
	}
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F' || c == '_'
}
