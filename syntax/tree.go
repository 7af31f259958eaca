// Package syntax holds the attribute-application syntax model and a small
// hand-written parser for attribute sections:
//
//	#define TRACE
//	[Info(1, z: 2, y: 1), Obsolete("use Next")]
//	[return: Marker(typeof(List<>))] Handle<T>
//
// A member declaration following one or more sections names the attributed
// member and the type parameters in scope for its attributes.
package syntax

import (
	"sort"
	"strings"
)

// Position represents a line/column position in source text.
// 1-based line numbers, 0-based character offsets.
type Position struct {
	Line      int `json:"line" yaml:"line"`
	Character int `json:"character" yaml:"character"`
	Offset    int `json:"offset" yaml:"offset"`
}

// Span is a half-open byte range [Start, End) in a tree's source
type Span struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Len returns the span length in bytes
func (s Span) Len() int { return s.End - s.Start }

// Cover returns the smallest span containing s and o
func (s Span) Cover(o Span) Span {
	if o.Start < s.Start {
		s.Start = o.Start
	}
	if o.End > s.End {
		s.End = o.End
	}
	return s
}

// Tree is one parsed source file
type Tree struct {
	Path        string // file path as given
	DisplayPath string // path used for caller file path substitution
	Source      string

	defined    map[string]bool
	lineStarts []int
}

// NewTree creates a tree for source. Symbols are preprocessor symbols
// defined for the whole tree in addition to #define directives.
func NewTree(path, source string, symbols ...string) *Tree {
	t := &Tree{
		Path:        path,
		DisplayPath: path,
		Source:      source,
		defined:     make(map[string]bool),
		lineStarts:  []int{0},
	}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			t.lineStarts = append(t.lineStarts, i+1)
		}
	}
	for _, s := range symbols {
		t.Define(s)
	}
	return t
}

// Define marks a preprocessor symbol as active
func (t *Tree) Define(name string) {
	if name != "" {
		t.defined[name] = true
	}
}

// Undefine clears a preprocessor symbol
func (t *Tree) Undefine(name string) {
	delete(t.defined, name)
}

// IsDefined reports whether a preprocessor symbol is active (ordinal comparison)
func (t *Tree) IsDefined(name string) bool {
	return t.defined[name]
}

// Defined returns the active preprocessor symbols, sorted
func (t *Tree) Defined() []string {
	out := make([]string, 0, len(t.defined))
	for s := range t.defined {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Position converts a byte offset to a line/character position
func (t *Tree) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(t.Source) {
		offset = len(t.Source)
	}
	line := sort.Search(len(t.lineStarts), func(i int) bool { return t.lineStarts[i] > offset }) - 1
	return Position{
		Line:      line + 1,
		Character: offset - t.lineStarts[line],
		Offset:    offset,
	}
}

// Line returns the 1-based line number of a span's start
func (t *Tree) Line(s Span) int {
	return t.Position(s.Start).Line
}

// Text returns the source text covered by a span
func (t *Tree) Text(s Span) string {
	if s.Start < 0 || s.End > len(t.Source) || s.Start > s.End {
		return ""
	}
	return t.Source[s.Start:s.End]
}

// LineText returns the full text of a 1-based line without its newline
func (t *Tree) LineText(line int) string {
	if line < 1 || line > len(t.lineStarts) {
		return ""
	}
	start := t.lineStarts[line-1]
	end := len(t.Source)
	if line < len(t.lineStarts) {
		end = t.lineStarts[line]
	}
	return strings.TrimRight(t.Source[start:end], "\r\n")
}
