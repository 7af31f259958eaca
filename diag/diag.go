// Package diag collects binding diagnostics. Binding never fails: every
// problem in user source becomes a Diagnostic recorded through a Sink.
package diag

import (
	"fmt"
	"sort"
	"sync"

	"github.com/teranos/attrbind/syntax"
)

// Code identifies a diagnostic kind
type Code string

const (
	CodeUnresolvedType           Code = "unresolved-type"
	CodeAbstractAttributeClass   Code = "abstract-attribute-class"
	CodeOverloadResolutionFailed Code = "overload-resolution-failed"
	CodeBadNamedArgument         Code = "bad-named-argument"
	CodeBadNamedArgumentType     Code = "bad-named-argument-type"
	CodeDuplicateNamedArgument   Code = "duplicate-named-argument"
	CodeNamedArgumentExpected    Code = "named-argument-expected"
	CodeBadAttributeArgument     Code = "bad-attribute-argument"
	CodeOpenGenericTypeOf        Code = "open-generic-typeof"
	CodeArrayCovariance          Code = "array-covariance"
	CodeOptionalObjectNoDefault  Code = "optional-object-no-default"
	CodeNonNullReferenceDefault  Code = "non-null-reference-default"
	CodeObsoleteConstructor      Code = "obsolete-constructor"
	CodeInParameterConstructor   Code = "in-parameter-constructor"
	CodeBadAttributeParamType    Code = "bad-attribute-parameter-type"
	CodeRefArgumentNotAllowed    Code = "ref-argument-not-allowed"

	CodeNameNotFound  Code = "name-not-found"
	CodeCannotConvert Code = "cannot-convert"
	CodeSyntax        Code = "syntax"
)

// Severity of a diagnostic
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// MarshalText renders the severity by name
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Diagnostic is one reported problem
type Diagnostic struct {
	Code     Code            `json:"code" yaml:"code" toml:"code"`
	Severity Severity        `json:"severity" yaml:"severity" toml:"severity"`
	File     string          `json:"file" yaml:"file" toml:"file"`
	Span     syntax.Span     `json:"span" yaml:"span" toml:"span"`
	Pos      syntax.Position `json:"position" yaml:"position" toml:"position"`
	Message  string          `json:"message" yaml:"message" toml:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s[%s]: %s", d.File, d.Pos.Line, d.Pos.Character+1, d.Severity, d.Code, d.Message)
}

// IsError reports an error-severity diagnostic
func (d Diagnostic) IsError() bool { return d.Severity == SeverityError }

// New builds a diagnostic located at span in tree
func New(sev Severity, code Code, tree *syntax.Tree, span syntax.Span, format string, args ...interface{}) Diagnostic {
	d := Diagnostic{
		Code:     code,
		Severity: sev,
		Span:     span,
		Message:  fmt.Sprintf(format, args...),
	}
	if tree != nil {
		d.File = tree.Path
		d.Pos = tree.Position(span.Start)
	}
	return d
}

// Errorf builds an error diagnostic
func Errorf(code Code, tree *syntax.Tree, span syntax.Span, format string, args ...interface{}) Diagnostic {
	return New(SeverityError, code, tree, span, format, args...)
}

// Warnf builds a warning diagnostic
func Warnf(code Code, tree *syntax.Tree, span syntax.Span, format string, args ...interface{}) Diagnostic {
	return New(SeverityWarning, code, tree, span, format, args...)
}

// FromSyntax converts a parse error
func FromSyntax(e *syntax.Error) Diagnostic {
	return Diagnostic{
		Code:     CodeSyntax,
		Severity: SeverityError,
		File:     e.Path,
		Span:     e.Span,
		Pos:      e.Pos,
		Message:  e.Message,
	}
}

// Sink receives diagnostics. Implementations must be safe for concurrent use.
type Sink interface {
	Add(d Diagnostic)
}

type discard struct{}

func (discard) Add(Diagnostic) {}

// Discard drops every diagnostic
var Discard Sink = discard{}

type dedupKey struct {
	code Code
	file string
	span syntax.Span
}

// Bag is a concurrency-safe Sink that keeps one diagnostic per
// (code, file, span)
type Bag struct {
	mu    sync.Mutex
	items []Diagnostic
	seen  map[dedupKey]bool
}

// NewBag creates an empty bag
func NewBag() *Bag {
	return &Bag{seen: make(map[dedupKey]bool)}
}

// Add records d unless an identical location and code is already present
func (b *Bag) Add(d Diagnostic) {
	k := dedupKey{code: d.Code, file: d.File, span: d.Span}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.seen == nil {
		b.seen = make(map[dedupKey]bool)
	}
	if b.seen[k] {
		return
	}
	b.seen[k] = true
	b.items = append(b.items, d)
}

// Items returns the diagnostics sorted by file, position and code
func (b *Bag) Items() []Diagnostic {
	b.mu.Lock()
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	b.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		a, c := out[i], out[j]
		if a.File != c.File {
			return a.File < c.File
		}
		if a.Span.Start != c.Span.Start {
			return a.Span.Start < c.Span.Start
		}
		if a.Span.End != c.Span.End {
			return a.Span.End < c.Span.End
		}
		return a.Code < c.Code
	})
	return out
}

// Len returns the number of diagnostics
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// HasErrors reports whether any error-severity diagnostic was recorded
func (b *Bag) HasErrors() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, d := range b.items {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Count returns how many diagnostics carry code
func (b *Bag) Count(code Code) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, d := range b.items {
		if d.Code == code {
			n++
		}
	}
	return n
}

// Codes returns the codes of the sorted diagnostics
func (b *Bag) Codes() []Code {
	items := b.Items()
	out := make([]Code, len(items))
	for i, d := range items {
		out[i] = d.Code
	}
	return out
}
