package syntax

import (
	"fmt"
	"strings"
)

// Error is a located syntax error
type Error struct {
	Path    string
	Pos     Position
	Span    Span
	Message string
}

func newError(tree *Tree, span Span, format string, args ...interface{}) *Error {
	return &Error{
		Path:    tree.Path,
		Pos:     tree.Position(span.Start),
		Span:    span,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements error interface
func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Character+1, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Pos.Line, e.Pos.Character+1, e.Message)
}

// ErrorList collects every syntax error of one parse
type ErrorList []*Error

// Error implements error interface
func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d syntax errors:\n  %s", len(l), strings.Join(msgs, "\n  "))
}

// Err returns nil for an empty list
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
