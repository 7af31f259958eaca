package diag

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// Context selects plain or terminal rendering
type Context int

const (
	ContextPlain    Context = iota // logs, files, non-tty output
	ContextTerminal                // coloured, with a source excerpt
)

// SourceLine returns the text of a 1-based line in a file
type SourceLine func(file string, line int) (string, bool)

// Format renders one diagnostic
func Format(d Diagnostic, ctx Context, src SourceLine) string {
	if ctx == ContextPlain {
		return d.String()
	}

	loc := fmt.Sprintf("%s:%d:%d:", d.File, d.Pos.Line, d.Pos.Character+1)
	var sev string
	switch d.Severity {
	case SeverityWarning:
		sev = pterm.Yellow("warning")
	default:
		sev = pterm.Red("error")
	}
	out := fmt.Sprintf("%s %s%s %s", pterm.Gray(loc), sev, pterm.LightCyan("["+string(d.Code)+"]"), d.Message)

	if src == nil {
		return out
	}
	line, ok := src(d.File, d.Pos.Line)
	if !ok {
		return out
	}
	width := d.Span.Len()
	if width < 1 {
		width = 1
	}
	if rest := len(line) - d.Pos.Character; width > rest && rest > 0 {
		width = rest
	}
	caret := strings.Repeat(" ", d.Pos.Character) + strings.Repeat("^", width)
	return fmt.Sprintf("%s\n  %s\n  %s", out, line, pterm.Green(caret))
}

// FormatAll renders diagnostics one per entry followed by a summary line
func FormatAll(items []Diagnostic, ctx Context, src SourceLine) string {
	var b strings.Builder
	errs, warns := 0, 0
	for _, d := range items {
		b.WriteString(Format(d, ctx, src))
		b.WriteByte('\n')
		if d.IsError() {
			errs++
		} else {
			warns++
		}
	}
	summary := fmt.Sprintf("%d error(s), %d warning(s)", errs, warns)
	if ctx == ContextTerminal {
		if errs > 0 {
			summary = pterm.Red(summary)
		} else {
			summary = pterm.Green(summary)
		}
	}
	b.WriteString(summary)
	return b.String()
}
