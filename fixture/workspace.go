package fixture

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/teranos/attrbind/binder"
	"github.com/teranos/attrbind/check"
	"github.com/teranos/attrbind/diag"
	"github.com/teranos/attrbind/errors"
	"github.com/teranos/attrbind/logger"
	"github.com/teranos/attrbind/overload"
	"github.com/teranos/attrbind/symbols"
	"github.com/teranos/attrbind/syntax"
)

// Workspace is a loaded fixture: the symbol table, a checker over it and
// the parsed sources
type Workspace struct {
	Path    string
	Table   *symbols.Table
	Checker *check.Checker
	Files   []*syntax.File
	// Syntax holds parse errors of the sources as diagnostics
	Syntax []diag.Diagnostic

	logger *zap.SugaredLogger
}

// Load reads, decodes and builds the fixture at path. Extra preprocessor
// symbols are defined in every source on top of those the fixture names.
func Load(path string, defined ...string) (*Workspace, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read fixture %s", path)
	}
	f, err := Decode(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "fixture %s", path)
	}
	return Build(f, path, defined...)
}

// Build creates a workspace from a decoded fixture. Syntax errors in the
// sources do not fail the build; they are kept in Workspace.Syntax.
func Build(f *Fixture, path string, defined ...string) (*Workspace, error) {
	log := logger.ComponentLogger("fixture").With(logger.FieldFile, path)

	table, err := BuildTable(f)
	if err != nil {
		return nil, err
	}
	w := &Workspace{Path: path, Table: table, Checker: check.New(table), logger: log}

	for i, src := range f.Sources {
		name := src.Path
		if name == "" {
			name = fmt.Sprintf("source%d.cs", i+1)
		}
		symbolsIn := make([]string, 0, len(f.Defined)+len(src.Defined)+len(defined))
		symbolsIn = append(symbolsIn, f.Defined...)
		symbolsIn = append(symbolsIn, src.Defined...)
		symbolsIn = append(symbolsIn, defined...)

		tree := syntax.NewTree(name, src.Text, symbolsIn...)
		if src.DisplayPath != "" {
			tree.DisplayPath = src.DisplayPath
		}
		file, err := syntax.Parse(tree)
		if err != nil {
			var list syntax.ErrorList
			if !errors.As(err, &list) {
				return nil, errors.Wrapf(err, "failed to parse %s", name)
			}
			for _, e := range list {
				w.Syntax = append(w.Syntax, diag.FromSyntax(e))
			}
			log.Warnw("source has syntax errors", "source", name, logger.FieldErrors, len(list))
		}
		w.Files = append(w.Files, file)
	}

	log.Infow("fixture loaded",
		"types", len(f.Types),
		"sources", len(w.Files),
		logger.FieldCount, len(w.Attributes()))
	return w, nil
}

// Attributes returns every attribute application in source order across
// all files
func (w *Workspace) Attributes() []*syntax.Attribute {
	var out []*syntax.Attribute
	for _, f := range w.Files {
		out = append(out, f.Attributes...)
	}
	return out
}

// SourceLine looks up a source line for diagnostic rendering
func (w *Workspace) SourceLine(file string, line int) (string, bool) {
	for _, f := range w.Files {
		if f.Tree.Path != file && f.Tree.DisplayPath != file {
			continue
		}
		if line < 1 {
			return "", false
		}
		return f.Tree.LineText(line), true
	}
	return "", false
}

// Result is the outcome of binding every application of a workspace
type Result struct {
	Records     []*binder.Record
	Diagnostics []diag.Diagnostic
}

// HasErrors reports whether any error diagnostic was produced
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Bind binds every attribute application with a fresh resolver. The
// returned diagnostics include syntax errors of the sources.
func (w *Workspace) Bind(ctx context.Context, opts binder.Options) (*Result, error) {
	bag := diag.NewBag()
	for _, d := range w.Syntax {
		bag.Add(d)
	}

	r, err := binder.New(binder.Collaborators{
		Classes:     w.Checker,
		Expressions: w.Checker,
		Overloads:   overload.New(w.Checker),
		Symbols:     w.Checker,
		Types:       w.Checker,
		Diagnostics: bag,
	}, opts)
	if err != nil {
		return nil, err
	}

	records, err := r.BindAll(ctx, w.Attributes())
	if err != nil {
		return nil, errors.Wrap(err, "binding interrupted")
	}
	res := &Result{Records: records, Diagnostics: bag.Items()}
	w.logger.Debugw("workspace bound",
		logger.FieldCount, len(records),
		"diagnostics", len(res.Diagnostics),
		logger.FieldWorkers, opts.Workers)
	return res, nil
}
