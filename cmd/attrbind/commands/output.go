package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/teranos/attrbind/binder"
	"github.com/teranos/attrbind/config"
	"github.com/teranos/attrbind/diag"
	"github.com/teranos/attrbind/errors"
	"github.com/teranos/attrbind/fixture"
)

// report is the structured output of one bind run
type report struct {
	Fixture     string              `json:"fixture" yaml:"fixture" toml:"fixture"`
	Records     []binder.RecordView `json:"records" yaml:"records" toml:"records"`
	Diagnostics []diag.Diagnostic   `json:"diagnostics" yaml:"diagnostics" toml:"diagnostics"`
}

func newReport(ws *fixture.Workspace, res *fixture.Result) report {
	return report{Fixture: ws.Path, Records: binder.Views(res.Records), Diagnostics: res.Diagnostics}
}

// render writes the bind result in the requested format
func render(w io.Writer, ws *fixture.Workspace, res *fixture.Result, format string, color bool) error {
	switch format {
	case config.FormatText, "":
		return renderText(w, ws, res, color)

	case config.FormatJSON:
		data, err := json.MarshalIndent(newReport(ws, res), "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal records to JSON")
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case config.FormatYAML:
		data, err := yaml.Marshal(newReport(ws, res))
		if err != nil {
			return errors.Wrap(err, "failed to marshal records to YAML")
		}
		_, err = w.Write(data)
		return err

	case config.FormatTOML:
		data, err := toml.Marshal(newReport(ws, res))
		if err != nil {
			return errors.Wrap(err, "failed to marshal records to TOML")
		}
		_, err = w.Write(data)
		return err
	}
	return errors.WithHint(
		errors.Newf("unsupported format: %s", format),
		"supported formats: text, json, yaml, toml")
}

func renderText(w io.Writer, ws *fixture.Workspace, res *fixture.Result, color bool) error {
	if color {
		pterm.EnableColor()
	} else {
		pterm.DisableColor()
	}

	for _, v := range binder.Views(res.Records) {
		header := fmt.Sprintf("%s:%d", v.File, v.Line)
		status := pterm.Green("ok")
		switch {
		case v.HasErrors:
			status = pterm.Red("error")
		case v.Omitted:
			status = pterm.Yellow("omitted")
		}
		fmt.Fprintf(w, "%s [%s] %s\n", pterm.Gray(header), v.Attribute, status)

		if v.Constructor != "" {
			fmt.Fprintf(w, "  %s %s\n", pterm.Gray("→"), pterm.LightCyan(v.Constructor))
		} else if v.Class != "" {
			fmt.Fprintf(w, "  %s %s\n", pterm.Gray("→"), pterm.LightCyan(v.Class))
		}

		if len(v.Arguments) > 0 || len(v.Named) > 0 {
			table := pterm.TableData{{"", "name", "type", "value"}}
			for i, a := range v.Arguments {
				src := "default"
				if i < len(v.SourceIndices) && v.SourceIndices[i] >= 0 {
					src = fmt.Sprintf("#%d", v.SourceIndices[i])
				}
				table = append(table, []string{src, a.Name, a.Type, a.Value})
			}
			for _, a := range v.Named {
				table = append(table, []string{"named", a.Name, a.Type, a.Value})
			}
			out, err := pterm.DefaultTable.WithHasHeader().WithData(table).Srender()
			if err != nil {
				return errors.Wrap(err, "failed to render argument table")
			}
			for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
	}

	ctx := diag.ContextPlain
	if color {
		ctx = diag.ContextTerminal
	}
	if len(res.Diagnostics) > 0 {
		fmt.Fprintln(w)
	}
	_, err := fmt.Fprintln(w, diag.FormatAll(res.Diagnostics, ctx, ws.SourceLine))
	return err
}
