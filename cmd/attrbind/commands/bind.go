package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/attrbind/binder"
	"github.com/teranos/attrbind/config"
	"github.com/teranos/attrbind/errors"
	"github.com/teranos/attrbind/fixture"
	"github.com/teranos/attrbind/logger"
)

// BindCmd binds every attribute application of a fixture
var BindCmd = &cobra.Command{
	Use:   "bind <fixture>",
	Short: "Bind the attribute applications of a fixture",
	Long: `Bind every attribute application in a fixture file and print the
resulting records and diagnostics.

A fixture is a YAML or TOML file declaring attribute classes, enums and
other types together with source texts that apply attributes.

Exit status is non-zero when any error diagnostic is reported.

Examples:
  attrbind bind widget.yaml                  # Text output
  attrbind bind widget.yaml --format json    # Records as JSON
  attrbind bind widget.toml -D TRACE         # Define an extra symbol
  attrbind bind widget.yaml --early          # Pre-metadata pass
  attrbind bind widget.yaml --watch          # Rebind on every save`,
	Args: cobra.ExactArgs(1),
	RunE: runBindCmd,
}

var (
	bindFormat  string
	bindWorkers int
	bindEarly   bool
	bindDefines []string
	bindWatch   bool
	bindNoColor bool
)

func init() {
	BindCmd.Flags().StringVarP(&bindFormat, "format", "f", "", "Output format: text, json, yaml, toml (default from config)")
	BindCmd.Flags().IntVarP(&bindWorkers, "workers", "w", 0, "Parallel binding workers (0 = one per CPU)")
	BindCmd.Flags().BoolVar(&bindEarly, "early", false, "Bind as the pre-metadata pass")
	BindCmd.Flags().StringSliceVarP(&bindDefines, "define", "D", nil, "Define a preprocessor symbol in every source (repeatable)")
	BindCmd.Flags().BoolVar(&bindWatch, "watch", false, "Rebind when the fixture or config changes")
	BindCmd.Flags().BoolVar(&bindNoColor, "no-color", false, "Disable colored output")
}

// bindSettings is the effective configuration of one bind run
type bindSettings struct {
	opts    binder.Options
	defined []string
	format  string
	color   bool
}

func settingsFrom(cmd *cobra.Command, cfg *config.Config) bindSettings {
	s := bindSettings{
		opts:    binder.OptionsFrom(cfg.Binder),
		defined: append([]string(nil), cfg.Binder.DefinedSymbols...),
		format:  cfg.Output.Format,
		color:   cfg.Output.Color,
	}
	if cmd.Flags().Changed("workers") {
		s.opts.Workers = bindWorkers
	}
	if cmd.Flags().Changed("early") {
		s.opts.Early = bindEarly
	}
	if cmd.Flags().Changed("format") {
		s.format = bindFormat
	}
	if bindNoColor {
		s.color = false
	}
	s.defined = append(s.defined, bindDefines...)
	return s
}

func runBindCmd(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	s := settingsFrom(cmd, cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	if !bindWatch {
		return runBind(ctx, out, args[0], s)
	}
	reload := func() (bindSettings, error) {
		config.Reset()
		cfg, err := config.Load()
		if err != nil {
			return bindSettings{}, err
		}
		if err := cfg.Validate(); err != nil {
			return bindSettings{}, err
		}
		return settingsFrom(cmd, cfg), nil
	}
	return watchBind(ctx, out, args[0], s, reload)
}

// runBind loads the fixture, binds it and renders the result. It returns
// ErrBindFailed when an error diagnostic was reported.
func runBind(ctx context.Context, out io.Writer, path string, s bindSettings) error {
	ctx = logger.WithComponent(ctx, "cli.bind")

	ws, err := fixture.Load(path, s.defined...)
	if err != nil {
		return err
	}
	res, err := ws.Bind(ctx, s.opts)
	if err != nil {
		return err
	}
	if err := render(out, ws, res, s.format, s.color); err != nil {
		return err
	}

	if res.HasErrors() {
		errs := 0
		for _, d := range res.Diagnostics {
			if d.IsError() {
				errs++
			}
		}
		return errors.Wrapf(errors.ErrBindFailed, "%s: %d error(s)", path, errs)
	}
	return nil
}

// watchBind binds once, then again after each settled change to the
// fixture or a loaded config file, until ctx is cancelled. reload is
// called when a config file changes.
func watchBind(ctx context.Context, out io.Writer, path string, s bindSettings, reload func() (bindSettings, error)) error {
	log := logger.ComponentLogger("cli.watch")

	fixturePath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve %s", path)
	}

	rebind := func() {
		if err := runBind(ctx, out, path, s); err != nil && !errors.Is(err, errors.ErrBindFailed) {
			fmt.Fprintf(out, "%v\n", err)
		}
	}
	rebind()

	paths := append([]string{path}, config.FilesUsed()...)
	w, err := config.NewWatcher(paths...)
	if err != nil {
		return err
	}
	w.OnChange(func(changed string) error {
		log.Infow("change detected, rebinding", logger.FieldFile, changed)
		if changed != fixturePath {
			next, err := reload()
			if err != nil {
				return err
			}
			s = next
		}
		rebind()
		return nil
	})
	w.Start()
	defer w.Stop()

	log.Infow("watching for changes", "paths", paths)
	<-ctx.Done()
	return nil
}
