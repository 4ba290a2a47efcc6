// Package internal provides the application setup and the top-level yk actions.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/starford/yk/internal/apperr"
	"github.com/starford/yk/internal/catalog"
	"github.com/starford/yk/internal/dispatch"
	"github.com/starford/yk/internal/models"
	"github.com/starford/yk/internal/prompt"
	"github.com/starford/yk/internal/selector"
	"github.com/starford/yk/internal/setup"
	"github.com/starford/yk/internal/storage"
	pkgconfig "github.com/starford/yk/pkg/config"
)

func newApplication(loadSettings bool, opts ...Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}

	if app.roots == nil {
		return nil, fmt.Errorf("roots are required")
	}
	if err := app.roots.Validate(); err != nil {
		return nil, fmt.Errorf("invalid roots: %w", err)
	}

	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}

	found := true
	if app.settings == nil {
		app.settings = NewDefaultSettings()
		if loadSettings {
			var err error
			found, err = pkgconfig.LoadIfExists(app.roots.SettingsFile, app.settings)
			if err != nil {
				return nil, err
			}
		}
	}

	if app.logger == nil {
		app.logger = slog.New(slog.NewTextHandler(app.stderr, &slog.HandlerOptions{
			Level: app.settings.LogLevel,
		}))
		slog.SetDefault(app.logger)
	}

	if !found {
		app.logger.Warn("settings file not found, using defaults; run `yk init` to create it",
			slog.String("file", app.roots.SettingsFile))
	}

	app.logger.Debug("Configuration loaded",
		slog.String("config_dir", app.roots.ConfigDir),
		slog.String("settings_file", app.roots.SettingsFile),
		slog.String("selector", app.settings.SelectorExecutable),
		slog.String("editor", app.settings.EditorExecutable),
		slog.String("log_level", app.settings.LogLevel.String()))

	return app, nil
}

func (a *application) loader() (*catalog.Loader, error) {
	return catalog.NewLoader(a.roots.SimpleCommandsFile, a.roots.PluginsDir, a.logger)
}

func (a *application) isInteractive() bool {
	if a.interactive != nil {
		return *a.interactive
	}
	if f, ok := a.stdin.(*os.File); ok {
		return prompt.Interactive(f)
	}
	return false
}

func (a *application) setup() (*setup.Setup, error) {
	store, err := storage.NewFS(a.roots.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	plugins, err := filepath.Rel(a.roots.ConfigDir, a.roots.PluginsDir)
	if err != nil {
		return nil, fmt.Errorf("plugins dir: %w", err)
	}
	simple, err := filepath.Rel(a.roots.ConfigDir, a.roots.SimpleCommandsFile)
	if err != nil {
		return nil, fmt.Errorf("simple commands file: %w", err)
	}
	layout := setup.Layout{
		PluginsDir:         plugins,
		SimpleCommandsFile: simple,
		SettingsFile:       a.roots.SettingsFile,
	}
	p := prompt.New(a.stdin, a.stdout)
	return setup.New(store, layout, p, a.isInteractive(), a.stdout, a.logger), nil
}

// Find builds the catalog, lets the user pick an entry and dispatches it.
// Selection and dispatch problems are reported on stdout and do not fail the
// call; only setup failures and a selector that cannot start are returned.
func Find(ctx context.Context, edit bool, opts ...Option) error {
	app, err := newApplication(true, opts...)
	if err != nil {
		return err
	}

	l, err := app.loader()
	if err != nil {
		return err
	}
	cat := l.Build()
	if cat.Len() == 0 {
		fmt.Fprintln(app.stdout, "No commands found")
		return nil
	}

	lines, rejected := selector.Encode(cat)
	for _, r := range rejected {
		app.logger.Warn("selector: command not offered",
			slog.Int("index", r.Index),
			slog.String("command", r.Name),
			slog.String("error", r.Err.Error()))
	}
	if len(lines) == 0 {
		fmt.Fprintln(app.stdout, "No commands found")
		return nil
	}

	sel := app.selector
	if sel == nil {
		sel = selector.New(app.settings.SelectorExecutable, app.settings.PreviewExecutable)
	}
	reply, err := sel.Select(ctx, lines)
	if err != nil {
		return err
	}

	idx, err := selector.Decode(reply, cat.Len())
	switch {
	case errors.Is(err, apperr.ErrNoSelection):
		fmt.Fprintln(app.stdout, "User cancelled selection or no command selected")
		return nil
	case err != nil:
		fmt.Fprintf(app.stdout, "Error: %v\n", err)
		return nil
	}

	entry := cat.Entries[idx]
	app.logger.Debug("find: selected",
		slog.Int("index", idx),
		slog.String("command", entry.Name),
		slog.String("source", entry.SourceFile))

	clip := app.clipboard
	if clip == nil {
		clip = dispatch.SystemClipboard{}
	}
	runner := app.runner
	if runner == nil {
		runner = &dispatch.ExecRunner{Stdin: app.stdin, Stdout: app.stdout, Stderr: app.stderr}
	}
	ex := dispatch.NewExecutor(dispatch.Options{
		Editor:  app.settings.EditorExecutable,
		Run:     app.settings.RunEnabled,
		Confirm: app.settings.ConfirmBeforeRun,
		Copy:    app.settings.CopyToClipboard,
	}, clip, runner, prompt.New(app.stdin, app.stdout), app.stdout, app.logger)

	if err := ex.Dispatch(ctx, entry, edit); err != nil {
		fmt.Fprintf(app.stdout, "Error: %v\n", err)
		app.logger.Debug("find: dispatch failed", slog.String("error", err.Error()))
	}
	return nil
}

// List prints every catalog entry with its index, command and source file.
func List(_ context.Context, opts ...Option) error {
	app, err := newApplication(true, opts...)
	if err != nil {
		return err
	}
	l, err := app.loader()
	if err != nil {
		return err
	}
	cat := l.Build()
	if cat.Len() == 0 {
		fmt.Fprintln(app.stdout, "No commands found")
		return nil
	}

	w := tabwriter.NewWriter(app.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tNAME\tLABELS\tCOMMAND\tSOURCE")
	for i, e := range cat.Entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i, e.Name, strings.Join(e.Labels, " "), e.CompleteCommand, e.SourceFile)
	}
	return w.Flush()
}

// Check loads every source and reports what was loaded. With watch set it
// keeps reporting after each change under the configuration directory until
// ctx is cancelled or the process is interrupted.
func Check(ctx context.Context, watch bool, opts ...Option) error {
	app, err := newApplication(true, opts...)
	if err != nil {
		return err
	}
	l, err := app.loader()
	if err != nil {
		return err
	}

	if !watch {
		app.report(l.Build())
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return catalog.Watch(ctx, l, app.roots.ConfigDir, app.report)
}

func (a *application) report(cat *models.Catalog) {
	_, rejected := selector.Encode(cat)
	fmt.Fprintf(a.stdout, "Loaded %d commands from %d sources\n", cat.Len(), len(cat.Sources))
	for _, src := range cat.Sources {
		fmt.Fprintf(a.stdout, "  %s: %d commands\n", src.File, len(src.Entries))
	}
	for _, r := range rejected {
		fmt.Fprintf(a.stdout, "  not selectable: %s (%v)\n", r.Name, r.Err)
	}
}

// Init creates the configuration tree with default settings and an empty
// simple-commands source.
func Init(_ context.Context, opts ...Option) error {
	app, err := newApplication(false, opts...)
	if err != nil {
		return err
	}
	data, err := pkgconfig.Encode(app.roots.SettingsFile, NewDefaultSettings())
	if err != nil {
		return err
	}
	s, err := app.setup()
	if err != nil {
		return err
	}
	return s.Init(data)
}

// New asks for a simple command and adds it to the simple-commands source.
func New(_ context.Context, opts ...Option) error {
	app, err := newApplication(false, opts...)
	if err != nil {
		return err
	}
	s, err := app.setup()
	if err != nil {
		return err
	}
	return s.NewCommand()
}
