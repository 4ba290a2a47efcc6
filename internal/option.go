package internal

import (
	"io"
	"log/slog"

	"github.com/starford/yk/internal/dispatch"
	"github.com/starford/yk/internal/selector"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	settings    *Settings
	roots       *Roots
	logger      *slog.Logger
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	selector    selector.Selector
	clipboard   dispatch.Clipboard
	runner      dispatch.Runner
	interactive *bool
}

// WithSettings sets the settings and skips loading the settings file.
func WithSettings(s *Settings) Option {
	return func(a *application) {
		a.settings = s
	}
}

// WithRoots sets the configuration locations.
func WithRoots(r *Roots) Option {
	return func(a *application) {
		a.roots = r
	}
}

// WithLogger replaces the stderr text logger built from the settings.
func WithLogger(l *slog.Logger) Option {
	return func(a *application) {
		a.logger = l
	}
}

// WithStdio sets the streams used for prompts, messages and child processes.
func WithStdio(in io.Reader, out, errOut io.Writer) Option {
	return func(a *application) {
		a.stdin = in
		a.stdout = out
		a.stderr = errOut
	}
}

// WithSelector overrides the selector chosen from the settings.
func WithSelector(s selector.Selector) Option {
	return func(a *application) {
		a.selector = s
	}
}

// WithClipboard overrides the system clipboard.
func WithClipboard(c dispatch.Clipboard) Option {
	return func(a *application) {
		a.clipboard = c
	}
}

// WithRunner overrides how commands and the editor are started.
func WithRunner(r dispatch.Runner) Option {
	return func(a *application) {
		a.runner = r
	}
}

// WithInteractive forces whether setup may ask questions. By default it
// asks only when stdin is a terminal.
func WithInteractive(v bool) Option {
	return func(a *application) {
		a.interactive = &v
	}
}
