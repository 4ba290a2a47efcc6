// Package dispatch turns a selected catalog entry into an edit, copy or run action.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/starford/yk/internal/apperr"
	"github.com/starford/yk/internal/models"
)

// AbortRunOnClipboardFailure keeps the run step from happening when the
// clipboard copy failed.
const AbortRunOnClipboardFailure = true

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// Runner runs a child process to completion with inherited standard streams.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Options are the settings that drive a dispatch.
type Options struct {
	Editor  string
	Run     bool
	Confirm bool
	Copy    bool
}

// Executor performs exactly one action for a selected entry.
type Executor struct {
	opts      Options
	clipboard Clipboard
	runner    Runner
	confirmer Confirmer
	out       io.Writer
	logger    *slog.Logger
	goos      string
}

// NewExecutor wires an Executor. out receives human-facing messages.
func NewExecutor(opts Options, clipboard Clipboard, runner Runner, confirmer Confirmer, out io.Writer, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		opts:      opts,
		clipboard: clipboard,
		runner:    runner,
		confirmer: confirmer,
		out:       out,
		logger:    logger,
		goos:      runtime.GOOS,
	}
}

// Dispatch acts on entry. With edit set it only opens the entry's source file
// in the editor. Otherwise it copies and/or runs the complete command as
// configured. Returned errors are meant to be reported, not to change the
// launcher's exit status.
func (e *Executor) Dispatch(ctx context.Context, entry models.CatalogEntry, edit bool) error {
	if edit {
		return e.edit(ctx, entry)
	}

	if e.opts.Copy {
		if err := e.clipboard.WriteAll(entry.CompleteCommand); err != nil {
			err = fmt.Errorf("dispatch: copy to clipboard: %w: %v", apperr.ErrClipboard, err)
			if AbortRunOnClipboardFailure {
				return err
			}
			e.logger.Warn("dispatch: clipboard failed", slog.String("error", err.Error()))
		} else {
			fmt.Fprintf(e.out, "Copied to clipboard: %s\n", entry.CompleteCommand)
		}
	}

	if !e.opts.Run {
		return nil
	}

	if e.opts.Confirm {
		ok, err := e.confirmer.Confirm(fmt.Sprintf("Confirm to run command: %s (y/N): ", entry.CompleteCommand))
		if err != nil {
			return fmt.Errorf("dispatch: confirm: %w", err)
		}
		if !ok {
			fmt.Fprintln(e.out, "Execution cancelled")
			return nil
		}
	}

	return e.run(ctx, entry)
}

func (e *Executor) edit(ctx context.Context, entry models.CatalogEntry) error {
	fmt.Fprintf(e.out, "Editing command: %s\n", entry.Name)
	fmt.Fprintf(e.out, "Current command: %s\n", entry.CompleteCommand)

	if _, err := os.Stat(entry.SourceFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("dispatch: source file %s: %w", entry.SourceFile, apperr.ErrNotFound)
		}
		return fmt.Errorf("dispatch: stat source file: %w", err)
	}

	fmt.Fprintf(e.out, "Opening configuration file: %s\n", entry.SourceFile)
	if err := e.runner.Run(ctx, e.opts.Editor, entry.SourceFile); err != nil {
		return fmt.Errorf("dispatch: open editor %s: %w", e.opts.Editor, err)
	}
	return nil
}

// run executes the complete command through the platform shell when the
// snippet asks for it, otherwise as a whitespace-split argv.
func (e *Executor) run(ctx context.Context, entry models.CatalogEntry) error {
	name, args := Argv(entry.CompleteCommand, entry.Shell, e.goos)
	if name == "" {
		return fmt.Errorf("dispatch: %s: %w", entry.Name, apperr.ErrEmptyCommand)
	}
	e.logger.Debug("dispatch: run", slog.String("program", name), slog.Any("args", args))
	if err := e.runner.Run(ctx, name, args...); err != nil {
		return fmt.Errorf("dispatch: %s: %w: %v", entry.Name, apperr.ErrCommandFailed, err)
	}
	return nil
}

// Argv returns the program and arguments for command. In shell mode the whole
// string goes to the platform interpreter as one argument; otherwise it is
// split on whitespace with no quoting rules. An empty command yields "".
func Argv(command string, shell bool, goos string) (string, []string) {
	if strings.TrimSpace(command) == "" {
		return "", nil
	}
	if shell {
		if goos == "windows" {
			return "cmd", []string{"/C", command}
		}
		return "sh", []string{"-c", command}
	}
	fields := strings.Fields(command)
	return fields[0], fields[1:]
}
