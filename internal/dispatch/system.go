package dispatch

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/atotto/clipboard"
)

// SystemClipboard writes to the platform clipboard.
type SystemClipboard struct{}

// WriteAll copies text, failing when no clipboard provider is available.
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errors.New("no clipboard provider available")
	}
	return clipboard.WriteAll(text)
}

// ExecRunner runs child processes attached to the launcher's terminal.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner using the process's own standard streams.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run starts name and waits for it. A non-zero exit is returned as an error.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	return cmd.Run()
}
