package selector

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"syscall"

	"golang.org/x/sync/errgroup"
)

// Prompt is shown in front of the query.
const Prompt = "Select a command 🔍: "

// BuiltinName selects the in-process selector instead of an executable.
const BuiltinName = "builtin"

// Selector lets the user pick one of lines.
type Selector interface {
	Select(ctx context.Context, lines []string) (Reply, error)
}

// New returns the selector named by executable: the in-process finder for
// BuiltinName, an external process otherwise.
func New(executable, previewExecutable string) Selector {
	if executable == BuiltinName {
		return NewBuiltin()
	}
	return NewProcess(executable, previewExecutable)
}

// Process runs an external fzf-compatible selector.
type Process struct {
	Executable string
	Args       []string
	// Stderr receives the selector's diagnostics; nil means os.Stderr.
	Stderr io.Writer
}

// NewProcess configures an fzf-compatible selector that displays fields 1-3,
// previews field 2 inside field 4 with previewExecutable and aborts on
// escape or interrupt.
func NewProcess(executable, previewExecutable string) *Process {
	return &Process{
		Executable: executable,
		Args: []string{
			"--delimiter=" + regexp.QuoteMeta(Delimiter),
			"--with-nth=1,2,3",
			"--border",
			"--cycle",
			"--prompt=" + Prompt,
			"--preview=" + previewExecutable + " --color=always -A 20 {2} {4}",
			"--preview-window=right:45%",
			"--bind=esc:abort,ctrl-c:abort",
		},
	}
}

// Select feeds lines to the selector on stdin while draining its stdout, then
// waits for it to exit. A non-zero exit is reported through Reply.ExitCode,
// not as an error.
func (p *Process) Select(ctx context.Context, lines []string) (Reply, error) {
	cmd := exec.CommandContext(ctx, p.Executable, p.Args...)
	cmd.Stderr = p.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return Reply{}, fmt.Errorf("selector: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Reply{}, fmt.Errorf("selector: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return Reply{}, fmt.Errorf("selector: start %s: %w", p.Executable, err)
	}

	var out bytes.Buffer
	var g errgroup.Group

	// Writer: closing stdin signals end of input.
	g.Go(func() error {
		defer stdin.Close()
		w := bufio.NewWriter(stdin)
		for _, line := range lines {
			if _, err := w.WriteString(line); err != nil {
				return ignoreClosed(err)
			}
			if err := w.WriteByte('\n'); err != nil {
				return ignoreClosed(err)
			}
		}
		return ignoreClosed(w.Flush())
	})

	// Reader.
	g.Go(func() error {
		_, err := io.Copy(&out, stdout)
		return err
	})

	ioErr := g.Wait()
	waitErr := cmd.Wait()

	var exitErr *exec.ExitError
	switch {
	case errors.As(waitErr, &exitErr):
		return Reply{ExitCode: exitErr.ExitCode(), Output: out.String()}, nil
	case waitErr != nil:
		return Reply{}, fmt.Errorf("selector: wait: %w", waitErr)
	case ioErr != nil:
		return Reply{}, fmt.Errorf("selector: pipe: %w", ioErr)
	}
	return Reply{Output: out.String()}, nil
}

// ignoreClosed drops the error a selector causes by exiting before it has
// read all of its input.
func ignoreClosed(err error) error {
	if errors.Is(err, syscall.EPIPE) || errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}
