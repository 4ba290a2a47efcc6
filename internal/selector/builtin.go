package selector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
)

// abortExitCode mirrors fzf's exit status when the user aborts.
const abortExitCode = 130

type findFunc func(lines []string, label func(int) string, preview func(i, w, h int) string) (int, error)

// Builtin is an in-process selector. It shows the same three columns as the
// external selector and answers with the chosen, unmodified line.
type Builtin struct {
	find findFunc
}

// NewBuiltin returns a terminal fuzzy finder.
func NewBuiltin() *Builtin {
	return &Builtin{find: fuzzyFind}
}

func fuzzyFind(lines []string, label func(int) string, preview func(i, w, h int) string) (int, error) {
	return fuzzyfinder.Find(lines, label,
		fuzzyfinder.WithPromptString(Prompt),
		fuzzyfinder.WithPreviewWindow(preview),
	)
}

// Select runs the finder over lines.
func (b *Builtin) Select(ctx context.Context, lines []string) (Reply, error) {
	if err := ctx.Err(); err != nil {
		return Reply{}, err
	}
	display := make([]string, len(lines))
	for i, line := range lines {
		display[i] = displayColumns(line)
	}

	idx, err := b.find(lines, func(i int) string { return display[i] }, func(i, _, _ int) string {
		if i < 0 || i >= len(lines) {
			return ""
		}
		return previewText(lines[i])
	})
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return Reply{ExitCode: abortExitCode}, nil
	}
	if err != nil {
		return Reply{}, fmt.Errorf("selector: builtin: %w", err)
	}
	if idx < 0 || idx >= len(lines) {
		return Reply{}, fmt.Errorf("selector: builtin returned index %d of %d lines", idx, len(lines))
	}
	return Reply{Output: lines[idx]}, nil
}

// displayColumns keeps fields 1-3 of an encoded line.
func displayColumns(line string) string {
	parts := strings.SplitN(line, Delimiter, 4)
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return strings.Join(parts, "  │  ")
}

// previewText lays out the fields of an encoded line for the preview pane.
func previewText(line string) string {
	parts := strings.SplitN(line, Delimiter, 4)
	names := []string{"Command", "Name", "Labels", "Source"}
	var b strings.Builder
	for i, p := range parts {
		fmt.Fprintf(&b, "%-8s %s\n", names[i]+":", p)
	}
	return b.String()
}
