// Package selector hands the catalog to a fuzzy selector and maps its reply
// back to a catalog index.
//
// Each catalog entry becomes one line:
//
//	<index>: <executable or None><D><name><D><labels or No labels><D><source file>
//
// D is Delimiter. Only the index prefix is authoritative on the way back; the
// other fields exist for display, search and preview inside the selector.
package selector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/starford/yk/internal/apperr"
	"github.com/starford/yk/internal/models"
)

// Delimiter separates the fields of an encoded line. It contains no regular
// expression metacharacters.
const Delimiter = "⟪┄┄⟫"

const (
	noExecutable = "None"
	noLabels     = "No labels"
)

// Rejection records a catalog entry that could not be encoded.
type Rejection struct {
	Index int
	Name  string
	Err   error
}

// Reply is what a selector returned.
type Reply struct {
	ExitCode int
	Output   string
}

// EncodeEntry renders the line for the entry at index i. Fields containing
// Delimiter or a line break are rejected with apperr.ErrDelimiterInField.
func EncodeEntry(i int, e models.CatalogEntry) (string, error) {
	executable := e.Executable
	if executable == "" {
		executable = noExecutable
	}
	labels := noLabels
	if len(e.Labels) > 0 {
		labels = strings.Join(e.Labels, " ")
	}

	fields := []struct{ name, value string }{
		{"executable", executable},
		{"name", e.Name},
		{"labels", labels},
		{"source file", e.SourceFile},
	}
	for _, f := range fields {
		if strings.Contains(f.value, Delimiter) {
			return "", fmt.Errorf("selector: %s %q: %w", f.name, f.value, apperr.ErrDelimiterInField)
		}
		if strings.ContainsAny(f.value, "\r\n") {
			return "", fmt.Errorf("selector: %s %q contains a line break: %w", f.name, f.value, apperr.ErrDelimiterInField)
		}
	}

	var b strings.Builder
	b.WriteString(strconv.Itoa(i))
	b.WriteString(": ")
	b.WriteString(executable)
	for _, f := range fields[1:] {
		b.WriteString(Delimiter)
		b.WriteString(f.value)
	}
	return b.String(), nil
}

// Encode renders every encodable entry of cat. Rejected entries are left out
// and reported; the remaining lines keep their catalog indices.
func Encode(cat *models.Catalog) ([]string, []Rejection) {
	var (
		lines    = make([]string, 0, cat.Len())
		rejected []Rejection
	)
	for i, e := range cat.Entries {
		line, err := EncodeEntry(i, e)
		if err != nil {
			rejected = append(rejected, Rejection{Index: i, Name: e.Name, Err: err})
			continue
		}
		lines = append(lines, line)
	}
	return lines, rejected
}

// Decode maps a selector reply onto an index in a catalog of n entries.
// An aborted or empty reply yields apperr.ErrNoSelection.
func Decode(reply Reply, n int) (int, error) {
	if reply.ExitCode != 0 {
		return 0, apperr.ErrNoSelection
	}
	line := strings.TrimSpace(reply.Output)
	if line == "" {
		return 0, apperr.ErrNoSelection
	}

	parts := strings.Split(line, Delimiter)
	if len(parts) == 0 || parts[0] == "" {
		return 0, fmt.Errorf("selector: invalid selection format %q: %w", line, apperr.ErrMalformedReply)
	}

	raw, _, _ := strings.Cut(parts[0], ":")
	raw = strings.TrimSpace(raw)
	idx, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("selector: parse index %q: %w", raw, apperr.ErrMalformedReply)
	}
	if n <= 0 || idx >= uint64(n) {
		return 0, fmt.Errorf("selector: index %d, valid range is 0-%d (%d commands): %w",
			idx, n-1, n, apperr.ErrIndexOutOfRange)
	}
	return int(idx), nil
}
