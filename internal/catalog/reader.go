// Package catalog loads snippet sources and flattens them into one catalog.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/yk/internal/apperr"
	"github.com/starford/yk/internal/checksum"
	"github.com/starford/yk/internal/models"
)

var errNotObject = errors.New("top-level value is not an object")

type rawEntry struct {
	name string
	raw  json.RawMessage
}

// Read loads one JSON source. It returns (nil, nil) when the source is absent,
// unreadable, not an object or holds no valid commands; each case is logged
// as a warning tagged with label. Malformed entries are skipped individually.
func (l *Loader) Read(file, label string) (*models.Source, error) {
	info, err := os.Stat(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("catalog: source missing", slog.String("source", label), slog.String("file", file))
		} else {
			l.logger.Warn("catalog: source unreadable", slog.String("source", label), slog.String("file", file),
				slog.String("error", err.Error()))
		}
		return nil, nil
	}
	if !info.Mode().IsRegular() {
		l.logger.Warn("catalog: source is not a regular file", slog.String("source", label), slog.String("file", file))
		return nil, nil
	}

	abs, baseDir, err := sourceDir(file)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", label, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		l.logger.Warn("catalog: source unreadable", slog.String("source", label), slog.String("file", abs),
			slog.String("error", err.Error()))
		return nil, nil
	}

	raws, err := decodeObject(data)
	if err != nil {
		l.logger.Warn("catalog: source format error, expected an object of commands",
			slog.String("source", label), slog.String("file", abs), slog.String("error", err.Error()))
		return nil, nil
	}

	src := &models.Source{
		Dir:      baseDir,
		File:     abs,
		Checksum: checksum.Sum(data),
	}
	for _, re := range raws {
		s, err := decodeSnippet(re.raw)
		if err != nil {
			l.logger.Warn("catalog: command format error", slog.String("source", label),
				slog.String("command", re.name), slog.String("error", err.Error()))
			continue
		}
		src.Entries = append(src.Entries, models.NamedSnippet{Name: re.name, Snippet: s.Resolve(baseDir)})
	}

	if len(src.Entries) == 0 {
		l.logger.Warn("catalog: source has no valid commands", slog.String("source", label), slog.String("file", abs))
		return nil, nil
	}
	return src, nil
}

// sourceDir returns the absolute file path and the directory relative
// entry points are resolved against.
func sourceDir(file string) (string, string, error) {
	if file == "" {
		return "", "", apperr.ErrNoBaseDir
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", apperr.ErrNoBaseDir, err)
	}
	dir := filepath.Dir(abs)
	if dir == abs {
		return "", "", apperr.ErrNoBaseDir
	}
	return abs, dir, nil
}

// decodeObject splits a JSON object into its members, keeping file order.
// A repeated key keeps its first position and takes the last value.
func decodeObject(data []byte) ([]rawEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errNotObject
	}

	var out []rawEntry
	seen := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("invalid JSON: unexpected key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		if i, dup := seen[name]; dup {
			out[i].raw = raw
			continue
		}
		seen[name] = len(out)
		out = append(out, rawEntry{name: name, raw: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid JSON: trailing data after object")
	}
	return out, nil
}

// decodeSnippet decodes one command definition. Anything other than a JSON
// object with correctly typed fields is rejected.
func decodeSnippet(raw json.RawMessage) (models.Snippet, error) {
	var s models.Snippet
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return s, errors.New("command definition must be an object")
	}
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return models.Snippet{}, err
	}
	return s, nil
}
