// Package models defines the domain types for yk.
package models

import (
	"path/filepath"
	"strings"
)

// Snippet is a command snippet as authored in a source file.
// Empty Executable or EntryPoint means the part is absent.
type Snippet struct {
	Labels      []string `json:"labels"`
	Description string   `json:"description,omitempty"`
	Executable  string   `json:"executable,omitempty"`
	EntryPoint  string   `json:"entry_point,omitempty"`
	Args        []string `json:"args"`
	Shell       bool     `json:"if_shell"`
}

// Resolve returns a copy of s whose relative EntryPoint is joined onto baseDir.
// Executable is left alone so that PATH lookup still applies.
func (s Snippet) Resolve(baseDir string) Snippet {
	if s.EntryPoint != "" && !filepath.IsAbs(s.EntryPoint) {
		s.EntryPoint = filepath.Join(baseDir, s.EntryPoint)
	}
	return s
}

// CompleteCommand joins executable, entry point and args with single spaces.
// It returns "" when the snippet has none of them.
func (s Snippet) CompleteCommand() string {
	parts := make([]string, 0, len(s.Args)+2)
	if s.Executable != "" {
		parts = append(parts, s.Executable)
	}
	if s.EntryPoint != "" {
		parts = append(parts, s.EntryPoint)
	}
	parts = append(parts, s.Args...)
	return strings.Join(parts, " ")
}

// NamedSnippet pairs a snippet with the key it was defined under.
type NamedSnippet struct {
	Name    string
	Snippet Snippet
}

// Source is one loaded JSON file with its resolved snippets in file order.
type Source struct {
	Dir      string
	File     string
	Checksum string
	Entries  []NamedSnippet
}

// CatalogEntry is one selectable snippet with its provenance.
type CatalogEntry struct {
	Name            string
	CompleteCommand string
	SourceFile      string
	Snippet
}

// Catalog is the flattened, ordered list of snippets for one run.
// An entry's index in Entries is its selector index.
type Catalog struct {
	Entries []CatalogEntry
	Sources []*Source
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Entries)
}

// Append flattens src into the catalog.
func (c *Catalog) Append(src *Source) {
	c.Sources = append(c.Sources, src)
	for _, ns := range src.Entries {
		c.Entries = append(c.Entries, CatalogEntry{
			Name:            ns.Name,
			CompleteCommand: ns.Snippet.CompleteCommand(),
			SourceFile:      src.File,
			Snippet:         ns.Snippet,
		})
	}
}
