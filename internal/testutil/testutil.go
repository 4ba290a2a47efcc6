// Package testutil provides shared test helpers for building configuration trees.
package testutil

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// ConfigTree is a temporary yk configuration directory.
type ConfigTree struct {
	Dir string
}

// NewConfigTree creates an empty temporary configuration directory.
func NewConfigTree(t *testing.T) *ConfigTree {
	t.Helper()
	return &ConfigTree{Dir: t.TempDir()}
}

// PluginsDir returns the plugins directory path.
func (c *ConfigTree) PluginsDir() string {
	return filepath.Join(c.Dir, "plugins")
}

// SimpleCommandsFile returns the simple-commands source path.
func (c *ConfigTree) SimpleCommandsFile() string {
	return filepath.Join(c.Dir, "simple_commands.json")
}

// SettingsFile returns the settings file path.
func (c *ConfigTree) SettingsFile() string {
	return filepath.Join(c.Dir, "config.json")
}

// WriteSimple writes the simple-commands source.
func (c *ConfigTree) WriteSimple(t *testing.T, content string) string {
	t.Helper()
	WriteFile(t, c.SimpleCommandsFile(), content)
	return c.SimpleCommandsFile()
}

// WritePlugin writes plugins/<name>/<name>.json and returns its path.
func (c *ConfigTree) WritePlugin(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(c.PluginsDir(), name, name+".json")
	WriteFile(t, p, content)
	return p
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// Logger returns a text logger writing to buf at debug level.
func Logger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
