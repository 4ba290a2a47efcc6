package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	pkgconfig "github.com/starford/yk/pkg/config"
)

func TestDefaultSettings(t *testing.T) {
	s := NewDefaultSettings()
	if s.SelectorExecutable != "fzf" || s.PreviewExecutable != "rg" || s.EditorExecutable != "hx" {
		t.Errorf("executables = %+v", s)
	}
	if !s.RunEnabled || !s.ConfirmBeforeRun || !s.CopyToClipboard {
		t.Errorf("flags = %+v, want all true", s)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestSettings_EmptyEditorInvalid(t *testing.T) {
	s := NewDefaultSettings()
	s.EditorExecutable = ""
	if err := s.Validate(); err == nil {
		t.Fatal("empty editor should fail validation")
	}
}

func TestSettings_PartialFileKeepsDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	content := `{"fzf_executable": "sk", "if_yank": false, "log_level": "debug"}`
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewDefaultSettings()
	if err := pkgconfig.Load(p, s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.SelectorExecutable != "sk" {
		t.Errorf("selector = %q, want %q", s.SelectorExecutable, "sk")
	}
	if s.CopyToClipboard {
		t.Error("if_yank should be false")
	}
	if !s.RunEnabled || s.EditorExecutable != "hx" {
		t.Errorf("defaults lost: %+v", s)
	}
	if s.LogLevel != slog.LevelDebug {
		t.Errorf("log level = %v, want DEBUG", s.LogLevel)
	}
}

func TestNewRoots(t *testing.T) {
	dir := filepath.Join(string(filepath.Separator), "home", "u", ".config", "yk")
	r := NewRoots(dir, "")
	if r.PluginsDir != filepath.Join(dir, "plugins") {
		t.Errorf("plugins dir = %q", r.PluginsDir)
	}
	if r.SimpleCommandsFile != filepath.Join(dir, "simple_commands.json") {
		t.Errorf("simple commands = %q", r.SimpleCommandsFile)
	}
	if r.SettingsFile != filepath.Join(dir, "config.json") {
		t.Errorf("settings = %q", r.SettingsFile)
	}
	if err := r.Validate(); err != nil {
		t.Errorf("roots should validate: %v", err)
	}
}

func TestNewRoots_SettingsOverride(t *testing.T) {
	r := NewRoots("/cfg", "/elsewhere/yk.yaml")
	if r.SettingsFile != "/elsewhere/yk.yaml" {
		t.Errorf("settings = %q", r.SettingsFile)
	}
}

func TestRoots_EmptyInvalid(t *testing.T) {
	r := &Roots{}
	if err := r.Validate(); err == nil {
		t.Fatal("empty roots should fail validation")
	}
}
