package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// File and directory names under the configuration root.
const (
	SettingsFileName       = "config.json"
	PluginsDirName         = "plugins"
	SimpleCommandsFileName = "simple_commands.json"
)

// Settings is the global tool configuration.
// The JSON keys match the settings files written by earlier yk releases.
type Settings struct {
	SelectorExecutable string     `json:"fzf_executable" yaml:"fzf_executable"`
	PreviewExecutable  string     `json:"rg_executable" yaml:"rg_executable"`
	EditorExecutable   string     `json:"editor" yaml:"editor"`
	RunEnabled         bool       `json:"if_run" yaml:"if_run"`
	ConfirmBeforeRun   bool       `json:"if_run_confirm" yaml:"if_run_confirm"`
	CopyToClipboard    bool       `json:"if_yank" yaml:"if_yank"`
	LogLevel           slog.Level `json:"log_level" yaml:"log_level"`
}

// Validate validates the settings.
func (s *Settings) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.SelectorExecutable, validation.Required),
		validation.Field(&s.PreviewExecutable, validation.Required),
		validation.Field(&s.EditorExecutable, validation.Required),
	)
}

// NewDefaultSettings returns Settings with the documented defaults.
func NewDefaultSettings() *Settings {
	return &Settings{
		SelectorExecutable: "fzf",
		PreviewExecutable:  "rg",
		EditorExecutable:   "hx",
		RunEnabled:         true,
		ConfirmBeforeRun:   true,
		CopyToClipboard:    true,
		LogLevel:           slog.LevelInfo,
	}
}

// Roots holds the resolved locations of every file yk reads or writes.
type Roots struct {
	ConfigDir          string
	PluginsDir         string
	SimpleCommandsFile string
	SettingsFile       string
}

// Validate validates the roots.
func (r *Roots) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ConfigDir, validation.Required),
		validation.Field(&r.PluginsDir, validation.Required),
		validation.Field(&r.SimpleCommandsFile, validation.Required),
		validation.Field(&r.SettingsFile, validation.Required),
	)
}

// NewRoots derives all locations from configDir. An empty settingsFile
// selects configDir/config.json.
func NewRoots(configDir, settingsFile string) *Roots {
	if settingsFile == "" {
		settingsFile = filepath.Join(configDir, SettingsFileName)
	}
	return &Roots{
		ConfigDir:          configDir,
		PluginsDir:         filepath.Join(configDir, PluginsDirName),
		SimpleCommandsFile: filepath.Join(configDir, SimpleCommandsFileName),
		SettingsFile:       settingsFile,
	}
}

// DefaultConfigDir returns $HOME/.config/yk.
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "yk"), nil
}
