// Package setup bootstraps the configuration tree and authors simple commands.
package setup

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/starford/yk/internal/prompt"
	"github.com/starford/yk/internal/storage"
)

// Layout names the files setup manages. PluginsDir and SimpleCommandsFile are
// relative to the store root; SettingsFile is absolute because it may live
// outside the configuration directory.
type Layout struct {
	PluginsDir         string
	SimpleCommandsFile string
	SettingsFile       string
}

// Setup performs the init and new actions.
type Setup struct {
	store       storage.Provider
	layout      Layout
	prompter    *prompt.Prompter
	interactive bool
	out         io.Writer
	logger      *slog.Logger
}

// New creates a Setup. interactive tells whether questions can be asked;
// when false, init never overwrites existing settings.
func New(store storage.Provider, layout Layout, prompter *prompt.Prompter, interactive bool, out io.Writer, logger *slog.Logger) *Setup {
	if logger == nil {
		logger = slog.Default()
	}
	return &Setup{
		store:       store,
		layout:      layout,
		prompter:    prompter,
		interactive: interactive,
		out:         out,
		logger:      logger,
	}
}

// Init creates the configuration and plugins directories, writes
// defaultSettings unless a settings file exists (asking before overwriting)
// and creates an empty simple-commands source.
func (s *Setup) Init(defaultSettings []byte) error {
	if err := s.store.MkdirAll(""); err != nil {
		return err
	}
	if err := s.store.MkdirAll(s.layout.PluginsDir); err != nil {
		return err
	}

	if err := s.writeSettings(defaultSettings); err != nil {
		return err
	}

	exists, err := s.store.Exists(s.layout.SimpleCommandsFile)
	if err != nil {
		return err
	}
	if !exists {
		if err := s.store.Write(s.layout.SimpleCommandsFile, []byte("{}\n")); err != nil {
			return err
		}
		path, _ := s.store.Abs(s.layout.SimpleCommandsFile)
		fmt.Fprintf(s.out, "Created simple commands configuration file: %s\n", path)
	}
	return nil
}

func (s *Setup) writeSettings(data []byte) error {
	dir, name := filepath.Dir(s.layout.SettingsFile), filepath.Base(s.layout.SettingsFile)
	fsys, err := storage.NewFS(dir)
	if err != nil {
		return fmt.Errorf("setup: settings dir: %w", err)
	}
	exists, err := fsys.Exists(name)
	if err != nil {
		return err
	}

	if exists {
		if !s.interactive {
			s.logger.Info("setup: keeping existing settings, not a terminal",
				slog.String("file", s.layout.SettingsFile))
			fmt.Fprintln(s.out, "Skipped configuration file update")
			return nil
		}
		ok, err := s.prompter.Confirm(fmt.Sprintf("Configuration file %s already exists, overwrite? (y/N): ",
			s.layout.SettingsFile))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(s.out, "Skipped configuration file update")
			return nil
		}
	}

	if err := fsys.Write(name, data); err != nil {
		return err
	}
	if exists {
		fmt.Fprintln(s.out, "Configuration file updated")
	} else {
		fmt.Fprintf(s.out, "Created default configuration file: %s\n", s.layout.SettingsFile)
	}
	return nil
}
