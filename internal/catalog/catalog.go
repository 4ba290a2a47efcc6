package catalog

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/starford/yk/internal/models"
	"github.com/starford/yk/internal/storage"
)

// Loader discovers and reads every snippet source.
type Loader struct {
	simpleFile string
	plugins    storage.Provider
	logger     *slog.Logger
}

// NewLoader creates a Loader for the simple-commands file and the plugins
// directory. The plugins directory may be missing.
func NewLoader(simpleCommandsFile, pluginsDir string, logger *slog.Logger) (*Loader, error) {
	plugins, err := storage.NewFS(pluginsDir)
	if err != nil {
		return nil, fmt.Errorf("catalog: plugins dir: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{simpleFile: simpleCommandsFile, plugins: plugins, logger: logger}, nil
}

// sourceRef names one discovered source file.
type sourceRef struct {
	file  string
	label string
}

// discover lists the simple-commands source followed by one source per
// plugin subdirectory, in directory-listing order.
func (l *Loader) discover() []sourceRef {
	refs := []sourceRef{{file: l.simpleFile, label: "simple commands"}}

	dirs, err := l.plugins.ListDirs("")
	if err != nil {
		l.logger.Warn("catalog: list plugins failed", slog.String("error", err.Error()))
		return refs
	}
	for _, name := range dirs {
		file, err := l.plugins.Abs(filepath.Join(name, name+".json"))
		if err != nil {
			l.logger.Warn("catalog: skip plugin", slog.String("plugin", name), slog.String("error", err.Error()))
			continue
		}
		refs = append(refs, sourceRef{file: file, label: "plugin " + name})
	}
	return refs
}

// Build re-reads every source and flattens the result. A bad source only
// removes its own commands; the returned catalog may be empty but never nil.
func (l *Loader) Build() *models.Catalog {
	cat := &models.Catalog{}
	for _, ref := range l.discover() {
		src, err := l.Read(ref.file, ref.label)
		if err != nil {
			l.logger.Warn("catalog: source load failed", slog.String("source", ref.label),
				slog.String("error", err.Error()))
			continue
		}
		if src == nil {
			continue
		}
		cat.Append(src)
	}
	l.logger.Debug("catalog: built", slog.Int("commands", cat.Len()), slog.Int("sources", len(cat.Sources)))
	return cat
}
