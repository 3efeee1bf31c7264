package app

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/atelier-dev/atelier/internal/catalog"
	"github.com/atelier-dev/atelier/internal/config"
	"github.com/atelier-dev/atelier/internal/hclconf"
	"github.com/atelier-dev/atelier/internal/yamlconf"
	"github.com/atelier-dev/atelier/templates"
)

// Options holds everything one invocation needs.
type Options struct {
	ConfigPath  string
	OutputDir   string
	Interactive bool
	LogLevel    string
	LogFormat   string
}

// App encapsulates the generator's dependencies and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	templates fs.FS

	// prompt collects the interactive-answer map. Overridable in tests so
	// the pipeline can be driven without a terminal.
	prompt func() (map[string]string, error)
}

// New constructs the application with its own isolated logger. A catalog
// integrity failure is a packaging defect, not a user error, so it panics
// before any work starts.
func New(outW, logW io.Writer, opts *Options, prompt func() (map[string]string, error)) *App {
	if err := catalog.Verify(); err != nil {
		panic(err)
	}
	return &App{
		outW:      outW,
		logger:    newLogger(opts.LogLevel, opts.LogFormat, logW),
		templates: templates.FS,
		prompt:    prompt,
	}
}

// loaderFor picks the format-specific loader from the file extension.
func loaderFor(path string) (config.Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return hclconf.NewLoader(), nil
	case ".yaml", ".yml":
		return yamlconf.NewLoader(), nil
	default:
		return nil, fmt.Errorf("unsupported configuration format %q: use .hcl, .yaml, or .yml", filepath.Ext(path))
	}
}
