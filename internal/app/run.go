package app

import (
	"context"
	"fmt"

	"github.com/atelier-dev/atelier/internal/assemble"
	"github.com/atelier-dev/atelier/internal/catalog"
	"github.com/atelier-dev/atelier/internal/config"
	"github.com/atelier-dev/atelier/internal/ctxlog"
	"github.com/atelier-dev/atelier/internal/output"
	"github.com/atelier-dev/atelier/internal/resolve"
	"github.com/atelier-dev/atelier/internal/settings"
	"github.com/atelier-dev/atelier/internal/validate"
)

// Run executes one generation. On failure it returns the complete
// collected diagnostics; nothing has been written to the target in that
// case.
func (a *App) Run(ctx context.Context, opts *Options) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	project, err := a.loadProject(ctx, opts)
	if err != nil {
		return err
	}

	if diags := catalog.ValidateProject(project); diags.HasErrors() {
		return diags
	}
	a.logger.Debug("configuration shape validated", "project", project.Name)

	resolved, diags := resolve.Resolve(ctx, project)
	if diags.HasErrors() {
		return diags
	}
	a.logger.Debug("flags resolved", "count", len(resolved.Flags))

	if diags := validate.Check(ctx, resolved); diags.HasErrors() {
		return diags
	}

	files, diags := assemble.New(a.templates).AssembleAll(resolved)
	if diags.HasErrors() {
		return diags
	}

	doc, diags := settings.Compose(resolved)
	if diags.HasErrors() {
		return diags
	}
	encoded, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("encoding settings document: %w", err)
	}
	files = append(files, assemble.ResolvedFile{
		Path:    settings.FileName,
		Content: encoded,
		Mode:    0o644,
	})

	if diags := output.Write(ctx, files, opts.OutputDir); diags.HasErrors() {
		return diags
	}

	a.logger.Info("workspace generated", "project", project.Name, "files", len(files), "target", opts.OutputDir)
	fmt.Fprintf(a.outW, "generated %d files into %s\n", len(files), opts.OutputDir)
	return nil
}

// loadProject obtains the raw configuration from whichever entry point the
// invocation selected: a structured document or the interactive answers.
func (a *App) loadProject(ctx context.Context, opts *Options) (*config.Project, error) {
	if opts.Interactive {
		if a.prompt == nil {
			return nil, fmt.Errorf("interactive mode requested but no terminal is available")
		}
		answers, err := a.prompt()
		if err != nil {
			return nil, err
		}
		project, diags := config.FromAnswers(answers)
		if diags.HasErrors() {
			return nil, diags
		}
		return project, nil
	}

	loader, err := loaderFor(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	project, diags := loader.Load(ctx, opts.ConfigPath)
	if diags.HasErrors() {
		return nil, diags
	}
	return project, nil
}
