// Package validate is the hard gate between resolution and assembly. It
// rejects semantically incompatible configurations and dangling feature
// flags before a single byte is staged: partial generation is never an
// acceptable output.
package validate

import (
	"context"

	"github.com/atelier-dev/atelier/internal/catalog"
	"github.com/atelier-dev/atelier/internal/config"
	"github.com/atelier-dev/atelier/internal/ctxlog"
	"github.com/atelier-dev/atelier/internal/diag"
)

// Check collects every violation in the resolved configuration. An empty
// result clears the run for assembly.
func Check(ctx context.Context, r *config.Resolved) diag.Diagnostics {
	logger := ctxlog.FromContext(ctx)
	var diags diag.Diagnostics

	diags = diags.Extend(checkCompatibility(r))
	diags = diags.Extend(checkDanglingFlags(r))
	diags = diags.Extend(checkMandatorySelection(r))

	logger.Debug("dependency validation finished", "violations", len(diags))
	return diags
}

// checkCompatibility rejects combinations the catalog declares incompatible.
func checkCompatibility(r *config.Resolved) diag.Diagnostics {
	var diags diag.Diagnostics

	if tool := r.Database.Migration; tool != "" && tool != "none" {
		if r.Database.Type == "" || r.Database.Type == "none" {
			diags = diags.Validationf("stack.database.migration",
				"migration tool %q requires a database, but database.type is \"none\"", tool)
		} else if catalog.MigrationRequiresRelational(tool) && !catalog.RelationalDatabase(r.Database.Type) {
			diags = diags.Validationf("stack.database.migration",
				"migration tool %q requires a relational database, got %q", tool, r.Database.Type)
		}
	}

	if fw := r.Framework; fw != "" && fw != "none" && !catalog.FrameworkCompatible(fw, r.Language) {
		diags = diags.Validationf("project.framework",
			"framework %q is not compatible with language %q", fw, r.Language)
	}

	if o := r.Infrastructure.Orchestrator; o != "" && o != "none" {
		if c := r.Infrastructure.Container; c == "" || c == "none" {
			diags = diags.Validationf("stack.infrastructure.orchestrator",
				"orchestrator %q requires a container runtime, but container is \"none\"", o)
		}
	}

	return diags
}

// checkDanglingFlags finds conditional components that resolved true while
// their declared prerequisite is absent — typically a force-enabled flag
// whose supporting stack element was never selected.
func checkDanglingFlags(r *config.Resolved) diag.Diagnostics {
	var diags diag.Diagnostics
	for _, def := range catalog.Flags() {
		if !r.Flag(def.ID) || def.Requires == nil {
			continue
		}
		if !def.Requires(&r.Project) {
			diags = diags.Validationf("options."+def.ID,
				"flag is enabled but its prerequisite (%s) is not satisfied", def.RequiresDesc)
		}
	}
	return diags
}

// checkMandatorySelection confirms every mandatory descriptor survives
// selection. The selection rule makes this structurally impossible to
// violate; the check exists so a future catalog defect fails loudly here
// instead of producing a tree with a mandatory artifact missing.
func checkMandatorySelection(r *config.Resolved) diag.Diagnostics {
	var diags diag.Diagnostics
	for _, family := range catalog.Families() {
		sel := catalog.Select(family, r)
		included := make(map[string]struct{}, len(sel.Included))
		for _, d := range sel.Included {
			included[d.ID] = struct{}{}
		}
		for _, d := range catalog.Components(family) {
			if !d.Mandatory {
				continue
			}
			if _, ok := included[d.ID]; !ok {
				diags = diags.Validationf(d.ID, "mandatory %s component missing from selection", family)
			}
		}
	}
	return diags
}
