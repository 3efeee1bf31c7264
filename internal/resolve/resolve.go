// Package resolve turns a raw Project into a Resolved configuration: every
// catalog flag becomes a concrete boolean and the stack-derived values are
// computed. Resolution is one flat pass — predicates read only primitive
// Project fields, never other flags, so there is no ordering to get wrong
// and no cycle to detect.
package resolve

import (
	"context"
	"sort"

	"github.com/atelier-dev/atelier/internal/catalog"
	"github.com/atelier-dev/atelier/internal/config"
	"github.com/atelier-dev/atelier/internal/ctxlog"
	"github.com/atelier-dev/atelier/internal/diag"
)

// Resolve evaluates every catalog flag against the project. An explicit
// user-supplied true/false overrides the predicate outcome; "auto" defers
// to it. Option ids that name no catalog flag — or that name a mandatory
// component, which has no settable flag at all — are config errors.
func Resolve(ctx context.Context, p *config.Project) (*config.Resolved, diag.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	var diags diag.Diagnostics

	// Deterministic diagnostic order over the user's option map.
	ids := make([]string, 0, len(p.Options))
	for id := range p.Options {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if catalog.ReservedFlagID(id) {
			diags = diags.Configf("options."+id, "component is mandatory and cannot be configured")
			continue
		}
		if _, ok := catalog.FlagByID(id); !ok {
			diags = diags.Configf("options."+id, "unknown feature flag")
		}
	}
	if diags.HasErrors() {
		return nil, diags
	}

	r := &config.Resolved{
		Project:      *p,
		Flags:        make(map[string]bool, len(catalog.Flags())),
		BuildCommand: catalog.BuildCommand(p.Language),
		TestCommand:  catalog.TestCommand(p.Language),
	}

	for _, def := range catalog.Flags() {
		value := def.Auto(p)
		source := "auto"
		if explicit, ok := p.Options[def.ID]; ok && explicit != config.Auto {
			value = explicit == config.True
			source = "explicit"
		}
		r.Flags[def.ID] = value
		logger.Debug("flag resolved", "flag", def.ID, "value", value, "source", source)
	}

	return r, nil
}
