// Package settings builds the single merged settings document from the
// permission fragments and hook triggers the resolved configuration
// selects. The document is written exactly once per run; the user-local
// override file is never touched.
package settings

import (
	"encoding/json"

	"github.com/atelier-dev/atelier/internal/assemble"
	"github.com/atelier-dev/atelier/internal/catalog"
	"github.com/atelier-dev/atelier/internal/config"
	"github.com/atelier-dev/atelier/internal/diag"
)

// FileName is the generated settings document at the target root.
const FileName = "settings.json"

// Trigger is one hook entry in the settings document.
type Trigger struct {
	Event          string `json:"event"`
	Command        string `json:"command"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

// Document is the merged permissions/hooks settings file.
type Document struct {
	Permissions []string           `json:"permissions"`
	Hooks       map[string]Trigger `json:"hooks,omitempty"`
}

// Compose selects the permission fragments whose flag holds, concatenates
// their entries in catalog order with placeholder substitution applied,
// de-duplicates identical entries keeping the first occurrence, and
// attaches the trigger of every selected hook that declares one.
func Compose(r *config.Resolved) (*Document, diag.Diagnostics) {
	var diags diag.Diagnostics
	doc := &Document{Permissions: []string{}}

	seen := make(map[string]struct{})
	for _, d := range catalog.Select(catalog.FamilyPermission, r).Included {
		for _, entry := range d.Permissions {
			rendered, missing := assemble.Substitute([]byte(entry), r)
			for _, key := range missing {
				diags = diags.Templatef(d.ID, "unresolved placeholder %q in permission entry", key)
			}
			if len(missing) > 0 {
				continue
			}
			if _, dup := seen[string(rendered)]; dup {
				continue
			}
			seen[string(rendered)] = struct{}{}
			doc.Permissions = append(doc.Permissions, string(rendered))
		}
	}

	for _, d := range catalog.Select(catalog.FamilyHook, r).Included {
		if d.Trigger == nil {
			continue
		}
		if doc.Hooks == nil {
			doc.Hooks = make(map[string]Trigger)
		}
		doc.Hooks[d.Trigger.Event] = Trigger{
			Event:          d.Trigger.Event,
			Command:        d.Trigger.Command,
			TimeoutSeconds: d.Trigger.TimeoutSeconds,
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return doc, nil
}

// Encode renders the document deterministically: stable field order from
// the struct layout, map keys sorted by encoding/json, trailing newline.
func (d *Document) Encode() ([]byte, error) {
	out, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
