package catalog

import (
	"strings"

	"github.com/atelier-dev/atelier/internal/config"
)

// Placeholder is a named token a template may carry. The set is closed: a
// template token without a registered resolver is a template error at
// assembly time, never a silent blank.
type Placeholder struct {
	Key     string
	Resolve func(r *config.Resolved) string
}

var placeholders = []Placeholder{
	{Key: "project_name", Resolve: func(r *config.Resolved) string { return r.Name }},
	{Key: "language", Resolve: func(r *config.Resolved) string { return r.Language }},
	{Key: "framework", Resolve: func(r *config.Resolved) string {
		if r.Framework == "" {
			return "none"
		}
		return r.Framework
	}},
	{Key: "database_type", Resolve: func(r *config.Resolved) string {
		if r.Database.Type == "" {
			return "none"
		}
		return r.Database.Type
	}},
	{Key: "migration_tool", Resolve: func(r *config.Resolved) string {
		if r.Database.Migration == "" {
			return "none"
		}
		return r.Database.Migration
	}},
	{Key: "protocol_list", Resolve: func(r *config.Resolved) string {
		if len(r.Protocols) == 0 {
			return "none"
		}
		return strings.Join(r.Protocols, ", ")
	}},
	{Key: "build_command", Resolve: func(r *config.Resolved) string { return r.BuildCommand }},
	{Key: "test_command", Resolve: func(r *config.Resolved) string { return r.TestCommand }},
	{Key: "container_tool", Resolve: func(r *config.Resolved) string { return r.Infrastructure.Container }},
	{Key: "orchestrator_cli", Resolve: func(r *config.Resolved) string { return OrchestratorCLI(r.Infrastructure.Orchestrator) }},
	{Key: "db_cli", Resolve: func(r *config.Resolved) string { return DatabaseCLI(r.Database.Type) }},
}

// Placeholders returns the full registered set in catalog order.
func Placeholders() []Placeholder {
	return placeholders
}

// PlaceholderByKey looks up a registered placeholder.
func PlaceholderByKey(key string) (Placeholder, bool) {
	for _, p := range placeholders {
		if p.Key == key {
			return p, true
		}
	}
	return Placeholder{}, false
}
