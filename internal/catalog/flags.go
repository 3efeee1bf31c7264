package catalog

import (
	"slices"

	"github.com/atelier-dev/atelier/internal/config"
)

// compiledLanguages are the languages whose toolchain has a distinct
// compile step, which is what the post-compile hook latches onto.
var compiledLanguages = []string{"java21", "kotlin", "go", "rust", "csharp"}

// FlagDef declares one conditional feature flag. Auto computes the default
// from primitive Project fields only — never from other flags — so
// resolution is a single flat pass with no ordering concerns. Requires
// states the prerequisite that must still hold when a user force-enables
// the flag; RequiresDesc names it in validation messages.
type FlagDef struct {
	ID           string
	Auto         func(p *config.Project) bool
	Requires     func(p *config.Project) bool
	RequiresDesc string
}

// flagDefs is ordered; diagnostics and resolution follow this order.
var flagDefs = []FlagDef{
	{
		ID:           "review_api",
		Auto:         func(p *config.Project) bool { return p.HasProtocol("rest") },
		Requires:     func(p *config.Project) bool { return p.HasProtocol("rest") || p.HasProtocol("grpc") },
		RequiresDesc: `protocol "rest" or "grpc"`,
	},
	{
		ID:           "api_engineer",
		Auto:         func(p *config.Project) bool { return p.HasProtocol("rest") || p.HasProtocol("grpc") },
		Requires:     func(p *config.Project) bool { return len(p.Protocols) > 0 },
		RequiresDesc: "at least one protocol",
	},
	{
		ID:           "database_engineer",
		Auto:         func(p *config.Project) bool { return p.Database.Type != "none" && p.Database.Type != "" },
		Requires:     func(p *config.Project) bool { return p.Database.Type != "none" && p.Database.Type != "" },
		RequiresDesc: `a database other than "none"`,
	},
	{
		ID:           "db_migrations",
		Auto:         func(p *config.Project) bool { return p.Database.Migration != "none" && p.Database.Migration != "" },
		Requires:     func(p *config.Project) bool { return p.Database.Type != "none" && p.Database.Type != "" },
		RequiresDesc: `a database other than "none"`,
	},
	{
		ID:           "rest_smoke_test",
		Auto:         func(p *config.Project) bool { return p.HasProtocol("rest") },
		Requires:     func(p *config.Project) bool { return p.HasProtocol("rest") },
		RequiresDesc: `protocol "rest"`,
	},
	{
		ID:           "socket_smoke_test",
		Auto:         func(p *config.Project) bool { return p.HasProtocol("tcp-custom") },
		Requires:     func(p *config.Project) bool { return p.HasProtocol("tcp-custom") },
		RequiresDesc: `protocol "tcp-custom"`,
	},
	{
		ID:           "websocket_probe",
		Auto:         func(p *config.Project) bool { return p.HasProtocol("websocket") },
		Requires:     func(p *config.Project) bool { return p.HasProtocol("websocket") },
		RequiresDesc: `protocol "websocket"`,
	},
	{
		ID:           "framework_rules",
		Auto:         func(p *config.Project) bool { return p.Framework != "none" && p.Framework != "" },
		Requires:     func(p *config.Project) bool { return p.Framework != "none" && p.Framework != "" },
		RequiresDesc: `a framework other than "none"`,
	},
	{
		ID:           "container_build",
		Auto:         func(p *config.Project) bool { return p.Infrastructure.Container != "none" && p.Infrastructure.Container != "" },
		Requires:     func(p *config.Project) bool { return p.Infrastructure.Container != "none" && p.Infrastructure.Container != "" },
		RequiresDesc: `a container runtime other than "none"`,
	},
	{
		ID:           "devops_engineer",
		Auto:         func(p *config.Project) bool { return p.Infrastructure.Orchestrator != "none" && p.Infrastructure.Orchestrator != "" },
		Requires:     func(p *config.Project) bool { return p.Infrastructure.Orchestrator != "none" && p.Infrastructure.Orchestrator != "" },
		RequiresDesc: `an orchestrator other than "none"`,
	},
	{
		ID:   "post_compile",
		Auto: func(p *config.Project) bool { return slices.Contains(compiledLanguages, p.Language) },
	},
}

// reservedFlagIDs are mandatory-adjacent ids users sometimes reach for.
// They have no settable flag at all: attempting to configure one is a
// config error, never a silent ignore.
var reservedFlagIDs = []string{
	"security_engineer",
	"qa_engineer",
	"performance_engineer",
	"architect",
	"code_review",
}

// Flags returns every flag definition in catalog order.
func Flags() []FlagDef {
	return flagDefs
}

// FlagByID looks up a flag definition.
func FlagByID(id string) (FlagDef, bool) {
	for _, def := range flagDefs {
		if def.ID == id {
			return def, true
		}
	}
	return FlagDef{}, false
}

// ReservedFlagID reports whether the id names a mandatory component that
// must never be configurable.
func ReservedFlagID(id string) bool {
	return slices.Contains(reservedFlagIDs, id)
}
