package catalog

import (
	"fmt"
	"sort"

	"github.com/atelier-dev/atelier/internal/config"
)

// Family is one of the closed set of artifact categories the generator
// knows how to materialize.
type Family string

const (
	FamilyRule       Family = "rule"
	FamilySkill      Family = "skill"
	FamilyAgent      Family = "agent"
	FamilyHook       Family = "hook"
	FamilyPermission Family = "permission-fragment"
)

// Families lists every family in output order. Permission fragments come
// last: they feed the settings document instead of producing files.
func Families() []Family {
	return []Family{FamilyRule, FamilySkill, FamilyAgent, FamilyHook, FamilyPermission}
}

// Band is the numbering layer a rule belongs to. Each band owns a fixed
// prefix range, so a rule's number never moves when other bands grow.
type Band int

const (
	BandCore    Band = 0
	BandProfile Band = 20
	BandDomain  Band = 40
)

// HookTrigger is the settings-document trigger a hook descriptor attaches
// when its flag resolves true.
type HookTrigger struct {
	Event          string
	Command        string
	TimeoutSeconds int
}

// Descriptor declares one component: where its template lives, where its
// output goes, and the flag (if any) gating its inclusion. Mandatory
// descriptors have an empty Flag and are included unconditionally — no
// configuration value can remove them.
type Descriptor struct {
	ID        string
	Family    Family
	Mandatory bool
	Flag      string // id into flagDefs; empty for mandatory components
	Source    string // template path inside the embedded template tree
	Target    string // output path relative to the target root; rules get a numeric prefix
	Band      Band   // rules only
	Order     int    // stable sort key within a band; never reused across ids

	// Permissions holds the settings entries contributed by a
	// permission-fragment descriptor.
	Permissions []string

	// Trigger is the settings hook block for hook descriptors that report
	// into the merged settings document.
	Trigger *HookTrigger
}

// Prefix returns the stable numeric prefix of a rule descriptor.
func (d Descriptor) Prefix() int {
	return int(d.Band) + d.Order
}

var descriptors = []Descriptor{
	// Rules, core band: present in every generated workspace.
	{ID: "core-principles", Family: FamilyRule, Mandatory: true, Source: "rules/core-principles.md", Target: "rules/core-principles.md", Band: BandCore, Order: 1},
	{ID: "code-style", Family: FamilyRule, Mandatory: true, Source: "rules/code-style.md", Target: "rules/code-style.md", Band: BandCore, Order: 2},
	{ID: "testing-standards", Family: FamilyRule, Mandatory: true, Source: "rules/testing-standards.md", Target: "rules/testing-standards.md", Band: BandCore, Order: 3},
	{ID: "git-workflow", Family: FamilyRule, Mandatory: true, Source: "rules/git-workflow.md", Target: "rules/git-workflow.md", Band: BandCore, Order: 4},
	{ID: "documentation", Family: FamilyRule, Mandatory: true, Source: "rules/documentation.md", Target: "rules/documentation.md", Band: BandCore, Order: 5},

	// Rules, profile band: stack-specific.
	{ID: "language-guidelines", Family: FamilyRule, Mandatory: true, Source: "rules/language-guidelines.md", Target: "rules/language-guidelines.md", Band: BandProfile, Order: 1},
	{ID: "framework-guidelines", Family: FamilyRule, Flag: "framework_rules", Source: "rules/framework-guidelines.md", Target: "rules/framework-guidelines.md", Band: BandProfile, Order: 2},

	// Rules, domain band.
	{ID: "database-conventions", Family: FamilyRule, Flag: "database_engineer", Source: "rules/database-conventions.md", Target: "rules/database-conventions.md", Band: BandDomain, Order: 1},
	{ID: "api-design", Family: FamilyRule, Flag: "review_api", Source: "rules/api-design.md", Target: "rules/api-design.md", Band: BandDomain, Order: 2},
	{ID: "deployment", Family: FamilyRule, Flag: "devops_engineer", Source: "rules/deployment.md", Target: "rules/deployment.md", Band: BandDomain, Order: 3},
	{ID: "container-hygiene", Family: FamilyRule, Flag: "container_build", Source: "rules/container-hygiene.md", Target: "rules/container-hygiene.md", Band: BandDomain, Order: 4},

	// Skills.
	{ID: "code-review", Family: FamilySkill, Mandatory: true, Source: "skills/code-review.md", Target: "skills/code-review.md", Order: 1},
	{ID: "review-api", Family: FamilySkill, Flag: "review_api", Source: "skills/review-api.md", Target: "skills/review-api.md", Order: 2},
	{ID: "rest-smoke-test", Family: FamilySkill, Flag: "rest_smoke_test", Source: "skills/rest-smoke-test.md", Target: "skills/rest-smoke-test.md", Order: 3},
	{ID: "socket-smoke-test", Family: FamilySkill, Flag: "socket_smoke_test", Source: "skills/socket-smoke-test.md", Target: "skills/socket-smoke-test.md", Order: 4},
	{ID: "websocket-probe", Family: FamilySkill, Flag: "websocket_probe", Source: "skills/websocket-probe.md", Target: "skills/websocket-probe.md", Order: 5},
	{ID: "db-migration", Family: FamilySkill, Flag: "db_migrations", Source: "skills/db-migration.md", Target: "skills/db-migration.md", Order: 6},
	{ID: "container-build", Family: FamilySkill, Flag: "container_build", Source: "skills/container-build.md", Target: "skills/container-build.md", Order: 7},

	// Agents. The four engineer personas are mandatory in every workspace.
	{ID: "architect", Family: FamilyAgent, Mandatory: true, Source: "agents/architect.md", Target: "agents/architect.md", Order: 1},
	{ID: "security-engineer", Family: FamilyAgent, Mandatory: true, Source: "agents/security-engineer.md", Target: "agents/security-engineer.md", Order: 2},
	{ID: "qa-engineer", Family: FamilyAgent, Mandatory: true, Source: "agents/qa-engineer.md", Target: "agents/qa-engineer.md", Order: 3},
	{ID: "performance-engineer", Family: FamilyAgent, Mandatory: true, Source: "agents/performance-engineer.md", Target: "agents/performance-engineer.md", Order: 4},
	{ID: "database-engineer", Family: FamilyAgent, Flag: "database_engineer", Source: "agents/database-engineer.md", Target: "agents/database-engineer.md", Order: 5},
	{ID: "api-engineer", Family: FamilyAgent, Flag: "api_engineer", Source: "agents/api-engineer.md", Target: "agents/api-engineer.md", Order: 6},
	{ID: "devops-engineer", Family: FamilyAgent, Flag: "devops_engineer", Source: "agents/devops-engineer.md", Target: "agents/devops-engineer.md", Order: 7},

	// Hooks.
	{ID: "format", Family: FamilyHook, Mandatory: true, Source: "hooks/format.sh", Target: "hooks/format.sh", Order: 1},
	{
		ID: "post-compile", Family: FamilyHook, Flag: "post_compile",
		Source: "hooks/post-compile.sh", Target: "hooks/post-compile.sh", Order: 2,
		Trigger: &HookTrigger{Event: "post-compile", Command: "hooks/post-compile.sh", TimeoutSeconds: 120},
	},

	// Permission fragments. No files; only settings entries.
	{ID: "perm-base", Family: FamilyPermission, Mandatory: true, Order: 1, Permissions: []string{
		"Read(./**)",
		"Bash(git status:*)",
		"Bash(git diff:*)",
		"Bash(git log:*)",
	}},
	{ID: "perm-build", Family: FamilyPermission, Flag: "post_compile", Order: 2, Permissions: []string{
		"Bash({{build_command}}:*)",
		"Bash({{test_command}}:*)",
	}},
	{ID: "perm-database", Family: FamilyPermission, Flag: "database_engineer", Order: 3, Permissions: []string{
		"Bash({{db_cli}}:*)",
	}},
	{ID: "perm-migration", Family: FamilyPermission, Flag: "db_migrations", Order: 4, Permissions: []string{
		"Bash({{migration_tool}}:*)",
	}},
	{ID: "perm-container", Family: FamilyPermission, Flag: "container_build", Order: 5, Permissions: []string{
		"Bash({{container_tool}} build:*)",
		"Bash({{container_tool}} run:*)",
	}},
	{ID: "perm-orchestrator", Family: FamilyPermission, Flag: "devops_engineer", Order: 6, Permissions: []string{
		"Bash({{orchestrator_cli}} apply:*)",
		"Bash({{orchestrator_cli}} get:*)",
	}},
}

// Components returns every descriptor of the family in stable
// (band, order, id) order.
func Components(family Family) []Descriptor {
	var out []Descriptor
	for _, d := range descriptors {
		if d.Family == family {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Band != out[j].Band {
			return out[i].Band < out[j].Band
		}
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// All returns every descriptor across families.
func All() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// Selection is the computed component split for one family. It is derived
// per run and discarded after use.
type Selection struct {
	Included []Descriptor
	Excluded []Descriptor
}

// Select computes the selection for a family: mandatory descriptors plus
// conditional descriptors whose flag resolved true. Order follows the
// catalog's stable sort, so two runs over the same resolved configuration
// select identical sequences.
func Select(family Family, r *config.Resolved) Selection {
	var sel Selection
	for _, d := range Components(family) {
		if d.Mandatory || r.Flag(d.Flag) {
			sel.Included = append(sel.Included, d)
		} else {
			sel.Excluded = append(sel.Excluded, d)
		}
	}
	return sel
}

// Verify checks catalog integrity: unique ids, unique rule prefixes, and
// every conditional descriptor referencing a declared flag. It guards
// against packaging defects and runs once at startup.
func Verify() error {
	ids := make(map[string]struct{}, len(descriptors))
	prefixes := make(map[int]string)
	for _, d := range descriptors {
		if _, dup := ids[d.ID]; dup {
			return fmt.Errorf("catalog: duplicate descriptor id %q", d.ID)
		}
		ids[d.ID] = struct{}{}

		if d.Mandatory && d.Flag != "" {
			return fmt.Errorf("catalog: mandatory descriptor %q must not carry flag %q", d.ID, d.Flag)
		}
		if !d.Mandatory {
			if _, ok := FlagByID(d.Flag); !ok {
				return fmt.Errorf("catalog: descriptor %q references unknown flag %q", d.ID, d.Flag)
			}
		}
		if d.Family == FamilyRule {
			if prev, dup := prefixes[d.Prefix()]; dup {
				return fmt.Errorf("catalog: rule prefix %02d assigned to both %q and %q", d.Prefix(), prev, d.ID)
			}
			prefixes[d.Prefix()] = d.ID
		}
	}
	return nil
}
