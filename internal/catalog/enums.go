package catalog

import (
	"slices"
	"strings"

	"github.com/atelier-dev/atelier/internal/config"
	"github.com/atelier-dev/atelier/internal/diag"
)

// Enum tables. The empty string is normalized to the declared default by
// loaders before validation, so only explicit values appear here.
var (
	languages     = []string{"go", "java21", "kotlin", "rust", "csharp", "python", "typescript"}
	frameworks    = []string{"none", "quarkus", "spring-boot", "gin", "echo", "axum", "aspnet", "fastapi", "express"}
	databases     = []string{"none", "postgresql", "mysql", "mongodb", "redis"}
	migrations    = []string{"none", "flyway", "liquibase", "goose", "atlas"}
	protocols     = []string{"rest", "grpc", "tcp-custom", "websocket"}
	containers    = []string{"none", "docker", "podman"}
	orchestrators = []string{"none", "kubernetes", "nomad"}
)

// frameworkLanguages declares which languages each framework is compatible
// with. Frameworks absent from the map run anywhere.
var frameworkLanguages = map[string][]string{
	"quarkus":     {"java21", "kotlin"},
	"spring-boot": {"java21", "kotlin"},
	"gin":         {"go"},
	"echo":        {"go"},
	"axum":        {"rust"},
	"aspnet":      {"csharp"},
	"fastapi":     {"python"},
	"express":     {"typescript"},
}

// relationalDatabases are the stores the relational-only migration tools
// can target.
var relationalDatabases = []string{"postgresql", "mysql"}

// relationalMigrations are the migration tools that require a relational
// database.
var relationalMigrations = []string{"flyway", "liquibase", "goose", "atlas"}

// buildCommands and testCommands derive the toolchain invocations placed
// into templates and permission entries.
var buildCommands = map[string]string{
	"go":         "go build ./...",
	"java21":     "mvn -q -B compile",
	"kotlin":     "gradle build",
	"rust":       "cargo build",
	"csharp":     "dotnet build",
	"python":     "python -m compileall .",
	"typescript": "npm run build",
}

var testCommands = map[string]string{
	"go":         "go test ./...",
	"java21":     "mvn -q -B test",
	"kotlin":     "gradle test",
	"rust":       "cargo test",
	"csharp":     "dotnet test",
	"python":     "pytest",
	"typescript": "npm test",
}

// databaseCLIs maps a database type to its client binary, used by
// permission fragments and skill templates.
var databaseCLIs = map[string]string{
	"postgresql": "psql",
	"mysql":      "mysql",
	"mongodb":    "mongosh",
	"redis":      "redis-cli",
}

// orchestratorCLIs maps an orchestrator to its control binary.
var orchestratorCLIs = map[string]string{
	"kubernetes": "kubectl",
	"nomad":      "nomad",
}

// BuildCommand returns the compile invocation for a language, or the empty
// string for an unknown one (validation rejects those before use).
func BuildCommand(language string) string { return buildCommands[language] }

// TestCommand returns the test invocation for a language.
func TestCommand(language string) string { return testCommands[language] }

// DatabaseCLI returns the client binary for a database type.
func DatabaseCLI(dbType string) string { return databaseCLIs[dbType] }

// OrchestratorCLI returns the control binary for an orchestrator.
func OrchestratorCLI(orchestrator string) string { return orchestratorCLIs[orchestrator] }

// RelationalDatabase reports whether the type is a relational store.
func RelationalDatabase(dbType string) bool {
	return slices.Contains(relationalDatabases, dbType)
}

// MigrationRequiresRelational reports whether the migration tool only
// works against relational stores.
func MigrationRequiresRelational(tool string) bool {
	return slices.Contains(relationalMigrations, tool)
}

// FrameworkCompatible reports whether the framework runs on the language.
func FrameworkCompatible(framework, language string) bool {
	allowed, constrained := frameworkLanguages[framework]
	if !constrained {
		return true
	}
	return slices.Contains(allowed, language)
}

// ValidateProject performs the shape validation every loader path shares:
// required fields present, every enum field within its declared values,
// protocols free of duplicates. Cross-field compatibility is the dependency
// validator's job. All violations are collected in one pass.
func ValidateProject(p *config.Project) diag.Diagnostics {
	var diags diag.Diagnostics

	if strings.TrimSpace(p.Name) == "" {
		diags = diags.Configf("project.name", "required field is missing")
	}
	if p.Language == "" {
		diags = diags.Configf("project.language", "required field is missing")
	} else if !slices.Contains(languages, p.Language) {
		diags = diags.Configf("project.language", "unknown language %q (allowed: %s)", p.Language, strings.Join(languages, ", "))
	}
	if p.Framework != "" && !slices.Contains(frameworks, p.Framework) {
		diags = diags.Configf("project.framework", "unknown framework %q (allowed: %s)", p.Framework, strings.Join(frameworks, ", "))
	}
	if p.Database.Type != "" && !slices.Contains(databases, p.Database.Type) {
		diags = diags.Configf("stack.database.type", "unknown database type %q (allowed: %s)", p.Database.Type, strings.Join(databases, ", "))
	}
	if p.Database.Migration != "" && !slices.Contains(migrations, p.Database.Migration) {
		diags = diags.Configf("stack.database.migration", "unknown migration tool %q (allowed: %s)", p.Database.Migration, strings.Join(migrations, ", "))
	}
	seen := make(map[string]struct{}, len(p.Protocols))
	for _, proto := range p.Protocols {
		if !slices.Contains(protocols, proto) {
			diags = diags.Configf("stack.protocols", "unknown protocol %q (allowed: %s)", proto, strings.Join(protocols, ", "))
			continue
		}
		if _, dup := seen[proto]; dup {
			diags = diags.Configf("stack.protocols", "protocol %q declared more than once", proto)
		}
		seen[proto] = struct{}{}
	}
	if c := p.Infrastructure.Container; c != "" && !slices.Contains(containers, c) {
		diags = diags.Configf("stack.infrastructure.container", "unknown container runtime %q (allowed: %s)", c, strings.Join(containers, ", "))
	}
	if o := p.Infrastructure.Orchestrator; o != "" && !slices.Contains(orchestrators, o) {
		diags = diags.Configf("stack.infrastructure.orchestrator", "unknown orchestrator %q (allowed: %s)", o, strings.Join(orchestrators, ", "))
	}

	return diags
}

// Enum accessors for the interactive wizard's choice lists.
func Languages() []string     { return slices.Clone(languages) }
func Frameworks() []string    { return slices.Clone(frameworks) }
func Databases() []string     { return slices.Clone(databases) }
func Migrations() []string    { return slices.Clone(migrations) }
func Protocols() []string     { return slices.Clone(protocols) }
func Containers() []string    { return slices.Clone(containers) }
func Orchestrators() []string { return slices.Clone(orchestrators) }
