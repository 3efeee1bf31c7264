package assemble

import (
	"bytes"
	"context"
	"crypto/sha256"
	"testing"
	"testing/fstest"

	"github.com/atelier-dev/atelier/internal/catalog"
	"github.com/atelier-dev/atelier/internal/config"
	"github.com/atelier-dev/atelier/internal/resolve"
	"github.com/atelier-dev/atelier/templates"
	"github.com/stretchr/testify/require"
)

func mustResolve(t *testing.T, p *config.Project) *config.Resolved {
	t.Helper()
	r, diags := resolve.Resolve(context.Background(), p)
	require.False(t, diags.HasErrors(), "resolution failed: %v", diags)
	return r
}

func minimalProject() *config.Project {
	return &config.Project{Name: "demo", Language: "go", Database: config.Database{Type: "none"}}
}

func fullProject() *config.Project {
	return &config.Project{
		Name:           "payments",
		Language:       "java21",
		Framework:      "quarkus",
		Database:       config.Database{Type: "postgresql", Migration: "flyway"},
		Protocols:      []string{"rest", "tcp-custom"},
		Infrastructure: config.Infrastructure{Container: "docker", Orchestrator: "kubernetes"},
	}
}

func pathsOf(files []ResolvedFile) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Path)
	}
	return out
}

func TestAssembleMinimalScenario(t *testing.T) {
	t.Parallel()

	r := mustResolve(t, minimalProject())
	files, diags := New(templates.FS).AssembleAll(r)
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %v", diags)

	paths := pathsOf(files)

	// All mandatory rules and agents are present.
	require.Contains(t, paths, "rules/01-core-principles.md")
	require.Contains(t, paths, "rules/21-language-guidelines.md")
	require.Contains(t, paths, "agents/architect.md")
	require.Contains(t, paths, "agents/security-engineer.md")
	require.Contains(t, paths, "agents/qa-engineer.md")
	require.Contains(t, paths, "agents/performance-engineer.md")
	require.Contains(t, paths, "skills/code-review.md")

	// Zero database-conditional components, zero review_api skill.
	require.NotContains(t, paths, "rules/41-database-conventions.md")
	require.NotContains(t, paths, "agents/database-engineer.md")
	require.NotContains(t, paths, "skills/review-api.md")
	require.NotContains(t, paths, "skills/db-migration.md")

	// Go is a compiled language: the post-compile hook is selected.
	require.Contains(t, paths, "hooks/post-compile.sh")
}

func TestAssembleFullScenario(t *testing.T) {
	t.Parallel()

	r := mustResolve(t, fullProject())
	files, diags := New(templates.FS).AssembleAll(r)
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %v", diags)

	paths := pathsOf(files)
	require.Contains(t, paths, "agents/database-engineer.md")
	require.Contains(t, paths, "agents/api-engineer.md")
	require.Contains(t, paths, "skills/rest-smoke-test.md")
	require.Contains(t, paths, "skills/socket-smoke-test.md")
	require.Contains(t, paths, "hooks/post-compile.sh")
	require.Contains(t, paths, "rules/22-framework-guidelines.md")
	require.Contains(t, paths, "rules/41-database-conventions.md")
	require.Contains(t, paths, "rules/42-api-design.md")
}

func TestAssembleIdempotent(t *testing.T) {
	t.Parallel()

	r := mustResolve(t, fullProject())
	asm := New(templates.FS)

	first, diags := asm.AssembleAll(r)
	require.False(t, diags.HasErrors())
	second, diags := asm.AssembleAll(r)
	require.False(t, diags.HasErrors())

	require.Equal(t, len(first), len(second))
	for i := range first {
		require.Equal(t, first[i].Path, second[i].Path)
		require.Equal(t, sha256.Sum256(first[i].Content), sha256.Sum256(second[i].Content),
			"content drift in %s", first[i].Path)
	}
}

func TestSubstitution(t *testing.T) {
	t.Parallel()

	r := mustResolve(t, fullProject())
	out, missing := Substitute([]byte("build: {{build_command}} for {{project_name}}"), r)
	require.Empty(t, missing)
	require.Equal(t, "build: mvn -q -B compile for payments", string(out))
}

func TestUnresolvedPlaceholderIsFatal(t *testing.T) {
	t.Parallel()

	broken := fstest.MapFS{
		"rules/core-principles.md":     &fstest.MapFile{Data: []byte("{{no_such_key}} and {{another_bad}}")},
		"rules/code-style.md":          &fstest.MapFile{Data: []byte("fine")},
		"rules/testing-standards.md":   &fstest.MapFile{Data: []byte("fine")},
		"rules/git-workflow.md":        &fstest.MapFile{Data: []byte("fine")},
		"rules/documentation.md":       &fstest.MapFile{Data: []byte("fine")},
		"rules/language-guidelines.md": &fstest.MapFile{Data: []byte("fine")},
	}

	r := mustResolve(t, minimalProject())
	files, diags := New(broken).Assemble(catalog.FamilyRule, r)
	require.Nil(t, files)
	require.Len(t, diags, 2)
	require.Contains(t, diags.Error(), "no_such_key")
	require.Contains(t, diags.Error(), "rules/core-principles.md")
}

func TestMissingSourceTemplate(t *testing.T) {
	t.Parallel()

	r := mustResolve(t, minimalProject())
	files, diags := New(fstest.MapFS{}).Assemble(catalog.FamilyAgent, r)
	require.Nil(t, files)
	require.True(t, diags.HasErrors())
	require.Contains(t, diags.Error(), "source template unreadable")
}

func TestHookFilesExecutable(t *testing.T) {
	t.Parallel()

	r := mustResolve(t, minimalProject())
	files, diags := New(templates.FS).Assemble(catalog.FamilyHook, r)
	require.False(t, diags.HasErrors())
	require.NotEmpty(t, files)
	for _, f := range files {
		require.Equal(t, uint32(0o755), uint32(f.Mode), "hook %s not executable", f.Path)
	}
}

func TestNoTimestampsInOutput(t *testing.T) {
	t.Parallel()

	r := mustResolve(t, minimalProject())
	files, diags := New(templates.FS).AssembleAll(r)
	require.False(t, diags.HasErrors())
	for _, f := range files {
		require.False(t, bytes.Contains(f.Content, []byte("{{")),
			"unsubstituted token left in %s", f.Path)
	}
}
