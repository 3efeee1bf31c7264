package validate

import (
	"context"
	"testing"

	"github.com/atelier-dev/atelier/internal/config"
	"github.com/atelier-dev/atelier/internal/diag"
	"github.com/atelier-dev/atelier/internal/resolve"
	"github.com/stretchr/testify/require"
)

func mustResolve(t *testing.T, p *config.Project) *config.Resolved {
	t.Helper()
	r, diags := resolve.Resolve(context.Background(), p)
	require.False(t, diags.HasErrors(), "resolution failed: %v", diags)
	return r
}

func TestValidConfigPasses(t *testing.T) {
	t.Parallel()

	r := mustResolve(t, &config.Project{
		Name:           "payments",
		Language:       "java21",
		Framework:      "quarkus",
		Database:       config.Database{Type: "postgresql", Migration: "flyway"},
		Protocols:      []string{"rest", "tcp-custom"},
		Infrastructure: config.Infrastructure{Container: "docker", Orchestrator: "kubernetes"},
	})

	require.Empty(t, Check(context.Background(), r))
}

func TestTwoIndependentIncompatibilitiesBothReported(t *testing.T) {
	t.Parallel()

	// Relational-only migration tool against a document store, and an
	// orchestrator without any container runtime.
	r := mustResolve(t, &config.Project{
		Name:           "demo",
		Language:       "go",
		Database:       config.Database{Type: "mongodb", Migration: "flyway"},
		Infrastructure: config.Infrastructure{Container: "none", Orchestrator: "kubernetes"},
	})

	diags := Check(context.Background(), r)
	require.Len(t, diags.OfClass(diag.Validation), 2)
	require.Contains(t, diags.Error(), "relational database")
	require.Contains(t, diags.Error(), "container runtime")
}

func TestMigrationWithoutDatabase(t *testing.T) {
	t.Parallel()

	r := mustResolve(t, &config.Project{
		Name:     "demo",
		Language: "go",
		Database: config.Database{Type: "none", Migration: "goose"},
	})

	diags := Check(context.Background(), r)
	require.True(t, diags.HasErrors())
	require.Contains(t, diags.Error(), `database.type is "none"`)
}

func TestFrameworkLanguageMismatch(t *testing.T) {
	t.Parallel()

	r := mustResolve(t, &config.Project{Name: "demo", Language: "go", Framework: "quarkus"})

	diags := Check(context.Background(), r)
	require.True(t, diags.HasErrors())
	require.Contains(t, diags.Error(), "not compatible with language")
}

func TestDanglingForcedFlag(t *testing.T) {
	t.Parallel()

	// socket_smoke_test force-enabled without the tcp-custom protocol.
	r := mustResolve(t, &config.Project{
		Name:      "demo",
		Language:  "go",
		Protocols: []string{"rest"},
		Options:   map[string]config.TriState{"socket_smoke_test": config.True},
	})

	diags := Check(context.Background(), r)
	require.True(t, diags.HasErrors())
	require.Contains(t, diags.Error(), "socket_smoke_test")
	require.Contains(t, diags.Error(), "prerequisite")
}

func TestForcedFlagWithPrerequisitePresent(t *testing.T) {
	t.Parallel()

	// review_api forced on with only grpc declared: the predicate default
	// is false, but the prerequisite (rest or grpc) holds, so the override
	// is accepted.
	r := mustResolve(t, &config.Project{
		Name:      "demo",
		Language:  "go",
		Protocols: []string{"grpc"},
		Options:   map[string]config.TriState{"review_api": config.True},
	})

	require.Empty(t, Check(context.Background(), r))
	require.True(t, r.Flag("review_api"))
}
