package resolve

import (
	"context"
	"testing"

	"github.com/atelier-dev/atelier/internal/config"
	"github.com/stretchr/testify/require"
)

func TestPredicateTruthTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		project config.Project
		flag    string
		want    bool
	}{
		{
			name:    "rest protocol enables review_api",
			project: config.Project{Language: "go", Protocols: []string{"rest"}},
			flag:    "review_api",
			want:    true,
		},
		{
			name:    "tcp-custom alone does not enable review_api",
			project: config.Project{Language: "go", Protocols: []string{"tcp-custom"}},
			flag:    "review_api",
			want:    false,
		},
		{
			name:    "tcp-custom enables socket_smoke_test",
			project: config.Project{Language: "go", Protocols: []string{"tcp-custom"}},
			flag:    "socket_smoke_test",
			want:    true,
		},
		{
			name:    "database enables database_engineer",
			project: config.Project{Language: "go", Database: config.Database{Type: "postgresql"}},
			flag:    "database_engineer",
			want:    true,
		},
		{
			name:    "database none disables database_engineer",
			project: config.Project{Language: "go", Database: config.Database{Type: "none"}},
			flag:    "database_engineer",
			want:    false,
		},
		{
			name:    "compiled language enables post_compile",
			project: config.Project{Language: "java21"},
			flag:    "post_compile",
			want:    true,
		},
		{
			name:    "interpreted language disables post_compile",
			project: config.Project{Language: "python"},
			flag:    "post_compile",
			want:    false,
		},
		{
			name:    "grpc enables api_engineer without review_api",
			project: config.Project{Language: "go", Protocols: []string{"grpc"}},
			flag:    "api_engineer",
			want:    true,
		},
		{
			name:    "orchestrator enables devops_engineer",
			project: config.Project{Language: "go", Infrastructure: config.Infrastructure{Container: "docker", Orchestrator: "kubernetes"}},
			flag:    "devops_engineer",
			want:    true,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r, diags := Resolve(context.Background(), &tc.project)
			require.False(t, diags.HasErrors(), "unexpected diagnostics: %v", diags)
			require.Equal(t, tc.want, r.Flag(tc.flag))
		})
	}
}

func TestExplicitOverridesAuto(t *testing.T) {
	t.Parallel()

	p := &config.Project{
		Language:  "go",
		Protocols: []string{"rest"},
		Options: map[string]config.TriState{
			"review_api":      config.False, // predicate says true
			"container_build": config.True,  // predicate says false
			"post_compile":    config.Auto,  // explicit auto defers
		},
	}

	r, diags := Resolve(context.Background(), p)
	require.False(t, diags.HasErrors())
	require.False(t, r.Flag("review_api"))
	require.True(t, r.Flag("container_build"))
	require.True(t, r.Flag("post_compile"))
}

func TestUnknownAndReservedFlagIDs(t *testing.T) {
	t.Parallel()

	p := &config.Project{
		Language: "go",
		Options: map[string]config.TriState{
			"security_engineer": config.False,
			"no_such_flag":      config.True,
		},
	}

	_, diags := Resolve(context.Background(), p)
	require.Len(t, diags, 2)
	require.Contains(t, diags.Error(), "mandatory and cannot be configured")
	require.Contains(t, diags.Error(), "unknown feature flag")
}

func TestDerivedCommands(t *testing.T) {
	t.Parallel()

	r, diags := Resolve(context.Background(), &config.Project{Language: "rust"})
	require.False(t, diags.HasErrors())
	require.Equal(t, "cargo build", r.BuildCommand)
	require.Equal(t, "cargo test", r.TestCommand)
}

func TestEveryFlagResolved(t *testing.T) {
	t.Parallel()

	r, diags := Resolve(context.Background(), &config.Project{Language: "go"})
	require.False(t, diags.HasErrors())
	for _, id := range []string{"review_api", "api_engineer", "database_engineer", "db_migrations", "rest_smoke_test", "socket_smoke_test", "websocket_probe", "framework_rules", "container_build", "devops_engineer", "post_compile"} {
		_, present := r.Flags[id]
		require.True(t, present, "flag %q missing from resolved set", id)
	}
}
