package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/atelier-dev/atelier/internal/cli"
	"github.com/atelier-dev/atelier/internal/diag"
	"github.com/stretchr/testify/require"
)

func TestRunNoArgsShowsUsage(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	require.NoError(t, run(&out, &errOut, nil))
	require.Contains(t, out.String(), "Usage:")
}

func TestRunGenerate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "project.hcl")
	require.NoError(t, os.WriteFile(configPath, []byte(`
project {
  name     = "demo"
  language = "go"
}
`), 0o644))
	target := filepath.Join(dir, "workspace")

	var out, errOut bytes.Buffer
	require.NoError(t, run(&out, &errOut, []string{"generate", "--config", configPath, "--output", target}))

	_, err := os.Stat(filepath.Join(target, "settings.json"))
	require.NoError(t, err)
	require.Contains(t, out.String(), "generated")
}

func TestRunBadCommandIsExitError(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	err := run(&out, &errOut, []string{"frobnicate"})

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
}

func TestRunInvalidConfigReturnsDiagnostics(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "project.hcl")
	require.NoError(t, os.WriteFile(configPath, []byte(`
project {
  name     = "demo"
  language = "brainfuck"
}
`), 0o644))

	var out, errOut bytes.Buffer
	err := run(&out, &errOut, []string{"generate", "--config", configPath, "--output", filepath.Join(dir, "ws")})

	var diags diag.Diagnostics
	require.ErrorAs(t, err, &diags)
	require.Contains(t, diags.Error(), "unknown language")
}
