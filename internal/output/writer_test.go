package output

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/atelier-dev/atelier/internal/assemble"
	"github.com/stretchr/testify/require"
)

func sampleFiles() []assemble.ResolvedFile {
	return []assemble.ResolvedFile{
		{Path: "rules/01-core-principles.md", Content: []byte("# Core\n"), Mode: 0o644},
		{Path: "agents/architect.md", Content: []byte("# Architect\n"), Mode: 0o644},
		{Path: "hooks/format.sh", Content: []byte("#!/bin/sh\n"), Mode: 0o755},
		{Path: "settings.json", Content: []byte("{}\n"), Mode: 0o644},
	}
}

func TestWriteFreshTarget(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "workspace")
	diags := Write(context.Background(), sampleFiles(), target)
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %v", diags)

	data, err := os.ReadFile(filepath.Join(target, "rules", "01-core-principles.md"))
	require.NoError(t, err)
	require.Equal(t, "# Core\n", string(data))

	info, err := os.Stat(filepath.Join(target, "hooks", "format.sh"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	// No staging residue next to the target.
	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestWritePreservesUserFiles(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "workspace")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "rules"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, ProtectedLocalSettings), []byte(`{"local":true}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(target, "NOTES.md"), []byte("mine"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(target, "rules", "99-stale.md"), []byte("old"), 0o644))

	diags := Write(context.Background(), sampleFiles(), target)
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %v", diags)

	// User-owned files at the root survive the swap.
	data, err := os.ReadFile(filepath.Join(target, ProtectedLocalSettings))
	require.NoError(t, err)
	require.Equal(t, `{"local":true}`, string(data))
	data, err = os.ReadFile(filepath.Join(target, "NOTES.md"))
	require.NoError(t, err)
	require.Equal(t, "mine", string(data))

	// The managed region is owned outright: stale generated files go away.
	_, err = os.Stat(filepath.Join(target, "rules", "99-stale.md"))
	require.True(t, os.IsNotExist(err))
}

func TestWriteRejectsProtectedCollision(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "workspace")
	files := append(sampleFiles(), assemble.ResolvedFile{
		Path: ProtectedLocalSettings, Content: []byte("{}"), Mode: 0o644,
	})

	diags := Write(context.Background(), files, target)
	require.True(t, diags.HasErrors())
	require.Contains(t, diags.Error(), "protected")

	// Nothing was written.
	_, err := os.Stat(target)
	require.True(t, os.IsNotExist(err))
}

func TestWriteRejectsUnmanagedRootFile(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "workspace")
	files := []assemble.ResolvedFile{{Path: "README.md", Content: []byte("x"), Mode: 0o644}}

	diags := Write(context.Background(), files, target)
	require.True(t, diags.HasErrors())
	_, err := os.Stat(target)
	require.True(t, os.IsNotExist(err))
}

func TestWriteTargetIsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "workspace")
	require.NoError(t, os.WriteFile(target, []byte("in the way"), 0o644))

	diags := Write(context.Background(), sampleFiles(), target)
	require.True(t, diags.HasErrors())
	require.Contains(t, diags.Error(), "not a directory")

	// The blocking file is untouched.
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "in the way", string(data))
}

func TestManaged(t *testing.T) {
	t.Parallel()

	require.True(t, Managed("rules/01-core-principles.md"))
	require.True(t, Managed("settings.json"))
	require.False(t, Managed(ProtectedLocalSettings))
	require.False(t, Managed("rules/"+ProtectedLocalSettings))
	require.False(t, Managed("README.md"))
	require.False(t, Managed("docs/guide.md"))
}
