// Package output commits a fully staged output tree in one rename. Either
// the whole generated tree becomes visible at the target or nothing does;
// a failure at any staging step leaves the target exactly as it was.
//
// The writer does not coordinate concurrent generations against the same
// target. Running two at once is unsupported; the atomic rename only
// guarantees no interleaved partial tree ever appears.
package output

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/atelier-dev/atelier/internal/assemble"
	"github.com/atelier-dev/atelier/internal/ctxlog"
	"github.com/atelier-dev/atelier/internal/diag"
	"github.com/atelier-dev/atelier/internal/settings"
)

// ProtectedLocalSettings is the user-owned override file the generator
// must never produce, overwrite, or drop during a commit.
const ProtectedLocalSettings = "settings.local.json"

// managedDirs are the family directories the generator owns outright.
var managedDirs = []string{"rules", "skills", "agents", "hooks"}

// Write stages every file under a sibling temp directory and commits it
// into target atomically. Files already present in target that are outside
// the managed region are carried into the new tree unchanged.
func Write(ctx context.Context, files []assemble.ResolvedFile, target string) diag.Diagnostics {
	logger := ctxlog.FromContext(ctx)
	var diags diag.Diagnostics

	target, err := filepath.Abs(target)
	if err != nil {
		return diags.IOf(target, "cannot resolve target path: %v", err)
	}

	// Reject protected-path collisions before anything touches disk.
	for _, f := range files {
		if isProtected(f.Path) {
			diags = diags.IOf(f.Path, "generated file collides with a protected user-owned path")
		}
	}
	if diags.HasErrors() {
		return diags
	}

	parent := filepath.Dir(target)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return diags.IOf(parent, "cannot create target parent: %v", err)
	}

	// The stage lives next to the target so the final rename stays on one
	// filesystem.
	stage, err := os.MkdirTemp(parent, ".atelier-stage-")
	if err != nil {
		return diags.IOf(parent, "cannot create staging directory: %v", err)
	}
	committed := false
	defer func() {
		if !committed {
			os.RemoveAll(stage)
		}
	}()

	for _, f := range files {
		dst := filepath.Join(stage, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return diags.IOf(f.Path, "cannot stage directory: %v", err)
		}
		if err := os.WriteFile(dst, f.Content, f.Mode); err != nil {
			return diags.IOf(f.Path, "cannot stage file: %v", err)
		}
	}
	logger.Debug("output tree staged", "files", len(files), "stage", stage)

	info, statErr := os.Stat(target)
	switch {
	case statErr == nil && !info.IsDir():
		return diags.IOf(target, "target exists and is not a directory")
	case statErr == nil:
		if d := preserveUnmanaged(target, stage); d.HasErrors() {
			return diags.Extend(d)
		}
		if d := swap(target, stage, parent); d.HasErrors() {
			return diags.Extend(d)
		}
	case os.IsNotExist(statErr):
		if err := os.Rename(stage, target); err != nil {
			return diags.IOf(target, "cannot commit output tree: %v", err)
		}
	default:
		return diags.IOf(target, "cannot stat target: %v", statErr)
	}

	committed = true
	logger.Info("output tree committed", "target", target)
	return nil
}

// isProtected reports whether a generated path would shadow user-owned
// territory: the local settings override, or anything outside the managed
// family directories and the generated settings document.
func isProtected(rel string) bool {
	rel = filepath.ToSlash(rel)
	if rel == settings.FileName {
		return false
	}
	if rel == ProtectedLocalSettings || strings.HasSuffix(rel, "/"+ProtectedLocalSettings) {
		return true
	}
	top, _, nested := strings.Cut(rel, "/")
	if !nested {
		// Unknown root-level file: not ours to write.
		return true
	}
	for _, dir := range managedDirs {
		if top == dir {
			return false
		}
	}
	return true
}

// preserveUnmanaged copies everything in the existing target that the
// generator does not own into the stage, so the commit swap cannot lose
// user files living alongside the generated tree.
func preserveUnmanaged(target, stage string) diag.Diagnostics {
	var diags diag.Diagnostics

	entries, err := os.ReadDir(target)
	if err != nil {
		return diags.IOf(target, "cannot read existing target: %v", err)
	}

	for _, entry := range entries {
		if owned(entry) {
			continue
		}
		src := filepath.Join(target, entry.Name())
		dst := filepath.Join(stage, entry.Name())
		if err := copyTree(src, dst); err != nil {
			return diags.IOf(entry.Name(), "cannot preserve user file: %v", err)
		}
	}
	return nil
}

// owned reports whether a top-level target entry belongs to the generator.
func owned(entry os.DirEntry) bool {
	if entry.IsDir() {
		for _, dir := range managedDirs {
			if entry.Name() == dir {
				return true
			}
		}
		return false
	}
	return entry.Name() == settings.FileName
}

// swap replaces target with stage, restoring the original on failure.
func swap(target, stage, parent string) diag.Diagnostics {
	var diags diag.Diagnostics

	oldDir, err := os.MkdirTemp(parent, ".atelier-old-")
	if err != nil {
		return diags.IOf(parent, "cannot create swap directory: %v", err)
	}
	defer os.RemoveAll(oldDir)

	previous := filepath.Join(oldDir, "previous")
	if err := os.Rename(target, previous); err != nil {
		return diags.IOf(target, "cannot move previous tree aside: %v", err)
	}
	if err := os.Rename(stage, target); err != nil {
		// Best effort restore; the previous tree is still intact.
		if restoreErr := os.Rename(previous, target); restoreErr != nil {
			return diags.IOf(target, "commit failed (%v) and restore failed (%v); previous tree at %s", err, restoreErr, previous)
		}
		return diags.IOf(target, "cannot commit output tree: %v", err)
	}
	return nil
}

// copyTree copies a file or directory recursively, preserving modes.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		targetPath := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(targetPath, info.Mode().Perm())
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
			return err
		}
		return os.WriteFile(targetPath, data, info.Mode().Perm())
	})
}

// Managed reports whether a relative path within the target is part of the
// template-managed region. Exposed for tests and callers that need to
// explain ownership.
func Managed(rel string) bool {
	return !isProtected(rel)
}
