// Package assemble selects the component set per family, assigns the
// deterministic output paths (numeric prefixes for rules), and performs
// placeholder substitution. Given the same resolved configuration, two
// independent runs produce byte-identical file sets: nothing here reads
// the clock, generates ids, or iterates a map.
package assemble

import (
	"fmt"
	"io/fs"
	"path"
	"regexp"

	"github.com/atelier-dev/atelier/internal/catalog"
	"github.com/atelier-dev/atelier/internal/config"
	"github.com/atelier-dev/atelier/internal/diag"
)

// ResolvedFile is one fully rendered output file.
type ResolvedFile struct {
	Path    string // relative to the target root
	Content []byte
	Mode    fs.FileMode
}

// placeholderToken matches a {{key}} occurrence. The key charset is fixed;
// anything else inside double braces is left alone and caught by review,
// not silently emitted.
var placeholderToken = regexp.MustCompile(`\{\{([a-z0-9_]+)\}\}`)

// Assembler renders selected components from a template tree.
type Assembler struct {
	templates fs.FS
}

// New returns an assembler reading source templates from the given tree.
func New(templates fs.FS) *Assembler {
	return &Assembler{templates: templates}
}

// Assemble renders every included component of one family. Permission
// fragments produce no files; they are the settings composer's input.
func (a *Assembler) Assemble(family catalog.Family, r *config.Resolved) ([]ResolvedFile, diag.Diagnostics) {
	var (
		files []ResolvedFile
		diags diag.Diagnostics
	)

	sel := catalog.Select(family, r)
	for _, d := range sel.Included {
		if d.Source == "" {
			continue
		}

		raw, err := fs.ReadFile(a.templates, d.Source)
		if err != nil {
			diags = diags.Templatef(d.Source, "source template unreadable: %v", err)
			continue
		}

		content, missing := Substitute(raw, r)
		for _, key := range missing {
			diags = diags.Templatef(d.Source, "unresolved placeholder %q", key)
		}
		if len(missing) > 0 {
			continue
		}

		files = append(files, ResolvedFile{
			Path:    targetPath(d),
			Content: content,
			Mode:    fileMode(d.Family),
		})
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return files, nil
}

// AssembleAll renders every file-producing family in output order.
func (a *Assembler) AssembleAll(r *config.Resolved) ([]ResolvedFile, diag.Diagnostics) {
	var (
		files []ResolvedFile
		diags diag.Diagnostics
	)
	for _, family := range catalog.Families() {
		if family == catalog.FamilyPermission {
			continue
		}
		rendered, d := a.Assemble(family, r)
		diags = diags.Extend(d)
		files = append(files, rendered...)
	}
	if diags.HasErrors() {
		return nil, diags
	}
	return files, nil
}

// Substitute replaces every registered {{key}} token and reports the keys
// that have no registered resolver. Substitution is single-pass: resolved
// values are never re-scanned for tokens.
func Substitute(raw []byte, r *config.Resolved) ([]byte, []string) {
	var missing []string
	seen := make(map[string]struct{})

	out := placeholderToken.ReplaceAllFunc(raw, func(token []byte) []byte {
		key := string(placeholderToken.FindSubmatch(token)[1])
		p, ok := catalog.PlaceholderByKey(key)
		if !ok {
			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				missing = append(missing, key)
			}
			return token
		}
		return []byte(p.Resolve(r))
	})

	return out, missing
}

// targetPath computes the output path of a descriptor. Rules carry their
// stable numeric prefix; every other family uses the catalog path as-is.
func targetPath(d catalog.Descriptor) string {
	if d.Family != catalog.FamilyRule {
		return d.Target
	}
	dir, base := path.Split(d.Target)
	return fmt.Sprintf("%s%02d-%s", dir, d.Prefix(), base)
}

func fileMode(family catalog.Family) fs.FileMode {
	if family == catalog.FamilyHook {
		return 0o755
	}
	return 0o644
}
