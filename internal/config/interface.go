package config

import (
	"context"

	"github.com/atelier-dev/atelier/internal/diag"
)

// Loader is the interface for a format-specific configuration loader. An
// implementation parses one document into the agnostic Project model,
// collecting every syntactic problem it finds rather than stopping at the
// first. Semantic shape checks (enum membership, compatibility) are the
// catalog's job and run after loading.
type Loader interface {
	Load(ctx context.Context, path string) (*Project, diag.Diagnostics)
}
