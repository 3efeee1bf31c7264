// Package templates ships the static template payloads the assembler
// materializes. The prose inside is content, not logic; the engine only
// selects, substitutes, and writes it.
package templates

import "embed"

// FS holds every source template referenced by the component catalog.
//
//go:embed rules skills agents hooks
var FS embed.FS
