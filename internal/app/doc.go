// Package app wires the generation pipeline: load, resolve, validate,
// assemble, compose, write. Every stage consumes an immutable value and
// returns a new one; the app owns no shared mutable state beyond its
// logger.
package app
