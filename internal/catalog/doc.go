// Package catalog is the static component registry: every rule, skill,
// agent, hook, and permission fragment the generator can materialize, the
// feature flags and predicates that gate them, the placeholder resolvers,
// and the enum/compatibility tables the loaders validate against. Nothing
// in this package is mutated at runtime.
package catalog
