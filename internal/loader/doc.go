// Package loader materializes validated units into executed module objects.
//
// Loading a unit evaluates its top-level `locals` exactly once into a
// namespace keyed by the unit's logical name, decodes its helper `function`
// blocks, and compiles every `tool` block into a callable that evaluates the
// tool's result expression per invocation. Each module owns its namespace in
// full; a reload discards the module object and re-executes the file, so no
// mutable state survives a reload unless a tool persisted it through the
// preference or memory store.
//
// The package also performs symbol extraction: enumerating a loaded module's
// members and selecting the subset eligible to become tools. Tool blocks are
// callable and exported; `function` helpers are callable but unit-internal;
// `locals` are plain values. A leading underscore keeps a tool private.
package loader
