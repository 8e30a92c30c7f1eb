// Package store provides the persistence layer for pollo.
//
// The package defines narrow interfaces, [ApplicationStore], [ProductStore]
// and [UserStore], which the core services depend on, plus [Store] which a
// complete backend implements.
//
// # Backends
//
// Two backends are available and selected at runtime with [Open]:
//   - bolt (default): [Bolt], an embedded bbolt key-value file
//   - sqlite: package sqlite, a pure Go SQLite database with embedded migrations
//
// Absent entities are reported with an error wrapping [model.ErrNotFound];
// every other failure is a wrapped driver error.
//
// # Explicit Wiring
//
// There is no package-level instance. Callers open a store and pass it to the
// services that need it:
//
//	st, err := store.Open(store.BackendBolt, path)
//	engine := core.NewEngine(st, st, st, notifier)
package store
