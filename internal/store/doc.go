// Package store owns SQLite persistence for tasks and conversation
// messages. It exposes record-level primitives (create, get, replace,
// patch, delete, toggle) and a filtered/sorted/paginated query engine.
//
// The store enforces no policy: ownership checks and per-operation
// validation belong to the dispatch layer. Every mutating call runs as
// a single transaction and commits durably before returning.
package store
