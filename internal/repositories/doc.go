// Package repositories implements the SQLite local cache shared by the
// resolver, merge flow, and progress synchronizer.
//
// The cache is a single mutable store. Writes are full-value replacements
// (not partial patches): callers re-read the latest cached value immediately
// before writing back so a read-modify-write never acts on a stale copy
// captured earlier in the same turn.
//
// Key Implementations:
//   - [NotebookRepository] : id↔name mapping and the last-opened notebook;
//     entries are added opportunistically and never deleted (staleness is
//     acceptable)
//   - [PlaylistRepository] : merged playlist plus cursor, keyed by notebook
//   - [SessionRepository] : single-row bearer token and student identity
package repositories
