// Package models defines the domain entities for the nisu study companion.
//
// The package contains three categories of types:
//
// 1. Playlist types: the ordered worklist a student executes
//   - [Task] : One unit of learning work (id, kind, payload, status)
//   - [TaskKind] : Closed tagged variant over the five task kinds
//   - [TaskStatus] : pending | complete
//
// 2. Notebook types: identity of a teacher-owned task collection
//   - [Notebook] : Server record with durable id and human-readable name
//   - [NotebookRef] : Resolved reference (name always, id when known)
//
// 3. Progress types: per-student completion state
//   - [ProgressRecord] : Completed task ids for a (notebook, student) pair
//   - [UserData] : The signed-in student's identity
//
// Task identity is the id alone: definitions refresh from the server on every
// merge while completion status carries forward from the local cache.
package models
