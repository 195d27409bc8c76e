// Package store is the persistence collaborator: a string-keyed get, set,
// delete, list surface backed by SQLite, used by the built-in preference and
// session-memory tools. The registry engine itself never touches it.
package store
