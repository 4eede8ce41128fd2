// Package store is the SQLite storage engine behind lookout's prepared
// queries.
//
// A Store implements lookout.DB: Select resolves statements into
// cursors, and Watch exposes the change-notification hub. The write side
// (Mutate, Insert, Delete) publishes a ChangeEvent for the affected
// tables after each successful write, which is what drives live query
// re-execution.
//
// The database is opened with WAL mode, NORMAL synchronous, a 5-second
// busy timeout, and foreign keys on. SQLite allows one writer at a time,
// so the connection pool is capped at a single connection.
package store
