package query

import (
	"errors"
	"fmt"
)

// Descriptor describes what to read. It is a sealed sum type: the only
// variants are Query and RawQuery, so a type switch over a Descriptor is
// exhaustive.
type Descriptor interface {
	// WatchedTables returns the set of tables whose changes invalidate
	// results of this descriptor. Empty means "cannot be invalidated".
	WatchedTables() []string

	// Validate checks the descriptor's structural invariants.
	Validate() error

	sealed()
}

// ErrEmptyTable is returned by Query.Validate when no table is set.
var ErrEmptyTable = errors.New("query: table must be non-empty")

// ErrEmptyStmt is returned by RawQuery.Validate when no statement is set.
var ErrEmptyStmt = errors.New("query: raw statement must be non-empty")

// Query is a structured descriptor for a single-table SELECT.
//
// Only Table is required. Where is a predicate fragment with "?"
// placeholders; Args supplies the placeholder values in order.
type Query struct {
	// Table is the source table. Required.
	Table string

	// Columns to select. Empty selects all columns.
	Columns []string

	// Distinct adds DISTINCT to the select clause.
	Distinct bool

	// Where is a predicate fragment, e.g. "age > ? AND active = ?".
	// Values must be placeholders, never interpolated.
	Where string

	// Args are the placeholder values for Where (and Having).
	Args []any

	// GroupBy is a comma-separated grouping expression.
	GroupBy string

	// Having is a group filter fragment. Only meaningful with GroupBy.
	Having string

	// OrderBy is an ordering expression, e.g. "name ASC".
	OrderBy string

	// Limit caps the number of rows. Zero means no limit.
	Limit int
}

// WatchedTables returns the singleton set containing the query's table.
func (q Query) WatchedTables() []string {
	return []string{q.Table}
}

// Validate reports ErrEmptyTable if the required table is missing and
// rejects a Having clause without a GroupBy.
func (q Query) Validate() error {
	if q.Table == "" {
		return ErrEmptyTable
	}
	if q.Having != "" && q.GroupBy == "" {
		return fmt.Errorf("query: HAVING requires GROUP BY (table %q)", q.Table)
	}
	if q.Limit < 0 {
		return fmt.Errorf("query: negative limit %d (table %q)", q.Limit, q.Table)
	}
	return nil
}

func (Query) sealed() {}

// RawQuery is an opaque statement written by the caller.
//
// AffectedTables must name every table the statement reads if live
// observation is wanted. An empty set is valid and means the query result
// can never be invalidated by a change notification.
type RawQuery struct {
	// Stmt is the full statement, with "?" placeholders. Required.
	Stmt string

	// Args are the placeholder values for Stmt.
	Args []any

	// AffectedTables is the explicit invalidation set.
	AffectedTables []string
}

// WatchedTables returns the caller-declared affected tables.
func (r RawQuery) WatchedTables() []string {
	return r.AffectedTables
}

// Validate reports ErrEmptyStmt if the statement is missing.
func (r RawQuery) Validate() error {
	if r.Stmt == "" {
		return ErrEmptyStmt
	}
	return nil
}

func (RawQuery) sealed() {}
