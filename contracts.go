package lookout

import (
	"context"
	"fmt"

	"github.com/lookoutdb/lookout/notify"
	"github.com/lookoutdb/lookout/query"
)

// Row is the scan surface a mapper sees for one result row. *sql.Rows
// satisfies it directly.
type Row interface {
	// Columns returns the result column names.
	Columns() ([]string, error)

	// Scan copies the current row's column values into dest.
	Scan(dest ...any) error
}

// Cursor is an open, single-use, row-oriented result handle. It must be
// closed exactly once; ExecuteBlocking owns that responsibility for
// cursors it acquires. A cursor is never shared across executions.
type Cursor interface {
	Row

	// Next advances to the next row, returning false when exhausted or
	// on iteration failure (check Err afterwards).
	Next() bool

	// Err returns the error, if any, that ended iteration early.
	Err() error

	// Close releases the cursor's resources.
	Close() error

	// Count returns the total row count when the engine knows it up
	// front, or -1 when it does not. Used only to pre-size results.
	Count() int
}

// Engine is the storage collaborator's read capability.
type Engine interface {
	// Select executes a statement and returns an open cursor over its
	// result rows. The caller owns the cursor.
	Select(ctx context.Context, stmt string, args ...any) (Cursor, error)
}

// Watcher is the storage collaborator's change-notification capability.
type Watcher interface {
	// Watch subscribes to change events affecting any of the given
	// tables.
	Watch(tables []string) *notify.Subscription
}

// DB is what a prepared query binds to: something that can both resolve
// cursors and report table changes. store.Store implements it.
type DB interface {
	Engine
	Watcher
}

// RowMapper converts one row into one value. Mappers must be pure and
// stateless: they are shared, unsynchronized, across concurrent
// executions.
type RowMapper[T any] func(Row) (T, error)

// Resolver obtains a cursor for a descriptor. Implementations may
// rewrite queries, add caching, or otherwise customize resolution; the
// default resolver simply forwards to the engine. A resolver is bound
// once per prepared query and must be safe for concurrent use.
type Resolver interface {
	PerformGet(ctx context.Context, eng Engine, d query.Descriptor) (Cursor, error)
}

// defaultResolver forwards descriptors to the engine with no
// transformation: structured queries are compiled to SQL, raw queries
// pass through verbatim.
type defaultResolver struct {
	compiler *query.Compiler
}

var sharedDefaultResolver Resolver = &defaultResolver{compiler: query.NewCompiler(0)}

// DefaultResolver returns the shared forwarding resolver the builder
// substitutes when none is supplied.
func DefaultResolver() Resolver { return sharedDefaultResolver }

func (r *defaultResolver) PerformGet(ctx context.Context, eng Engine, d query.Descriptor) (Cursor, error) {
	switch q := d.(type) {
	case query.Query:
		stmt, err := r.compiler.Compile(q)
		if err != nil {
			return nil, &ConfigError{Reason: "invalid query descriptor", Err: err}
		}
		cur, err := eng.Select(ctx, stmt, q.Args...)
		if err != nil {
			return nil, &StorageError{Op: "select", Stmt: stmt, Err: err}
		}
		return cur, nil
	case query.RawQuery:
		cur, err := eng.Select(ctx, q.Stmt, q.Args...)
		if err != nil {
			return nil, &StorageError{Op: "select", Stmt: q.Stmt, Err: err}
		}
		return cur, nil
	default:
		// Unreachable for descriptors built by this module; the sum type
		// is sealed.
		return nil, &ConfigError{Reason: fmt.Sprintf("unsupported descriptor type %T", d)}
	}
}
