package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/lookoutdb/lookout"
	"github.com/lookoutdb/lookout/notify"
)

// Store provides SQLite-backed storage with change notification.
// It implements lookout.DB.
type Store struct {
	db     *sql.DB
	path   string
	hub    *notify.Hub
	ownHub bool
	log    *zap.Logger
}

// Option configures a Store at Open time.
type Option func(*Store)

// WithHub shares an externally owned notification hub instead of
// creating a private one. The store will not close a shared hub.
func WithHub(hub *notify.Hub) Option {
	return func(s *Store) {
		if hub != nil {
			s.hub = hub
			s.ownHub = false
		}
	}
}

// WithLogger attaches a logger for debug diagnostics. Default is nop.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// Open creates or opens a SQLite database at the given path and
// configures it for concurrent reads during writes:
//
//   - WAL journal mode
//   - NORMAL synchronous mode
//   - 5-second busy timeout
//   - foreign key enforcement
//
// Idempotent: safe to call on an existing database.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY under write contention.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	s := &Store{
		db:     db,
		path:   path,
		hub:    notify.NewHub(),
		ownHub: true,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.log.Debug("store: opened", zap.String("path", path))
	return s, nil
}

// Close closes the database connection and, if the store owns it, the
// notification hub.
func (s *Store) Close() error {
	if s.ownHub && s.hub != nil {
		s.hub.Close()
	}
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct access.
// Writes made through it bypass change notification.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Hub returns the store's notification hub, for sharing with external
// publishers or additional stores.
func (s *Store) Hub() *notify.Hub {
	return s.hub
}

// Select executes a statement and returns an open cursor over its rows.
// The caller owns the cursor. Implements lookout.Engine.
func (s *Store) Select(ctx context.Context, stmt string, args ...any) (lookout.Cursor, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	return &rowsCursor{rows: rows}, nil
}

// Watch subscribes to change events affecting any of the given tables.
// Implements lookout.Watcher.
func (s *Store) Watch(tables []string) *notify.Subscription {
	return s.hub.Watch(tables)
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}
