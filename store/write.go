package store

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lookoutdb/lookout/notify"
)

// Exec executes a statement without publishing change notifications.
// Intended for schema setup and other writes that no live query should
// react to.
func (s *Store) Exec(ctx context.Context, stmt string, args ...any) error {
	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

// Mutate executes a write statement and, on success, publishes a
// ChangeEvent for the given tables. The caller declares which tables the
// statement touches; an empty table set publishes nothing.
//
// Returns the number of affected rows. The event is published even when
// zero rows were affected: the caller asked for notification and the
// statement may still have side effects (triggers) this store cannot see.
func (s *Store) Mutate(ctx context.Context, tables []string, stmt string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("mutate: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		// go-sqlite3 always supports RowsAffected; treat failure as zero.
		affected = 0
	}

	if len(tables) > 0 {
		s.hub.Publish(notify.ChangeEvent{Tables: tables})
		s.log.Debug("store: change published",
			zap.Strings("tables", tables), zap.Int64("affected", affected))
	}

	return affected, nil
}

// Insert inserts one row and publishes a ChangeEvent for the table.
// Returns the new row's id. cols and vals must have equal length.
func (s *Store) Insert(ctx context.Context, table string, cols []string, vals ...any) (int64, error) {
	if len(cols) == 0 || len(cols) != len(vals) {
		return 0, fmt.Errorf("insert into %s: %d columns for %d values", table, len(cols), len(vals))
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(vals)), ", ")
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), placeholders)

	res, err := s.db.ExecContext(ctx, stmt, vals...)
	if err != nil {
		return 0, fmt.Errorf("insert into %s: %w", table, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		id = 0
	}

	s.hub.Publish(notify.ChangeEvent{Tables: []string{table}})
	return id, nil
}

// Delete removes the rows matching where (all rows when where is empty)
// and publishes a ChangeEvent for the table when anything was removed.
// Returns the number of removed rows.
func (s *Store) Delete(ctx context.Context, table string, where string, args ...any) (int64, error) {
	stmt := "DELETE FROM " + table
	if where != "" {
		stmt += " WHERE " + where
	}

	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", table, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		affected = 0
	}

	if affected > 0 {
		s.hub.Publish(notify.ChangeEvent{Tables: []string{table}})
	}

	return affected, nil
}
