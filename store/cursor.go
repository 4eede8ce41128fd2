package store

import "database/sql"

// rowsCursor adapts *sql.Rows to lookout.Cursor.
//
// database/sql streams rows and cannot report a total count up front, so
// Count always returns -1.
type rowsCursor struct {
	rows *sql.Rows
}

func (c *rowsCursor) Columns() ([]string, error) { return c.rows.Columns() }
func (c *rowsCursor) Scan(dest ...any) error     { return c.rows.Scan(dest...) }
func (c *rowsCursor) Next() bool                 { return c.rows.Next() }
func (c *rowsCursor) Err() error                 { return c.rows.Err() }
func (c *rowsCursor) Close() error               { return c.rows.Close() }
func (c *rowsCursor) Count() int                 { return -1 }
