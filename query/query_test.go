package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuery_WatchedTables(t *testing.T) {
	q := Query{Table: "users"}
	assert.Equal(t, []string{"users"}, q.WatchedTables())
}

func TestRawQuery_WatchedTables(t *testing.T) {
	rq := RawQuery{Stmt: "SELECT 1", AffectedTables: []string{"users", "orders"}}
	assert.Equal(t, []string{"users", "orders"}, rq.WatchedTables())

	empty := RawQuery{Stmt: "SELECT 1"}
	assert.Empty(t, empty.WatchedTables())
}

func TestQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		q       Query
		wantErr bool
	}{
		{name: "table only", q: Query{Table: "users"}},
		{name: "full shape", q: Query{
			Table:   "users",
			Columns: []string{"id", "name"},
			Where:   "active = ?",
			Args:    []any{1},
			GroupBy: "name",
			Having:  "COUNT(*) > 1",
			OrderBy: "name ASC",
			Limit:   10,
		}},
		{name: "missing table", q: Query{}, wantErr: true},
		{name: "having without group by", q: Query{Table: "users", Having: "COUNT(*) > 1"}, wantErr: true},
		{name: "negative limit", q: Query{Table: "users", Limit: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.ErrorIs(t, Query{}.Validate(), ErrEmptyTable)
}

func TestRawQuery_Validate(t *testing.T) {
	assert.NoError(t, RawQuery{Stmt: "SELECT 1"}.Validate())
	assert.ErrorIs(t, RawQuery{}.Validate(), ErrEmptyStmt)
}
