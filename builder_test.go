package lookout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookoutdb/lookout/query"
)

func TestBuild_RequiresMapper(t *testing.T) {
	db := newFakeDB(func() (Cursor, error) { return newIntCursor(), nil })

	_, err := NewList[int](db).
		WithQuery(query.Query{Table: "users"}).
		Build()

	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestBuild_RequiresDescriptor(t *testing.T) {
	db := newFakeDB(func() (Cursor, error) { return newIntCursor(), nil })

	_, err := NewList[int](db).
		WithMapper(doubleID).
		Build()

	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestBuild_RequiresDB(t *testing.T) {
	_, err := NewList[int](nil).
		WithQuery(query.Query{Table: "users"}).
		WithMapper(doubleID).
		Build()

	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestBuild_SubstitutesDefaultResolver(t *testing.T) {
	db := newFakeDB(func() (Cursor, error) { return newIntCursor(9), nil })

	pq, err := NewList[int](db).
		WithQuery(query.Query{Table: "users"}).
		WithMapper(doubleID).
		Build()
	require.NoError(t, err)

	got, err := pq.ExecuteBlocking(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{18}, got)
	assert.Equal(t, "SELECT * FROM users", db.lastStmt())
}

func TestBuild_CustomResolverWins(t *testing.T) {
	db := newFakeDB(func() (Cursor, error) { return newIntCursor(), nil })

	custom := resolverFunc(func(ctx context.Context, eng Engine, d query.Descriptor) (Cursor, error) {
		return newIntCursor(42), nil
	})

	pq, err := NewList[int](db).
		WithQuery(query.Query{Table: "users"}).
		WithMapper(doubleID).
		WithResolver(custom).
		Build()
	require.NoError(t, err)

	got, err := pq.ExecuteBlocking(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{84}, got)
	assert.Empty(t, db.stmts, "custom resolver must bypass the engine")
}

func TestBuild_LaterDescriptorWins(t *testing.T) {
	db := newFakeDB(func() (Cursor, error) { return newIntCursor(), nil })

	pq, err := NewList[int](db).
		WithQuery(query.Query{Table: "users"}).
		WithRawQuery(query.RawQuery{Stmt: "SELECT id FROM legacy", AffectedTables: []string{"legacy"}}).
		WithMapper(doubleID).
		Build()
	require.NoError(t, err)

	_, isRaw := pq.descriptor.(query.RawQuery)
	assert.True(t, isRaw, "the later WithRawQuery call must win the descriptor slot")

	pq2, err := NewList[int](db).
		WithRawQuery(query.RawQuery{Stmt: "SELECT id FROM legacy"}).
		WithQuery(query.Query{Table: "users"}).
		WithMapper(doubleID).
		Build()
	require.NoError(t, err)

	_, isStructured := pq2.descriptor.(query.Query)
	assert.True(t, isStructured, "the later WithQuery call must win the descriptor slot")
}

func TestBuild_ValidatesDescriptor(t *testing.T) {
	db := newFakeDB(func() (Cursor, error) { return newIntCursor(), nil })

	_, err := NewList[int](db).
		WithQuery(query.Query{Table: ""}).
		WithMapper(doubleID).
		Build()
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.ErrorIs(t, err, query.ErrEmptyTable)

	_, err = NewList[int](db).
		WithRawQuery(query.RawQuery{Stmt: ""}).
		WithMapper(doubleID).
		Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, query.ErrEmptyStmt)
}

// resolverFunc adapts a function to the Resolver interface for tests.
type resolverFunc func(ctx context.Context, eng Engine, d query.Descriptor) (Cursor, error)

func (f resolverFunc) PerformGet(ctx context.Context, eng Engine, d query.Descriptor) (Cursor, error) {
	return f(ctx, eng, d)
}
