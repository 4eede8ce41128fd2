package lookout

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lookoutdb/lookout/notify"
)

// fakeCursor is a scripted cursor that records how often it was closed.
type fakeCursor struct {
	cols     []string
	rows     [][]any
	count    int
	pos      int
	iterErr  error
	closeErr error
	closes   int
}

// newIntCursor builds a single-column cursor over the given ids with a
// known row count.
func newIntCursor(ids ...int) *fakeCursor {
	rows := make([][]any, len(ids))
	for i, id := range ids {
		rows[i] = []any{id}
	}
	return &fakeCursor{cols: []string{"id"}, rows: rows, count: len(ids)}
}

func (c *fakeCursor) Columns() ([]string, error) { return c.cols, nil }

func (c *fakeCursor) Next() bool {
	if c.pos >= len(c.rows) {
		return false
	}
	c.pos++
	return true
}

func (c *fakeCursor) Scan(dest ...any) error {
	row := c.rows[c.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d destinations for %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int:
			p2, ok := row[i].(int)
			if !ok {
				return fmt.Errorf("scan: column %d is %T, not int", i, row[i])
			}
			*p = p2
		case *any:
			*p = row[i]
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}

func (c *fakeCursor) Err() error {
	if c.pos >= len(c.rows) {
		return c.iterErr
	}
	return nil
}

func (c *fakeCursor) Close() error {
	c.closes++
	return c.closeErr
}

func (c *fakeCursor) Count() int { return c.count }

// fakeDB is a scripted Engine + Watcher. Each Select calls the supplier
// for a fresh cursor, so observe tests can swap the data between
// executions.
type fakeDB struct {
	mu         sync.Mutex
	hub        *notify.Hub
	supply     func() (Cursor, error)
	stmts      []string
	watchCalls int
}

func newFakeDB(supply func() (Cursor, error)) *fakeDB {
	return &fakeDB{hub: notify.NewHub(), supply: supply}
}

func (f *fakeDB) Select(ctx context.Context, stmt string, args ...any) (Cursor, error) {
	f.mu.Lock()
	f.stmts = append(f.stmts, stmt)
	supply := f.supply
	f.mu.Unlock()
	return supply()
}

func (f *fakeDB) Watch(tables []string) *notify.Subscription {
	f.mu.Lock()
	f.watchCalls++
	f.mu.Unlock()
	return f.hub.Watch(tables)
}

func (f *fakeDB) setSupply(supply func() (Cursor, error)) {
	f.mu.Lock()
	f.supply = supply
	f.mu.Unlock()
}

func (f *fakeDB) lastStmt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.stmts) == 0 {
		return ""
	}
	return f.stmts[len(f.stmts)-1]
}

func (f *fakeDB) watched() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.watchCalls
}

// doubleID is the mapper used throughout: scans the id column and
// doubles it.
func doubleID(row Row) (int, error) {
	var id int
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id * 2, nil
}

// recvResult receives one Result or fails the test after a timeout.
// The second return is false when the channel closed instead.
func recvResult[T any](t *testing.T, ch <-chan Result[T]) (Result[T], bool) {
	t.Helper()
	select {
	case res, ok := <-ch:
		return res, ok
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for result")
		return Result[T]{}, false
	}
}

// expectNoResult asserts that nothing arrives on ch for a short window.
func expectNoResult[T any](t *testing.T, ch <-chan Result[T]) {
	t.Helper()
	select {
	case res, ok := <-ch:
		if ok {
			t.Fatalf("unexpected emission: %+v", res)
		}
		t.Fatal("channel closed unexpectedly")
	case <-time.After(100 * time.Millisecond):
	}
}

// expectClosed asserts that ch closes without a further value.
func expectClosed[T any](t *testing.T, ch <-chan Result[T]) {
	t.Helper()
	select {
	case res, ok := <-ch:
		if ok {
			t.Fatalf("expected closed channel, got emission: %+v", res)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}
