package query

import (
	"fmt"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultCacheSize bounds the compiled-statement cache. Statement text for
// a given structural shape never changes, so entries are safe to reuse
// across executions and goroutines.
const defaultCacheSize = 256

// Compiler assembles parameterized SELECT statements from structured
// Query descriptors.
//
// Compiled statement text is cached in an LRU keyed by the descriptor's
// structural fields (everything except Args). A Compiler is safe for
// concurrent use.
type Compiler struct {
	cache *lru.Cache[string, string]
}

// NewCompiler creates a Compiler with a statement cache of the given
// size. Sizes below 1 fall back to the default.
func NewCompiler(size int) *Compiler {
	if size < 1 {
		size = defaultCacheSize
	}
	// Size is validated above, so constructing the cache cannot fail.
	cache, _ := lru.New[string, string](size)
	return &Compiler{cache: cache}
}

// Compile returns the SELECT statement for q. The caller passes q.Args to
// the engine alongside the returned statement.
func (c *Compiler) Compile(q Query) (string, error) {
	if err := q.Validate(); err != nil {
		return "", err
	}

	key := cacheKey(q)
	if stmt, ok := c.cache.Get(key); ok {
		return stmt, nil
	}

	stmt := assemble(q)
	c.cache.Add(key, stmt)
	return stmt, nil
}

// assemble builds the statement text. Clause order follows SQLite's
// SELECT grammar; absent clauses are omitted entirely.
func assemble(q Query) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if q.Distinct {
		b.WriteString("DISTINCT ")
	}
	if len(q.Columns) == 0 {
		b.WriteString("*")
	} else {
		b.WriteString(strings.Join(q.Columns, ", "))
	}
	b.WriteString(" FROM ")
	b.WriteString(q.Table)
	if q.Where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(q.Where)
	}
	if q.GroupBy != "" {
		b.WriteString(" GROUP BY ")
		b.WriteString(q.GroupBy)
	}
	if q.Having != "" {
		b.WriteString(" HAVING ")
		b.WriteString(q.Having)
	}
	if q.OrderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(q.OrderBy)
	}
	if q.Limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(q.Limit))
	}
	return b.String()
}

// cacheKey derives a cache key from the structural fields of q. Args are
// excluded: they vary per execution without changing the statement text.
func cacheKey(q Query) string {
	return fmt.Sprintf("%t\x00%s\x00%s\x00%s\x00%s\x00%s\x00%s\x00%d",
		q.Distinct,
		q.Table,
		strings.Join(q.Columns, ","),
		q.Where,
		q.GroupBy,
		q.Having,
		q.OrderBy,
		q.Limit,
	)
}
