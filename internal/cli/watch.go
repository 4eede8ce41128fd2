package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/spf13/cobra"

	"github.com/lookoutdb/lookout"
	"github.com/lookoutdb/lookout/query"
	"github.com/lookoutdb/lookout/store"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	SQL    string
	Tables []string
	Spec   string
	Limit  int
	Bridge bool
}

// NewWatchCommand creates the watch command: observe one or more queries
// live, printing a fresh result on every change to their tables.
func NewWatchCommand(root *RootOptions) *cobra.Command {
	opts := &WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Observe queries live until interrupted",
		Long: `Observe queries as live streams: the first result is printed
immediately, then every change to a query's tables re-executes it and
prints the fresh result. Watch a single --sql query or a YAML spec of
named queries.`,
		Example: `  lookout watch --db app.db --sql "SELECT * FROM users" --tables users
  lookout watch --db app.db --spec queries.yaml --limit 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.SQL, "sql", "", "statement to observe")
	cmd.Flags().StringSliceVar(&opts.Tables, "tables", nil, "tables whose changes re-execute --sql")
	cmd.Flags().StringVar(&opts.Spec, "spec", "", "YAML watch spec of named queries")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "stop each stream after N emissions (0 = until interrupt)")
	cmd.Flags().BoolVar(&opts.Bridge, "bridge", false, "publish change events on database file writes by other processes")

	return cmd
}

func runWatch(cmd *cobra.Command, root *RootOptions, opts *WatchOptions) error {
	queries, err := collectWatchQueries(opts)
	if err != nil {
		return err
	}

	path, err := root.DatabasePath()
	if err != nil {
		return err
	}

	st, err := store.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "open database", err)
	}
	defer st.Close()

	if opts.Bridge {
		stop, berr := st.BridgeFileChanges(allTables(queries))
		if berr != nil {
			return WrapExitError(ExitCommandError, "bridge file changes", berr)
		}
		defer stop()
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	// One worker per query; each drives its own independent stream.
	pool, err := ants.NewPool(len(queries))
	if err != nil {
		return WrapExitError(ExitCommandError, "create watch pool", err)
	}
	defer pool.Release()

	var (
		mu        sync.Mutex // serializes interleaved stream output
		wg        sync.WaitGroup
		streamErr error
	)
	formatter := &OutputFormatter{Format: root.Format, Writer: cmd.OutOrStdout()}

	for _, wq := range queries {
		wq := wq
		wg.Add(1)
		if serr := pool.Submit(func() {
			defer wg.Done()
			if err := watchOne(ctx, st, wq, opts.Limit, formatter, &mu); err != nil {
				mu.Lock()
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", wq.Name, err)
				if streamErr == nil {
					streamErr = err
				}
				mu.Unlock()
			}
		}); serr != nil {
			wg.Done()
			return WrapExitError(ExitCommandError, "submit watcher", serr)
		}
	}

	wg.Wait()

	if streamErr != nil {
		return WrapExitError(ExitFailure, "stream failed", streamErr)
	}
	return nil
}

// watchOne drives a single query's live stream until the stream ends,
// the context is cancelled, or limit emissions were printed.
func watchOne(ctx context.Context, st *store.Store, wq WatchQuery, limit int, formatter *OutputFormatter, mu *sync.Mutex) error {
	prepared, err := lookout.NewList[Record](st).
		WithRawQuery(query.RawQuery{Stmt: wq.SQL, AffectedTables: wq.Tables}).
		WithMapper(MapRecord).
		Build()
	if err != nil {
		return err
	}

	// Per-query cancel so hitting the limit releases this subscription
	// without stopping sibling watchers.
	qctx, qcancel := context.WithCancel(ctx)
	defer qcancel()

	n := 0
	for res := range prepared.Observe(qctx) {
		if res.Err != nil {
			return res.Err
		}
		n++
		mu.Lock()
		werr := formatter.WriteEmission(wq.Name, n, res.Rows)
		mu.Unlock()
		if werr != nil {
			return werr
		}
		if limit > 0 && n >= limit {
			qcancel()
		}
	}
	return nil
}

// collectWatchQueries resolves the flag surface into the query list:
// either a spec file or a single ad-hoc --sql query.
func collectWatchQueries(opts *WatchOptions) ([]WatchQuery, error) {
	if opts.Spec != "" {
		if opts.SQL != "" {
			return nil, NewExitError(ExitCommandError, "--spec and --sql are mutually exclusive")
		}
		spec, err := LoadWatchSpec(opts.Spec)
		if err != nil {
			return nil, err
		}
		return spec.Queries, nil
	}

	if opts.SQL == "" {
		return nil, NewExitError(ExitCommandError, "either --sql or --spec is required")
	}

	return []WatchQuery{{Name: "query", SQL: opts.SQL, Tables: opts.Tables}}, nil
}

// allTables returns the union of every query's table set.
func allTables(queries []WatchQuery) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, q := range queries {
		for _, t := range q.Tables {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
