package cli

import (
	"github.com/spf13/cobra"

	"github.com/lookoutdb/lookout"
	"github.com/lookoutdb/lookout/query"
	"github.com/lookoutdb/lookout/store"
)

// ExecOptions holds flags for the exec command.
type ExecOptions struct {
	SQL string
}

// NewExecCommand creates the exec command: run one query and print the
// result.
func NewExecCommand(root *RootOptions) *cobra.Command {
	opts := &ExecOptions{}

	cmd := &cobra.Command{
		Use:   "exec",
		Short: "Execute a query once and print the rows",
		Example: `  lookout exec --db app.db --sql "SELECT id, name FROM users ORDER BY name"
  lookout exec --db app.db --format json --sql "SELECT COUNT(*) AS n FROM orders"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.SQL, "sql", "", "statement to execute (required)")
	cmd.MarkFlagRequired("sql")

	return cmd
}

func runExec(cmd *cobra.Command, root *RootOptions, opts *ExecOptions) error {
	path, err := root.DatabasePath()
	if err != nil {
		return err
	}

	st, err := store.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "open database", err)
	}
	defer st.Close()

	prepared, err := lookout.NewList[Record](st).
		WithRawQuery(query.RawQuery{Stmt: opts.SQL}).
		WithMapper(MapRecord).
		Build()
	if err != nil {
		return WrapExitError(ExitCommandError, "prepare query", err)
	}

	records, err := prepared.ExecuteBlocking(cmd.Context())
	if err != nil {
		return WrapExitError(ExitFailure, "execute query", err)
	}

	formatter := &OutputFormatter{Format: root.Format, Writer: cmd.OutOrStdout()}
	return formatter.WriteRecords(records)
}
