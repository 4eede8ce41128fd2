package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DB      string // database path; falls back to LOOKOUT_DB
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the lookout CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "lookout",
		Short: "lookout - live list queries over SQLite",
		Long:  "Run one-shot queries or watch them live: every change to a query's tables re-executes it and streams the fresh result.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "path to the SQLite database (env LOOKOUT_DB)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	viper.SetEnvPrefix("LOOKOUT")
	viper.AutomaticEnv()
	viper.BindPFlag("db", cmd.PersistentFlags().Lookup("db"))

	cmd.AddCommand(NewExecCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

// DatabasePath resolves the database path from the flag or LOOKOUT_DB.
func (o *RootOptions) DatabasePath() (string, error) {
	path := viper.GetString("db")
	if path == "" {
		return "", NewExitError(ExitCommandError, "no database: set --db or LOOKOUT_DB")
	}
	return path, nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
