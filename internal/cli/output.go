package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Query or stream failure
	ExitCommandError = 2 // Command error (bad flags, database not found, invalid spec)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// WriteRecords renders one result set.
//
// Text format is a tab-aligned table with a header row. JSON format is
// an array of objects keyed by column name.
func (f *OutputFormatter) WriteRecords(records []Record) error {
	if f.Format == "json" {
		objs := make([]map[string]string, len(records))
		for i, rec := range records {
			obj := make(map[string]string, len(rec.Columns))
			for j, col := range rec.Columns {
				obj[col] = rec.Values[j]
			}
			objs[i] = obj
		}
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(objs)
	}

	if len(records) == 0 {
		_, err := fmt.Fprintln(f.Writer, "(no rows)")
		return err
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	for _, col := range records[0].Columns {
		fmt.Fprintf(tw, "%s\t", col)
	}
	fmt.Fprintln(tw)
	for _, rec := range records {
		for _, val := range rec.Values {
			fmt.Fprintf(tw, "%s\t", val)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// WriteEmission renders one live-stream emission with a header line
// naming the query and the emission ordinal.
func (f *OutputFormatter) WriteEmission(name string, n int, records []Record) error {
	if f.Format != "json" {
		if _, err := fmt.Fprintf(f.Writer, "--- %s #%d (%d rows)\n", name, n, len(records)); err != nil {
			return err
		}
	}
	return f.WriteRecords(records)
}
