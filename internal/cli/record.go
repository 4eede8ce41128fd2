package cli

import (
	"fmt"

	"github.com/lookoutdb/lookout"
)

// Record is one result row with its column order preserved, values
// already stringified for display.
type Record struct {
	Columns []string
	Values  []string
}

// MapRecord is the lookout.RowMapper used by CLI queries: it scans every
// column of the row into a display string.
func MapRecord(row lookout.Row) (Record, error) {
	cols, err := row.Columns()
	if err != nil {
		return Record{}, fmt.Errorf("columns: %w", err)
	}

	raw := make([]any, len(cols))
	dest := make([]any, len(cols))
	for i := range raw {
		dest[i] = &raw[i]
	}
	if err := row.Scan(dest...); err != nil {
		return Record{}, fmt.Errorf("scan: %w", err)
	}

	vals := make([]string, len(cols))
	for i, v := range raw {
		vals[i] = displayValue(v)
	}

	return Record{Columns: cols, Values: vals}, nil
}

// displayValue renders one scanned column value.
func displayValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}
