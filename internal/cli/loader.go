package cli

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// WatchSpec is a YAML file describing a set of named queries to observe
// together:
//
//	queries:
//	  - name: active-users
//	    sql: "SELECT id, name FROM users WHERE active = 1"
//	    tables: [users]
type WatchSpec struct {
	Queries []WatchQuery `yaml:"queries" json:"queries"`
}

// WatchQuery is one named query in a WatchSpec.
type WatchQuery struct {
	Name   string   `yaml:"name" json:"name"`
	SQL    string   `yaml:"sql" json:"sql"`
	Tables []string `yaml:"tables" json:"tables"`
}

// watchSpecSchema constrains a decoded WatchSpec: at least one query,
// every query named, every statement non-empty.
const watchSpecSchema = `
queries: [_, ...] & [...{
	name:   string & !=""
	sql:    string & !=""
	tables: [...string]
}]
`

// LoadWatchSpec reads, decodes, and validates a watch spec file.
func LoadWatchSpec(path string) (*WatchSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "read watch spec", err)
	}

	var spec WatchSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("parse watch spec %s", path), err)
	}

	// A query with no tables is valid (one-shot semantics); normalize so
	// schema validation sees a list, not null.
	for i := range spec.Queries {
		if spec.Queries[i].Tables == nil {
			spec.Queries[i].Tables = []string{}
		}
	}

	if err := validateWatchSpec(&spec); err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("invalid watch spec %s", path), err)
	}

	return &spec, nil
}

// validateWatchSpec checks the spec against the CUE schema plus the
// uniqueness constraint the schema cannot express.
func validateWatchSpec(spec *WatchSpec) error {
	cuectx := cuecontext.New()

	schema := cuectx.CompileString(watchSpecSchema)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	unified := schema.Unify(cuectx.Encode(spec))
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(spec.Queries))
	for _, q := range spec.Queries {
		if _, dup := seen[q.Name]; dup {
			return fmt.Errorf("duplicate query name %q", q.Name)
		}
		seen[q.Name] = struct{}{}
	}

	return nil
}
