package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func sampleRecords() []Record {
	return []Record{
		{Columns: []string{"id", "name"}, Values: []string{"1", "alpha"}},
		{Columns: []string{"id", "name"}, Values: []string{"2", "beta"}},
	}
}

func TestWriteRecords_Text(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	require.NoError(t, f.WriteRecords(sampleRecords()))
	newGoldie(t).Assert(t, "records_text", buf.Bytes())
}

func TestWriteRecords_JSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.WriteRecords(sampleRecords()))
	newGoldie(t).Assert(t, "records_json", buf.Bytes())
}

func TestWriteRecords_EmptyText(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	require.NoError(t, f.WriteRecords(nil))
	assert.Equal(t, "(no rows)\n", buf.String())
}

func TestWriteRecords_EmptyJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.WriteRecords(nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteEmission_TextHeader(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	require.NoError(t, f.WriteEmission("active-users", 1, sampleRecords()))
	newGoldie(t).Assert(t, "emission_text", buf.Bytes())
}

func TestWriteEmission_JSONOmitsHeader(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.WriteEmission("active-users", 1, sampleRecords()))
	// Same shape as a plain result set; machine consumers get clean JSON.
	newGoldie(t).Assert(t, "records_json", buf.Bytes())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))

	wrapped := WrapExitError(ExitCommandError, "open database", errors.New("no such file"))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
	assert.Contains(t, wrapped.Error(), "open database")
	assert.Contains(t, wrapped.Error(), "no such file")
}
