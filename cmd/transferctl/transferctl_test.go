package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout. Flag variables
// are package globals, so each call resets the ones tests touch.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	evalFormat, evalExplain, evalUniversity, catalogDir = "auto", false, "ucsc", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeTranscript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transcript.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const psychTranscript = `[
  {"course_code": "PSYCH 1", "units": 4, "grade": "A"},
  {"course_code": "ENGL 1A", "units": 5, "grade": "B+"}
]`

func TestEvaluate_JSONWhenNotATerminal(t *testing.T) {
	path := writeTranscript(t, psychTranscript)

	out, err := execute(t, "evaluate", "--transcript", path, "--major", "Psychology", "--college", "Foothill College")
	require.NoError(t, err)

	var got evaluation
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.NotNil(t, got.Result)
	assert.Equal(t, 1, got.Result.Version)
	assert.Equal(t, "Psychology", got.Result.Major)
	assert.Equal(t, 9.0, got.Result.Report.Summary.TotalUnits)
	assert.Len(t, got.Result.Digest, 64)
	assert.Nil(t, got.Advisor)
}

func TestEvaluate_TextFormat(t *testing.T) {
	path := writeTranscript(t, `{"courses": `+psychTranscript+`}`)

	out, err := execute(t, "evaluate", "-t", path, "--major", "psychology", "--college", "Foothill College", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Psychology at UC Santa Cruz")
	assert.Contains(t, out, "Status: NOT YET ELIGIBLE")
	assert.Contains(t, out, "[ ] Statistics")
	assert.Contains(t, out, "Digest: ")
}

func TestEvaluate_Errors(t *testing.T) {
	path := writeTranscript(t, psychTranscript)

	_, err := execute(t, "evaluate", "-t", path, "--major", "Astrophysics", "--college", "Foothill College")
	assert.ErrorContains(t, err, "not available")

	_, err = execute(t, "evaluate", "-t", path, "--major", "Psychology", "--college", "Foothill College", "--format", "yaml")
	assert.ErrorContains(t, err, "unknown format")

	bad := writeTranscript(t, `[{"course_code": "PSYCH 1", "units": 4, "grade": "Z"}]`)
	_, err = execute(t, "evaluate", "-t", bad, "--major", "Psychology", "--college", "Foothill College")
	assert.ErrorContains(t, err, "courses[0].grade")
}

func TestCatalogCommands(t *testing.T) {
	out, err := execute(t, "catalog", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "catalog OK")
	assert.Contains(t, out, "(1 with requirements)")

	out, err = execute(t, "catalog", "majors", "--university", "ucsc")
	require.NoError(t, err)
	assert.Equal(t, "Computer Science\nBiology\nPsychology\n", out)

	_, err = execute(t, "catalog", "majors", "--university", "ucla")
	assert.Error(t, err)
}

func TestCatalogValidate_ReportsSchemaErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "universities"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "directory.json"), []byte(`{"campuses":[],"colleges":[]}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "equivalencies.json"), []byte(`{"institutions":[]}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "universities", "bad.json"), []byte(`{"id":"bad"}`), 0o600))

	out, err := execute(t, "--catalog-dir", dir, "catalog", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")
	assert.Contains(t, out, "is invalid")
}
