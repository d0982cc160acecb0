package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCorpus = "The cat sat. The cat ran."

// writeFixture creates a corpus and a config pointing at it, returning the config path
func writeFixture(t *testing.T, persistence bool) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "corpus.txt"), []byte(testCorpus), 0644))

	yaml := fmt.Sprintf(`app:
  work_dir: %q
  log_level: error
corpus:
  path: corpus.txt
  cleaned_output: ""
persistence:
  enabled: %t
  dir: models
graph:
  kuzu:
    path: ":memory:"
`, dir, persistence)
	configPath := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(yaml), 0644))
	return configPath
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPredictCommand(t *testing.T) {
	configPath := writeFixture(t, false)

	out, err := run(t, "", "predict", "the", "--config", configPath, "--strategy", "none")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.", "cat", "1.00000"}, strings.Fields(out))
}

func TestPredictCommand_NoPrediction(t *testing.T) {
	configPath := writeFixture(t, false)

	out, err := run(t, "", "predict", "dog", "--config", configPath)
	require.NoError(t, err)
	assert.Equal(t, "No word found\n", out)
}

func TestPredictCommand_Errors(t *testing.T) {
	configPath := writeFixture(t, false)

	_, err := run(t, "", "predict", "the", "--config", configPath, "--strategy", "backoff")
	assert.Error(t, err)

	_, err = run(t, "", "predict", "--config", configPath)
	assert.Error(t, err)

	_, err = run(t, "", "predict", "the", "--config", configPath, "--corpus", "missing.txt")
	assert.Error(t, err)
}

func TestPredictCommand_WritesSnapshot(t *testing.T) {
	configPath := writeFixture(t, true)

	_, err := run(t, "", "predict", "the", "--config", configPath)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(filepath.Dir(configPath), "models", "corpus_bigram.gob"))
}

func TestPredictCommand_SnapshotFollowsCorpus(t *testing.T) {
	configPath := writeFixture(t, true)
	corpusPath := filepath.Join(filepath.Dir(configPath), "corpus.txt")

	out, err := run(t, "", "predict", "the", "--config", configPath, "--strategy", "none")
	require.NoError(t, err)
	assert.Contains(t, out, "cat")

	require.NoError(t, os.WriteFile(corpusPath, []byte("The bird flew."), 0644))
	out, err = run(t, "", "predict", "the", "--config", configPath, "--strategy", "none")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.", "bird", "1.00000"}, strings.Fields(out))

	out, err = run(t, "", "matrix", "the bird", "--config", configPath, "--counts", "--rebuild")
	require.NoError(t, err)
	assert.Contains(t, out, "bird")
}

func TestMatrixCommand(t *testing.T) {
	configPath := writeFixture(t, false)

	out, err := run(t, "", "matrix", "the cat", "--config", configPath, "--counts")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"the", "0", "2"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"cat", "0", "0"}, strings.Fields(lines[2]))

	out, err = run(t, "", "matrix", "--all", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "cat|the")
	assert.Contains(t, out, "bigram entries:")

	_, err = run(t, "", "matrix", "--config", configPath)
	assert.Error(t, err)
}

func TestReplCommand(t *testing.T) {
	configPath := writeFixture(t, false)

	out, err := run(t, "the\ncat\nno\n", "repl", "--config", configPath, "--strategy", "addone")
	require.NoError(t, err)
	assert.Contains(t, out, "Your line is: The")
	assert.Contains(t, out, "cat")
}

func TestExportGraphCommand(t *testing.T) {
	configPath := writeFixture(t, false)

	_, err := run(t, "", "export-graph", "--config", configPath)
	assert.Error(t, err)

	_, err = run(t, "", "export-graph", "--config", configPath, "--backend", "arangodb")
	assert.Error(t, err)

	out, err := run(t, "", "export-graph", "--config", configPath, "--backend", "kuzu", "--word", "the")
	require.NoError(t, err)
	assert.Equal(t, "1. cat (2)\n", out)
}

func TestSnapshotName(t *testing.T) {
	assert.Equal(t, "corpus", snapshotName("/data/corpus.txt"))
	assert.Equal(t, "news", snapshotName("news"))
}
