package service

import (
	"bytes"
	"strings"
	"testing"

	"wordpred/internal/model/bigram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderedLines(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	var rows [][]string
	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		rows = append(rows, strings.Fields(line))
	}
	return rows
}

func TestRenderMatrix(t *testing.T) {
	m := &bigram.Matrix{
		Rows:   []string{"the", "cat"},
		Cols:   []string{"the", "cat"},
		Values: [][]float64{{0, 0.5}, {0.16667, 0}},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderMatrix(&buf, m))

	assert.Equal(t, [][]string{
		{"the", "cat"},
		{"the", "0", "0.5"},
		{"cat", "0.16667", "0"},
	}, renderedLines(t, &buf))
}

func TestRenderBigrams(t *testing.T) {
	model := buildModel(t, "the cat sat. the cat ran.", false)

	var buf bytes.Buffer
	require.NoError(t, RenderBigrams(&buf, model.Bigrams()))

	assert.Equal(t, [][]string{
		{"cat|the", "2"},
		{"sat|cat", "1"},
		{"ran|cat", "1"},
		{"bigram", "entries:", "3"},
	}, renderedLines(t, &buf))
}

func TestRenderPredictions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPredictions(&buf, []bigram.Prediction{
		{Word: "cat", Probability: 1},
		{Word: "dog", Probability: 0.16667},
	}))

	assert.Equal(t, [][]string{
		{"1.", "cat", "1.00000"},
		{"2.", "dog", "0.16667"},
	}, renderedLines(t, &buf))
}
