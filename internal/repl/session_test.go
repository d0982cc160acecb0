package repl

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"wordpred/internal/config"
	"wordpred/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPredictor(t *testing.T) *service.Predictor {
	t.Helper()
	logger := zap.NewNop()
	tok := service.NewTextTokenizer(config.DefaultDelimiters, config.DefaultIgnoreTokens)
	loader := service.NewCorpusLoader(tok, "", false, logger)
	predictor := service.NewPredictor(loader, tok, nil, service.PredictorOptions{}, logger)
	require.NoError(t, predictor.LoadText(context.Background(), "the cat sat. the cat ran. the dog sat down."))
	return predictor
}

func runSession(t *testing.T, input string) string {
	t.Helper()
	var out bytes.Buffer
	s := NewSession(newTestPredictor(t), service.StrategyNone, 0, strings.NewReader(input), &out, zap.NewNop())
	require.NoError(t, s.Run(context.Background()))
	return out.String()
}

func TestSession_PredictAndStop(t *testing.T) {
	out := runSession(t, "The\ncat\nno\n")

	assert.Contains(t, out, "Your line is: The")
	assert.Contains(t, out, "cat")
	assert.Equal(t, 1, strings.Count(out, "Predicting next word.."))
}

func TestSession_AppendsChosenWord(t *testing.T) {
	out := runSession(t, "the\ncat\nyes\nran\nn\n")

	assert.Equal(t, 2, strings.Count(out, "Predicting next word.."))
	assert.Contains(t, out, "Your line is: The cat")
	assert.Contains(t, out, "sat")
}

func TestSession_RepromptsInvalidPhrase(t *testing.T) {
	out := runSession(t, "\n?!?\nnull\nthe\ncat\nno\n")

	assert.Equal(t, 3, strings.Count(out, "Enter the input here again:"))
	assert.Contains(t, out, "Your line is: The")
}

func TestSession_RepromptsInvalidAnswer(t *testing.T) {
	out := runSession(t, "the\ncat\nmaybe\nperhaps\nno\n")

	assert.Equal(t, 2, strings.Count(out, "Invalid choice! Please choose again!"))
	assert.Equal(t, 1, strings.Count(out, "Predicting next word.."))
}

func TestSession_NoPrediction(t *testing.T) {
	out := runSession(t, "zebra\n\nno\n")

	assert.Contains(t, out, "No word found")
}

func TestSession_EndOfInput(t *testing.T) {
	out := runSession(t, "the\n")

	assert.Contains(t, out, "Enter your choice of word:")
}

func TestSession_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSession(newTestPredictor(t), "", 0, strings.NewReader("the\n"), &bytes.Buffer{}, zap.NewNop())
	assert.ErrorIs(t, s.Run(ctx), context.Canceled)
}
