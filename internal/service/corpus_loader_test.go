package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCorpusLoader_LoadSetsFingerprint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte("the cat sat."), 0644))

	loader := NewCorpusLoader(newTestTokenizer(), "", false, zap.NewNop())
	model, err := loader.Load(context.Background(), path)
	require.NoError(t, err)

	raw, fingerprint, err := loader.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "the cat sat.", string(raw))
	assert.Equal(t, fingerprint, model.Fingerprint())
	assert.Len(t, fingerprint, 64)

	// text-built models carry no fingerprint
	textModel, err := loader.Build(context.Background(), "the cat sat.")
	require.NoError(t, err)
	assert.Empty(t, textModel.Fingerprint())
}

func TestCorpusLoader_Fingerprint(t *testing.T) {
	dir := t.TempDir()
	raw := []byte("the cat sat.")
	loader := NewCorpusLoader(newTestTokenizer(), "", false, zap.NewNop())
	base := loader.Fingerprint(filepath.Join(dir, "a", "corpus.txt"), raw)

	assert.Equal(t, base, loader.Fingerprint(filepath.Join(dir, "a", "corpus.txt"), raw))

	tests := []struct {
		name   string
		loader *CorpusLoader
		path   string
		raw    []byte
	}{
		{"content", loader, filepath.Join(dir, "a", "corpus.txt"), []byte("the bird flew.")},
		{"path", loader, filepath.Join(dir, "b", "corpus.txt"), raw},
		{"delimiters", NewCorpusLoader(NewTextTokenizer(".", nil), "", false, zap.NewNop()), filepath.Join(dir, "a", "corpus.txt"), raw},
		{"ignore tokens", NewCorpusLoader(NewTextTokenizer(",.!?;:", []string{"cat"}), "", false, zap.NewNop()), filepath.Join(dir, "a", "corpus.txt"), raw},
		{"weighted unigrams", NewCorpusLoader(newTestTokenizer(), "", true, zap.NewNop()), filepath.Join(dir, "a", "corpus.txt"), raw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, base, tt.loader.Fingerprint(tt.path, tt.raw))
		})
	}
}

func TestCorpusLoader_EmptyCorpusWritesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.txt")
	cleanedPath := filepath.Join(dir, "cleaned.txt")
	require.NoError(t, os.WriteFile(path, []byte("... ??? !!!"), 0644))

	loader := NewCorpusLoader(newTestTokenizer(), cleanedPath, false, zap.NewNop())
	_, err := loader.Load(context.Background(), path)
	assert.ErrorIs(t, err, ErrEmptyCorpus)
	assert.NoFileExists(t, cleanedPath)
}
