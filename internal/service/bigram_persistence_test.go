package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBigramPersistence_SaveAndLoad(t *testing.T) {
	persistence, err := NewBigramPersistence(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	model := buildModel(t, "the cat sat, the cat sat, the cat ran, a dog ran", false)
	require.NoError(t, persistence.SaveModel(model, "pets"))
	assert.True(t, persistence.ModelExists("pets"))
	assert.FileExists(t, persistence.GetModelPath("pets"))

	loaded, err := persistence.LoadModel("pets")
	require.NoError(t, err)

	want, got := model.Stats(), loaded.Stats()
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	want.CreatedAt, got.CreatedAt = time.Time{}, time.Time{}
	assert.Equal(t, want, got)
	assert.Equal(t, model.Unigrams(), loaded.Unigrams())
	assert.Equal(t, model.Bigrams(), loaded.Bigrams())
	assert.Equal(t, model.FrequencyOfFrequencies(), loaded.FrequencyOfFrequencies())
	assert.True(t, loaded.HasSuccessors("cat"))
	assert.False(t, loaded.HasSuccessors("ran"))

	smoother := NewGoodTuringSmoother()
	assert.Equal(t, smoother.Score(model, "cat"), smoother.Score(loaded, "cat"))
}

func TestBigramPersistence_MissingAndDelete(t *testing.T) {
	persistence, err := NewBigramPersistence(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	_, err = persistence.LoadModel("absent")
	assert.Error(t, err)
	assert.False(t, persistence.ModelExists("absent"))

	require.NoError(t, persistence.SaveModel(buildModel(t, "a b c", false), "tmp"))
	require.NoError(t, persistence.DeleteModel("tmp"))
	assert.False(t, persistence.ModelExists("tmp"))
	_, err = os.Stat(persistence.GetModelPath("tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestBigramPersistence_SaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	persistence, err := NewBigramPersistence(dir, zap.NewNop())
	require.NoError(t, err)

	first := buildModel(t, "the cat sat", false)
	first.fingerprint = "first"
	require.NoError(t, persistence.SaveModel(first, "pets"))

	second := buildModel(t, "the dog ran", false)
	second.fingerprint = "second"
	require.NoError(t, persistence.SaveModel(second, "pets"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(persistence.GetModelPath("pets")), entries[0].Name())

	loaded, err := persistence.LoadModel("pets")
	require.NoError(t, err)
	assert.Equal(t, "second", loaded.Fingerprint())
	assert.True(t, loaded.HasSuccessors("dog"))
	assert.False(t, loaded.HasSuccessors("cat"))
}
