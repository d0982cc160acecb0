package service

import (
	"context"
	"testing"

	"wordpred/internal/model/bigram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildModel(t *testing.T, raw string, weightedUnigrams bool) *BigramModel {
	t.Helper()
	sentences, err := newTestTokenizer().Tokenize(context.Background(), raw)
	require.NoError(t, err)

	m := NewBigramModel(weightedUnigrams)
	m.Accumulate(sentences)
	return m
}

func TestBigramModel_CatExample(t *testing.T) {
	m := buildModel(t, "the cat sat. the cat ran.", false)

	assert.Equal(t, 2.0, m.BigramCount("the", "cat"))
	assert.Equal(t, 1.0, m.BigramCount("cat", "sat"))
	assert.Equal(t, 1.0, m.BigramCount("cat", "ran"))
	assert.Equal(t, 0.0, m.BigramCount("sat", "the"))
	assert.Equal(t, 0.0, m.BigramCount("cat", "the"))

	assert.Equal(t, map[string]float64{"the": 2, "cat": 2, "sat": 1, "ran": 1}, m.Unigrams())
	assert.Equal(t, 4, m.VocabularySize())
	assert.Equal(t, 6.0, m.TotalUnigramMass())

	stats := m.Stats()
	assert.Equal(t, 3, stats.BigramCount)
	assert.Equal(t, 2, stats.DistinctSentences)
	assert.NotEmpty(t, stats.ID)
}

func TestBigramModel_RepeatWeighting(t *testing.T) {
	raw := "a b, a b, a c"

	unweighted := buildModel(t, raw, false)
	assert.Equal(t, 2.0, unweighted.BigramCount("a", "b"))
	assert.Equal(t, 1.0, unweighted.BigramCount("a", "c"))
	// one increment per token per distinct sentence
	assert.Equal(t, map[string]float64{"a": 2, "b": 1, "c": 1}, unweighted.Unigrams())

	weighted := buildModel(t, raw, true)
	assert.Equal(t, 2.0, weighted.BigramCount("a", "b"))
	assert.Equal(t, map[string]float64{"a": 3, "b": 2, "c": 1}, weighted.Unigrams())
}

func TestBigramModel_BigramMassMatchesLeftOccurrences(t *testing.T) {
	raw := "the cat sat on the mat, the dog sat on the cat, the cat sat on the mat, on and on"
	sentences, err := newTestTokenizer().Tokenize(context.Background(), raw)
	require.NoError(t, err)

	m := NewBigramModel(false)
	m.Accumulate(sentences)

	expected := make(map[string]float64)
	for _, s := range sentences {
		for i := 0; i < len(s.Tokens)-1; i++ {
			expected[s.Tokens[i]] += s.Occurrences
		}
	}

	for word, want := range expected {
		got := 0.0
		for _, s := range m.Successors(word) {
			got += s.Count
		}
		assert.Equal(t, want, got, "bigram mass for %q", word)
	}
}

func TestBigramModel_Deterministic(t *testing.T) {
	raw := "one two three, two three four, one two three, four one"
	a := buildModel(t, raw, false)
	b := buildModel(t, raw, false)

	assert.Equal(t, a.Unigrams(), b.Unigrams())
	assert.Equal(t, a.Bigrams(), b.Bigrams())
	assert.Equal(t, a.FrequencyOfFrequencies(), b.FrequencyOfFrequencies())
}

func TestBigramModel_Successors(t *testing.T) {
	m := buildModel(t, "the cat sat. the cat ran. the dog ran.", false)

	assert.True(t, m.HasSuccessors("the"))
	assert.True(t, m.HasSuccessors("THE"))
	assert.False(t, m.HasSuccessors("ran"))
	assert.False(t, m.HasSuccessors("zebra"))

	assert.Equal(t, []bigram.ScoredBigram{
		{Bigram: bigram.New("the", "cat"), Count: 2},
		{Bigram: bigram.New("the", "dog"), Count: 1},
	}, m.Successors("The"))
	assert.Nil(t, m.Successors("zebra"))
}

func TestBigramModel_FrequencyOfFrequenciesFollowsAccumulate(t *testing.T) {
	m := buildModel(t, "the cat sat. the cat ran.", false)
	assert.Equal(t, map[float64]float64{2: 1, 1: 2}, m.FrequencyOfFrequencies())

	sentences, err := newTestTokenizer().Tokenize(context.Background(), "the cat sat")
	require.NoError(t, err)
	m.Accumulate(sentences)

	// (the,cat)=3 (cat,sat)=2 (cat,ran)=1
	assert.Equal(t, map[float64]float64{3: 1, 2: 1, 1: 1}, m.FrequencyOfFrequencies())
}

func TestBuildFrequencyOfFrequencies(t *testing.T) {
	table := BuildFrequencyOfFrequencies(map[bigram.Bigram]float64{
		bigram.New("a", "b"): 1,
		bigram.New("b", "a"): 1,
		bigram.New("a", "c"): 2.5,
		bigram.New("c", "a"): 4,
		bigram.New("c", "d"): 4,
		bigram.New("d", "c"): 4,
	})

	assert.Equal(t, map[float64]float64{1: 2, 2.5: 1, 4: 3}, table)
	assert.Empty(t, BuildFrequencyOfFrequencies(nil))
}
