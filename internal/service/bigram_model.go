package service

import (
	"strings"
	"time"

	"wordpred/internal/model/bigram"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/google/uuid"
)

// BigramModel stores unigram and bigram statistics for one corpus load.
// It is filled by Accumulate and only read afterwards.
type BigramModel struct {
	id               string                     // Build identifier
	unigrams         map[string]float64         // token -> count
	bigrams          map[bigram.Bigram]float64  // (curr, next) -> weighted count
	successors       map[string][]bigram.Bigram // curr -> bigrams in first-seen order
	order            []bigram.Bigram            // all bigrams in first-seen order
	successorFilter  *bloom.BloomFilter         // words with at least one successor
	freqOfFreqs      map[float64]float64        // rebuilt at the end of Accumulate
	sentences        int                        // distinct sentences seen
	totalSentences   float64                    // sentences including repeats
	weightedUnigrams bool                       // weight unigrams by sentence repeats
	createdAt        time.Time                  // when the model was created
	fingerprint      string                     // corpus and settings it was built from
}

// NewBigramModel creates an empty model. With weightedUnigrams false, each
// token adds 1 per distinct sentence while bigrams add the sentence weight.
func NewBigramModel(weightedUnigrams bool) *BigramModel {
	return &BigramModel{
		id:               uuid.NewString(),
		unigrams:         make(map[string]float64),
		bigrams:          make(map[bigram.Bigram]float64),
		successors:       make(map[string][]bigram.Bigram),
		successorFilter:  bloom.NewWithEstimates(10000, 0.01),
		weightedUnigrams: weightedUnigrams,
		createdAt:        time.Now(),
	}
}

// Accumulate adds the counts of every sentence to the model
func (m *BigramModel) Accumulate(sentences []bigram.Sentence) {
	for _, s := range sentences {
		weight := s.Occurrences
		if weight <= 0 {
			weight = 1
		}
		m.sentences++
		m.totalSentences += weight

		for i := 0; i < len(s.Tokens)-1; i++ {
			m.addBigram(bigram.New(s.Tokens[i], s.Tokens[i+1]), weight)
		}

		for _, tok := range s.Tokens {
			if m.weightedUnigrams {
				m.unigrams[tok] += weight
			} else {
				m.unigrams[tok]++
			}
		}
	}

	m.freqOfFreqs = BuildFrequencyOfFrequencies(m.bigrams)
}

func (m *BigramModel) addBigram(bg bigram.Bigram, weight float64) {
	if _, ok := m.bigrams[bg]; !ok {
		m.order = append(m.order, bg)
		m.successors[bg.Curr] = append(m.successors[bg.Curr], bg)
		m.successorFilter.AddString(bg.Curr)
	}
	m.bigrams[bg] += weight
}

// ID identifies this build of the model
func (m *BigramModel) ID() string {
	return m.id
}

// Fingerprint identifies the corpus and settings the model was built from.
// It is empty for models built from in-memory text.
func (m *BigramModel) Fingerprint() string {
	return m.fingerprint
}

// UnigramCount returns the count of token and whether it is in the vocabulary
func (m *BigramModel) UnigramCount(token string) (float64, bool) {
	c, ok := m.unigrams[token]
	return c, ok
}

// BigramCount returns the weighted count of (curr, next), 0 if never seen
func (m *BigramModel) BigramCount(curr, next string) float64 {
	return m.bigrams[bigram.New(curr, next)]
}

// VocabularySize is the number of distinct unigrams
func (m *BigramModel) VocabularySize() int {
	return len(m.unigrams)
}

// TotalUnigramMass is the sum of all unigram counts
func (m *BigramModel) TotalUnigramMass() float64 {
	total := 0.0
	for _, c := range m.unigrams {
		total += c
	}
	return total
}

// HasSuccessors reports whether word starts at least one bigram
func (m *BigramModel) HasSuccessors(word string) bool {
	word = strings.ToLower(word)
	if !m.successorFilter.TestString(word) {
		return false
	}
	return len(m.successors[word]) > 0
}

// Successors returns the bigrams starting with word (case-insensitive),
// with their counts, in the order they were first seen.
func (m *BigramModel) Successors(word string) []bigram.ScoredBigram {
	if !m.HasSuccessors(word) {
		return nil
	}
	keys := m.successors[strings.ToLower(word)]
	result := make([]bigram.ScoredBigram, 0, len(keys))
	for _, bg := range keys {
		result = append(result, bigram.ScoredBigram{Bigram: bg, Count: m.bigrams[bg]})
	}
	return result
}

// Bigrams returns every bigram with its count in first-seen order
func (m *BigramModel) Bigrams() []bigram.ScoredBigram {
	result := make([]bigram.ScoredBigram, 0, len(m.order))
	for _, bg := range m.order {
		result = append(result, bigram.ScoredBigram{Bigram: bg, Count: m.bigrams[bg]})
	}
	return result
}

// FrequencyOfFrequencies returns the Good-Turing table of the current bigram counts
func (m *BigramModel) FrequencyOfFrequencies() map[float64]float64 {
	if m.freqOfFreqs == nil {
		return map[float64]float64{}
	}
	return m.freqOfFreqs
}

// Unigrams returns a copy of the unigram table
func (m *BigramModel) Unigrams() map[string]float64 {
	out := make(map[string]float64, len(m.unigrams))
	for tok, c := range m.unigrams {
		out[tok] = c
	}
	return out
}

// Stats returns statistics about the model
func (m *BigramModel) Stats() ModelStats {
	return ModelStats{
		ID:                m.id,
		DistinctSentences: m.sentences,
		TotalSentences:    m.totalSentences,
		VocabularySize:    len(m.unigrams),
		BigramCount:       len(m.bigrams),
		TotalUnigramMass:  m.TotalUnigramMass(),
		WeightedUnigrams:  m.weightedUnigrams,
		CreatedAt:         m.createdAt,
	}
}

// ModelStats contains statistics about a bigram model
type ModelStats struct {
	ID                string    `json:"id"`
	DistinctSentences int       `json:"distinct_sentences"`
	TotalSentences    float64   `json:"total_sentences"`
	VocabularySize    int       `json:"vocabulary_size"`
	BigramCount       int       `json:"bigram_count"`
	TotalUnigramMass  float64   `json:"total_unigram_mass"`
	WeightedUnigrams  bool      `json:"weighted_unigrams"`
	CreatedAt         time.Time `json:"created_at"`
}
