package service

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"wordpred/internal/model/bigram"

	"github.com/shopspring/decimal"
)

// ErrUnknownStrategy is returned for a strategy name no smoother implements
var ErrUnknownStrategy = errors.New("unknown smoothing strategy")

// Strategy names one of the probability estimators
type Strategy string

const (
	StrategyNone       Strategy = "none"
	StrategyAddOne     Strategy = "addone"
	StrategyGoodTuring Strategy = "goodturing"
)

// probabilityScale is the number of decimal places probabilities are rounded to
const probabilityScale = 5

// ParseStrategy accepts the canonical names and common aliases
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "no-smoothing", "mle":
		return StrategyNone, nil
	case "addone", "add-one", "laplace":
		return StrategyAddOne, nil
	case "goodturing", "good-turing", "gt":
		return StrategyGoodTuring, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// BigramCounts is the read-only view of a model the smoothers need
type BigramCounts interface {
	UnigramCount(token string) (float64, bool)
	BigramCount(curr, next string) float64
	Successors(word string) []bigram.ScoredBigram
	VocabularySize() int
	TotalUnigramMass() float64
	FrequencyOfFrequencies() map[float64]float64
}

// Smoother defines the interface for bigram probability estimators
type Smoother interface {
	// Score returns every bigram starting with word with its rounded
	// probability, in the order the model yields them
	Score(counts BigramCounts, word string) []bigram.ScoredBigram

	// Probability estimates P(next | curr) for any pair, seen or not.
	// Used for matrix display, not for ranking.
	Probability(counts BigramCounts, curr, next string) float64

	// Name returns the name of the smoothing algorithm
	Name() string
}

// NewSmoother returns the smoother implementing strategy
func NewSmoother(strategy Strategy) (Smoother, error) {
	switch strategy {
	case StrategyNone:
		return NewNoSmoother(), nil
	case StrategyAddOne:
		return NewAddOneSmoother(), nil
	case StrategyGoodTuring:
		return NewGoodTuringSmoother(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
}

// NoSmoother is the unsmoothed maximum likelihood estimate
type NoSmoother struct{}

func NewNoSmoother() *NoSmoother {
	return &NoSmoother{}
}

func (s *NoSmoother) Score(counts BigramCounts, word string) []bigram.ScoredBigram {
	var scored []bigram.ScoredBigram
	for _, candidate := range counts.Successors(word) {
		unigram, ok := counts.UnigramCount(candidate.Bigram.Curr)
		if !ok || unigram == 0 {
			continue
		}
		candidate.Probability = roundProbability(candidate.Count / unigram)
		scored = append(scored, candidate)
	}
	return scored
}

func (s *NoSmoother) Probability(counts BigramCounts, curr, next string) float64 {
	unigram, ok := counts.UnigramCount(curr)
	if !ok || unigram == 0 {
		return 0
	}
	return roundProbability(counts.BigramCount(curr, next) / unigram)
}

func (s *NoSmoother) Name() string {
	return "NoSmoothing"
}

// AddOneSmoother implements add-one (Laplace) smoothing over observed bigrams.
// Unseen continuations are not enumerated.
type AddOneSmoother struct{}

func NewAddOneSmoother() *AddOneSmoother {
	return &AddOneSmoother{}
}

func (s *AddOneSmoother) Score(counts BigramCounts, word string) []bigram.ScoredBigram {
	vocabularySize := float64(counts.VocabularySize())

	var scored []bigram.ScoredBigram
	for _, candidate := range counts.Successors(word) {
		unigram, ok := counts.UnigramCount(candidate.Bigram.Curr)
		if !ok {
			continue
		}
		candidate.Probability = roundProbability((candidate.Count + 1) / (unigram + vocabularySize))
		scored = append(scored, candidate)
	}
	return scored
}

func (s *AddOneSmoother) Probability(counts BigramCounts, curr, next string) float64 {
	unigram, _ := counts.UnigramCount(curr)
	denominator := unigram + float64(counts.VocabularySize())
	if denominator == 0 {
		return 0
	}
	return roundProbability((counts.BigramCount(curr, next) + 1) / denominator)
}

func (s *AddOneSmoother) Name() string {
	return "AddOne"
}

// GoodTuringSmoother re-estimates counts from the frequency of frequencies
type GoodTuringSmoother struct{}

func NewGoodTuringSmoother() *GoodTuringSmoother {
	return &GoodTuringSmoother{}
}

func (s *GoodTuringSmoother) Score(counts BigramCounts, word string) []bigram.ScoredBigram {
	total := counts.TotalUnigramMass()
	if total == 0 {
		return nil
	}
	freqs := counts.FrequencyOfFrequencies()

	var scored []bigram.ScoredBigram
	for _, candidate := range counts.Successors(word) {
		candidate.Probability = roundProbability(goodTuringProbability(candidate.Count, freqs, total))
		scored = append(scored, candidate)
	}
	return scored
}

// goodTuringProbability applies the fallbacks in priority order:
// (c+1)*N[c+1]/(N[c]*total), then (c+1)/(N[c]*total), then (c+1)/total.
// A zero count takes N[1]/total, with a missing N[1] treated as 0.
func goodTuringProbability(count float64, freqs map[float64]float64, total float64) float64 {
	if count == 0 {
		return freqs[1] / total
	}

	nc, hasNc := freqs[count]
	ncNext, hasNcNext := freqs[count+1]

	switch {
	case hasNc && hasNcNext && nc > 0:
		return (count + 1) * ncNext / (nc * total)
	case hasNc && nc > 0:
		return (count + 1) / (nc * total)
	default:
		return (count + 1) / total
	}
}

func (s *GoodTuringSmoother) Probability(counts BigramCounts, curr, next string) float64 {
	total := counts.TotalUnigramMass()
	if total == 0 {
		return 0
	}
	count := counts.BigramCount(curr, next)
	return roundProbability(goodTuringProbability(count, counts.FrequencyOfFrequencies(), total))
}

func (s *GoodTuringSmoother) Name() string {
	return "GoodTuring"
}

// roundProbability rounds half-up to probabilityScale decimal places
func roundProbability(p float64) float64 {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return p
	}
	rounded, _ := decimal.NewFromFloat(p).Round(probabilityScale).Float64()
	return rounded
}
