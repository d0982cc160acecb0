package service

import "wordpred/internal/model/bigram"

// BuildFrequencyOfFrequencies tallies, for every count value in the bigram
// table, how many distinct bigrams have exactly that count.
func BuildFrequencyOfFrequencies(bigrams map[bigram.Bigram]float64) map[float64]float64 {
	table := make(map[float64]float64)
	for _, count := range bigrams {
		table[count]++
	}
	return table
}
