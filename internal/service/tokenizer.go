package service

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"wordpred/internal/model/bigram"
)

// nonWord matches every character that is neither a word character nor whitespace
var nonWord = regexp.MustCompile(`[^\w\s]`)

// Tokenizer turns raw corpus text into coalesced sentence units
type Tokenizer interface {
	// Tokenize splits raw text into distinct sentences with occurrence counts
	Tokenize(ctx context.Context, raw string) ([]bigram.Sentence, error)

	// Normalize cleans a single phrase or line the same way corpus text is cleaned
	Normalize(text string) string
}

// TextTokenizer splits on a set of delimiter characters, strips punctuation,
// lowercases and drops ignored tokens.
type TextTokenizer struct {
	delimiters string
	ignored    map[string]struct{}
}

// NewTextTokenizer creates a tokenizer. An empty delimiter set falls back to ","
func NewTextTokenizer(delimiters string, ignoreTokens []string) *TextTokenizer {
	if delimiters == "" {
		delimiters = ","
	}
	ignored := make(map[string]struct{}, len(ignoreTokens))
	for _, tok := range ignoreTokens {
		ignored[tok] = struct{}{}
	}
	return &TextTokenizer{
		delimiters: delimiters,
		ignored:    ignored,
	}
}

// Normalize strips non-word characters and lowercases
func (t *TextTokenizer) Normalize(text string) string {
	return strings.ToLower(nonWord.ReplaceAllString(text, ""))
}

// Tokenize splits raw into sentence units. Line breaks are not boundaries;
// identical cleaned units are coalesced, in order of first appearance.
func (t *TextTokenizer) Tokenize(ctx context.Context, raw string) ([]bigram.Sentence, error) {
	units := strings.FieldsFunc(raw, func(r rune) bool {
		return strings.ContainsRune(t.delimiters, r)
	})

	index := make(map[string]int)
	var sentences []bigram.Sentence

	for _, unit := range units {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		words := strings.Fields(t.Normalize(unit))
		if len(words) == 0 {
			continue
		}
		text := strings.Join(words, " ")

		// Coalesce before filtering: ignored tokens still take part in matching
		if i, ok := index[text]; ok {
			sentences[i].Occurrences++
			continue
		}

		index[text] = len(sentences)
		sentences = append(sentences, bigram.Sentence{
			Text:        text,
			Tokens:      t.Filter(words),
			Occurrences: 1,
		})
	}

	return sentences, nil
}

// Filter removes ignored tokens, keeping order
func (t *TextTokenizer) Filter(tokens []string) []string {
	valid := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, skip := t.ignored[tok]; skip {
			continue
		}
		valid = append(valid, tok)
	}
	return valid
}

// Signature describes the settings that change tokenization output
func (t *TextTokenizer) Signature() string {
	ignored := make([]string, 0, len(t.ignored))
	for tok := range t.ignored {
		ignored = append(ignored, tok)
	}
	sort.Strings(ignored)
	return t.delimiters + "\x00" + strings.Join(ignored, "\x00")
}

// PhraseTokens cleans a user phrase and returns its non-ignored tokens
func (t *TextTokenizer) PhraseTokens(phrase string) []string {
	return t.Filter(strings.Fields(t.Normalize(phrase)))
}
