package service

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ErrEmptyCorpus is returned when a corpus yields no usable sentence
var ErrEmptyCorpus = errors.New("corpus contains no sentences")

// CorpusLoader reads a corpus file and builds a BigramModel from it
type CorpusLoader struct {
	tokenizer        *TextTokenizer
	cleanedOutput    string // optional path of the cleaned copy
	weightedUnigrams bool
	logger           *zap.Logger
}

// NewCorpusLoader creates a loader. An empty cleanedOutput skips writing the cleaned copy
func NewCorpusLoader(tokenizer *TextTokenizer, cleanedOutput string, weightedUnigrams bool, logger *zap.Logger) *CorpusLoader {
	return &CorpusLoader{
		tokenizer:        tokenizer,
		cleanedOutput:    cleanedOutput,
		weightedUnigrams: weightedUnigrams,
		logger:           logger,
	}
}

// Read returns the corpus at path and its fingerprint
func (l *CorpusLoader) Read(path string) ([]byte, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read corpus %s: %w", path, err)
	}
	return raw, l.Fingerprint(path, raw), nil
}

// Fingerprint identifies a build input: the corpus location and content
// together with every setting that changes the resulting counts.
func (l *CorpusLoader) Fingerprint(path string, raw []byte) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	h := sha256.New()
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write([]byte(l.tokenizer.Signature()))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatBool(l.weightedUnigrams)))
	h.Write([]byte{0})
	h.Write(raw)
	return hex.EncodeToString(h.Sum(nil))
}

// Load reads the corpus at path and returns a fully built model.
// Nothing is returned on failure, so a caller never sees a partial model.
func (l *CorpusLoader) Load(ctx context.Context, path string) (*BigramModel, error) {
	raw, fingerprint, err := l.Read(path)
	if err != nil {
		return nil, err
	}
	return l.BuildCorpus(ctx, path, raw, fingerprint)
}

// BuildCorpus builds a model from corpus content already read from path.
// The cleaned copy is only written once the build succeeded.
func (l *CorpusLoader) BuildCorpus(ctx context.Context, path string, raw []byte, fingerprint string) (*BigramModel, error) {
	l.logger.Info("Loading corpus", zap.String("path", path))

	model, err := l.Build(ctx, string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to build model from %s: %w", path, err)
	}
	model.fingerprint = fingerprint

	if l.cleanedOutput != "" {
		if err := l.writeCleaned(string(raw)); err != nil {
			l.logger.Warn("Failed to write cleaned corpus",
				zap.String("path", l.cleanedOutput),
				zap.Error(err))
		}
	}
	return model, nil
}

// Build tokenizes raw text and accumulates its counts into a new model
func (l *CorpusLoader) Build(ctx context.Context, raw string) (*BigramModel, error) {
	sentences, err := l.tokenizer.Tokenize(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("tokenization failed: %w", err)
	}
	if len(sentences) == 0 {
		return nil, ErrEmptyCorpus
	}

	model := NewBigramModel(l.weightedUnigrams)
	model.Accumulate(sentences)

	stats := model.Stats()
	l.logger.Info("Bigram model built",
		zap.String("model_id", stats.ID),
		zap.Int("distinct_sentences", stats.DistinctSentences),
		zap.Float64("total_sentences", stats.TotalSentences),
		zap.Int("vocabulary_size", stats.VocabularySize),
		zap.Int("bigrams", stats.BigramCount),
	)
	return model, nil
}

// writeCleaned saves every line cleaned and joined by a space, for inspection
func (l *CorpusLoader) writeCleaned(raw string) error {
	if dir := filepath.Dir(l.cleanedOutput); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	file, err := os.Create(l.cleanedOutput)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, line := range strings.Split(raw, "\n") {
		if _, err := w.WriteString(" " + l.tokenizer.Normalize(strings.TrimRight(line, "\r"))); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	l.logger.Debug("Wrote cleaned corpus", zap.String("path", l.cleanedOutput))
	return nil
}
