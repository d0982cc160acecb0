package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"wordpred/internal/model/bigram"

	"go.uber.org/zap"
)

var (
	// ErrNoPrediction means no bigram starts with the conditioning word
	ErrNoPrediction = errors.New("no prediction available")

	// ErrInvalidPhrase means the phrase is empty after cleaning
	ErrInvalidPhrase = errors.New("phrase contains no words")

	// ErrModelNotLoaded means no corpus has been loaded yet
	ErrModelNotLoaded = errors.New("bigram model not loaded")
)

// PredictorOptions configures a Predictor
type PredictorOptions struct {
	CorpusPath      string
	SnapshotName    string // name used with BigramPersistence; empty disables snapshots
	DefaultStrategy Strategy
	Limit           int
}

// Predictor owns the current bigram model and answers prediction requests.
// The model is swapped in only after a complete build.
type Predictor struct {
	loader      *CorpusLoader
	tokenizer   *TextTokenizer
	persistence *BigramPersistence
	opts        PredictorOptions
	model       *BigramModel
	logger      *zap.Logger
	mu          sync.RWMutex
}

// NewPredictor creates a predictor without a model. persistence may be nil.
func NewPredictor(loader *CorpusLoader, tokenizer *TextTokenizer, persistence *BigramPersistence, opts PredictorOptions, logger *zap.Logger) *Predictor {
	if opts.DefaultStrategy == "" {
		opts.DefaultStrategy = StrategyGoodTuring
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	return &Predictor{
		loader:      loader,
		tokenizer:   tokenizer,
		persistence: persistence,
		opts:        opts,
		logger:      logger,
	}
}

// Load builds the model from the configured corpus. Unless rebuild is set,
// a saved snapshot is reused when it was built from the same corpus content
// and settings; a freshly built model is saved afterwards.
func (p *Predictor) Load(ctx context.Context, rebuild bool) error {
	raw, fingerprint, err := p.loader.Read(p.opts.CorpusPath)
	if err != nil {
		return err
	}

	if !rebuild && p.snapshotsEnabled() && p.persistence.ModelExists(p.opts.SnapshotName) {
		model, err := p.persistence.LoadModel(p.opts.SnapshotName)
		switch {
		case err != nil:
			p.logger.Warn("Failed to load existing model, will rebuild",
				zap.String("name", p.opts.SnapshotName),
				zap.Error(err))
		case model.Fingerprint() != fingerprint:
			p.logger.Info("Saved model is stale, will rebuild",
				zap.String("name", p.opts.SnapshotName),
				zap.String("corpus", p.opts.CorpusPath))
		default:
			p.SetModel(model)
			return nil
		}
	}

	model, err := p.loader.BuildCorpus(ctx, p.opts.CorpusPath, raw, fingerprint)
	if err != nil {
		return err
	}
	p.SetModel(model)

	if p.snapshotsEnabled() {
		if err := p.persistence.SaveModel(model, p.opts.SnapshotName); err != nil {
			p.logger.Error("Failed to save bigram model",
				zap.String("name", p.opts.SnapshotName),
				zap.Error(err))
		}
	}
	return nil
}

// LoadText builds the model from an in-memory corpus
func (p *Predictor) LoadText(ctx context.Context, raw string) error {
	model, err := p.loader.Build(ctx, raw)
	if err != nil {
		return err
	}
	p.SetModel(model)
	return nil
}

func (p *Predictor) snapshotsEnabled() bool {
	return p.persistence != nil && p.opts.SnapshotName != ""
}

// SetModel replaces the current model
func (p *Predictor) SetModel(model *BigramModel) {
	p.mu.Lock()
	p.model = model
	p.mu.Unlock()
}

// Model returns the current model
func (p *Predictor) Model() (*BigramModel, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.model == nil {
		return nil, ErrModelNotLoaded
	}
	return p.model, nil
}

// DefaultStrategy is the strategy used when a request names none
func (p *Predictor) DefaultStrategy() Strategy {
	return p.opts.DefaultStrategy
}

// PhraseTokens returns the cleaned, non-ignored tokens of phrase
func (p *Predictor) PhraseTokens(phrase string) []string {
	return p.tokenizer.PhraseTokens(phrase)
}

// Predict ranks the words most likely to follow the last word of phrase.
// An empty strategy uses the default; limit <= 0 uses the configured limit.
func (p *Predictor) Predict(phrase string, strategy Strategy, limit int) ([]bigram.Prediction, error) {
	model, err := p.Model()
	if err != nil {
		return nil, err
	}

	tokens := p.PhraseTokens(phrase)
	if len(tokens) == 0 {
		return nil, ErrInvalidPhrase
	}
	word := tokens[len(tokens)-1]

	if strategy == "" {
		strategy = p.opts.DefaultStrategy
	}
	smoother, err := NewSmoother(strategy)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = p.opts.Limit
	}

	scored := smoother.Score(model, word)
	if len(scored) == 0 {
		p.logger.Debug("No candidates for word",
			zap.String("word", word),
			zap.String("strategy", string(strategy)))
		return nil, fmt.Errorf("%w for %q", ErrNoPrediction, word)
	}

	ranked := NewRanker().Rank(scored, limit)
	predictions := make([]bigram.Prediction, 0, len(ranked))
	for _, r := range ranked {
		predictions = append(predictions, bigram.Prediction{
			Word:        r.Bigram.Next,
			Probability: r.Probability,
			Count:       r.Count,
		})
	}

	p.logger.Debug("Predicted next words",
		zap.String("word", word),
		zap.String("smoother", smoother.Name()),
		zap.Int("candidates", len(scored)),
		zap.Int("returned", len(predictions)))

	return predictions, nil
}

// CountMatrix returns the bigram counts between every pair of phrase tokens
func (p *Predictor) CountMatrix(phrase string) (*bigram.Matrix, error) {
	model, err := p.Model()
	if err != nil {
		return nil, err
	}
	return p.buildMatrix(phrase, func(curr, next string) float64 {
		return model.BigramCount(curr, next)
	})
}

// ProbabilityMatrix returns P(col | row) for every pair of phrase tokens
func (p *Predictor) ProbabilityMatrix(phrase string, strategy Strategy) (*bigram.Matrix, error) {
	model, err := p.Model()
	if err != nil {
		return nil, err
	}
	if strategy == "" {
		strategy = p.opts.DefaultStrategy
	}
	smoother, err := NewSmoother(strategy)
	if err != nil {
		return nil, err
	}
	return p.buildMatrix(phrase, func(curr, next string) float64 {
		return smoother.Probability(model, curr, next)
	})
}

func (p *Predictor) buildMatrix(phrase string, cell func(curr, next string) float64) (*bigram.Matrix, error) {
	tokens := p.tokenizer.PhraseTokens(phrase)
	if len(tokens) == 0 {
		return nil, ErrInvalidPhrase
	}

	values := make([][]float64, len(tokens))
	for i, curr := range tokens {
		values[i] = make([]float64, len(tokens))
		for j, next := range tokens {
			values[i][j] = cell(curr, next)
		}
	}
	return &bigram.Matrix{Rows: tokens, Cols: tokens, Values: values}, nil
}

// Bigrams returns the whole corpus bigram table in first-seen order
func (p *Predictor) Bigrams() ([]bigram.ScoredBigram, error) {
	model, err := p.Model()
	if err != nil {
		return nil, err
	}
	return model.Bigrams(), nil
}

// Stats returns statistics of the current model
func (p *Predictor) Stats() (ModelStats, error) {
	model, err := p.Model()
	if err != nil {
		return ModelStats{}, err
	}
	return model.Stats(), nil
}
