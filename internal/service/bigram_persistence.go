package service

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wordpred/internal/model/bigram"

	"go.uber.org/zap"
)

const snapshotVersion = "1.1"

// SerializableBigramModel is the gob representation of a BigramModel
type SerializableBigramModel struct {
	Version          string    // Format version
	ID               string    // Model build ID
	CreatedAt        time.Time // When the model was built
	Name             string    // Snapshot name
	Fingerprint      string    // Corpus and settings the model was built from
	WeightedUnigrams bool      // Unigram accumulation mode
	Sentences        int       // Distinct sentences
	TotalSentences   float64   // Sentences including repeats

	Unigrams map[string]float64   // token -> count
	Bigrams  []SerializableBigram // In first-seen order
}

// SerializableBigram is one bigram table entry
type SerializableBigram struct {
	Curr  string
	Next  string
	Count float64
}

// BigramPersistence handles saving and loading bigram models
type BigramPersistence struct {
	outputDir string
	logger    *zap.Logger
}

// NewBigramPersistence creates a new persistence manager
func NewBigramPersistence(outputDir string, logger *zap.Logger) (*BigramPersistence, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &BigramPersistence{
		outputDir: outputDir,
		logger:    logger,
	}, nil
}

// GetModelPath returns the snapshot file path for name
func (p *BigramPersistence) GetModelPath(name string) string {
	return filepath.Join(p.outputDir, fmt.Sprintf("%s_bigram.gob", name))
}

// SaveModel writes model to disk under name
func (p *BigramPersistence) SaveModel(model *BigramModel, name string) error {
	snapshot := &SerializableBigramModel{
		Version:          snapshotVersion,
		ID:               model.id,
		CreatedAt:        model.createdAt,
		Name:             name,
		Fingerprint:      model.fingerprint,
		WeightedUnigrams: model.weightedUnigrams,
		Sentences:        model.sentences,
		TotalSentences:   model.totalSentences,
		Unigrams:         model.Unigrams(),
		Bigrams:          make([]SerializableBigram, 0, len(model.order)),
	}
	for _, bg := range model.order {
		snapshot.Bigrams = append(snapshot.Bigrams, SerializableBigram{
			Curr:  bg.Curr,
			Next:  bg.Next,
			Count: model.bigrams[bg],
		})
	}

	modelPath := p.GetModelPath(name)
	if err := p.saveToFile(snapshot, modelPath); err != nil {
		return fmt.Errorf("failed to save to file: %w", err)
	}

	p.logger.Info("Saved bigram model",
		zap.String("name", name),
		zap.String("path", modelPath),
		zap.String("model_id", snapshot.ID),
		zap.Int("bigrams", len(snapshot.Bigrams)))

	return nil
}

// LoadModel reads the snapshot saved under name
func (p *BigramPersistence) LoadModel(name string) (*BigramModel, error) {
	modelPath := p.GetModelPath(name)

	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("no saved model found: %s", name)
	}

	snapshot, err := p.loadFromFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load from file: %w", err)
	}
	if snapshot.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %q", snapshot.Version)
	}

	model := NewBigramModel(snapshot.WeightedUnigrams)
	model.id = snapshot.ID
	model.createdAt = snapshot.CreatedAt
	model.fingerprint = snapshot.Fingerprint
	model.sentences = snapshot.Sentences
	model.totalSentences = snapshot.TotalSentences
	for tok, c := range snapshot.Unigrams {
		model.unigrams[tok] = c
	}
	for _, sb := range snapshot.Bigrams {
		model.addBigram(bigram.New(sb.Curr, sb.Next), sb.Count)
	}
	model.freqOfFreqs = BuildFrequencyOfFrequencies(model.bigrams)

	p.logger.Info("Loaded bigram model",
		zap.String("name", name),
		zap.String("path", modelPath),
		zap.String("model_id", model.id),
		zap.Int("bigrams", len(model.bigrams)))

	return model, nil
}

// ModelExists checks if a snapshot exists for name
func (p *BigramPersistence) ModelExists(name string) bool {
	_, err := os.Stat(p.GetModelPath(name))
	return err == nil
}

// DeleteModel removes the snapshot for name
func (p *BigramPersistence) DeleteModel(name string) error {
	if err := os.Remove(p.GetModelPath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete model: %w", err)
	}
	p.logger.Info("Deleted bigram model", zap.String("name", name))
	return nil
}

// saveToFile writes to a temporary file in the same directory and renames it
// into place, so a failed write never leaves a truncated snapshot behind.
func (p *BigramPersistence) saveToFile(snapshot *SerializableBigramModel, path string) error {
	file, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := file.Name()

	if err := gob.NewEncoder(file).Encode(snapshot); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

func (p *BigramPersistence) loadFromFile(path string) (*SerializableBigramModel, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var snapshot SerializableBigramModel
	if err := gob.NewDecoder(file).Decode(&snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
