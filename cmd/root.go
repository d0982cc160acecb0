package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"wordpred/internal/config"
	"wordpred/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries the state shared by all subcommands
type app struct {
	configPath string
	corpusPath string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:          "wordpred",
		Short:        "Predict the next word of a phrase with a bigram model",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// the server logs to stdout; other commands keep stdout for their output
			output := "stderr"
			if cmd.Name() == "serve" {
				output = "stdout"
			}
			return a.init(output)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to app configuration file")
	cmd.PersistentFlags().StringVar(&a.corpusPath, "corpus", "", "Path to the corpus file (overrides corpus.path)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(
		newServeCmd(a),
		newPredictCmd(a),
		newReplCmd(a),
		newMatrixCmd(a),
		newExportGraphCmd(a),
	)
	return cmd
}

func (a *app) init(output string) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.corpusPath != "" {
		cfg.Corpus.Path = a.corpusPath
	}
	if a.logLevel != "" {
		cfg.App.LogLevel = a.logLevel
	}

	logger, err := newLogger(cfg, output)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	logger.Debug("Configuration loaded successfully", zap.Any("config", cfg))
	return nil
}

func newLogger(cfg *config.Config, output string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.App.LogLevel))
	if err != nil {
		return nil, err
	}

	cfgZap := zap.NewProductionConfig()
	cfgZap.Level.SetLevel(level)
	cfgZap.OutputPaths = []string{output}
	if cfg.App.LogFile != "" {
		cfgZap.OutputPaths = append(cfgZap.OutputPaths, cfg.ResolvePath(cfg.App.LogFile))
	}
	return cfgZap.Build()
}

// newPredictor wires tokenizer, loader and snapshot persistence from the
// configuration. The returned predictor has no model yet.
func (a *app) newPredictor() (*service.Predictor, error) {
	cfg := a.cfg

	strategy, err := service.ParseStrategy(cfg.Prediction.DefaultStrategy)
	if err != nil {
		return nil, err
	}

	tokenizer := service.NewTextTokenizer(cfg.Corpus.Delimiters, cfg.Corpus.IgnoreTokens)
	loader := service.NewCorpusLoader(tokenizer, cfg.ResolvePath(cfg.Corpus.CleanedOutput), cfg.Corpus.WeightedUnigrams, a.logger)

	corpusPath := cfg.ResolvePath(cfg.Corpus.Path)
	opts := service.PredictorOptions{
		CorpusPath:      corpusPath,
		DefaultStrategy: strategy,
		Limit:           cfg.Prediction.Limit,
	}

	var persistence *service.BigramPersistence
	if cfg.Persistence.Enabled {
		persistence, err = service.NewBigramPersistence(cfg.ResolvePath(cfg.Persistence.Dir), a.logger)
		if err != nil {
			return nil, err
		}
		opts.SnapshotName = snapshotName(corpusPath)
	}

	return service.NewPredictor(loader, tokenizer, persistence, opts, a.logger), nil
}

// snapshotName derives the snapshot name from the corpus file name
func snapshotName(corpusPath string) string {
	base := filepath.Base(corpusPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// parseStrategyFlag resolves an optional --strategy value
func parseStrategyFlag(name string) (service.Strategy, error) {
	if name == "" {
		return "", nil
	}
	return service.ParseStrategy(name)
}
