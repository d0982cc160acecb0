package main

import (
	"errors"
	"fmt"

	"wordpred/internal/service"

	"github.com/spf13/cobra"
)

func newPredictCmd(a *app) *cobra.Command {
	var strategyName string
	var limit int
	var rebuild bool

	cmd := &cobra.Command{
		Use:   "predict <phrase>",
		Short: "Print the most probable next words after a phrase",
		Example: `
  # Top 5 words after "the" with Good-Turing smoothing
  wordpred predict "the" --corpus corpus.txt

  # Unsmoothed, top 3
  wordpred predict "the cat" --strategy none --limit 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy, err := parseStrategyFlag(strategyName)
			if err != nil {
				return err
			}

			predictor, err := a.newPredictor()
			if err != nil {
				return err
			}
			if err := predictor.Load(cmd.Context(), rebuild); err != nil {
				return fmt.Errorf("failed to load corpus: %w", err)
			}

			out := cmd.OutOrStdout()
			predictions, err := predictor.Predict(args[0], strategy, limit)
			if errors.Is(err, service.ErrNoPrediction) {
				fmt.Fprintln(out, "No word found")
				return nil
			}
			if err != nil {
				return err
			}
			return service.RenderPredictions(out, predictions)
		},
	}

	cmd.Flags().StringVar(&strategyName, "strategy", "", "Smoothing strategy: none, addone, goodturing (default from config)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of predictions (default from config)")
	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "Rebuild the model from the corpus instead of loading a snapshot")
	return cmd
}
