package main

import (
	"errors"
	"fmt"

	"wordpred/internal/model/bigram"
	"wordpred/internal/service"

	"github.com/spf13/cobra"
)

func newMatrixCmd(a *app) *cobra.Command {
	var strategyName string
	var counts bool
	var all bool
	var rebuild bool

	cmd := &cobra.Command{
		Use:   "matrix [phrase]",
		Short: "Print the bigram count or probability matrix of a phrase",
		Example: `
  # Probabilities between the words of a phrase
  wordpred matrix "the cat sat" --strategy addone

  # Raw counts
  wordpred matrix "the cat sat" --counts

  # Every bigram of the corpus
  wordpred matrix --all`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return errors.New("a phrase is required unless --all is set")
			}
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
			if all {
				bigrams, err := predictor.Bigrams()
				if err != nil {
					return err
				}
				return service.RenderBigrams(out, bigrams)
			}

			var matrix *bigram.Matrix
			if counts {
				matrix, err = predictor.CountMatrix(args[0])
			} else {
				matrix, err = predictor.ProbabilityMatrix(args[0], strategy)
			}
			if err != nil {
				return err
			}
			return service.RenderMatrix(out, matrix)
		},
	}

	cmd.Flags().StringVar(&strategyName, "strategy", "", "Smoothing strategy for probabilities (default from config)")
	cmd.Flags().BoolVar(&counts, "counts", false, "Print raw bigram counts instead of probabilities")
	cmd.Flags().BoolVar(&all, "all", false, "Print every bigram of the corpus with its count")
	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "Rebuild the model from the corpus instead of loading a snapshot")
	return cmd
}
