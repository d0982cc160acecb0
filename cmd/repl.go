package main

import (
	"fmt"

	"wordpred/internal/repl"

	"github.com/spf13/cobra"
)

func newReplCmd(a *app) *cobra.Command {
	var strategyName string
	var limit int
	var rebuild bool

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Build a phrase interactively, one predicted word at a time",
		Args:  cobra.NoArgs,
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

			session := repl.NewSession(predictor, strategy, limit, cmd.InOrStdin(), cmd.OutOrStdout(), a.logger)
			return session.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&strategyName, "strategy", "", "Smoothing strategy: none, addone, goodturing (default from config)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of predictions (default from config)")
	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "Rebuild the model from the corpus instead of loading a snapshot")
	return cmd
}
