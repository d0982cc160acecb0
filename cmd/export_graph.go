package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newExportGraphCmd(a *app) *cobra.Command {
	var backend string
	var word string
	var limit int

	cmd := &cobra.Command{
		Use:   "export-graph",
		Short: "Export the bigram table to a Kuzu or Neo4j graph",
		Example: `
  # Export to the Kuzu database configured under graph.kuzu.path
  wordpred export-graph --backend kuzu

  # Export to Neo4j and show what follows "the"
  wordpred export-graph --backend neo4j --word the`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if backend != "" {
				a.cfg.Graph.Backend = backend
			}
			if a.cfg.Graph.Backend == "" {
				return errors.New("no graph backend configured; set graph.backend or --backend")
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			predictor, err := a.newPredictor()
			if err != nil {
				return err
			}
			if err := predictor.Load(cmd.Context(), false); err != nil {
				return fmt.Errorf("failed to load corpus: %w", err)
			}
			return a.exportGraph(cmd.Context(), predictor, cmd.OutOrStdout(), word, limit)
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "", "Graph backend: kuzu or neo4j (overrides graph.backend)")
	cmd.Flags().StringVar(&word, "word", "", "After exporting, list the successors of this word")
	cmd.Flags().IntVar(&limit, "limit", 5, "Number of successors to list")
	return cmd
}
