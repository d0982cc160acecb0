package wordgraph

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"wordpred/internal/config"
	"wordpred/internal/model/bigram"

	"go.uber.org/zap"
)

// CountSource is what WordGraph exports from
type CountSource interface {
	Unigrams() map[string]float64
	Bigrams() []bigram.ScoredBigram
}

// WordGraph stores a bigram table as (:Word)-[:FOLLOWS]->(:Word) in a graph database
type WordGraph struct {
	db     GraphDatabase
	logger *zap.Logger
}

func NewWordGraph(db GraphDatabase, logger *zap.Logger) *WordGraph {
	return &WordGraph{db: db, logger: logger}
}

// NewWordGraphFromConfig opens the configured backend and prepares its schema
func NewWordGraphFromConfig(ctx context.Context, cfg config.GraphConfig, logger *zap.Logger) (*WordGraph, error) {
	var db GraphDatabase
	var err error

	switch strings.ToLower(cfg.Backend) {
	case "kuzu":
		databasePath := cfg.Kuzu.Path
		if databasePath == "" {
			databasePath = ":memory:"
			logger.Info("No Kuzu database path configured, using in-memory database")
		}
		db, err = NewKuzuDatabase(databasePath, logger)
	case "neo4j":
		db, err = NewNeo4jDatabase(cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password, logger)
	default:
		return nil, fmt.Errorf("unsupported graph backend: %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	if err := db.VerifyConnectivity(ctx); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to verify database connectivity: %w", err)
	}
	if err := db.InitializeSchema(ctx); err != nil {
		db.Close(ctx)
		return nil, err
	}

	return NewWordGraph(db, logger), nil
}

// Export replaces the stored graph with the words and bigrams of source
func (g *WordGraph) Export(ctx context.Context, source CountSource) error {
	if _, err := g.db.ExecuteWrite(ctx, "MATCH (w:Word) DETACH DELETE w", nil); err != nil {
		return fmt.Errorf("failed to clear word graph: %w", err)
	}

	unigrams := source.Unigrams()
	words := make([]string, 0, len(unigrams))
	for w := range unigrams {
		words = append(words, w)
	}
	sort.Strings(words)

	for _, w := range words {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := g.db.ExecuteWrite(ctx, "CREATE (:Word {name: $name, freq: $freq})", map[string]any{
			"name": w,
			"freq": unigrams[w],
		})
		if err != nil {
			return fmt.Errorf("failed to create word %q: %w", w, err)
		}
	}

	bigrams := source.Bigrams()
	for _, b := range bigrams {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := g.db.ExecuteWrite(ctx,
			"MATCH (a:Word {name: $curr}), (b:Word {name: $next}) CREATE (a)-[:FOLLOWS {freq: $freq}]->(b)",
			map[string]any{
				"curr": b.Bigram.Curr,
				"next": b.Bigram.Next,
				"freq": b.Count,
			})
		if err != nil {
			return fmt.Errorf("failed to create bigram %s: %w", b.Bigram, err)
		}
	}

	g.logger.Info("Exported word graph",
		zap.Int("words", len(words)),
		zap.Int("bigrams", len(bigrams)))
	return nil
}

// Successors reads back the words following word, most frequent first
func (g *WordGraph) Successors(ctx context.Context, word string, limit int) ([]bigram.ScoredBigram, error) {
	if limit <= 0 {
		limit = 5
	}
	query := fmt.Sprintf(
		"MATCH (a:Word {name: $word})-[f:FOLLOWS]->(b:Word) RETURN b.name AS next, f.freq AS freq ORDER BY f.freq DESC, b.name LIMIT %d",
		limit)

	records, err := g.db.ExecuteRead(ctx, query, map[string]any{"word": strings.ToLower(word)})
	if err != nil {
		return nil, fmt.Errorf("failed to read successors of %q: %w", word, err)
	}

	result := make([]bigram.ScoredBigram, 0, len(records))
	for _, r := range records {
		next, _ := r["next"].(string)
		result = append(result, bigram.ScoredBigram{
			Bigram: bigram.New(strings.ToLower(word), next),
			Count:  toFloat64(r["freq"]),
		})
	}
	return result, nil
}

func (g *WordGraph) Close(ctx context.Context) error {
	return g.db.Close(ctx)
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}
