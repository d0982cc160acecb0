package wordgraph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// Neo4jDatabase implements the GraphDatabase interface using a Neo4j server
type Neo4jDatabase struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

func NewNeo4jDatabase(uri, username, password string, logger *zap.Logger) (*Neo4jDatabase, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}
	return &Neo4jDatabase{driver: driver, logger: logger}, nil
}

func (db *Neo4jDatabase) VerifyConnectivity(ctx context.Context) error {
	if err := db.driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("failed to verify Neo4j connectivity: %w", err)
	}
	return nil
}

// InitializeSchema adds a uniqueness constraint on Word.name
func (db *Neo4jDatabase) InitializeSchema(ctx context.Context) error {
	_, err := db.ExecuteWrite(ctx,
		"CREATE CONSTRAINT word_name IF NOT EXISTS FOR (w:Word) REQUIRE w.name IS UNIQUE", nil)
	if err != nil {
		return fmt.Errorf("failed to create Word constraint: %w", err)
	}
	db.logger.Info("Successfully initialized Neo4j schema")
	return nil
}

func (db *Neo4jDatabase) Close(ctx context.Context) error {
	return db.driver.Close(ctx)
}

func (db *Neo4jDatabase) ExecuteRead(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	return db.execute(ctx, neo4j.AccessModeRead, query, params)
}

func (db *Neo4jDatabase) ExecuteWrite(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	return db.execute(ctx, neo4j.AccessModeWrite, query, params)
}

func (db *Neo4jDatabase) execute(ctx context.Context, mode neo4j.AccessMode, query string, params map[string]any) ([]map[string]any, error) {
	session := db.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode})
	defer session.Close(ctx)

	work := func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		var records []map[string]any
		for result.Next(ctx) {
			records = append(records, result.Record().AsMap())
		}
		if err := result.Err(); err != nil {
			return nil, err
		}
		return records, nil
	}

	var out any
	var err error
	if mode == neo4j.AccessModeRead {
		out, err = session.ExecuteRead(ctx, work)
	} else {
		out, err = session.ExecuteWrite(ctx, work)
	}
	if err != nil {
		db.logger.Error("Failed to execute Neo4j query",
			zap.String("query", query),
			zap.Error(err))
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	records, _ := out.([]map[string]any)
	return records, nil
}
