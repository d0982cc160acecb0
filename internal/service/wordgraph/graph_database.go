package wordgraph

import "context"

// GraphDatabase is the subset of a Cypher database the word graph needs.
// Kuzu and Neo4j both implement it.
type GraphDatabase interface {
	VerifyConnectivity(ctx context.Context) error
	ExecuteRead(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
	ExecuteWrite(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
	// InitializeSchema prepares Word nodes and FOLLOWS relationships
	InitializeSchema(ctx context.Context) error
	Close(ctx context.Context) error
}
