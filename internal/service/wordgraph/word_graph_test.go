package wordgraph

import (
	"context"
	"errors"
	"strings"
	"testing"

	"wordpred/internal/model/bigram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordedQuery struct {
	query  string
	params map[string]any
}

// fakeDatabase records writes and answers reads with canned records
type fakeDatabase struct {
	writes   []recordedQuery
	reads    []recordedQuery
	records  []map[string]any
	failWith error
}

func (f *fakeDatabase) VerifyConnectivity(ctx context.Context) error { return nil }
func (f *fakeDatabase) InitializeSchema(ctx context.Context) error   { return nil }
func (f *fakeDatabase) Close(ctx context.Context) error              { return nil }

func (f *fakeDatabase) ExecuteRead(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	f.reads = append(f.reads, recordedQuery{query, params})
	return f.records, f.failWith
}

func (f *fakeDatabase) ExecuteWrite(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	f.writes = append(f.writes, recordedQuery{query, params})
	return nil, f.failWith
}

type staticSource struct {
	unigrams map[string]float64
	bigrams  []bigram.ScoredBigram
}

func (s staticSource) Unigrams() map[string]float64   { return s.unigrams }
func (s staticSource) Bigrams() []bigram.ScoredBigram { return s.bigrams }

func catSource() staticSource {
	return staticSource{
		unigrams: map[string]float64{"the": 2, "cat": 2, "sat": 1},
		bigrams: []bigram.ScoredBigram{
			{Bigram: bigram.New("the", "cat"), Count: 2},
			{Bigram: bigram.New("cat", "sat"), Count: 1},
		},
	}
}

func TestWordGraph_ExportWritesWordsThenEdges(t *testing.T) {
	db := &fakeDatabase{}
	g := NewWordGraph(db, zap.NewNop())

	require.NoError(t, g.Export(context.Background(), catSource()))

	// clear + 3 words + 2 edges
	require.Len(t, db.writes, 6)
	assert.Contains(t, db.writes[0].query, "DETACH DELETE")

	// words are written in sorted order
	assert.Equal(t, "cat", db.writes[1].params["name"])
	assert.Equal(t, "sat", db.writes[2].params["name"])
	assert.Equal(t, "the", db.writes[3].params["name"])
	assert.Equal(t, 2.0, db.writes[3].params["freq"])

	assert.True(t, strings.Contains(db.writes[4].query, "FOLLOWS"))
	assert.Equal(t, "the", db.writes[4].params["curr"])
	assert.Equal(t, "cat", db.writes[4].params["next"])
	assert.Equal(t, 2.0, db.writes[4].params["freq"])
}

func TestWordGraph_ExportPropagatesErrors(t *testing.T) {
	db := &fakeDatabase{failWith: errors.New("connection reset")}
	g := NewWordGraph(db, zap.NewNop())

	err := g.Export(context.Background(), catSource())
	assert.ErrorIs(t, err, db.failWith)
}

func TestWordGraph_Successors(t *testing.T) {
	db := &fakeDatabase{records: []map[string]any{
		{"next": "cat", "freq": 2.0},
		{"next": "dog", "freq": int64(1)},
	}}
	g := NewWordGraph(db, zap.NewNop())

	got, err := g.Successors(context.Background(), "The", 3)
	require.NoError(t, err)

	assert.Equal(t, []bigram.ScoredBigram{
		{Bigram: bigram.New("the", "cat"), Count: 2},
		{Bigram: bigram.New("the", "dog"), Count: 1},
	}, got)
	require.Len(t, db.reads, 1)
	assert.Equal(t, "the", db.reads[0].params["word"])
	assert.Contains(t, db.reads[0].query, "LIMIT 3")
}
