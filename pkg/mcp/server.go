package mcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"wordpred/internal/model/bigram"
	"wordpred/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// Path is where the streamable HTTP endpoint is mounted
const Path = "/mcp"

type PredictionServer struct {
	server    *mcp.Server
	predictor *service.Predictor
	logger    *zap.Logger
	handler   *mcp.StreamableHTTPHandler
}

type PredictParams struct {
	Phrase   string `json:"phrase" jsonschema:"the partial phrase; the next word is predicted from its last word"`
	Strategy string `json:"strategy,omitempty" jsonschema:"smoothing strategy: none, addone or goodturing"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of predictions, default 5"`
}

type MatrixParams struct {
	Phrase   string `json:"phrase" jsonschema:"the phrase whose words form the matrix rows and columns"`
	Strategy string `json:"strategy,omitempty" jsonschema:"smoothing strategy for probabilities"`
	Counts   bool   `json:"counts,omitempty" jsonschema:"return raw bigram counts instead of probabilities"`
}

type StatsParams struct{}

func NewPredictionServer(predictor *service.Predictor, logger *zap.Logger) *PredictionServer {
	server := &PredictionServer{
		predictor: predictor,
		logger:    logger,
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "WordPredictor",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "predictNextWord",
		Description: "Predict the most probable next words after a phrase using a bigram model. Returns up to the requested number of words with their probabilities",
	}, server.handlePredict)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "bigramMatrix",
		Description: "Return the bigram count or probability matrix over the words of a phrase",
	}, server.handleMatrix)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "modelStats",
		Description: "Return statistics of the loaded bigram model: sentences, vocabulary size and bigram count",
	}, server.handleStats)

	server.handler = mcp.NewStreamableHTTPHandler(func(req *http.Request) *mcp.Server {
		return mcpServer
	}, nil)

	server.server = mcpServer
	return server
}

// SetupHTTPRoutes mounts the MCP endpoint on the API router
func (s *PredictionServer) SetupHTTPRoutes(router *gin.Engine) {
	router.Any(Path, gin.WrapH(s.handler))
	s.logger.Info("MCP server mounted", zap.String("path", Path))
}

func (s *PredictionServer) handlePredict(ctx context.Context, req *mcp.CallToolRequest, args PredictParams) (*mcp.CallToolResult, any, error) {
	s.logger.Info("Handling predictNextWord request",
		zap.String("phrase", args.Phrase),
		zap.String("strategy", args.Strategy))

	strategy, err := s.strategy(args.Strategy)
	if err != nil {
		return errorResult(err), nil, nil
	}

	predictions, err := s.predictor.Predict(args.Phrase, strategy, args.Limit)
	if errors.Is(err, service.ErrNoPrediction) {
		return textResult(fmt.Sprintf("No prediction available for %q.", args.Phrase)), nil, nil
	}
	if err != nil {
		s.logger.Error("Failed to predict next word", zap.Error(err))
		return errorResult(err), nil, nil
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Next word predictions (%s):\n", strategy)
	if err := service.RenderPredictions(&buf, predictions); err != nil {
		return errorResult(err), nil, nil
	}
	return textResult(buf.String()), nil, nil
}

func (s *PredictionServer) handleMatrix(ctx context.Context, req *mcp.CallToolRequest, args MatrixParams) (*mcp.CallToolResult, any, error) {
	s.logger.Info("Handling bigramMatrix request",
		zap.String("phrase", args.Phrase),
		zap.Bool("counts", args.Counts))

	var (
		matrix *bigram.Matrix
		title  string
		err    error
	)
	if args.Counts {
		title = "Bigram counts"
		matrix, err = s.predictor.CountMatrix(args.Phrase)
	} else {
		var strategy service.Strategy
		if strategy, err = s.strategy(args.Strategy); err != nil {
			return errorResult(err), nil, nil
		}
		title = fmt.Sprintf("Bigram probabilities (%s)", strategy)
		matrix, err = s.predictor.ProbabilityMatrix(args.Phrase, strategy)
	}
	if err != nil {
		return errorResult(err), nil, nil
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s:\n", title)
	if err := service.RenderMatrix(&buf, matrix); err != nil {
		return errorResult(err), nil, nil
	}
	return textResult(buf.String()), nil, nil
}

func (s *PredictionServer) handleStats(ctx context.Context, req *mcp.CallToolRequest, args StatsParams) (*mcp.CallToolResult, any, error) {
	stats, err := s.predictor.Stats()
	if err != nil {
		return errorResult(err), nil, nil
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Model: %s\n", stats.ID))
	result.WriteString(fmt.Sprintf("Distinct sentences: %d\n", stats.DistinctSentences))
	result.WriteString(fmt.Sprintf("Total sentences: %g\n", stats.TotalSentences))
	result.WriteString(fmt.Sprintf("Vocabulary size: %d\n", stats.VocabularySize))
	result.WriteString(fmt.Sprintf("Bigrams: %d\n", stats.BigramCount))
	result.WriteString(fmt.Sprintf("Weighted unigrams: %t\n", stats.WeightedUnigrams))
	return textResult(result.String()), nil, nil
}

func (s *PredictionServer) strategy(name string) (service.Strategy, error) {
	if name == "" {
		return s.predictor.DefaultStrategy(), nil
	}
	return service.ParseStrategy(name)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Error: %v", err)}},
		IsError: true,
	}
}
