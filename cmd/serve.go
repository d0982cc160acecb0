package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wordpred/internal/controller"
	"wordpred/internal/handler"
	"wordpred/internal/service"
	"wordpred/internal/service/wordgraph"
	"wordpred/pkg/mcp"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	var port int
	var rebuild bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve predictions over HTTP and MCP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				a.cfg.App.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, rebuild)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Server port (overrides app.port)")
	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "Rebuild the model from the corpus instead of loading a snapshot")
	return cmd
}

func (a *app) serve(ctx context.Context, rebuild bool) error {
	logger := a.logger

	predictor, err := a.newPredictor()
	if err != nil {
		return err
	}
	if err := predictor.Load(ctx, rebuild); err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	if a.cfg.Graph.Backend != "" {
		if err := a.exportGraph(ctx, predictor, io.Discard, "", 0); err != nil {
			logger.Warn("Graph export failed, continuing without it", zap.Error(err))
		}
	}

	predictController := controller.NewPredictController(predictor, logger)
	var mcpServer *mcp.PredictionServer
	if a.cfg.MCP.Enabled {
		mcpServer = mcp.NewPredictionServer(predictor, logger)
	}

	gin.SetMode(gin.ReleaseMode)
	router := handler.SetupRouter(predictController, mcpServer, logger)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.cfg.App.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.Int("port", a.cfg.App.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// exportGraph writes the current model to the configured graph backend.
// With a non-empty word it also prints that word's strongest successors to out.
func (a *app) exportGraph(ctx context.Context, predictor *service.Predictor, out io.Writer, word string, limit int) error {
	model, err := predictor.Model()
	if err != nil {
		return err
	}

	graphCfg := a.cfg.Graph
	graphCfg.Kuzu.Path = a.cfg.ResolvePath(graphCfg.Kuzu.Path)
	graph, err := wordgraph.NewWordGraphFromConfig(ctx, graphCfg, a.logger)
	if err != nil {
		return err
	}
	defer graph.Close(ctx)

	if err := graph.Export(ctx, model); err != nil {
		return err
	}
	if word == "" {
		return nil
	}

	successors, err := graph.Successors(ctx, word, limit)
	if err != nil {
		return err
	}
	if len(successors) == 0 {
		fmt.Fprintf(out, "No successors of %q in the graph\n", word)
		return nil
	}
	for i, s := range successors {
		fmt.Fprintf(out, "%d. %s (%g)\n", i+1, s.Bigram.Next, s.Count)
	}
	return nil
}
