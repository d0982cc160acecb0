package controller

import (
	"errors"
	"net/http"

	"wordpred/internal/model/bigram"
	"wordpred/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PredictController struct {
	predictor *service.Predictor
	logger    *zap.Logger
}

func NewPredictController(predictor *service.Predictor, logger *zap.Logger) *PredictController {
	return &PredictController{
		predictor: predictor,
		logger:    logger,
	}
}

type PredictRequest struct {
	Phrase   string `json:"phrase" binding:"required"`
	Strategy string `json:"strategy,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type PredictResponse struct {
	Phrase      string              `json:"phrase"`
	Strategy    string              `json:"strategy"`
	Predictions []bigram.Prediction `json:"predictions"`
}

type MatrixRequest struct {
	Phrase   string `json:"phrase" binding:"required"`
	Strategy string `json:"strategy,omitempty"`
	Counts   bool   `json:"counts,omitempty"`
}

type ReloadRequest struct {
	Rebuild bool `json:"rebuild,omitempty"`
}

func (pc *PredictController) Predict(c *gin.Context) {
	var request PredictRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		pc.logger.Error("Invalid request payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	strategy, ok := pc.strategy(c, request.Strategy)
	if !ok {
		return
	}

	pc.logger.Info("Predicting next word",
		zap.String("phrase", request.Phrase),
		zap.String("strategy", string(strategy)),
		zap.Int("limit", request.Limit))

	predictions, err := pc.predictor.Predict(request.Phrase, strategy, request.Limit)
	if err != nil {
		pc.respondError(c, "Failed to predict next word", err)
		return
	}

	c.JSON(http.StatusOK, PredictResponse{
		Phrase:      request.Phrase,
		Strategy:    string(strategy),
		Predictions: predictions,
	})
}

func (pc *PredictController) Matrix(c *gin.Context) {
	var request MatrixRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		pc.logger.Error("Invalid request payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	var (
		matrix *bigram.Matrix
		err    error
	)
	if request.Counts {
		matrix, err = pc.predictor.CountMatrix(request.Phrase)
	} else {
		strategy, ok := pc.strategy(c, request.Strategy)
		if !ok {
			return
		}
		matrix, err = pc.predictor.ProbabilityMatrix(request.Phrase, strategy)
	}
	if err != nil {
		pc.respondError(c, "Failed to build matrix", err)
		return
	}

	c.JSON(http.StatusOK, matrix)
}

func (pc *PredictController) Stats(c *gin.Context) {
	stats, err := pc.predictor.Stats()
	if err != nil {
		pc.respondError(c, "Failed to get model stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Reload rebuilds the model from the configured corpus. The current model
// keeps serving until the new one is complete.
func (pc *PredictController) Reload(c *gin.Context) {
	var request ReloadRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request payload",
				"details": err.Error(),
			})
			return
		}
	}

	pc.logger.Info("Reloading corpus", zap.Bool("rebuild", request.Rebuild))

	if err := pc.predictor.Load(c.Request.Context(), request.Rebuild); err != nil {
		pc.logger.Error("Failed to reload corpus", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to reload corpus",
			"details": err.Error(),
		})
		return
	}

	stats, err := pc.predictor.Stats()
	if err != nil {
		pc.respondError(c, "Failed to get model stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// strategy resolves the requested strategy name, writing a 400 on failure
func (pc *PredictController) strategy(c *gin.Context, name string) (service.Strategy, bool) {
	if name == "" {
		return pc.predictor.DefaultStrategy(), true
	}
	strategy, err := service.ParseStrategy(name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Unknown smoothing strategy",
			"details": err.Error(),
		})
		return "", false
	}
	return strategy, true
}

func (pc *PredictController) respondError(c *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidPhrase), errors.Is(err, service.ErrUnknownStrategy):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNoPrediction):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrModelNotLoaded):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		pc.logger.Error(message, zap.Error(err))
	} else {
		pc.logger.Debug(message, zap.Int("status", status), zap.Error(err))
	}

	c.JSON(status, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}
