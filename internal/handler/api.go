package handler

import (
	"context"
	"math"
	"net/http"

	"github.com/GreenShard-market/JC-detector/internal/middleware"
	"github.com/GreenShard-market/JC-detector/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// UsernameClassifier is implemented by service.Classifier
type UsernameClassifier interface {
	Classify(ctx context.Context, username string) (*models.ClassificationResult, error)
	Model() string
}

// Handler handles HTTP requests
type Handler struct {
	classifier UsernameClassifier
	logger     *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(classifier UsernameClassifier, logger *zap.Logger) *Handler {
	return &Handler{
		classifier: classifier,
		logger:     logger,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/check", h.Check)

	r.GET("/health", h.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Check classifies a single username
func (h *Handler) Check(c *gin.Context) {
	var req models.CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No username provided"})
		return
	}

	result, err := h.classifier.Classify(c.Request.Context(), req.Username)
	if err != nil {
		h.logger.Error("Analysis error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis failed"})
		return
	}

	c.JSON(http.StatusOK, models.CheckResponse{
		Username:   req.Username,
		Decision:   result.Decision,
		Confidence: RoundConfidence(result.Confidence),
		Model:      h.classifier.Model(),
	})
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "jc-detector",
		"model":   h.classifier.Model(),
	})
}

// RoundConfidence rounds to two decimal places
func RoundConfidence(v float64) float64 {
	return math.Round(v*100) / 100
}
