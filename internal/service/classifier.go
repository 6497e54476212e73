package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/GreenShard-market/JC-detector/internal/config"
	"github.com/GreenShard-market/JC-detector/internal/groq"
	"github.com/GreenShard-market/JC-detector/internal/metrics"
	"github.com/GreenShard-market/JC-detector/internal/models"
	"github.com/GreenShard-market/JC-detector/internal/similarity"

	"go.uber.org/zap"
)

// Confidence values of the pipeline
const (
	ConfidenceDirect    = 1.0
	ConfidenceAIUnsafe  = 0.8
	ConfidenceAISafe    = 0.2
	ConfidenceAIFailure = 0.0
)

var (
	ErrEmptyUsername = errors.New("username is empty")
	ErrAIUnavailable = errors.New("AI client not configured")
)

// AIClient interface for the language-model fallback
type AIClient interface {
	Verdict(ctx context.Context, username, model string, temperature float64) (string, error)
}

// Classifier runs the three-stage username check: direct pattern match,
// alias similarity, then the AI fallback.
type Classifier struct {
	patterns    []string // lower-cased
	alts        []string // lower-cased, config order kept for tie-breaks
	maxDistance float64
	model       string
	temperature float64
	ai          AIClient
	logger      *zap.Logger
}

// NewClassifier creates a classifier. The detection lists are copied, so
// later changes to det are not observed. ai may be nil, in which case every
// username reaching stage 3 gets the fail-open result.
func NewClassifier(det config.Detection, ai AIClient, logger *zap.Logger) *Classifier {
	return &Classifier{
		patterns:    lowerAll(det.DirectPatterns),
		alts:        lowerAll(det.KnownAlts),
		maxDistance: det.MaxEditDistance,
		model:       det.AIModel,
		temperature: det.AITemperature,
		ai:          ai,
		logger:      logger,
	}
}

// Model returns the configured AI model name
func (c *Classifier) Model() string {
	return c.model
}

// Classify returns the verdict for username. Failures of the AI call are
// never returned; they produce {SAFE, 0}. The only error is ErrEmptyUsername.
func (c *Classifier) Classify(ctx context.Context, username string) (*models.ClassificationResult, error) {
	if username == "" {
		return nil, ErrEmptyUsername
	}

	lower := strings.ToLower(username)

	result := c.directMatch(lower)
	if result == nil {
		result = c.aliasMatch(lower)
	}
	if result == nil {
		result = c.aiFallback(ctx, username)
	}

	metrics.Decisions.WithLabelValues(string(result.Stage), string(result.Decision)).Inc()

	return result, nil
}

func (c *Classifier) directMatch(lower string) *models.ClassificationResult {
	for _, p := range c.patterns {
		if strings.Contains(lower, p) {
			c.logger.Debug("Direct pattern matched",
				zap.String("username", lower),
				zap.String("pattern", p))
			return &models.ClassificationResult{
				Decision:   models.DecisionUnsafe,
				Confidence: ConfidenceDirect,
				Stage:      models.StageDirectMatch,
				Match:      p,
			}
		}
	}
	return nil
}

// aliasMatch finds the closest known alias. Equal distances keep the
// first alias in config order.
func (c *Classifier) aliasMatch(lower string) *models.ClassificationResult {
	best := math.Inf(1)
	closest := ""

	for _, alt := range c.alts {
		d := similarity.NormalizedDistance(lower, alt)
		if d < best {
			best = d
			closest = alt
		}
	}

	if len(c.alts) > 0 {
		metrics.AliasDistance.Observe(best)
	}

	if best > c.maxDistance {
		return nil
	}

	c.logger.Debug("Known alias matched",
		zap.String("username", lower),
		zap.String("alias", closest),
		zap.Float64("distance", best))

	return &models.ClassificationResult{
		Decision:   models.DecisionUnsafe,
		Confidence: 1 - best,
		Stage:      models.StageAliasSimilarity,
		Match:      closest,
	}
}

func (c *Classifier) aiFallback(ctx context.Context, username string) *models.ClassificationResult {
	answer, err := c.verdict(ctx, username)
	if err != nil {
		c.logger.Error("AI classification failed, allowing username",
			zap.String("username", username),
			zap.String("model", c.model),
			zap.Error(err))
		return &models.ClassificationResult{
			Decision:   models.DecisionSafe,
			Confidence: ConfidenceAIFailure,
			Stage:      models.StageAIUnavailable,
		}
	}

	result := &models.ClassificationResult{
		Decision:   models.DecisionSafe,
		Confidence: ConfidenceAISafe,
		Stage:      models.StageAIFallback,
	}
	if answer == groq.TokenUnsafe {
		result.Decision = models.DecisionUnsafe
		result.Confidence = ConfidenceAIUnsafe
	}

	c.logger.Info("Username classified by AI",
		zap.String("username", username),
		zap.String("answer", answer),
		zap.String("decision", string(result.Decision)))

	return result
}

func (c *Classifier) verdict(ctx context.Context, username string) (string, error) {
	if c.ai == nil {
		return "", ErrAIUnavailable
	}
	return c.ai.Verdict(ctx, username, c.model, c.temperature)
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
