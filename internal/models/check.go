package models

// Decision is the verdict returned for a username
type Decision string

const (
	DecisionSafe   Decision = "SAFE"
	DecisionUnsafe Decision = "UNSAFE"
)

// Stage identifies which pipeline step produced a result
type Stage string

const (
	StageDirectMatch     Stage = "direct_match"
	StageAliasSimilarity Stage = "alias_similarity"
	StageAIFallback      Stage = "ai_fallback"
	StageAIUnavailable   Stage = "ai_unavailable" // AI call failed, fail-open result
)

// ClassificationResult is produced fresh for every request and never stored
type ClassificationResult struct {
	Decision   Decision `json:"decision"`
	Confidence float64  `json:"confidence"`
	Stage      Stage    `json:"stage"`
	// Match is the pattern or alias that triggered stages 1 and 2
	Match string `json:"match,omitempty"`
}

// CheckRequest is the body of POST /check
type CheckRequest struct {
	Username string `json:"username" binding:"required"`
}

// CheckResponse is returned by POST /check
type CheckResponse struct {
	Username   string   `json:"username"`
	Decision   Decision `json:"decision"`
	Confidence float64  `json:"confidence"`
	Model      string   `json:"model"`
}
