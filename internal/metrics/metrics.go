// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AI call outcomes
const (
	OutcomeAnswered  = "answered"
	OutcomeAmbiguous = "ambiguous" // no choice or empty content, treated as SAFE
	OutcomeError     = "error"
)

var (
	// Decisions counts classification results by stage and decision.
	Decisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jc_detector",
		Name:      "decisions_total",
		Help:      "Username classifications by pipeline stage and decision.",
	}, []string{"stage", "decision"})

	AIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jc_detector",
		Name:      "ai_requests_total",
		Help:      "Chat-completion calls by outcome.",
	}, []string{"outcome"})

	AIDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "jc_detector",
		Name:      "ai_request_duration_seconds",
		Help:      "Latency of chat-completion calls.",
		Buckets:   prometheus.DefBuckets,
	})

	// AliasDistance observes the minimum normalized distance found in stage 2.
	AliasDistance = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "jc_detector",
		Name:      "alias_min_distance",
		Help:      "Minimum normalized edit distance to a known alias.",
		Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
	})
)
