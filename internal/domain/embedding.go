package domain

import (
	"context"
	"time"
)

// EmbeddingStatus tracks the lifecycle of a stored embedding.
//
// pending -> processing -> {ready, error}; ready -> stale on any
// embedding-sensitive field update; stale -> processing -> {ready, error}.
// Nothing leaves error automatically; only the next freshness check retries.
type EmbeddingStatus string

const (
	StatusPending    EmbeddingStatus = "pending"
	StatusProcessing EmbeddingStatus = "processing"
	StatusReady      EmbeddingStatus = "ready"
	StatusStale      EmbeddingStatus = "stale"
	StatusError      EmbeddingStatus = "error"
)

// EmbeddingMeta is the embedding bookkeeping shared by jobs and profiles.
// Vectors are float64 end to end: the store keeps them as BSON doubles.
type EmbeddingMeta struct {
	Vector      []float64
	Model       string
	Dimensions  int
	GeneratedAt *time.Time
	Status      EmbeddingStatus
	Error       string
}

// Fresh reports whether the stored vector is usable as-is: status ready,
// a generation timestamp at or after the last entity modification, and a
// vector of the configured length.
func (m EmbeddingMeta) Fresh(modifiedAt time.Time, dims int) bool {
	if m.Status != StatusReady || m.GeneratedAt == nil {
		return false
	}
	if len(m.Vector) != dims {
		return false
	}
	return !m.GeneratedAt.Before(modifiedAt)
}

// QueryVector is an ephemeral, non-persisted query embedding derived from a job.
type QueryVector struct {
	Vector   []float64
	Model    string
	CacheHit bool
}

// EmbeddingResult carries a provider vector and token usage.
type EmbeddingResult struct {
	Vector       []float64
	PromptTokens int
	TotalTokens  int
}

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
