// Package embedding keeps stored embeddings consistent with the documents
// they were generated from.
package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Danish-Adnaan/candidate-recommendation/internal/domain"
	"github.com/Danish-Adnaan/candidate-recommendation/internal/embedtext"
	"github.com/Danish-Adnaan/candidate-recommendation/internal/metrics"
)

// Entity is anything with an embedding lifecycle: a job listing or a
// candidate profile.
type Entity interface {
	EntityID() string
	EmbeddingMeta() domain.EmbeddingMeta
	LastModified() time.Time
	InputText() string
}

// EntityStore persists embedding lifecycle transitions. Every method is a
// single-document update; concurrent refreshes race benignly under
// last-write-wins.
type EntityStore interface {
	SetProcessing(ctx context.Context, id string) error
	SaveEmbedding(ctx context.Context, id string, vector []float64, model string) error
	SetError(ctx context.Context, id string, msg string) error
}

// Guard returns a query vector for an entity, regenerating the stored
// embedding when it is missing, stale or shaped for a different model.
type Guard struct {
	store      EntityStore
	embedder   domain.Embedder
	model      string
	dimensions int
	logger     *zap.Logger
}

func NewGuard(store EntityStore, embedder domain.Embedder, model string, dimensions int, logger *zap.Logger) *Guard {
	return &Guard{
		store:      store,
		embedder:   embedder,
		model:      model,
		dimensions: dimensions,
		logger:     logger,
	}
}

// EnsureFresh returns the stored vector when it is fresh (status ready,
// generated at or after the last document modification, expected length),
// otherwise regenerates it via the provider and persists the outcome.
func (g *Guard) EnsureFresh(ctx context.Context, entity Entity) (domain.QueryVector, error) {
	meta := entity.EmbeddingMeta()
	if meta.Fresh(entity.LastModified(), g.dimensions) {
		metrics.QueryVectorFreshness.WithLabelValues("cache_hit").Inc()
		return domain.QueryVector{Vector: meta.Vector, Model: meta.Model, CacheHit: true}, nil
	}
	return g.Refresh(ctx, entity)
}

// Refresh regenerates the embedding unconditionally. Once the provider call
// is in flight its result is persisted even if the caller goes away, so a
// canceled search request still leaves the entity ready for the next one.
func (g *Guard) Refresh(ctx context.Context, entity Entity) (domain.QueryVector, error) {
	id := entity.EntityID()

	if err := g.store.SetProcessing(ctx, id); err != nil {
		metrics.QueryVectorFreshness.WithLabelValues("error").Inc()
		return domain.QueryVector{}, fmt.Errorf("claim entity %s: %w", id, err)
	}

	detached := context.WithoutCancel(ctx)

	result, err := g.embedder.Embed(detached, entity.InputText())
	if err != nil {
		metrics.QueryVectorFreshness.WithLabelValues("error").Inc()
		if serr := g.store.SetError(detached, id, err.Error()); serr != nil {
			g.logger.Error("Failed to record embedding error",
				zap.String("entity_id", id), zap.Error(serr))
		}
		return domain.QueryVector{}, fmt.Errorf("generate embedding for %s: %w", id, err)
	}

	if err := g.store.SaveEmbedding(detached, id, result.Vector, g.model); err != nil {
		// The vector is still usable for this request; the next one will
		// regenerate.
		g.logger.Error("Failed to persist embedding",
			zap.String("entity_id", id), zap.Error(err))
	}

	metrics.QueryVectorFreshness.WithLabelValues("regenerated").Inc()
	g.logger.Info("Regenerated embedding",
		zap.String("entity_id", id),
		zap.String("model", g.model),
		zap.Int("dimensions", len(result.Vector)),
	)
	return domain.QueryVector{Vector: result.Vector, Model: g.model, CacheHit: false}, nil
}

// JobEntity adapts a job listing to the guard contract.
type JobEntity struct {
	Job domain.Job
}

func (e JobEntity) EntityID() string                    { return e.Job.ID }
func (e JobEntity) EmbeddingMeta() domain.EmbeddingMeta { return e.Job.Embedding }
func (e JobEntity) LastModified() time.Time             { return e.Job.UpdatedAt }
func (e JobEntity) InputText() string                   { return embedtext.Job(e.Job) }

// ProfileEntity adapts a candidate profile to the guard contract.
type ProfileEntity struct {
	Profile domain.Profile
}

func (e ProfileEntity) EntityID() string                    { return e.Profile.ID }
func (e ProfileEntity) EmbeddingMeta() domain.EmbeddingMeta { return e.Profile.Embedding }
func (e ProfileEntity) LastModified() time.Time             { return e.Profile.UpdatedAt }
func (e ProfileEntity) InputText() string                   { return embedtext.Candidate(e.Profile) }
