// Package embcache layers a key-value cache in front of an embedding
// provider so identical texts are billed once.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/Danish-Adnaan/candidate-recommendation/internal/db"
	"github.com/Danish-Adnaan/candidate-recommendation/internal/domain"
	"github.com/Danish-Adnaan/candidate-recommendation/internal/metrics"
)

const keyPrefix = "embedding:"

// Cache decorates a domain.Embedder with a text-to-vector cache. Cache
// failures degrade to the wrapped provider, never to a request failure.
type Cache struct {
	next   domain.Embedder
	store  db.Store
	model  string
	ttl    time.Duration
	logger *zap.Logger
}

// New wraps next with a cache backed by store. Keys are scoped by model so
// a model switch never serves stale vectors.
func New(next domain.Embedder, store db.Store, model string, ttl time.Duration, logger *zap.Logger) *Cache {
	return &Cache{
		next:   next,
		store:  store,
		model:  model,
		ttl:    ttl,
		logger: logger,
	}
}

// Embed returns the cached vector for text when present, otherwise delegates
// to the wrapped provider and stores the result.
func (c *Cache) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := c.cacheKey(text)

	if raw, err := c.store.Get(ctx, key); err == nil {
		if vector, decErr := decodeVector(raw); decErr == nil {
			metrics.EmbeddingCacheTotal.WithLabelValues("hit").Inc()
			return domain.EmbeddingResult{Vector: vector}, nil
		} else {
			c.logger.Warn("Discarding corrupt cached embedding", zap.String("key", key), zap.Error(decErr))
		}
	} else if !errors.Is(err, db.ErrKeyNotFound) {
		c.logger.Warn("Embedding cache read failed", zap.String("key", key), zap.Error(err))
	}

	metrics.EmbeddingCacheTotal.WithLabelValues("miss").Inc()
	result, err := c.next.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, err
	}

	if err := c.store.SetWithTTL(ctx, key, encodeVector(result.Vector), c.ttl); err != nil {
		c.logger.Warn("Embedding cache write failed", zap.String("key", key), zap.Error(err))
	}
	return result, nil
}

func (c *Cache) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(c.model + "\x00" + text))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// encodeVector packs a vector as little-endian float64 words.
func encodeVector(vector []float64) []byte {
	buf := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

func decodeVector(raw []byte) ([]float64, error) {
	if len(raw) == 0 || len(raw)%8 != 0 {
		return nil, fmt.Errorf("invalid cached vector length %d", len(raw))
	}
	vector := make([]float64, len(raw)/8)
	for i := range vector {
		vector[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}
	return vector, nil
}
