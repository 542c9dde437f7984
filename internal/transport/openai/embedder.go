// Package openai implements the embedding provider contract over the
// OpenAI-compatible embeddings API (Azure OpenAI included).
package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/Danish-Adnaan/candidate-recommendation/internal/domain"
	"github.com/Danish-Adnaan/candidate-recommendation/internal/metrics"
)

// Embedder is an embedding provider with a bounded retry budget.
// It is constructed once by the composition root and shared.
type Embedder struct {
	client      *openai.Client
	model       openai.EmbeddingModel
	dimensions  int
	maxAttempts int
	retryDelay  time.Duration
	logger      *zap.Logger
}

// Config holds the embedding provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Azure       bool
	APIVersion  string
	Model       string
	Dimensions  int
	MaxAttempts int
	RetryDelay  time.Duration
	Logger      *zap.Logger
}

// NewEmbedder creates an OpenAI-compatible embedding provider.
func NewEmbedder(cfg *Config) *Embedder {
	var clientCfg openai.ClientConfig
	if cfg.Azure {
		clientCfg = openai.DefaultAzureConfig(cfg.APIKey, cfg.BaseURL)
		if cfg.APIVersion != "" {
			clientCfg.APIVersion = cfg.APIVersion
		}
	} else {
		clientCfg = openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 2 * time.Second
	}

	return &Embedder{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       openai.EmbeddingModel(cfg.Model),
		dimensions:  cfg.Dimensions,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
		logger:      cfg.Logger,
	}
}

// Embed implements domain.Embedder. Transient provider failures are retried
// up to the attempt budget with linearly increasing backoff; malformed
// responses and dimension mismatches fail immediately.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	var lastErr error
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		result, err := e.embedOnce(ctx, text)
		if err == nil {
			return result, nil
		}
		if !isTransient(err) {
			return domain.EmbeddingResult{}, err
		}

		lastErr = err
		if attempt == e.maxAttempts {
			break
		}

		delay := e.retryDelay * time.Duration(attempt)
		e.logger.Warn("Embedding request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return domain.EmbeddingResult{}, fmt.Errorf("embed canceled: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	return domain.EmbeddingResult{}, fmt.Errorf("embedding retry budget exhausted after %d attempts: %w",
		e.maxAttempts, lastErr)
}

func (e *Embedder) embedOnce(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	start := time.Now()
	resp, err := e.client.CreateEmbeddings(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(string(e.model), "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(string(e.model), "api_error").Inc()
		return domain.EmbeddingResult{}, parseAPIError(err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues(string(e.model), "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(string(e.model), "empty_response").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrProviderError)
	}

	vector := toFloat64(resp.Data[0].Embedding)
	if e.dimensions > 0 && len(vector) != e.dimensions {
		metrics.EmbeddingErrorsTotal.WithLabelValues(string(e.model), "dim_mismatch").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("expected embedding length %d, got %d: %w",
			e.dimensions, len(vector), domain.ErrVectorDimMismatch)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(string(e.model), "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(string(e.model)).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.EmbeddingTokensTotal.WithLabelValues(string(e.model), "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.EmbeddingTokensTotal.WithLabelValues(string(e.model), "total").Add(float64(resp.Usage.TotalTokens))
	}

	return domain.EmbeddingResult{
		Vector:       vector,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// isTransient reports whether an error is worth retrying: provider-side
// failures (5xx), throttling (429) and transport errors. Client-side 4xx
// and malformed responses are not.
func isTransient(err error) bool {
	if errors.Is(err, domain.ErrVectorDimMismatch) {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 0 ||
			apiErr.HTTPStatusCode == 429 ||
			apiErr.HTTPStatusCode >= 500
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == 0 ||
			reqErr.HTTPStatusCode == 429 ||
			reqErr.HTTPStatusCode >= 500
	}

	// Empty/malformed responses carry only the sentinel; everything else is
	// assumed to be a network-level failure.
	return !errors.Is(err, domain.ErrProviderError)
}

// parseAPIError wraps provider errors with domain.ErrProviderError so the
// boundary can classify them.
func parseAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &providerError{
			msg:    fmt.Sprintf("embedding API error %d: %s", apiErr.HTTPStatusCode, apiErr.Message),
			status: apiErr.HTTPStatusCode,
			cause:  err,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &providerError{
			msg:    fmt.Sprintf("embedding API error %d: %v", reqErr.HTTPStatusCode, reqErr.Err),
			status: reqErr.HTTPStatusCode,
			cause:  err,
		}
	}

	return &providerError{msg: "embedding request failed: " + err.Error(), cause: err}
}

// providerError keeps the original openai error in the chain (for retry
// classification) while also matching domain.ErrProviderError.
type providerError struct {
	msg    string
	status int
	cause  error
}

func (p *providerError) Error() string { return p.msg }

func (p *providerError) Unwrap() []error { return []error{p.cause, domain.ErrProviderError} }

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, f := range v {
		out[i] = float64(f)
	}
	return out
}
