package domain

import "errors"

var (
	// ErrNotFound signals a missing or malformed entity id.
	ErrNotFound = errors.New("not found")
	// ErrProviderError signals an embedding provider failure after the
	// retry budget is exhausted, or a malformed provider response.
	ErrProviderError = errors.New("embedding provider error")
	// ErrStoreUnavailable signals an unreachable document store or a rejected query.
	ErrStoreUnavailable = errors.New("document store unavailable")
	// ErrVectorDimMismatch signals an embedding length mismatch against the
	// configured dimension.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)
