package enhance

import (
	"errors"
	"fmt"
)

// Common errors returned by provider clients.
var (
	// ErrRateLimited indicates the provider rejected the call for rate reasons.
	ErrRateLimited = errors.New("provider rate limit exceeded")

	// ErrInvalidResponse indicates a payload that could not be decoded.
	ErrInvalidResponse = errors.New("invalid provider response")
)

// APIError represents a non-success HTTP response from a provider.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s API error (status %d)", e.Provider, e.StatusCode)
}

// IsRateLimited reports whether the error indicates provider-side throttling.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 429
}
