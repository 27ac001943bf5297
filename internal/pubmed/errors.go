package pubmed

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Common errors returned by the PubMed client.
var (
	// ErrRateLimited indicates the E-utilities rate limit has been exceeded.
	ErrRateLimited = errors.New("PubMed rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with PubMed")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from PubMed")
)

// APIError represents an error reported by E-utilities.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("PubMed API error (status %d): %s", e.StatusCode, e.Message)
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests ||
			strings.Contains(strings.ToLower(apiErr.Message), "rate limit")
	}
	return false
}
