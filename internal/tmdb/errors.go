package tmdb

import (
	"fmt"
	"net/http"

	"github.com/mmcdole/cinemax/internal/domain"
)

// APIError is returned for non-2xx responses that have no dedicated sentinel.
// Server errors and rate limiting match domain.ErrNetworkFailure so paging
// treats them as retryable; other client errors match domain.ErrRequestRejected.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("catalog API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("catalog API error (status %d)", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests {
		return domain.ErrNetworkFailure
	}
	return domain.ErrRequestRejected
}
