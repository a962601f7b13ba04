package paging

import (
	"errors"
	"fmt"

	"github.com/mmcdole/cinemax/internal/domain"
)

// LoadError is returned by a failed mediation cycle
type LoadError struct {
	Type LoadType
	Page int // 0 when the failure happened before a page was chosen
	Err  error
}

// Error implements the error interface
func (e *LoadError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("%s load of page %d failed: %v", e.Type, e.Page, e.Err)
	}
	return fmt.Sprintf("%s load failed: %v", e.Type, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Retryable reports whether repeating the same load may succeed
func (e *LoadError) Retryable() bool {
	return errors.Is(e.Err, domain.ErrNetworkFailure) || errors.Is(e.Err, domain.ErrDecodeFailure)
}

// NeedsRefresh reports whether the cache diverged from the paging cursor
func (e *LoadError) NeedsRefresh() bool {
	return errors.Is(e.Err, domain.ErrInconsistentCacheState)
}
