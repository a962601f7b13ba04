package components

import (
	"fmt"

	"github.com/mmcdole/cinemax/internal/tui/styles"
)

// LoadStatus represents the paging state of a category list
type LoadStatus int

const (
	StatusIdle LoadStatus = iota
	StatusLoading
	StatusLoaded
	StatusError
)

// LoadState tracks paging progress for a single category
type LoadState struct {
	Status    LoadStatus
	Loaded    int    // Items in the window
	Pages     int    // Pages in the window
	AtEnd     bool   // No further pages to append
	FromCache bool   // Served from the local cache without a fetch
	Spinner   string // Current spinner frame while loading
	Error     error
}

// Render returns the one-line footer for the state
func (s LoadState) Render(width int) string {
	switch s.Status {
	case StatusLoading:
		return styles.AccentStyle.Render(styles.Truncate(s.Spinner+" Loading...", width))
	case StatusError:
		msg := "unknown error"
		if s.Error != nil {
			msg = s.Error.Error()
		}
		return styles.ErrorStyle.Render(styles.Truncate("✗ "+msg+" (R to retry)", width))
	case StatusLoaded:
		text := fmt.Sprintf("%d items · %d pages", s.Loaded, s.Pages)
		if s.FromCache {
			text += " · cached"
		}
		if s.AtEnd {
			text += " · end"
		}
		return styles.DimStyle.Render(styles.Truncate(text, width))
	default:
		return " "
	}
}
