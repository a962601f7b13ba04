package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/cinemax/internal/domain"
	"github.com/mmcdole/cinemax/internal/tui/styles"
)

var (
	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(styles.Gold)
	styleID     = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	styleDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("247"))
	styleOK     = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	styleMarker = lipgloss.NewStyle().Foreground(styles.Pink)
)

const titleWidth = 48

func printHeader(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleHeader.Render(fmt.Sprintf(format, args...)))
}

func printOK(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleOK.Render("✓ ")+fmt.Sprintf(format, args...))
}

// itemRow renders one catalog row: id, title, year and rating
func itemRow(id int, mediaType domain.MediaType, title string, year int, rating string, wishlisted bool) string {
	marker := " "
	if wishlisted {
		marker = styleMarker.Render(styles.WishlistChar)
	}
	title = styles.Truncate(title, titleWidth)
	pad := strings.Repeat(" ", max(titleWidth-lipgloss.Width(title), 0))

	yearStr := "    "
	if year > 0 {
		yearStr = fmt.Sprintf("%d", year)
	}
	kind := "M"
	if mediaType == domain.MediaTypeTV {
		kind = "T"
	}
	return fmt.Sprintf("%s %s %s %s%s  %s  %s %s",
		marker,
		styleID.Render(fmt.Sprintf("%8d", id)),
		styleDim.Render(kind),
		title, pad,
		styleDim.Render(yearStr),
		styles.RatingChar, rating,
	)
}

func printItems(w io.Writer, items []domain.CatalogItem, wishlisted func(domain.MediaType, int) bool) {
	for _, item := range items {
		on := wishlisted != nil && wishlisted(item.MediaType, item.ID)
		fmt.Fprintln(w, itemRow(item.ID, item.MediaType, item.Title, item.Year(), item.FormattedRating(), on))
	}
}
