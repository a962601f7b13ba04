package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/cinemax/internal/domain"
	"github.com/mmcdole/cinemax/internal/tui/styles"
)

// Layout constants for the inspector
const (
	InspectorBorderHeight     = 2
	InspectorScrollIndicators = 2
)

// inspectorContent holds the three-zone layout content
type inspectorContent struct {
	header string // fixed top
	body   string // scrollable middle
	footer string // fixed bottom
}

// Inspector displays details for the selected catalog item. It starts with
// the list row and is upgraded in place when cached or fresh details arrive.
type Inspector struct {
	item    *domain.CatalogItem
	movie   *domain.MovieDetails
	show    *domain.TvShowDetails
	fetched bool // the network answered, with details or an error
	stale   bool // cached copy shown after a failed refresh
	err     error

	keys       DetailsPaneKeyMap
	width      int
	height     int
	offset     int // scroll offset
	maxVisible int // max visible lines
}

// NewInspector creates a new inspector component
func NewInspector() Inspector {
	return Inspector{keys: DefaultDetailsPaneKeyMap()}
}

// SetItem shows a list row while its details load
func (i *Inspector) SetItem(item domain.CatalogItem) {
	i.item = &item
	i.movie, i.show = nil, nil
	i.fetched = false
	i.stale = false
	i.err = nil
	i.offset = 0
}

// SetMovie shows movie details. cached marks a copy served from the local
// store; it never replaces details the network already delivered.
func (i *Inspector) SetMovie(movie *domain.MovieDetails, cached bool) {
	if cached && i.fetched {
		if i.movie == nil {
			i.movie = movie
			i.stale = i.err != nil
		}
		return
	}
	i.movie = movie
	i.fetched = i.fetched || !cached
}

// SetTvShow shows TV show details
func (i *Inspector) SetTvShow(show *domain.TvShowDetails, cached bool) {
	if cached && i.fetched {
		if i.show == nil {
			i.show = show
			i.stale = i.err != nil
		}
		return
	}
	i.show = show
	i.fetched = i.fetched || !cached
}

// SetError records a failed details fetch. Details already shown stay visible.
func (i *Inspector) SetError(err error) {
	i.fetched = true
	i.err = err
	i.stale = i.movie != nil || i.show != nil
}

// SetWishlisted updates the wishlist marker without refetching
func (i *Inspector) SetWishlisted(on bool) {
	if i.movie != nil {
		i.movie.IsWishlisted = on
	}
	if i.show != nil {
		i.show.IsWishlisted = on
	}
}

// Item returns the list row being inspected
func (i Inspector) Item() (domain.CatalogItem, bool) {
	if i.item == nil {
		return domain.CatalogItem{}, false
	}
	return *i.item, true
}

// SetSize updates the component dimensions
func (i *Inspector) SetSize(width, height int) {
	i.width = width
	i.height = height
	// Reserve border, scroll indicators, title and blank line
	i.maxVisible = height - InspectorBorderHeight - InspectorScrollIndicators - 2
	if i.maxVisible < 1 {
		i.maxVisible = 1
	}
}

// HasItem returns true if there is an item to display
func (i Inspector) HasItem() bool {
	return i.item != nil
}

// Update scrolls the body
func (i Inspector) Update(msg tea.Msg) (Inspector, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, i.keys.Down):
			i.offset++
		case key.Matches(msg, i.keys.Up):
			if i.offset > 0 {
				i.offset--
			}
		}
	}
	return i, nil
}

// View renders the component
func (i Inspector) View() string {
	style := styles.ActiveBorder

	contentWidth := i.width - 3
	if contentWidth < 10 {
		contentWidth = 10
	}
	content := i.render(contentWidth)

	title := "Details"
	if i.item != nil && !i.fetched {
		title += " · loading"
	}
	titleLine := styles.AccentStyle.Render(styles.Truncate(title, contentWidth))

	headerLines := splitLines(content.header)
	footerLines := splitLines(content.footer)
	bodyLines := splitLines(content.body)

	availableForBody := i.maxVisible - len(headerLines) - len(footerLines)
	if availableForBody < 1 {
		availableForBody = 1
	}

	// Clamp body scroll offset
	maxOffset := max(len(bodyLines)-availableForBody, 0)
	offset := min(i.offset, maxOffset)
	end := min(offset+availableForBody, len(bodyLines))
	visibleBody := bodyLines[offset:end]

	upIndicator := " "
	if offset > 0 {
		upIndicator = styles.DimStyle.Render("↑ more")
	}
	downIndicator := " "
	if end < len(bodyLines) {
		downIndicator = styles.DimStyle.Render("↓ more")
	}

	parts := []string{titleLine, ""}
	if content.header != "" {
		parts = append(parts, headerLines...)
	}
	parts = append(parts, upIndicator)
	parts = append(parts, visibleBody...)
	for j := len(visibleBody); j < availableForBody; j++ {
		parts = append(parts, "")
	}
	parts = append(parts, downIndicator)
	if content.footer != "" {
		parts = append(parts, footerLines...)
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(i.width - frameW).
		Height(i.height - frameH).
		Render(strings.Join(parts, "\n"))
}

func (i Inspector) render(width int) inspectorContent {
	var content inspectorContent
	switch {
	case i.movie != nil:
		content = renderMovie(*i.movie, width)
	case i.show != nil:
		content = renderTvShow(*i.show, width)
	case i.item != nil:
		content = renderCatalogItem(*i.item, width)
	default:
		return inspectorContent{body: styles.DimStyle.Render("No item selected")}
	}

	if i.err != nil {
		msg := "✗ " + i.err.Error()
		if i.stale {
			msg += " (showing cached details)"
		}
		if content.footer != "" {
			content.footer += "\n"
		}
		content.footer += styles.ErrorStyle.Render(styles.Truncate(msg, width))
	}
	return content
}

func renderMovie(m domain.MovieDetails, width int) inspectorContent {
	var b strings.Builder
	b.WriteString(titleLine(m.Title, m.IsWishlisted, width))
	b.WriteString("\n")
	if m.Tagline != "" {
		b.WriteString(styles.SubtitleStyle.Render(styles.Truncate(m.Tagline, width)))
		b.WriteString("\n")
	}

	var meta []string
	if year := m.Year(); year > 0 {
		meta = append(meta, fmt.Sprintf("%d", year))
	}
	if rt := m.FormattedRuntime(); rt != "" {
		meta = append(meta, rt)
	}
	if m.Status != "" {
		meta = append(meta, m.Status)
	}
	b.WriteString(styles.DimStyle.Render(styles.Truncate(strings.Join(meta, " · "), width)))
	b.WriteString("\n")
	b.WriteString(renderRating(m.VoteAverage, m.VoteCount))

	return inspectorContent{
		header: b.String(),
		body:   renderOverview(m.Overview, width),
		footer: renderFooter(m.Genres, nil, m.Homepage, width),
	}
}

func renderTvShow(t domain.TvShowDetails, width int) inspectorContent {
	var b strings.Builder
	b.WriteString(titleLine(t.Name, t.IsWishlisted, width))
	b.WriteString("\n")
	if t.Tagline != "" {
		b.WriteString(styles.SubtitleStyle.Render(styles.Truncate(t.Tagline, width)))
		b.WriteString("\n")
	}

	var meta []string
	if year := t.Year(); year > 0 {
		meta = append(meta, fmt.Sprintf("%d", year))
	}
	meta = append(meta, t.SeasonSummary())
	if t.Status != "" {
		meta = append(meta, t.Status)
	}
	b.WriteString(styles.DimStyle.Render(styles.Truncate(strings.Join(meta, " · "), width)))
	b.WriteString("\n")
	b.WriteString(renderRating(t.VoteAverage, t.VoteCount))

	return inspectorContent{
		header: b.String(),
		body:   renderOverview(t.Overview, width),
		footer: renderFooter(t.Genres, t.Networks, t.Homepage, width),
	}
}

func renderCatalogItem(item domain.CatalogItem, width int) inspectorContent {
	var b strings.Builder
	b.WriteString(titleLine(item.Title, false, width))
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render(item.MediaType.String()))
	b.WriteString("\n")
	b.WriteString(renderRating(item.VoteAverage, item.VoteCount))

	return inspectorContent{
		header: b.String(),
		body:   renderOverview(item.Overview, width),
	}
}

func titleLine(title string, wishlisted bool, width int) string {
	if !wishlisted {
		return styles.TitleStyle.Render(styles.Truncate(title, width))
	}
	marker := lipgloss.NewStyle().Foreground(styles.Pink).Render(styles.WishlistChar)
	return styles.TitleStyle.Render(styles.Truncate(title, width-2)) + " " + marker
}

func renderRating(avg float64, votes int) string {
	if votes == 0 && avg == 0 {
		return styles.DimStyle.Render(styles.RatingChar + " unrated")
	}
	var style lipgloss.Style
	switch {
	case avg >= 7:
		style = lipgloss.NewStyle().Foreground(styles.Green)
	case avg >= 5:
		style = lipgloss.NewStyle().Foreground(styles.Gold)
	default:
		style = lipgloss.NewStyle().Foreground(styles.Red)
	}
	return style.Render(fmt.Sprintf("%s %.1f", styles.RatingChar, avg)) +
		styles.DimStyle.Render(fmt.Sprintf("  (%d votes)", votes))
}

func renderOverview(overview string, width int) string {
	if overview == "" {
		return styles.DimStyle.Render("No overview available")
	}
	return styles.SubtitleStyle.Render(wordWrap(overview, min(width-2, 80)))
}

func renderFooter(genres []domain.Genre, networks []string, homepage string, width int) string {
	var lines []string
	if len(genres) > 0 {
		names := make([]string, len(genres))
		for i, g := range genres {
			names[i] = g.Name
		}
		lines = append(lines, styles.DimStyle.Render(styles.Truncate(strings.Join(names, ", "), width)))
	}
	if len(networks) > 0 {
		lines = append(lines, styles.DimStyle.Render(styles.Truncate(strings.Join(networks, ", "), width)))
	}
	if homepage != "" {
		lines = append(lines, styles.DimStyle.Render(styles.Truncate(homepage, width)))
	}
	if len(lines) == 0 {
		return ""
	}
	separator := styles.DimStyle.Render(strings.Repeat("─", width))
	return separator + "\n" + strings.Join(lines, "\n")
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lineLen := 0

	for i, word := range strings.Fields(text) {
		wordLen := len([]rune(word))

		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}

		if i > 0 && lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}

		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}
