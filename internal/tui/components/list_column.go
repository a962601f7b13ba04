package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/cinemax/internal/domain"
	"github.com/mmcdole/cinemax/internal/tui/styles"
)

// Layout constants for list columns
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2
)

// ListColumn is a scrollable, filterable list of catalog items for one category
type ListColumn struct {
	items []domain.CatalogItem

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	title string
	keys  ListColumnKeyMap

	// Footer status ("loading page 3", "end of list", errors)
	status LoadState

	// Wishlist markers keyed by item ID, owned by the caller
	wishlisted func(domain.CatalogItem) bool

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into items
}

// NewListColumn creates an empty list with the given title
func NewListColumn(title string) *ListColumn {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &ListColumn{
		title:       title,
		keys:        DefaultListColumnKeyMap(),
		filterInput: ti,
		focused:     true,
	}
}

// Update handles navigation and filter typing
func (c *ListColumn) Update(msg tea.Msg) (*ListColumn, tea.Cmd) {
	if !c.focused {
		return c, nil
	}

	// Filter input when active and focused (typing mode)
	if c.filterActive && c.filterInput.Focused() {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, c.keys.Escape):
				c.clearFilter()
				return c, nil
			case key.Matches(msg, c.keys.Enter):
				// Accept filter, blur input to allow navigation
				c.filterInput.Blur()
				return c, nil
			case msg.String() == "backspace" && c.filterInput.Value() == "":
				c.clearFilter()
				return c, nil
			}
		}

		var cmd tea.Cmd
		c.filterInput, cmd = c.filterInput.Update(msg)
		c.applyFilter()
		return c, cmd
	}

	// Filter active but blurred (navigation over filter results)
	if c.filterActive {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, c.keys.Escape):
				c.clearFilter()
				return c, nil
			case key.Matches(msg, c.keys.Filter):
				c.filterInput.Focus()
				return c, textinput.Blink
			}
		}
	}

	count := c.ItemCount()
	if count == 0 {
		return c, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}
	switch {
	case key.Matches(keyMsg, c.keys.Down):
		if c.cursor < count-1 {
			c.cursor++
			c.ensureVisible()
		}
	case key.Matches(keyMsg, c.keys.Up):
		if c.cursor > 0 {
			c.cursor--
			c.ensureVisible()
		}
	case key.Matches(keyMsg, c.keys.Home):
		c.cursor = 0
		c.offset = 0
	case key.Matches(keyMsg, c.keys.End):
		c.cursor = count - 1
		c.ensureVisible()
	case key.Matches(keyMsg, c.keys.HalfDown, c.keys.PageDown):
		c.cursor += max(c.maxVisible/2, 1)
		if c.cursor >= count {
			c.cursor = count - 1
		}
		c.ensureVisible()
	case key.Matches(keyMsg, c.keys.HalfUp, c.keys.PageUp):
		c.cursor -= max(c.maxVisible/2, 1)
		if c.cursor < 0 {
			c.cursor = 0
		}
		c.ensureVisible()
	}

	return c, nil
}

// View renders the list inside a border
func (c *ListColumn) View() string {
	style := styles.InactiveBorder
	if c.focused {
		style = styles.ActiveBorder
	}

	// Subtract frame (border) size so total rendered size equals c.width x c.height
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(c.width - frameW).
		Height(c.height - frameH).
		Render(c.renderContent())
}

// SetSize updates the list dimensions
func (c *ListColumn) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.recalcMaxVisible()
	c.ensureVisible()
}

// SetFocused toggles the active border and key handling
func (c *ListColumn) SetFocused(focused bool) {
	c.focused = focused
}

// SetTitle sets the header line
func (c *ListColumn) SetTitle(title string) {
	c.title = title
}

// SetWishlistLookup sets the function used to mark saved items
func (c *ListColumn) SetWishlistLookup(fn func(domain.CatalogItem) bool) {
	c.wishlisted = fn
}

// SetStatus sets the footer load state
func (c *ListColumn) SetStatus(status LoadState) {
	c.status = status
}

// Status returns the footer load state
func (c *ListColumn) Status() LoadState {
	return c.status
}

// SetItems replaces the loaded window. The cursor stays on the same item
// when it is still present, so appends and prepends do not jump.
func (c *ListColumn) SetItems(items []domain.CatalogItem) {
	var selectedID int
	hadSelection := false
	if sel, ok := c.SelectedItem(); ok {
		selectedID, hadSelection = sel.ID, true
	}

	c.items = items
	if c.filterActive {
		c.applyFilter()
	}

	if hadSelection {
		for i := 0; i < c.ItemCount(); i++ {
			if c.items[c.mapIndex(i)].ID == selectedID {
				c.cursor = i
				c.ensureVisible()
				return
			}
		}
	}
	if c.cursor >= c.ItemCount() {
		c.cursor = max(c.ItemCount()-1, 0)
	}
	c.ensureVisible()
}

// Items returns the loaded window
func (c *ListColumn) Items() []domain.CatalogItem {
	return c.items
}

// SelectedItem returns the item under the cursor
func (c *ListColumn) SelectedItem() (domain.CatalogItem, bool) {
	count := c.ItemCount()
	if count == 0 || c.cursor >= count {
		return domain.CatalogItem{}, false
	}
	return c.items[c.mapIndex(c.cursor)], true
}

// SelectedIndex returns the cursor position in the visible (possibly filtered) list
func (c *ListColumn) SelectedIndex() int {
	return c.cursor
}

// ItemCount returns the number of visible items
func (c *ListColumn) ItemCount() int {
	if c.filteredIdx != nil {
		return len(c.filteredIdx)
	}
	return len(c.items)
}

// NearEnd reports whether the cursor is within distance rows of the last
// loaded item. Filtering disables it so a narrow filter does not page the
// whole category in.
func (c *ListColumn) NearEnd(distance int) bool {
	if c.filterActive || len(c.items) == 0 {
		return false
	}
	return c.cursor >= len(c.items)-1-distance
}

// AtTop reports whether the cursor is on the first loaded item
func (c *ListColumn) AtTop() bool {
	return !c.filterActive && c.cursor == 0
}

// ToggleFilter activates the filter input
func (c *ListColumn) ToggleFilter() tea.Cmd {
	c.filterActive = true
	c.filterInput.Focus()
	c.recalcMaxVisible()
	return textinput.Blink
}

// IsFiltering returns true if filter mode is active
func (c *ListColumn) IsFiltering() bool {
	return c.filterActive
}

// IsFilterTyping returns true if filter is active and input is focused
func (c *ListColumn) IsFilterTyping() bool {
	return c.filterActive && c.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all items
func (c *ListColumn) ClearFilter() {
	c.clearFilter()
}

func (c *ListColumn) clearFilter() {
	c.filterActive = false
	c.filterQuery = ""
	c.filteredIdx = nil
	c.filterInput.SetValue("")
	c.filterInput.Blur()
	c.recalcMaxVisible()
}

func (c *ListColumn) applyFilter() {
	query := c.filterInput.Value()
	c.filterQuery = query

	if query == "" {
		c.filteredIdx = nil
		return
	}

	lowerTitles := make([]string, len(c.items))
	for i, item := range c.items {
		lowerTitles[i] = strings.ToLower(item.Title)
	}

	matches := fuzzy.Find(strings.ToLower(query), lowerTitles)

	c.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		c.filteredIdx[i] = match.Index
	}

	// Reset cursor to first match
	c.cursor = 0
	c.offset = 0
}

func (c *ListColumn) mapIndex(i int) int {
	if c.filteredIdx != nil && i < len(c.filteredIdx) {
		return c.filteredIdx[i]
	}
	return i
}

func (c *ListColumn) recalcMaxVisible() {
	// Interior minus title, scroll indicators and the status line
	interiorHeight := c.height - BorderHeight
	c.maxVisible = interiorHeight - ScrollIndicatorLines - 2
	if c.filterActive {
		c.maxVisible--
	}
	if c.maxVisible < 1 {
		c.maxVisible = 1
	}
}

func (c *ListColumn) ensureVisible() {
	// Size not known yet
	if c.maxVisible <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}

// Rendering

func (c *ListColumn) renderContent() string {
	itemWidth := c.width - BorderWidth
	if itemWidth < 10 {
		itemWidth = 10
	}

	titleLine := styles.AccentStyle.Render(styles.Truncate(c.title, itemWidth))
	statusLine := c.status.Render(itemWidth)

	count := c.ItemCount()
	if count == 0 {
		emptyMsg := styles.DimStyle.Render("No items")
		if c.filterActive && c.filterQuery != "" {
			emptyMsg = styles.DimStyle.Render("No matches")
		}
		content := titleLine + "\n \n" + emptyMsg + "\n \n" + statusLine
		if c.filterActive {
			content += "\n" + c.renderFilterBar()
		}
		return content
	}

	end := min(c.offset+c.maxVisible, count)

	lines := make([]string, 0, end-c.offset)
	for i := c.offset; i < end; i++ {
		lines = append(lines, c.renderItem(c.items[c.mapIndex(i)], i == c.cursor, itemWidth))
	}

	// Always reserve the indicator lines to prevent layout shifts
	header := " "
	if c.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer + "\n" + statusLine
	if c.filterActive {
		content += "\n" + c.renderFilterBar()
	}
	return content
}

func (c *ListColumn) renderItem(item domain.CatalogItem, selected bool, width int) string {
	marker := " "
	markerFg := styles.Pink
	if c.wishlisted != nil && c.wishlisted(item) {
		marker = styles.WishlistChar
	}

	rating := styles.RatingChar + " " + item.FormattedRating()
	ratingFg := styles.Gold

	title := item.Title
	if year := item.Year(); year > 0 {
		title = fmt.Sprintf("%s (%d)", item.Title, year)
	}

	// width - marker(1) - space(1) - rating - space(1) - margins(2)
	availableForTitle := width - 5 - lipgloss.Width(rating)
	if availableForTitle < 5 {
		availableForTitle = 5
	}
	title = styles.Truncate(title, availableForTitle)
	gap := availableForTitle - lipgloss.Width(title)

	parts := []styles.RowPart{
		{Text: marker, Foreground: &markerFg},
		{Text: " " + title + strings.Repeat(" ", max(gap, 0)) + " "},
		{Text: rating, Foreground: &ratingFg},
	}

	return styles.RenderListRow(parts, selected, width)
}

func (c *ListColumn) renderFilterBar() string {
	input := c.filterInput.View()
	if c.filterQuery == "" {
		return input
	}
	return input + styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", c.ItemCount(), len(c.items)))
}
