package tui

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/cinemax/internal/catalog"
	"github.com/mmcdole/cinemax/internal/domain"
	"github.com/mmcdole/cinemax/internal/tui/components"
	"github.com/mmcdole/cinemax/internal/tui/styles"
	"github.com/mmcdole/cinemax/internal/wishlist"
)

// Layout proportions
const (
	ListPercent     = 45 // list width when details are shown side by side
	MinSplitWidth   = 100
	ChromeHeight    = 2 // tabs + footer
	DefaultPrefetch = 5
)

// Services bundles what the browser needs
type Services struct {
	Catalog  *catalog.Service
	Details  *catalog.DetailsService
	Queries  *catalog.Queries
	Wishlist *wishlist.Service
}

// Options configures the browser
type Options struct {
	// PrefetchDistance is how many rows before the end of the loaded window
	// the next page is requested
	PrefetchDistance int
	StartCategory    domain.Category
	Logger           *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	svc    Services
	logger *slog.Logger

	// Categories shown as tabs
	categories []domain.Category
	active     int

	// Per-category state
	lists   map[domain.Category]*components.ListColumn
	pages   map[domain.Category]catalog.Page
	opened  map[domain.Category]bool
	loading map[domain.Category]bool

	Inspector   components.Inspector
	ShowDetails bool
	ShowHelp    bool

	spinner  spinner.Model
	help     help.Model
	prefetch int

	// Dimensions
	Width  int
	Height int
	Ready  bool

	// Status line
	StatusMsg   string
	StatusIsErr bool
	statusSeq   int
}

// NewModel creates a new application model
func NewModel(svc Services, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	prefetch := opts.PrefetchDistance
	if prefetch <= 0 {
		prefetch = DefaultPrefetch
	}

	infos := domain.Categories()
	categories := make([]domain.Category, len(infos))
	active := 0
	for i, info := range infos {
		categories[i] = info.Category
		if info.Category == opts.StartCategory {
			active = i
		}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	m := Model{
		svc:        svc,
		logger:     logger,
		categories: categories,
		active:     active,
		lists:      make(map[domain.Category]*components.ListColumn, len(categories)),
		pages:      make(map[domain.Category]catalog.Page, len(categories)),
		opened:     make(map[domain.Category]bool, len(categories)),
		loading:    make(map[domain.Category]bool, len(categories)),
		Inspector:  components.NewInspector(),
		spinner:    sp,
		help:       help.New(),
		prefetch:   prefetch,
	}

	for _, info := range infos {
		list := components.NewListColumn(info.Title)
		if svc.Wishlist != nil {
			list.SetWishlistLookup(func(item domain.CatalogItem) bool {
				return svc.Wishlist.IsWishlisted(item.MediaType, item.ID)
			})
		}
		m.lists[info.Category] = list
	}
	return m
}

// Init opens the start category
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.openActive())
}

// ActiveCategory returns the category of the selected tab
func (m Model) ActiveCategory() domain.Category {
	return m.categories[m.active]
}

func (m Model) activeList() *components.ListColumn {
	return m.lists[m.ActiveCategory()]
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		for cat, loading := range m.loading {
			if loading {
				state := m.lists[cat].Status()
				state.Spinner = m.spinner.View()
				m.lists[cat].SetStatus(state)
			}
		}
		return m, cmd

	case PageLoadedMsg:
		return m.handlePageLoaded(msg)

	case MovieDetailsMsg:
		if item, ok := m.Inspector.Item(); ok && item.ID == msg.ID && item.MediaType == domain.MediaTypeMovie {
			if msg.Details != nil {
				msg.Details.IsWishlisted = m.isWishlisted(item)
				m.Inspector.SetMovie(msg.Details, msg.Cached)
			}
			if msg.Err != nil {
				m.Inspector.SetError(msg.Err)
			}
		}
		return m, nil

	case TvShowDetailsMsg:
		if item, ok := m.Inspector.Item(); ok && item.ID == msg.ID && item.MediaType == domain.MediaTypeTV {
			if msg.Details != nil {
				msg.Details.IsWishlisted = m.isWishlisted(item)
				m.Inspector.SetTvShow(msg.Details, msg.Cached)
			}
			if msg.Err != nil {
				m.Inspector.SetError(msg.Err)
			}
		}
		return m, nil

	case WishlistToggledMsg:
		if item, ok := m.Inspector.Item(); ok && item.ID == msg.ID && item.MediaType == msg.MediaType {
			m.Inspector.SetWishlisted(msg.Wishlisted)
		}
		text := fmt.Sprintf("Removed %q from wishlist", msg.Title)
		if msg.Wishlisted {
			text = fmt.Sprintf("Added %q to wishlist", msg.Title)
		}
		return m, m.setStatus(text, false)

	case ErrMsg:
		m.logger.Error("tui command failed", "context", msg.Context, "error", msg.Err)
		return m, m.setStatus(msg.Error(), true)

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	list := m.activeList()

	// Typing into the filter swallows every key except ctrl+c
	if list.IsFilterTyping() {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		_, cmd := list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.ShowHelp = !m.ShowHelp
		return m, nil
	}

	if m.ShowDetails {
		switch {
		case key.Matches(msg, Keys.Back, Keys.Enter):
			m.ShowDetails = false
			m.updateLayout()
			return m, nil
		case key.Matches(msg, Keys.Wishlist):
			if item, ok := m.Inspector.Item(); ok && m.svc.Wishlist != nil {
				return m, ToggleWishlistCmd(m.svc.Wishlist, item)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.Inspector, cmd = m.Inspector.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.NextTab):
		if !list.IsFiltering() {
			m.active = (m.active + 1) % len(m.categories)
			return m, m.openActive()
		}

	case key.Matches(msg, Keys.PrevTab):
		if !list.IsFiltering() {
			m.active = (m.active - 1 + len(m.categories)) % len(m.categories)
			return m, m.openActive()
		}

	case key.Matches(msg, Keys.Enter):
		item, ok := list.SelectedItem()
		if !ok {
			return m, nil
		}
		m.ShowDetails = true
		m.Inspector.SetItem(item)
		m.updateLayout()
		return m, tea.Batch(
			CachedDetailsCmd(m.svc.Queries, item),
			FetchDetailsCmd(m.svc.Details, item),
		)

	case key.Matches(msg, Keys.Filter):
		if !list.IsFiltering() {
			return m, list.ToggleFilter()
		}

	case key.Matches(msg, Keys.Refresh):
		return m, m.startLoad(OpRefresh)

	case key.Matches(msg, Keys.Retry):
		return m, m.startLoad(OpRetry)

	case key.Matches(msg, Keys.LoadPrevious):
		if !m.pages[m.ActiveCategory()].PrependEnd {
			return m, m.startLoad(OpPrepend)
		}
		return m, nil

	case key.Matches(msg, Keys.Wishlist):
		if item, ok := list.SelectedItem(); ok && m.svc.Wishlist != nil {
			return m, ToggleWishlistCmd(m.svc.Wishlist, item)
		}
		return m, nil
	}

	_, cmd := list.Update(msg)
	return m, tea.Batch(cmd, m.maybeLoadMore(m.ActiveCategory()))
}

func (m Model) handlePageLoaded(msg PageLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading[msg.Category] = false
	list := m.lists[msg.Category]

	// Abandoned session: nothing was written and the list keeps its state
	if errors.Is(msg.Err, domain.ErrStaleLoad) {
		list.SetStatus(components.LoadState{Status: components.StatusIdle})
		return m, nil
	}

	if msg.Err == nil || len(msg.Page.Items) > 0 {
		m.pages[msg.Category] = msg.Page
		list.SetItems(msg.Page.Items)
	}

	if msg.Err != nil {
		m.logger.Error("page load failed", "category", msg.Category, "op", msg.Op, "error", msg.Err)
		list.SetStatus(components.LoadState{Status: components.StatusError, Error: msg.Err})
		return m, nil
	}

	list.SetStatus(components.LoadState{
		Status:    components.StatusLoaded,
		Loaded:    len(msg.Page.Items),
		Pages:     catalog.PagesIn(msg.Page),
		AtEnd:     msg.Page.AppendEnd,
		FromCache: msg.Page.FromCache,
	})

	// The cursor may still be near the end after a short page
	return m, m.maybeLoadMore(msg.Category)
}

// openActive performs the initial load of the active tab once
func (m Model) openActive() tea.Cmd {
	cat := m.ActiveCategory()
	if m.opened[cat] {
		return nil
	}
	m.opened[cat] = true
	return m.startLoad(OpOpen)
}

// startLoad issues a paging command for the active category unless one is
// already in flight
func (m Model) startLoad(op PageOp) tea.Cmd {
	cat := m.ActiveCategory()
	if m.loading[cat] {
		return nil
	}
	return m.issueLoad(cat, op)
}

func (m Model) issueLoad(cat domain.Category, op PageOp) tea.Cmd {
	m.loading[cat] = true
	m.lists[cat].SetStatus(components.LoadState{Status: components.StatusLoading, Spinner: m.spinner.View()})

	switch op {
	case OpOpen:
		return OpenCategoryCmd(m.svc.Catalog, cat)
	case OpAppend:
		return LoadMoreCmd(m.svc.Catalog, cat)
	case OpPrepend:
		return LoadPreviousCmd(m.svc.Catalog, cat)
	case OpRetry:
		return RetryCmd(m.svc.Catalog, cat)
	default:
		return RefreshCmd(m.svc.Catalog, cat)
	}
}

// maybeLoadMore appends the next page once the cursor comes within the
// prefetch distance of the end
func (m Model) maybeLoadMore(cat domain.Category) tea.Cmd {
	if !m.opened[cat] || m.loading[cat] || m.pages[cat].AppendEnd {
		return nil
	}
	list := m.lists[cat]
	if list.Status().Status == components.StatusError || !list.NearEnd(m.prefetch) {
		return nil
	}
	return m.issueLoad(cat, OpAppend)
}

func (m Model) isWishlisted(item domain.CatalogItem) bool {
	return m.svc.Wishlist != nil && m.svc.Wishlist.IsWishlisted(item.MediaType, item.ID)
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(m.statusSeq)
}

func (m *Model) updateLayout() {
	if !m.Ready {
		return
	}
	bodyHeight := max(m.Height-ChromeHeight, 3)

	listWidth := m.Width
	if m.ShowDetails && m.Width >= MinSplitWidth {
		listWidth = m.Width * ListPercent / 100
		m.Inspector.SetSize(m.Width-listWidth, bodyHeight)
	} else {
		m.Inspector.SetSize(m.Width, bodyHeight)
	}
	for _, list := range m.lists {
		list.SetSize(listWidth, bodyHeight)
	}
	m.help.Width = m.Width
}
