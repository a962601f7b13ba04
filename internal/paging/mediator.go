// Package paging merges a paginated remote source with a persisted local
// cache. A Mediator performs one load (refresh, prepend or append) per call;
// a Pager owns one listing session and serializes those loads.
package paging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/cinemax/internal/domain"
)

// DefaultStartingPage is the first page of every remote listing
const DefaultStartingPage = 1

// LoadType is the direction of a mediation cycle
type LoadType int

const (
	Refresh LoadType = iota
	Prepend
	Append
)

func (t LoadType) String() string {
	switch t {
	case Refresh:
		return "refresh"
	case Prepend:
		return "prepend"
	case Append:
		return "append"
	default:
		return fmt.Sprintf("LoadType(%d)", int(t))
	}
}

// Entity is a locally persisted row that can anchor a load
type Entity interface {
	EntityID() int
}

// State is the last-known window of loaded entities
type State[E Entity] struct {
	Items    []E
	PageSize int
}

// FirstItem returns the first loaded entity, if any
func (s State[E]) FirstItem() (E, bool) {
	var zero E
	if len(s.Items) == 0 {
		return zero, false
	}
	return s.Items[0], true
}

// LastItem returns the last loaded entity, if any
func (s State[E]) LastItem() (E, bool) {
	var zero E
	if len(s.Items) == 0 {
		return zero, false
	}
	return s.Items[len(s.Items)-1], true
}

// Result is the outcome of a successful load
type Result struct {
	EndOfPaginationReached bool
}

// Strategy supplies everything a Mediator needs for one listing: the remote
// fetch, DTO mapping, key construction, key lookup and the transactional write.
// E is the persisted entity, D the remote DTO.
type Strategy[E Entity, D any] interface {
	// FetchPage loads one remote page and reports whether another follows it
	FetchPage(ctx context.Context, page, pageSize int) (dtos []D, hasNext bool, err error)

	// ToEntity maps a DTO to the persisted entity; position is its index in the page
	ToEntity(dto D, page, position int) (E, error)

	// RemoteKey builds the key row stored alongside an entity
	RemoteKey(id int, prevPage, nextPage *int) domain.RemoteKey

	// RemoteKeyByID returns the stored key for an entity, nil if absent
	RemoteKeyByID(ctx context.Context, id int) (*domain.RemoteKey, error)

	// Save persists one page. With refresh set it must first delete every
	// existing entity and key of the listing; either way it is all-or-nothing.
	Save(ctx context.Context, refresh bool, keys []domain.RemoteKey, items []E) error
}

// Mediator runs the load state machine. It keeps no state between calls;
// everything it needs is read from local storage at the start of Load.
type Mediator[E Entity, D any] struct {
	strategy     Strategy[E, D]
	startingPage int
	logger       *slog.Logger
}

// NewMediator creates a mediator. startingPage <= 0 selects DefaultStartingPage.
func NewMediator[E Entity, D any](strategy Strategy[E, D], startingPage int, logger *slog.Logger) *Mediator[E, D] {
	if startingPage <= 0 {
		startingPage = DefaultStartingPage
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Mediator[E, D]{strategy: strategy, startingPage: startingPage, logger: logger}
}

// Load performs one mediation cycle.
// Errors are returned as *LoadError; a failed load never writes to storage.
func (m *Mediator[E, D]) Load(ctx context.Context, loadType LoadType, state State[E]) (Result, error) {
	page, done, err := m.targetPage(ctx, loadType, state)
	if err != nil {
		m.logger.Error("paging anchor lookup failed", "load", loadType, "error", err)
		return Result{}, &LoadError{Type: loadType, Err: err}
	}
	if done {
		m.logger.Debug("end of pagination", "load", loadType)
		return Result{EndOfPaginationReached: true}, nil
	}
	if page == 0 {
		// Nothing loaded yet to anchor on; the initial refresh fills the window.
		return Result{EndOfPaginationReached: false}, nil
	}

	dtos, hasNext, err := m.strategy.FetchPage(ctx, page, state.PageSize)
	if err != nil {
		m.logger.Error("failed to fetch page", "load", loadType, "page", page, "error", err)
		return Result{}, &LoadError{Type: loadType, Page: page, Err: err}
	}

	prevPage, nextPage := m.boundaries(page, hasNext)

	items := make([]E, 0, len(dtos))
	keys := make([]domain.RemoteKey, 0, len(dtos))
	for i, dto := range dtos {
		item, err := m.strategy.ToEntity(dto, page, i)
		if err != nil {
			return Result{}, &LoadError{
				Type: loadType,
				Page: page,
				Err:  fmt.Errorf("%w: item %d: %v", domain.ErrDecodeFailure, i, err),
			}
		}
		items = append(items, item)
		keys = append(keys, m.strategy.RemoteKey(item.EntityID(), prevPage, nextPage))
	}

	// Abandoned loads must not write
	if err := ctx.Err(); err != nil {
		return Result{}, &LoadError{Type: loadType, Page: page, Err: err}
	}

	if err := m.strategy.Save(ctx, loadType == Refresh, keys, items); err != nil {
		m.logger.Error("failed to persist page", "load", loadType, "page", page, "error", err)
		return Result{}, &LoadError{Type: loadType, Page: page, Err: err}
	}

	end := len(items) == 0
	if loadType == Prepend {
		end = end || prevPage == nil
	} else {
		end = end || nextPage == nil
	}

	m.logger.Debug("loaded page", "load", loadType, "page", page, "count", len(items), "end", end)
	return Result{EndOfPaginationReached: end}, nil
}

// targetPage resolves which page a load should fetch.
// done reports end of pagination in the requested direction; page 0 with
// done unset means there is no anchor yet.
func (m *Mediator[E, D]) targetPage(ctx context.Context, loadType LoadType, state State[E]) (page int, done bool, err error) {
	switch loadType {
	case Refresh:
		return m.startingPage, false, nil

	case Prepend:
		first, ok := state.FirstItem()
		if !ok {
			return 0, false, nil
		}
		key, err := m.anchorKey(ctx, first)
		if err != nil {
			return 0, false, err
		}
		if key.PrevPage == nil {
			return 0, true, nil
		}
		return *key.PrevPage, false, nil

	case Append:
		last, ok := state.LastItem()
		if !ok {
			return 0, false, nil
		}
		key, err := m.anchorKey(ctx, last)
		if err != nil {
			return 0, false, err
		}
		if key.NextPage == nil {
			return 0, true, nil
		}
		return *key.NextPage, false, nil

	default:
		return 0, false, fmt.Errorf("unsupported load type %v", loadType)
	}
}

func (m *Mediator[E, D]) anchorKey(ctx context.Context, anchor E) (*domain.RemoteKey, error) {
	key, err := m.strategy.RemoteKeyByID(ctx, anchor.EntityID())
	if err != nil {
		return nil, err
	}
	if key == nil {
		return nil, fmt.Errorf("%w: item %d", domain.ErrInconsistentCacheState, anchor.EntityID())
	}
	return key, nil
}

// boundaries derives the page-level key pair shared by every item of a page
func (m *Mediator[E, D]) boundaries(page int, hasNext bool) (prevPage, nextPage *int) {
	if page > m.startingPage {
		p := page - 1
		prevPage = &p
	}
	if hasNext {
		n := page + 1
		nextPage = &n
	}
	return prevPage, nextPage
}
