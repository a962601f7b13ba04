package paging

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/cinemax/internal/domain"
)

// Backend is a Strategy that can also read back the persisted window
type Backend[E Entity, D any] interface {
	Strategy[E, D]

	// Items returns the persisted listing in display order
	Items() ([]E, error)

	// LastRefresh returns when the listing was last replaced (zero if never)
	LastRefresh() time.Time
}

// Config tunes a Pager
type Config struct {
	StartingPage int
	PageSize     int

	// CacheTTL skips the initial refresh while the cached listing is younger
	// than this. Zero always refreshes on Start.
	CacheTTL time.Duration
}

// Snapshot is the listing as seen after a load
type Snapshot[E Entity] struct {
	Items      []E
	AppendEnd  bool
	PrependEnd bool
	FromCache  bool // Start served the cache without refreshing
}

// Pager is the paged-list reader for one listing session.
// Loads are serialized (at most one mediation in flight). Close tears the
// session down: in-flight fetches are cancelled and their results are
// never written.
type Pager[E Entity, D any] struct {
	backend Backend[E, D]
	cfg     Config
	logger  *slog.Logger
	now     func() time.Time

	loadMu sync.Mutex // single flight

	// mu is held across Save so that Close waits for an in-flight write
	// and every write after it sees the new generation.
	mu         sync.Mutex
	generation uint64
	closed     bool
	ctx        context.Context
	cancel     context.CancelFunc
	appendEnd  bool
	prependEnd bool
	lastFailed *LoadType
}

// NewPager creates a pager session over a backend
func NewPager[E Entity, D any](backend Backend[E, D], cfg Config, logger *slog.Logger) *Pager[E, D] {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pager[E, D]{
		backend: backend,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start performs the initial load. A non-empty cache younger than CacheTTL
// is served as is; otherwise the listing is refreshed.
func (p *Pager[E, D]) Start(ctx context.Context) (Snapshot[E], error) {
	items, err := p.backend.Items()
	if err == nil && len(items) > 0 && p.cfg.CacheTTL > 0 {
		last := p.backend.LastRefresh()
		if !last.IsZero() && p.now().Sub(last) < p.cfg.CacheTTL {
			p.logger.Debug("cache fresh, skipping initial refresh", "age", p.now().Sub(last), "count", len(items))
			snap, err := p.Snapshot()
			snap.FromCache = true
			return snap, err
		}
	}
	return p.Refresh(ctx)
}

// Refresh replaces the listing with its first page
func (p *Pager[E, D]) Refresh(ctx context.Context) (Snapshot[E], error) {
	return p.load(ctx, Refresh)
}

// Append loads the page after the last persisted item
func (p *Pager[E, D]) Append(ctx context.Context) (Snapshot[E], error) {
	return p.load(ctx, Append)
}

// Prepend loads the page before the first persisted item
func (p *Pager[E, D]) Prepend(ctx context.Context) (Snapshot[E], error) {
	return p.load(ctx, Prepend)
}

// Retry repeats the last failed load, if any
func (p *Pager[E, D]) Retry(ctx context.Context) (Snapshot[E], error) {
	p.mu.Lock()
	failed := p.lastFailed
	p.mu.Unlock()

	if failed == nil {
		return p.Snapshot()
	}
	return p.load(ctx, *failed)
}

// Snapshot returns the persisted listing without loading
func (p *Pager[E, D]) Snapshot() (Snapshot[E], error) {
	items, err := p.backend.Items()
	if err != nil {
		return Snapshot[E]{}, fmt.Errorf("failed to read cached items: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot[E]{Items: items, AppendEnd: p.appendEnd, PrependEnd: p.prependEnd}, nil
}

// Reset abandons in-flight loads and forgets end-of-pagination flags while
// keeping the session usable (e.g. after the cache was cleared).
func (p *Pager[E, D]) Reset() {
	_ = p.ResetWhile(nil)
}

// ResetWhile resets the session and runs fn before any new load can start
// or any abandoned load can write. Use it to wipe the backing storage.
func (p *Pager[E, D]) ResetWhile(fn func() error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.cancel()
		p.generation++
		p.ctx, p.cancel = context.WithCancel(context.Background())
		p.appendEnd = false
		p.prependEnd = false
		p.lastFailed = nil
	}
	if fn == nil {
		return nil
	}
	return fn()
}

// Close tears the session down. Loads finishing afterwards return ErrStaleLoad.
func (p *Pager[E, D]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	p.generation++
	p.cancel()
}

func (p *Pager[E, D]) load(ctx context.Context, loadType LoadType) (Snapshot[E], error) {
	p.loadMu.Lock()
	defer p.loadMu.Unlock()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return Snapshot[E]{}, domain.ErrStaleLoad
	}
	gen := p.generation
	sessionCtx := p.ctx
	skip := (loadType == Append && p.appendEnd) || (loadType == Prepend && p.prependEnd)
	p.mu.Unlock()

	if skip {
		return p.Snapshot()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(sessionCtx, cancel)
	defer stop()

	items, err := p.backend.Items()
	if err != nil {
		return Snapshot[E]{}, fmt.Errorf("failed to read cached items: %w", err)
	}

	strategy := &guardedStrategy[E, D]{Strategy: p.backend, pager: p, generation: gen}
	mediator := NewMediator[E, D](strategy, p.cfg.StartingPage, p.logger)
	res, loadErr := mediator.Load(ctx, loadType, State[E]{Items: items, PageSize: p.cfg.PageSize})

	p.mu.Lock()
	if p.closed || p.generation != gen {
		p.mu.Unlock()
		p.logger.Debug("discarding load from stale session", "load", loadType)
		return Snapshot[E]{}, domain.ErrStaleLoad
	}
	if loadErr != nil {
		failed := loadType
		p.lastFailed = &failed
		p.mu.Unlock()

		snap, err := p.Snapshot()
		if err != nil {
			return snap, err
		}
		return snap, loadErr
	}

	p.lastFailed = nil
	switch loadType {
	case Refresh:
		p.appendEnd = res.EndOfPaginationReached
		p.prependEnd = true
	case Append:
		p.appendEnd = res.EndOfPaginationReached
	case Prepend:
		p.prependEnd = res.EndOfPaginationReached
	}
	p.mu.Unlock()

	return p.Snapshot()
}

// guardedStrategy refuses writes from a generation the pager has moved past
type guardedStrategy[E Entity, D any] struct {
	Strategy[E, D]
	pager      *Pager[E, D]
	generation uint64
}

func (g *guardedStrategy[E, D]) Save(ctx context.Context, refresh bool, keys []domain.RemoteKey, items []E) error {
	g.pager.mu.Lock()
	defer g.pager.mu.Unlock()

	if g.pager.closed || g.pager.generation != g.generation {
		return domain.ErrStaleLoad
	}
	return g.Strategy.Save(ctx, refresh, keys, items)
}
