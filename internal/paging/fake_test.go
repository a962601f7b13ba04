package paging

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mmcdole/cinemax/internal/domain"
)

type fakeDTO struct {
	ID    int
	Title string
	Bad   bool
}

type fakeItem struct {
	ID       int
	Title    string
	Page     int
	Position int
}

func (f fakeItem) EntityID() int { return f.ID }

// fakeBackend is an in-memory remote + local pair
type fakeBackend struct {
	mu sync.Mutex

	// remote
	pages      map[int][]fakeDTO
	totalPages int
	fetchErr   error
	fetched    []int
	started    chan struct{}
	release    chan struct{}

	// local
	items       map[int]fakeItem
	keys        map[int]domain.RemoteKey
	saves       int
	saveErr     error
	lastRefresh time.Time
}

func newFakeBackend(totalPages, perPage int) *fakeBackend {
	b := &fakeBackend{
		pages:      make(map[int][]fakeDTO),
		totalPages: totalPages,
		items:      make(map[int]fakeItem),
		keys:       make(map[int]domain.RemoteKey),
	}
	for p := 1; p <= totalPages; p++ {
		b.pages[p] = makePage(p, perPage)
	}
	return b
}

func makePage(page, n int) []fakeDTO {
	dtos := make([]fakeDTO, n)
	for i := range dtos {
		id := page*1000 + i
		dtos[i] = fakeDTO{ID: id, Title: fmt.Sprintf("item %d", id)}
	}
	return dtos
}

func (b *fakeBackend) FetchPage(ctx context.Context, page, pageSize int) ([]fakeDTO, bool, error) {
	b.mu.Lock()
	b.fetched = append(b.fetched, page)
	started, release, fetchErr := b.started, b.release, b.fetchErr
	dtos := b.pages[page]
	hasNext := page < b.totalPages
	b.mu.Unlock()

	if started != nil {
		close(started)
	}
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, false, fmt.Errorf("%w: %v", domain.ErrNetworkFailure, ctx.Err())
		}
	}
	if fetchErr != nil {
		return nil, false, fetchErr
	}
	return dtos, hasNext, nil
}

func (b *fakeBackend) ToEntity(dto fakeDTO, page, position int) (fakeItem, error) {
	if dto.Bad {
		return fakeItem{}, errors.New("missing title")
	}
	return fakeItem{ID: dto.ID, Title: dto.Title, Page: page, Position: position}, nil
}

func (b *fakeBackend) RemoteKey(id int, prevPage, nextPage *int) domain.RemoteKey {
	return domain.RemoteKey{ID: id, Category: "test", PrevPage: prevPage, NextPage: nextPage}
}

func (b *fakeBackend) RemoteKeyByID(ctx context.Context, id int) (*domain.RemoteKey, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key, ok := b.keys[id]
	if !ok {
		return nil, nil
	}
	return &key, nil
}

func (b *fakeBackend) Save(ctx context.Context, refresh bool, keys []domain.RemoteKey, items []fakeItem) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.saveErr != nil {
		return b.saveErr
	}
	b.saves++
	if refresh {
		b.items = make(map[int]fakeItem)
		b.keys = make(map[int]domain.RemoteKey)
		b.lastRefresh = time.Now()
	}
	for _, it := range items {
		b.items[it.ID] = it
	}
	for _, k := range keys {
		b.keys[k.ID] = k
	}
	return nil
}

func (b *fakeBackend) Items() ([]fakeItem, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := make([]fakeItem, 0, len(b.items))
	for _, it := range b.items {
		list = append(list, it)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Page != list[j].Page {
			return list[i].Page < list[j].Page
		}
		return list[i].Position < list[j].Position
	})
	return list, nil
}

func (b *fakeBackend) LastRefresh() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastRefresh
}

// seed stores a page locally as if it had been mediated before
func (b *fakeBackend) seed(page int, prev, next *int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, dto := range b.pages[page] {
		b.items[dto.ID] = fakeItem{ID: dto.ID, Title: dto.Title, Page: page, Position: i}
		b.keys[dto.ID] = domain.RemoteKey{ID: dto.ID, Category: "test", PrevPage: prev, NextPage: next}
	}
}

func (b *fakeBackend) fetchedPages() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int(nil), b.fetched...)
}

func intPtr(v int) *int { return &v }
