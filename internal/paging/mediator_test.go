package paging

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/cinemax/internal/domain"
)

func loadState(t *testing.T, b *fakeBackend) State[fakeItem] {
	t.Helper()
	items, err := b.Items()
	require.NoError(t, err)
	return State[fakeItem]{Items: items, PageSize: 20}
}

func TestMediator_RefreshOnEmptyCache(t *testing.T) {
	b := newFakeBackend(5, 20)
	m := NewMediator[fakeItem, fakeDTO](b, 0, nil)

	res, err := m.Load(context.Background(), Refresh, loadState(t, b))
	require.NoError(t, err)
	assert.False(t, res.EndOfPaginationReached)
	assert.Equal(t, []int{1}, b.fetchedPages())

	items, _ := b.Items()
	require.Len(t, items, 20)
	for _, it := range items {
		key := b.keys[it.ID]
		assert.Nil(t, key.PrevPage, "item %d", it.ID)
		require.NotNil(t, key.NextPage)
		assert.Equal(t, 2, *key.NextPage)
	}
}

func TestMediator_RefreshReplacesExistingData(t *testing.T) {
	b := newFakeBackend(5, 20)
	b.seed(2, intPtr(1), intPtr(3))
	b.seed(3, intPtr(2), intPtr(4))
	m := NewMediator[fakeItem, fakeDTO](b, 0, nil)

	_, err := m.Load(context.Background(), Refresh, loadState(t, b))
	require.NoError(t, err)

	items, _ := b.Items()
	require.Len(t, items, 20)
	for _, it := range items {
		assert.Equal(t, 1, it.Page)
	}
	assert.Len(t, b.keys, 20)
}

func TestMediator_AppendLastPage(t *testing.T) {
	b := newFakeBackend(3, 20)
	b.seed(2, intPtr(1), intPtr(3))
	m := NewMediator[fakeItem, fakeDTO](b, 0, nil)

	res, err := m.Load(context.Background(), Append, loadState(t, b))
	require.NoError(t, err)
	assert.True(t, res.EndOfPaginationReached)
	assert.Equal(t, []int{3}, b.fetchedPages())

	items, _ := b.Items()
	assert.Len(t, items, 40)

	for _, dto := range b.pages[3] {
		key := b.keys[dto.ID]
		require.NotNil(t, key.PrevPage)
		assert.Equal(t, 2, *key.PrevPage)
		assert.Nil(t, key.NextPage)
	}
	// existing rows untouched
	for _, dto := range b.pages[2] {
		assert.Equal(t, 3, *b.keys[dto.ID].NextPage)
	}
}

func TestMediator_AppendFetchesAnchorNextPage(t *testing.T) {
	b := newFakeBackend(10, 20)
	b.seed(4, intPtr(3), intPtr(7))
	m := NewMediator[fakeItem, fakeDTO](b, 0, nil)

	res, err := m.Load(context.Background(), Append, loadState(t, b))
	require.NoError(t, err)
	assert.False(t, res.EndOfPaginationReached)
	assert.Equal(t, []int{7}, b.fetchedPages())
}

func TestMediator_EndOfPaginationWithoutFetch(t *testing.T) {
	tests := []struct {
		name     string
		loadType LoadType
		prev     *int
		next     *int
	}{
		{name: "append with null next", loadType: Append, prev: intPtr(1), next: nil},
		{name: "prepend with null prev", loadType: Prepend, prev: nil, next: intPtr(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newFakeBackend(2, 20)
			b.seed(1, tt.prev, tt.next)
			m := NewMediator[fakeItem, fakeDTO](b, 0, nil)

			res, err := m.Load(context.Background(), tt.loadType, loadState(t, b))
			require.NoError(t, err)
			assert.True(t, res.EndOfPaginationReached)
			assert.Empty(t, b.fetchedPages())
			assert.Zero(t, b.saves)
		})
	}
}

func TestMediator_PrependFetchesPreviousPage(t *testing.T) {
	b := newFakeBackend(5, 20)
	b.seed(3, intPtr(2), intPtr(4))
	m := NewMediator[fakeItem, fakeDTO](b, 0, nil)

	res, err := m.Load(context.Background(), Prepend, loadState(t, b))
	require.NoError(t, err)
	assert.False(t, res.EndOfPaginationReached)
	assert.Equal(t, []int{2}, b.fetchedPages())

	for _, dto := range b.pages[2] {
		key := b.keys[dto.ID]
		assert.Equal(t, 1, *key.PrevPage)
		assert.Equal(t, 3, *key.NextPage)
	}
}

func TestMediator_PrependReachingFirstPage(t *testing.T) {
	b := newFakeBackend(5, 20)
	b.seed(2, intPtr(1), intPtr(3))
	m := NewMediator[fakeItem, fakeDTO](b, 0, nil)

	res, err := m.Load(context.Background(), Prepend, loadState(t, b))
	require.NoError(t, err)
	assert.True(t, res.EndOfPaginationReached)
	assert.Equal(t, []int{1}, b.fetchedPages())
}

func TestMediator_MissingAnchorKey(t *testing.T) {
	b := newFakeBackend(3, 20)
	b.seed(1, nil, intPtr(2))
	last := b.pages[1][19].ID
	delete(b.keys, last)
	m := NewMediator[fakeItem, fakeDTO](b, 0, nil)

	_, err := m.Load(context.Background(), Append, loadState(t, b))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInconsistentCacheState)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, Append, loadErr.Type)
	assert.True(t, loadErr.NeedsRefresh())
	assert.False(t, loadErr.Retryable())
	assert.Empty(t, b.fetchedPages())
}

func TestMediator_NoAnchorYet(t *testing.T) {
	b := newFakeBackend(3, 20)
	m := NewMediator[fakeItem, fakeDTO](b, 0, nil)

	for _, lt := range []LoadType{Append, Prepend} {
		res, err := m.Load(context.Background(), lt, loadState(t, b))
		require.NoError(t, err)
		assert.False(t, res.EndOfPaginationReached)
	}
	assert.Empty(t, b.fetchedPages())
}

func TestMediator_FailuresLeaveStorageUntouched(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(b *fakeBackend)
		wantErr   error
		retryable bool
	}{
		{
			name:      "network failure",
			setup:     func(b *fakeBackend) { b.fetchErr = domain.ErrNetworkFailure },
			wantErr:   domain.ErrNetworkFailure,
			retryable: true,
		},
		{
			name:      "decode failure",
			setup:     func(b *fakeBackend) { b.fetchErr = domain.ErrDecodeFailure },
			wantErr:   domain.ErrDecodeFailure,
			retryable: true,
		},
		{
			name:      "mapping failure",
			setup:     func(b *fakeBackend) { b.pages[1][5].Bad = true },
			wantErr:   domain.ErrDecodeFailure,
			retryable: true,
		},
		{
			name:      "rejected request",
			setup:     func(b *fakeBackend) { b.fetchErr = fmt.Errorf("%w: status 400", domain.ErrRequestRejected) },
			wantErr:   domain.ErrRequestRejected,
			retryable: false,
		},
		{
			name:    "transaction failure",
			setup:   func(b *fakeBackend) { b.saveErr = errors.New("disk full") },
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newFakeBackend(3, 20)
			b.seed(2, intPtr(1), intPtr(3))
			before, _ := b.Items()
			tt.setup(b)
			m := NewMediator[fakeItem, fakeDTO](b, 0, nil)

			_, err := m.Load(context.Background(), Refresh, loadState(t, b))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, 1, loadErr.Page)
			assert.Equal(t, tt.retryable, loadErr.Retryable())

			after, _ := b.Items()
			assert.Equal(t, before, after)
		})
	}
}

func TestMediator_CancelledContextDoesNotWrite(t *testing.T) {
	b := newFakeBackend(3, 20)
	m := NewMediator[fakeItem, fakeDTO](b, 0, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Load(ctx, Refresh, loadState(t, b))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, b.saves)
}

func TestMediator_CustomStartingPage(t *testing.T) {
	b := newFakeBackend(5, 10)
	m := NewMediator[fakeItem, fakeDTO](b, 2, nil)

	_, err := m.Load(context.Background(), Refresh, loadState(t, b))
	require.NoError(t, err)
	assert.Equal(t, []int{2}, b.fetchedPages())

	for _, dto := range b.pages[2] {
		assert.Nil(t, b.keys[dto.ID].PrevPage)
		assert.Equal(t, 3, *b.keys[dto.ID].NextPage)
	}
}

func TestMediator_EmptyPageEndsPagination(t *testing.T) {
	b := newFakeBackend(3, 20)
	b.pages[1] = nil
	m := NewMediator[fakeItem, fakeDTO](b, 0, nil)

	res, err := m.Load(context.Background(), Refresh, loadState(t, b))
	require.NoError(t, err)
	assert.True(t, res.EndOfPaginationReached)
}

func TestLoadType_String(t *testing.T) {
	assert.Equal(t, "refresh", Refresh.String())
	assert.Equal(t, "prepend", Prepend.String())
	assert.Equal(t, "append", Append.String())
	assert.Equal(t, "LoadType(9)", LoadType(9).String())
}
