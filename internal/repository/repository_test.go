package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/pandal-explorer/internal/model"
)

func newSeededStore() *MemoryStore {
	return NewMemoryStore(model.SeedEntries())
}

func TestMemoryStore_SeedOrder(t *testing.T) {
	st := newSeededStore()

	entries, err := st.List(context.Background(), model.ListFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].ID)
	assert.Equal(t, int64(2), entries[1].ID)
}

func TestMemoryStore_CreateInsertsAtHead(t *testing.T) {
	ctx := context.Background()
	st := newSeededStore()

	created, err := st.Create(ctx, model.Entry{Title: "X", Location: "Y", Pandal: "Z", Category: "Modern"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
	assert.Equal(t, 3, st.Len())

	entries, err := st.List(ctx, model.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), entries[0].ID)
}

func TestMemoryStore_IDsAreMonotonic(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore([]model.Entry{{ID: 7, Title: "old"}, {ID: 2, Title: "older"}})

	a, err := st.Create(ctx, model.Entry{Title: "a"})
	require.NoError(t, err)
	b, err := st.Create(ctx, model.Entry{Title: "b"})
	require.NoError(t, err)

	assert.Equal(t, int64(8), a.ID)
	assert.Equal(t, int64(9), b.ID)
}

func TestMemoryStore_FindByID(t *testing.T) {
	ctx := context.Background()
	st := newSeededStore()

	e, err := st.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Powai Sarbojanin", e.Pandal)

	_, err = st.FindByID(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Like(t *testing.T) {
	ctx := context.Background()
	st := newSeededStore()

	e, err := st.Like(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(157), e.Likes)

	e, err = st.Like(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(158), e.Likes)

	other, err := st.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(89), other.Likes)
}

func TestMemoryStore_LikeMissingMutatesNothing(t *testing.T) {
	ctx := context.Background()
	st := newSeededStore()
	before, err := st.List(ctx, model.ListFilter{})
	require.NoError(t, err)

	_, err = st.Like(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	after, err := st.List(ctx, model.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestMemoryStore_ReturnedEntriesAreCopies(t *testing.T) {
	ctx := context.Background()
	st := newSeededStore()

	entries, err := st.List(ctx, model.ListFilter{})
	require.NoError(t, err)
	entries[0].Likes = 0
	entries[0].Title = "mutated"

	e, err := st.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(156), e.Likes)
	assert.Equal(t, "Magnificent Durga Idol at Shivaji Park", e.Title)
}

func TestMemoryStore_ConcurrentLikesAllApply(t *testing.T) {
	ctx := context.Background()
	st := newSeededStore()

	const workers = 64
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := st.Like(ctx, 2)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	e, err := st.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(89+workers), e.Likes)
}

func TestMemoryStore_ConcurrentCreatesGetUniqueIDs(t *testing.T) {
	ctx := context.Background()
	st := newSeededStore()

	const workers = 32
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[int64]bool{}
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			e, err := st.Create(ctx, model.Entry{Title: "t", Location: "l", Pandal: "p"})
			assert.NoError(t, err)
			mu.Lock()
			seen[e.ID] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers)
	assert.Equal(t, 2+workers, st.Len())
}

func TestMemoryStore_Stats(t *testing.T) {
	ctx := context.Background()

	st, err := newSeededStore().Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalPandals)
	assert.Equal(t, int64(245), st.TotalLikes)
	assert.InDelta(t, 4.7, st.AverageRating, 1e-9)

	empty, err := NewMemoryStore(nil).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Stats{}, empty)
}
