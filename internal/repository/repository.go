// Package repository implements the catalog stores for the pandal gallery.
// The in-memory store is the default; PostgresStore offers the same
// semantics on top of pgx.
package repository

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/Shivanand-hulikatti/pandal-explorer/internal/model"
	"github.com/Shivanand-hulikatti/pandal-explorer/internal/query"
)

// ErrNotFound is returned when a requested entry does not exist.
var ErrNotFound = errors.New("not found")

// CatalogStore owns the ordered entry sequence. Newest entries come first.
type CatalogStore interface {
	// Create assigns the next id to e, inserts it at the head and returns
	// the stored copy.
	Create(ctx context.Context, e model.Entry) (model.Entry, error)
	FindByID(ctx context.Context, id int64) (model.Entry, error)
	// Like increments the entry's likes by one and returns the updated copy.
	Like(ctx context.Context, id int64) (model.Entry, error)
	List(ctx context.Context, f model.ListFilter) ([]model.Entry, error)
	Stats(ctx context.Context) (model.Stats, error)
	Ping(ctx context.Context) error
}

var _ CatalogStore = (*MemoryStore)(nil)

// MemoryStore is a mutex-guarded in-process catalog. It resets to its seed
// on every restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []model.Entry // head is newest
	lastID  int64
}

// NewMemoryStore constructs a MemoryStore holding seed in the given order.
// The id counter starts after the highest seeded id.
func NewMemoryStore(seed []model.Entry) *MemoryStore {
	s := &MemoryStore{entries: make([]model.Entry, len(seed))}
	copy(s.entries, seed)
	for _, e := range seed {
		if e.ID > s.lastID {
			s.lastID = e.ID
		}
	}
	return s
}

// Create inserts e at the head of the sequence with a fresh id.
func (s *MemoryStore) Create(_ context.Context, e model.Entry) (model.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	e.ID = s.lastID
	s.entries = append([]model.Entry{e}, s.entries...)
	return e, nil
}

// FindByID returns a copy of the entry or ErrNotFound.
func (s *MemoryStore) FindByID(_ context.Context, id int64) (model.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Entry{}, ErrNotFound
	}
	return s.entries[i], nil
}

// Like increments likes under the write lock so concurrent likes never
// lose an update.
func (s *MemoryStore) Like(_ context.Context, id int64) (model.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Entry{}, ErrNotFound
	}
	s.entries[i].Likes++
	return s.entries[i], nil
}

// List returns the entries passing f in store order.
func (s *MemoryStore) List(_ context.Context, f model.ListFilter) ([]model.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.Apply(s.entries, f), nil
}

// Stats totals likes and averages ratings over the whole catalog.
func (s *MemoryStore) Stats(_ context.Context) (model.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return computeStats(s.entries), nil
}

// Ping always succeeds; the store lives in process memory.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Len returns the current number of entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) indexOf(id int64) int {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return i
		}
	}
	return -1
}

func computeStats(entries []model.Entry) model.Stats {
	st := model.Stats{TotalPandals: len(entries)}
	var ratingSum float64
	for _, e := range entries {
		st.TotalLikes += e.Likes
		ratingSum += e.Rating
	}
	if len(entries) > 0 {
		st.AverageRating = roundTenth(ratingSum / float64(len(entries)))
	}
	return st
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
