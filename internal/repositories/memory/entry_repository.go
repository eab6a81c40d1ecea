package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ArowuTest/club-portal-backend/internal/models"
	"github.com/ArowuTest/club-portal-backend/internal/repositories"
)

var _ repositories.EntryRepository = (*EntryRepository)(nil)

// EntryRepository keeps entries in insertion order.
type EntryRepository struct {
	mu      sync.Mutex
	entries []*models.Entry
}

func NewEntryRepository() *EntryRepository {
	return &EntryRepository{}
}

func (r *EntryRepository) Create(_ context.Context, entry *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(entry, time.Now())
}

func (r *EntryRepository) CreateMany(_ context.Context, entries []*models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, e := range entries {
		if err := r.insert(e, now); err != nil {
			return err
		}
	}
	return nil
}

func (r *EntryRepository) insert(entry *models.Entry, now time.Time) error {
	if r.indexOf(entry.ID) >= 0 {
		return repositories.ErrDuplicate
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.ModifiedAt = entry.CreatedAt
	r.entries = append(r.entries, cloneEntry(entry))
	return nil
}

func (r *EntryRepository) indexOf(id string) int {
	for i, e := range r.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (r *EntryRepository) FindByID(_ context.Context, id string) (*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, repositories.ErrNotFound
	}
	return cloneEntry(r.entries[i]), nil
}

func (r *EntryRepository) FindByGameID(_ context.Context, gameID string) ([]*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := []*models.Entry{}
	for _, e := range r.entries {
		if e.GameID == gameID {
			entries = append(entries, cloneEntry(e))
		}
	}
	return entries, nil
}

func (r *EntryRepository) Update(_ context.Context, entry *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(entry.ID)
	if i < 0 {
		return repositories.ErrNotFound
	}
	entry.ModifiedAt = time.Now()
	r.entries[i] = cloneEntry(entry)
	return nil
}

func (r *EntryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return repositories.ErrNotFound
	}
	r.entries = append(r.entries[:i], r.entries[i+1:]...)
	return nil
}

func (r *EntryRepository) DeleteByGameID(_ context.Context, gameID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.entries[:0]
	var deleted int64
	for _, e := range r.entries {
		if e.GameID == gameID {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return deleted, nil
}
