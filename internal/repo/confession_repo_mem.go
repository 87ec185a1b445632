package repo

import (
	"context"
	"sync"
	"time"

	"github.com/niranjcn/ConfessIt/internal/domain"
)

// memEntry serializes all writers of one confession.
type memEntry struct {
	mu      sync.Mutex
	c       domain.Confession
	voters  map[string]struct{}
	deleted bool
}

func (e *memEntry) snapshot() domain.Confession {
	c := e.c
	c.LikedBy = append([]string{}, e.c.LikedBy...)
	return c
}

// MemConfessionRepo keeps one mutex per confession; the map lock only guards
// membership, so likes on different confessions never contend.
type MemConfessionRepo struct {
	mu      sync.RWMutex
	entries map[string]*memEntry
	now     func() time.Time
}

func NewMemConfessionRepo() *MemConfessionRepo {
	return &MemConfessionRepo{entries: map[string]*memEntry{}, now: time.Now}
}

func (r *MemConfessionRepo) Create(_ context.Context, c *domain.Confession) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = r.now()
	}
	c.Likes = 0
	c.LikedBy = []string{}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[c.ID]; ok {
		return domain.ErrConflict
	}
	r.entries[c.ID] = &memEntry{c: *c, voters: map[string]struct{}{}}
	return nil
}

func (r *MemConfessionRepo) entry(id string) (*memEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

func (r *MemConfessionRepo) FindByID(_ context.Context, id string) (*domain.Confession, error) {
	e, ok := r.entry(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return nil, domain.ErrNotFound
	}
	c := e.snapshot()
	return &c, nil
}

func (r *MemConfessionRepo) List(_ context.Context) ([]domain.Confession, error) {
	r.mu.RLock()
	es := make([]*memEntry, 0, len(r.entries))
	for _, e := range r.entries {
		es = append(es, e)
	}
	r.mu.RUnlock()

	out := make([]domain.Confession, 0, len(es))
	for _, e := range es {
		e.mu.Lock()
		if !e.deleted {
			out = append(out, e.snapshot())
		}
		e.mu.Unlock()
	}
	domain.SortNewest(out)
	return out, nil
}

func (r *MemConfessionRepo) Like(_ context.Context, id, actor string) (*domain.Confession, error) {
	e, ok := r.entry(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return nil, domain.ErrNotFound
	}
	if _, dup := e.voters[actor]; dup {
		return nil, domain.ErrAlreadyLiked
	}
	e.voters[actor] = struct{}{}
	e.c.LikedBy = append(e.c.LikedBy, actor)
	e.c.Likes = len(e.c.LikedBy)
	c := e.snapshot()
	return &c, nil
}

func (r *MemConfessionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	e, ok := r.entries[id]
	if ok {
		delete(r.entries, id)
	}
	r.mu.Unlock()
	if !ok {
		return domain.ErrNotFound
	}
	e.mu.Lock()
	e.deleted = true
	e.mu.Unlock()
	return nil
}
