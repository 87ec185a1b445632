package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/niranjcn/ConfessIt/internal/domain"
)

// MemUserRepo in-process credential store (db.driver=memory).
type MemUserRepo struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string
	now     func() time.Time
}

func NewMemUserRepo() *MemUserRepo {
	return &MemUserRepo{
		byID:    map[string]domain.User{},
		byEmail: map[string]string{},
		now:     time.Now,
	}
}

func (r *MemUserRepo) Create(_ context.Context, u *domain.User) error {
	key := domain.NormalizeEmail(u.Email)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[key]; ok {
		return domain.ErrConflict
	}
	if _, ok := r.byID[u.ID]; ok {
		return domain.ErrConflict
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.now()
	}
	r.byID[u.ID] = *u
	r.byEmail[key] = u.ID
	return nil
}

func (r *MemUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *MemUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *MemUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	out := make([]domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
