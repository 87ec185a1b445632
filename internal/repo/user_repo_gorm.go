package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/niranjcn/ConfessIt/internal/core/database"
	"github.com/niranjcn/ConfessIt/internal/domain"
	"github.com/niranjcn/ConfessIt/internal/feature/user"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	m := user.FromDomain(u)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if database.IsDupKey(err) {
			return domain.ErrConflict
		}
		return dbErr("create user", err)
	}
	u.CreatedAt = m.CreatedAt
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepo) first(ctx context.Context, where string, arg string) (*domain.User, error) {
	var m user.UserModel
	err := r.db.WithContext(ctx).Where(where, arg).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, dbErr("find user", err)
	}
	u := m.ToDomain()
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	var ms []user.UserModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, dbErr("list users", err)
	}
	out := make([]domain.User, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ToDomain())
	}
	return out, nil
}
