package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/niranjcn/ConfessIt/internal/core/database"
	"github.com/niranjcn/ConfessIt/internal/domain"
	"github.com/niranjcn/ConfessIt/internal/feature/confession"
)

type ConfessionRepo struct{ db *gorm.DB }

func NewConfessionRepo(db *gorm.DB) *ConfessionRepo { return &ConfessionRepo{db: db} }

func (r *ConfessionRepo) Create(ctx context.Context, c *domain.Confession) error {
	m := confession.FromDomain(c)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if database.IsDupKey(err) {
			return domain.ErrConflict
		}
		return dbErr("create confession", err)
	}
	if c.LikedBy == nil {
		c.LikedBy = []string{}
	}
	return nil
}

func (r *ConfessionRepo) FindByID(ctx context.Context, id string) (*domain.Confession, error) {
	var m confession.ConfessionModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, dbErr("find confession", err)
	}
	voters, err := r.voters(r.db.WithContext(ctx), []string{id})
	if err != nil {
		return nil, dbErr("find voters", err)
	}
	c := m.ToDomain(voters[id])
	return &c, nil
}

func (r *ConfessionRepo) List(ctx context.Context) ([]domain.Confession, error) {
	var ms []confession.ConfessionModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, dbErr("list confessions", err)
	}
	if len(ms) == 0 {
		return []domain.Confession{}, nil
	}
	ids := make([]string, 0, len(ms))
	for _, m := range ms {
		ids = append(ids, m.ID)
	}
	voters, err := r.voters(r.db.WithContext(ctx), ids)
	if err != nil {
		return nil, dbErr("list voters", err)
	}
	out := make([]domain.Confession, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ToDomain(voters[m.ID]))
	}
	return out, nil
}

// Like runs in one transaction: the confession row is locked, the voter row
// insert is guarded by the composite primary key, and the counter moves only
// after that insert succeeded.
func (r *ConfessionRepo) Like(ctx context.Context, id, actor string) (*domain.Confession, error) {
	var out domain.Confession
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m confession.ConfessionModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Create(&confession.LikeModel{ConfessionID: id, UserID: actor}).Error; err != nil {
			if database.IsDupKey(err) {
				return domain.ErrAlreadyLiked
			}
			return err
		}

		res := tx.Model(&confession.ConfessionModel{}).
			Where("id = ?", id).
			UpdateColumn("likes", gorm.Expr("likes + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		m.Likes++

		voters, err := r.voters(tx, []string{id})
		if err != nil {
			return err
		}
		out = m.ToDomain(voters[id])
		return nil
	})
	if err != nil {
		return nil, dbErr("like confession", err)
	}
	return &out, nil
}

func (r *ConfessionRepo) Delete(ctx context.Context, id string) error {
	return dbErr("delete confession", r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&confession.ConfessionModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return tx.Where("confession_id = ?", id).Delete(&confession.LikeModel{}).Error
	}))
}

func (r *ConfessionRepo) voters(db *gorm.DB, ids []string) (map[string][]string, error) {
	var likes []confession.LikeModel
	if err := db.Where("confession_id IN ?", ids).Order("created_at ASC").Find(&likes).Error; err != nil {
		return nil, err
	}
	out := make(map[string][]string, len(ids))
	for _, l := range likes {
		out[l.ConfessionID] = append(out[l.ConfessionID], l.UserID)
	}
	return out, nil
}
