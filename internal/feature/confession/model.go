package confession

import (
	"time"

	"github.com/niranjcn/ConfessIt/internal/domain"
)

type ConfessionModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(32)"`
	SenderID  string    `gorm:"type:varchar(32);index;not null"`
	Recipient string    `gorm:"size:128;not null"`
	Message   string    `gorm:"type:text;not null"`
	Likes     int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"index"`
}

func (ConfessionModel) TableName() string { return "confessions" }

// LikeModel one row per (confession, user); the composite key is the voter set.
type LikeModel struct {
	ConfessionID string    `gorm:"primaryKey;type:varchar(32)"`
	UserID       string    `gorm:"primaryKey;type:varchar(32)"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (LikeModel) TableName() string { return "confession_likes" }

func FromDomain(c *domain.Confession) ConfessionModel {
	return ConfessionModel{
		ID:        c.ID,
		SenderID:  c.SenderID,
		Recipient: c.Recipient,
		Message:   c.Message,
		Likes:     c.Likes,
		CreatedAt: c.CreatedAt,
	}
}

func (m ConfessionModel) ToDomain(likedBy []string) domain.Confession {
	if likedBy == nil {
		likedBy = []string{}
	}
	return domain.Confession{
		ID:        m.ID,
		SenderID:  m.SenderID,
		Recipient: m.Recipient,
		Message:   m.Message,
		Likes:     m.Likes,
		LikedBy:   likedBy,
		CreatedAt: m.CreatedAt,
	}
}

// Models for AutoMigrate
func Models() []any { return []any{&ConfessionModel{}, &LikeModel{}} }
