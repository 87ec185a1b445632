package repo

import (
	"gorm.io/gorm"

	"github.com/niranjcn/ConfessIt/internal/feature/confession"
	"github.com/niranjcn/ConfessIt/internal/feature/user"
)

// Migrate creates users, confessions and confession_likes.
func Migrate(db *gorm.DB) error {
	models := append([]any{&user.UserModel{}}, confession.Models()...)
	return db.AutoMigrate(models...)
}
