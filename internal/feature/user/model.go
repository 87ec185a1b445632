package user

import (
	"time"

	"github.com/niranjcn/ConfessIt/internal/domain"
)

// UserModel has no role column: admin-ness is derived from the email.
type UserModel struct {
	ID           string `gorm:"primaryKey;type:varchar(32)"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	Username     string `gorm:"size:64;not null"`
	PasswordHash string `gorm:"size:100;not null"`
	Gender       string `gorm:"size:16"`
	Semester     string `gorm:"size:16"`
	Department   string `gorm:"size:64"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (UserModel) TableName() string { return "users" }

func FromDomain(u *domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Gender:       u.Gender,
		Semester:     u.Semester,
		Department:   u.Department,
		CreatedAt:    u.CreatedAt,
	}
}

func (m UserModel) ToDomain() domain.User {
	return domain.User{
		ID:           m.ID,
		Email:        m.Email,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Gender:       m.Gender,
		Semester:     m.Semester,
		Department:   m.Department,
		CreatedAt:    m.CreatedAt,
	}
}
