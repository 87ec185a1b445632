package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrEmptyPassword = errors.New("empty password")

// HashPasswordCost bcrypt work factor
var HashPasswordCost = bcrypt.DefaultCost

func HashPassword(pw string) (string, error) {
	if pw == "" {
		return "", ErrEmptyPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), HashPasswordCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword is false for any malformed or empty digest.
func CheckPassword(pw, hashed string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
