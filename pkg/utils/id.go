package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID 32 hex chars, fits varchar(32)
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
