package repo

import (
	"errors"
	"fmt"

	"github.com/niranjcn/ConfessIt/internal/domain"
)

// dbErr passes domain errors through and marks everything else as a
// dependency failure.
func dbErr(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{domain.ErrNotFound, domain.ErrConflict, domain.ErrAlreadyLiked} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrDependency, err)
}
