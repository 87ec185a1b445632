package response

import (
	"errors"

	"github.com/niranjcn/ConfessIt/internal/domain"
)

type mapping struct {
	target error
	code   int
	kind   string
	expose bool // surface err.Error() to the client
}

var mappings = []mapping{
	{domain.ErrValidation, CodeBadRequest, KindValidation, true},
	{domain.ErrConflict, CodeBadRequest, KindConflict, true},
	{domain.ErrNotFound, CodeNotFound, KindNotFound, true},
	{domain.ErrInvalidCredentials, CodeBadRequest, KindInvalidCredentials, false},
	{domain.ErrMissingToken, CodeUnauthorized, KindAccessDenied, false},
	{domain.ErrInvalidTokenFormat, CodeBadRequest, KindInvalidTokenFormat, false},
	{domain.ErrInvalidToken, CodeBadRequest, KindInvalidToken, false},
	{domain.ErrForbidden, CodeForbidden, KindForbidden, false},
	{domain.ErrAlreadyLiked, CodeBadRequest, KindAlreadyLiked, false},
	{domain.ErrDependency, CodeServiceUnavailable, KindDependency, false},
}

// FromError maps a service error to a status code and body. Unknown errors
// become a bare 500 with no detail.
func FromError(err error) (int, Resp) {
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			msg := m.target.Error()
			if m.expose {
				msg = err.Error()
			}
			return m.code, Error(m.code, m.kind, msg)
		}
	}
	return CodeServerError, Error(CodeServerError, KindInternal, "internal error")
}
