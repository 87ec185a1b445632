package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/niranjcn/ConfessIt/internal/core/auth"
	"github.com/niranjcn/ConfessIt/internal/domain"
	"github.com/niranjcn/ConfessIt/internal/transport/http/ez"
)

// Context keys set by Authenticate.
const (
	KeyUserID    = "userId"
	KeyTokenRole = "tokenRole" // informational; never used for authorization
	KeyToken     = "token"
)

// BearerToken extracts the token from an Authorization header of the form
// "Bearer <token>". The scheme is case-insensitive.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", domain.ErrMissingToken
	}
	scheme, tok, ok := strings.Cut(header, " ")
	tok = strings.TrimSpace(tok)
	if !ok || !strings.EqualFold(scheme, "Bearer") || tok == "" || strings.ContainsAny(tok, " \t") {
		return "", domain.ErrInvalidTokenFormat
	}
	return tok, nil
}

// Authenticate resolves the caller from the bearer token. Missing header is
// 401; a malformed header or a token that fails verification is 400.
func Authenticate(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, err := BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			ez.Fail(c, err)
			return
		}
		claims, err := j.Parse(tok)
		if err != nil {
			ez.Fail(c, err)
			return
		}
		c.Set(KeyUserID, claims.UID)
		c.Set(KeyTokenRole, claims.Role)
		c.Set(KeyToken, tok)
		c.Next()
	}
}

type RoleResolver interface {
	ResolveRole(ctx context.Context, uid string) (domain.Role, error)
}

// RequireAdmin re-reads the subject on every request and checks the derived
// role. The role claim inside the token is ignored.
func RequireAdmin(rr RoleResolver, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := UserID(c)
		if uid == "" {
			ez.Fail(c, domain.ErrMissingToken)
			return
		}
		role, err := rr.ResolveRole(c.Request.Context(), uid)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			ez.Fail(c, err)
			return
		case err != nil:
			l.Warn("admin lookup failed", zap.String("uid", uid), zap.Error(err))
			ez.Fail(c, domain.ErrForbidden)
			return
		case role != domain.RoleAdmin:
			ez.Fail(c, domain.ErrForbidden)
			return
		}
		c.Next()
	}
}

func UserID(c *gin.Context) string { return c.GetString(KeyUserID) }
func Token(c *gin.Context) string  { return c.GetString(KeyToken) }
