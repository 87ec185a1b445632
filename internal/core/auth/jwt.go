package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/niranjcn/ConfessIt/internal/domain"
)

const (
	DefaultTTL      = time.Hour
	DefaultAdminTTL = 2 * time.Hour
)

// Claims Role is informational only; authorization re-derives it.
type Claims struct {
	UID  string `json:"uid"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTer signs and verifies session tokens with a single process-wide secret.
type JWTer struct {
	Secret   []byte
	Issuer   string
	TTL      time.Duration
	AdminTTL time.Duration
	Leeway   time.Duration
	Now      func() time.Time
}

func (j *JWTer) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

func (j *JWTer) ttl() time.Duration {
	if j.TTL > 0 {
		return j.TTL
	}
	return DefaultTTL
}

func (j *JWTer) adminTTL() time.Duration {
	if j.AdminTTL > 0 {
		return j.AdminTTL
	}
	return DefaultAdminTTL
}

// Issue user session token
func (j *JWTer) Issue(uid, role string) (string, error) {
	return j.IssueWithTTL(uid, role, j.ttl())
}

// IssueAdmin admin session token
func (j *JWTer) IssueAdmin(uid string) (string, error) {
	return j.IssueWithTTL(uid, string(domain.RoleAdmin), j.adminTTL())
}

func (j *JWTer) IssueWithTTL(uid, role string, ttl time.Duration) (string, error) {
	if uid == "" {
		return "", errors.New("empty subject")
	}
	if len(j.Secret) == 0 {
		return "", errors.New("empty signing secret")
	}
	now := j.now()
	claims := Claims{
		UID:  uid,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(j.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// Parse verifies signature, issuer and expiry. Every failure wraps
// domain.ErrInvalidToken; an empty string is domain.ErrMissingToken.
func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, domain.ErrMissingToken
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
		jwt.WithLeeway(j.Leeway),
	}
	if j.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.Issuer))
	}
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || c.UID == "" {
		return nil, domain.ErrInvalidToken
	}
	return c, nil
}

// Refresh re-signs a still valid token. Only the subject is carried over;
// roleOf supplies the role for the new token and can veto the refresh.
func (j *JWTer) Refresh(tokenStr string, roleOf func(uid string) (string, error)) (string, error) {
	c, err := j.Parse(tokenStr)
	if err != nil {
		return "", err
	}
	role, err := roleOf(c.UID)
	if err != nil {
		return "", err
	}
	return j.Issue(c.UID, role)
}
