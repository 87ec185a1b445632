package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/niranjcn/ConfessIt/internal/core/auth"
	"github.com/niranjcn/ConfessIt/internal/domain"
	"github.com/niranjcn/ConfessIt/pkg/utils"
)

const minPasswordLen = 6

// AdminIdentity is loaded once at startup. Email decides who is admin;
// Password guards the password-only admin login.
type AdminIdentity struct {
	Email    string
	Password string
}

type UserService struct {
	users  domain.UserRepository
	tokens *auth.JWTer
	admin  AdminIdentity
	log    *zap.Logger
}

func NewUserService(users domain.UserRepository, tokens *auth.JWTer, admin AdminIdentity, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{users: users, tokens: tokens, admin: admin, log: log}
}

type RegisterInput struct {
	Username   string
	Email      string
	Password   string
	Gender     string
	Semester   string
	Department string
}

type Session struct {
	Token string
	Role  domain.Role
	User  *domain.User
}

// Profile is a user as seen by themselves: no hash, role derived now.
type Profile struct {
	domain.User
	Role domain.Role `json:"role"`
}

// Register creates an ordinary account. The configured admin email is
// reserved for EnsureAdmin, whether or not admin login is enabled.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if domain.RoleFor(in.Email, s.admin.Email) == domain.RoleAdmin {
		authFailures.WithLabelValues("reserved_email").Inc()
		return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
	}
	return s.register(ctx, in)
}

func (s *UserService) register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = domain.NormalizeEmail(in.Email)
	if err := validateRegister(in); err != nil {
		return nil, err
	}

	switch _, err := s.users.FindByEmail(ctx, in.Email); {
	case err == nil:
		return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Gender:       strings.TrimSpace(in.Gender),
		Semester:     strings.TrimSpace(in.Semester),
		Department:   strings.TrimSpace(in.Department),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		return nil, err
	}
	s.log.Info("user registered", zap.String("uid", u.ID))
	return u, nil
}

func validateRegister(in RegisterInput) error {
	switch {
	case in.Username == "":
		return fmt.Errorf("%w: username is required", domain.ErrValidation)
	case len(in.Username) > 64:
		return fmt.Errorf("%w: username too long", domain.ErrValidation)
	case in.Email == "" || !strings.Contains(in.Email, "@") || len(in.Email) > 255:
		return fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	case len(in.Password) < minPasswordLen:
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	case len(in.Password) > 72:
		return fmt.Errorf("%w: password too long", domain.ErrValidation)
	}
	return nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			authFailures.WithLabelValues("unknown_email").Inc()
			return nil, fmt.Errorf("%w: user not found", domain.ErrNotFound)
		}
		return nil, err
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		authFailures.WithLabelValues("bad_password").Inc()
		return nil, domain.ErrInvalidCredentials
	}
	role := domain.RoleFor(u.Email, s.admin.Email)
	tok, err := s.tokens.Issue(u.ID, string(role))
	if err != nil {
		return nil, err
	}
	return &Session{Token: tok, Role: role, User: u}, nil
}

// AdminLogin checks the configured admin password and issues an admin
// session for the admin account.
func (s *UserService) AdminLogin(ctx context.Context, password string) (*Session, error) {
	if s.admin.Password == "" || s.admin.Email == "" {
		return nil, fmt.Errorf("%w: admin login disabled", domain.ErrForbidden)
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) != 1 {
		authFailures.WithLabelValues("bad_admin_password").Inc()
		return nil, fmt.Errorf("%w: unauthorized access", domain.ErrForbidden)
	}
	u, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(s.admin.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: admin account missing", domain.ErrForbidden)
		}
		return nil, err
	}
	tok, err := s.tokens.IssueAdmin(u.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: tok, Role: domain.RoleAdmin, User: u}, nil
}

// EnsureAdmin creates the admin account on first start. An existing account
// with the admin email is left alone.
func (s *UserService) EnsureAdmin(ctx context.Context) error {
	if s.admin.Email == "" || s.admin.Password == "" {
		s.log.Warn("admin identity not configured; admin routes unreachable", zap.Bool("emailSet", s.admin.Email != ""))
		return nil
	}
	_, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(s.admin.Email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	u, err := s.register(ctx, RegisterInput{Username: "admin", Email: s.admin.Email, Password: s.admin.Password})
	if err != nil && !errors.Is(err, domain.ErrConflict) {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if u != nil {
		s.log.Info("admin account created", zap.String("uid", u.ID))
	}
	return nil
}

// Refresh re-signs a valid token. The role is looked up again instead of
// being copied from the presented token.
func (s *UserService) Refresh(ctx context.Context, token string) (*Session, error) {
	var (
		u    *domain.User
		role domain.Role
	)
	tok, err := s.tokens.Refresh(token, func(uid string) (string, error) {
		found, err := s.users.FindByID(ctx, uid)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return "", fmt.Errorf("%w: subject no longer exists", domain.ErrInvalidToken)
			}
			return "", err
		}
		u, role = found, domain.RoleFor(found.Email, s.admin.Email)
		return string(role), nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			authFailures.WithLabelValues("refresh_invalid").Inc()
		}
		return nil, err
	}
	return &Session{Token: tok, Role: role, User: u}, nil
}

func (s *UserService) Profile(ctx context.Context, uid string) (*Profile, error) {
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	return &Profile{User: *u, Role: domain.RoleFor(u.Email, s.admin.Email)}, nil
}

// ResolveRole reads the subject fresh on every call.
func (s *UserService) ResolveRole(ctx context.Context, uid string) (domain.Role, error) {
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return "", err
	}
	return domain.RoleFor(u.Email, s.admin.Email), nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]Profile, error) {
	us, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Profile, 0, len(us))
	for _, u := range us {
		out = append(out, Profile{User: u, Role: domain.RoleFor(u.Email, s.admin.Email)})
	}
	return out, nil
}
