package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/niranjcn/ConfessIt/internal/domain"
	"github.com/niranjcn/ConfessIt/pkg/utils"
)

const (
	DefaultLeaderboardSize = 5
	MaxLeaderboardSize     = 50

	maxRecipientLen = 128
	maxMessageLen   = 2000
)

type ConfessionService struct {
	repo domain.ConfessionRepository
	log  *zap.Logger
	now  func() time.Time
}

func NewConfessionService(repo domain.ConfessionRepository, log *zap.Logger) *ConfessionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ConfessionService{repo: repo, log: log, now: time.Now}
}

func (s *ConfessionService) Create(ctx context.Context, senderID, recipient, message string) (*domain.Confession, error) {
	recipient = strings.TrimSpace(recipient)
	message = strings.TrimSpace(message)
	switch {
	case senderID == "":
		return nil, fmt.Errorf("%w: sender is required", domain.ErrValidation)
	case recipient == "":
		return nil, fmt.Errorf("%w: recipient is required", domain.ErrValidation)
	case message == "":
		return nil, fmt.Errorf("%w: message is required", domain.ErrValidation)
	case utf8.RuneCountInString(recipient) > maxRecipientLen:
		return nil, fmt.Errorf("%w: recipient too long", domain.ErrValidation)
	case utf8.RuneCountInString(message) > maxMessageLen:
		return nil, fmt.Errorf("%w: message too long", domain.ErrValidation)
	}

	c := &domain.Confession{
		ID:        utils.NewID(),
		SenderID:  senderID,
		Recipient: recipient,
		Message:   message,
		LikedBy:   []string{},
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	confessionsCreated.Inc()
	return c, nil
}

// Like records one vote per actor. Atomicity is the repository's job.
func (s *ConfessionService) Like(ctx context.Context, id, actor string) (*domain.Confession, error) {
	if actor == "" {
		return nil, fmt.Errorf("%w: actor is required", domain.ErrValidation)
	}
	c, err := s.repo.Like(ctx, id, actor)
	switch {
	case err == nil:
		likesTotal.WithLabelValues("accepted").Inc()
		return c, nil
	case errors.Is(err, domain.ErrAlreadyLiked):
		likesTotal.WithLabelValues("duplicate").Inc()
	case errors.Is(err, domain.ErrNotFound):
		likesTotal.WithLabelValues("not_found").Inc()
	default:
		likesTotal.WithLabelValues("error").Inc()
		s.log.Error("like failed", zap.String("confession", id), zap.Error(err))
	}
	return nil, err
}

// Leaderboard recomputes the ranking on every call.
func (s *ConfessionService) Leaderboard(ctx context.Context, n int, view domain.View) ([]domain.Confession, error) {
	if n <= 0 {
		n = DefaultLeaderboardSize
	}
	if n > MaxLeaderboardSize {
		n = MaxLeaderboardSize
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return present(domain.Rank(all, n), view), nil
}

// List newest first, shaped by view.
func (s *ConfessionService) List(ctx context.Context, view domain.View) ([]domain.Confession, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	domain.SortNewest(all)
	return present(all, view), nil
}

func (s *ConfessionService) ListPublic(ctx context.Context) ([]domain.Confession, error) {
	return s.List(ctx, domain.ViewPublic)
}

func (s *ConfessionService) ListAll(ctx context.Context) ([]domain.Confession, error) {
	return s.List(ctx, domain.ViewAdmin)
}

func (s *ConfessionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("confession deleted", zap.String("confession", id))
	return nil
}

func present(cs []domain.Confession, view domain.View) []domain.Confession {
	out := make([]domain.Confession, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.As(view))
	}
	return out
}
