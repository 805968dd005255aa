package subscribe

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/theunofficial-blog/core/internal/models"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

var (
	// ErrInvalidEmail means the address failed validation.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrAlreadySubscribed means the address already has a subscriber record.
	ErrAlreadySubscribed = errors.New("already subscribed")
	// ErrNotConfigured means no database is available.
	ErrNotConfigured = errors.New("database not configured")
)

// Service handles subscription intake.
type Service struct {
	store  Store
	logger *zap.Logger
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Normalize trims whitespace and lowercases an email address.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether the trimmed address looks like an email.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// Subscribe records a new subscriber. The original casing of the address is
// preserved for sending; lookups go through the normalized form.
//
// An address that already has a record gets ErrAlreadySubscribed. If that
// record was unsubscribed it is re-activated first.
func (s *Service) Subscribe(ctx context.Context, email string) error {
	if !ValidEmail(email) {
		return ErrInvalidEmail
	}
	if s.store == nil {
		return ErrNotConfigured
	}

	trimmed := strings.TrimSpace(email)
	normalized := Normalize(email)

	existing, err := s.store.FindByNormalizedEmail(ctx, normalized)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if existing != nil {
		// The record is refreshed and re-activated even though the caller
		// is told the address was already subscribed.
		if err := s.store.Refresh(ctx, existing.ID, trimmed); err != nil {
			return err
		}
		if !existing.Subscribed {
			s.logger.Info("re-activated unsubscribed address", zap.String("id", existing.ID))
		}
		return ErrAlreadySubscribed
	}

	sub := &models.SubscriberModel{
		Email:           trimmed,
		NormalizedEmail: normalized,
		Subscribed:      true,
	}
	if err := s.store.Upsert(ctx, sub); err != nil {
		return err
	}

	s.logger.Info("new subscriber", zap.String("id", sub.ID))
	return nil
}

// ActiveEmails returns the addresses of all active subscribers.
func (s *Service) ActiveEmails(ctx context.Context) ([]string, error) {
	if s.store == nil {
		return nil, ErrNotConfigured
	}
	return s.store.ListActiveEmails(ctx)
}
