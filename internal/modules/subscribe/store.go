package subscribe

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/theunofficial-blog/core/internal/models"
)

// ErrNotFound is returned when no subscriber matches.
var ErrNotFound = errors.New("subscriber not found")

// Store persists subscriber records.
type Store interface {
	FindByNormalizedEmail(ctx context.Context, normalized string) (*models.SubscriberModel, error)
	Refresh(ctx context.Context, id, email string) error
	Upsert(ctx context.Context, sub *models.SubscriberModel) error
	ListActiveEmails(ctx context.Context) ([]string, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewStore creates a GORM-backed subscriber store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) FindByNormalizedEmail(ctx context.Context, normalized string) (*models.SubscriberModel, error) {
	var sub models.SubscriberModel
	err := s.db.WithContext(ctx).Where("normalized_email = ?", normalized).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Refresh overwrites the stored casing of the address and forces the
// record back to subscribed.
func (s *gormStore) Refresh(ctx context.Context, id, email string) error {
	return s.db.WithContext(ctx).
		Model(&models.SubscriberModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"email":      email,
			"subscribed": true,
		}).Error
}

// Upsert inserts the subscriber, or re-activates the existing row when a
// concurrent request already created it. The unique index on
// normalized_email makes this safe under races.
func (s *gormStore) Upsert(ctx context.Context, sub *models.SubscriberModel) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "normalized_email"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"subscribed": true}),
		}).
		Create(sub).Error
}

func (s *gormStore) ListActiveEmails(ctx context.Context) ([]string, error) {
	var emails []string
	err := s.db.WithContext(ctx).
		Model(&models.SubscriberModel{}).
		Where("subscribed = ?", true).
		Pluck("email", &emails).Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}
