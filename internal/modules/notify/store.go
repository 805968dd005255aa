package notify

import (
	"context"

	"gorm.io/gorm"

	"github.com/theunofficial-blog/core/internal/models"
)

type gormSMSRecipients struct {
	db *gorm.DB
}

// NewSMSRecipientStore lists users who opted into SMS and left a number.
func NewSMSRecipientStore(db *gorm.DB) SMSRecipientSource {
	return &gormSMSRecipients{db: db}
}

func (s *gormSMSRecipients) SMSRecipients(ctx context.Context) ([]string, error) {
	var numbers []string
	err := s.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("sms_notifications = ? AND phone_number <> ''", true).
		Pluck("phone_number", &numbers).Error
	if err != nil {
		return nil, err
	}
	return numbers, nil
}
