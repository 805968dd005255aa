package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/theunofficial-blog/core/internal/models"
	"github.com/theunofficial-blog/core/internal/pkg/jwt"
)

const sessionTTL = 7 * 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// Service handles login sessions and account settings.
type Service struct {
	db     *gorm.DB
	signer *jwt.Signer
	logger *zap.Logger
}

func NewService(db *gorm.DB, signer *jwt.Signer, logger *zap.Logger) *Service {
	return &Service{db: db, signer: signer, logger: logger}
}

// Login checks credentials and returns a signed session token.
func (s *Service) Login(ctx context.Context, email, password, ip string) (string, *models.UserModel, error) {
	var user models.UserModel
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.signer.Sign(user.ID, user.Role, sessionTTL)
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"last_login_time": &now,
		"last_login_ip":   ip,
	}
	if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		s.logger.Warn("recording login", zap.Error(err))
	}

	return token, &user, nil
}

// GetUser loads a user by ID.
func (s *Service) GetUser(ctx context.Context, id string) (*models.UserModel, error) {
	var user models.UserModel
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// PreferencesPatch updates notification settings. Nil fields are untouched.
type PreferencesPatch struct {
	EmailNotifications *bool   `json:"email_notifications"`
	SMSNotifications   *bool   `json:"sms_notifications"`
	PhoneNumber        *string `json:"phone_number"`
}

// UpdatePreferences applies a notification settings patch.
func (s *Service) UpdatePreferences(ctx context.Context, userID string, patch PreferencesPatch) (*models.UserModel, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.EmailNotifications != nil {
		updates["email_notifications"] = *patch.EmailNotifications
	}
	if patch.SMSNotifications != nil {
		updates["sms_notifications"] = *patch.SMSNotifications
	}
	if patch.PhoneNumber != nil {
		updates["phone_number"] = strings.TrimSpace(*patch.PhoneNumber)
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetUser(ctx, userID)
}

// EnsureOwner seeds the owner account on first boot.
func (s *Service) EnsureOwner(ctx context.Context, email, password, name string) error {
	if email == "" || password == "" {
		return nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("role = ?", models.RoleOwner).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	owner := &models.UserModel{
		Email:              strings.ToLower(strings.TrimSpace(email)),
		Name:               name,
		Password:           string(hash),
		Role:               models.RoleOwner,
		EmailNotifications: true,
	}
	if err := s.db.WithContext(ctx).Create(owner).Error; err != nil {
		return err
	}
	s.logger.Info("seeded owner account", zap.String("email", owner.Email))
	return nil
}
