package post

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/theunofficial-blog/core/internal/models"
	"github.com/theunofficial-blog/core/internal/modules/notify"
	"github.com/theunofficial-blog/core/internal/pkg/pagination"
)

var (
	ErrNotFound      = errors.New("post not found")
	ErrSlugTaken     = errors.New("slug already in use")
	ErrInvalidStatus = errors.New("invalid status")
)

// Notifier announces a newly published post to subscribers.
type Notifier interface {
	Dispatch(ctx context.Context, in notify.DispatchInput) (*notify.DispatchResult, error)
}

// Service manages posts and fires subscriber notifications on publish.
type Service struct {
	db       *gorm.DB
	notifier Notifier
	logger   *zap.Logger
}

func NewService(db *gorm.DB, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{db: db, notifier: notifier, logger: logger}
}

func validStatus(status string) bool {
	switch status {
	case models.PostStatusDraft, models.PostStatusPublished, models.PostStatusArchived:
		return true
	}
	return false
}

// ShouldAnnounce reports whether a status change is a fresh publish.
// Re-saving an already published post does not announce again.
func ShouldAnnounce(oldStatus, newStatus string) bool {
	return newStatus == models.PostStatusPublished && oldStatus != models.PostStatusPublished
}

func (s *Service) Create(ctx context.Context, dto CreatePostDTO, authorID string) (*models.PostModel, error) {
	status := dto.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	if !validStatus(status) {
		return nil, ErrInvalidStatus
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.PostModel{}).
		Where("slug = ?", dto.Slug).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	post := &models.PostModel{
		Slug:       strings.TrimSpace(dto.Slug),
		Title:      strings.TrimSpace(dto.Title),
		Text:       dto.Text,
		Excerpt:    dto.Excerpt,
		AuthorName: strings.TrimSpace(dto.AuthorName),
		AuthorID:   authorID,
		Status:     status,
		Tags:       dto.Tags,
	}
	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}

	if ShouldAnnounce("", post.Status) {
		s.announce(post)
	}
	return post, nil
}

func (s *Service) Update(ctx context.Context, id string, dto UpdatePostDTO) (*models.PostModel, error) {
	post, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := post.Status

	if dto.Title != nil {
		post.Title = strings.TrimSpace(*dto.Title)
	}
	if dto.Slug != nil && *dto.Slug != post.Slug {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.PostModel{}).
			Where("slug = ? AND id <> ?", *dto.Slug, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrSlugTaken
		}
		post.Slug = strings.TrimSpace(*dto.Slug)
	}
	if dto.Text != nil {
		post.Text = *dto.Text
	}
	if dto.Excerpt != nil {
		post.Excerpt = *dto.Excerpt
	}
	if dto.AuthorName != nil {
		post.AuthorName = strings.TrimSpace(*dto.AuthorName)
	}
	if dto.Status != nil {
		if !validStatus(*dto.Status) {
			return nil, ErrInvalidStatus
		}
		post.Status = *dto.Status
	}
	if dto.Tags != nil {
		post.Tags = *dto.Tags
	}

	if err := s.db.WithContext(ctx).Save(post).Error; err != nil {
		return nil, err
	}

	if ShouldAnnounce(oldStatus, post.Status) {
		s.announce(post)
	}
	return post, nil
}

// announce fires the notification fan-out in the background. A dispatch
// failure never fails the publish itself.
func (s *Service) announce(post *models.PostModel) {
	if s.notifier == nil {
		return
	}
	in := notify.DispatchInput{
		PostTitle:  post.Title,
		PostSlug:   post.Slug,
		AuthorName: post.AuthorName,
	}
	go func() {
		result, err := s.notifier.Dispatch(context.Background(), in)
		if err != nil {
			s.logger.Warn("publish notification failed",
				zap.String("slug", in.PostSlug), zap.Error(err))
			return
		}
		s.logger.Info("publish notification sent",
			zap.String("slug", in.PostSlug),
			zap.Int("email_successful", result.Email.Successful),
			zap.Int("email_failed", result.Email.Failed),
		)
	}()
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.PostModel, error) {
	var post models.PostModel
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.PostModel, error) {
	query := s.db.WithContext(ctx).Where("slug = ?", slug)
	if publishedOnly {
		query = query.Where("status = ?", models.PostStatusPublished)
	}

	var post models.PostModel
	err := query.First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Service) List(ctx context.Context, q pagination.Query, status string) ([]models.PostModel, pagination.Meta, error) {
	query := s.db.WithContext(ctx).Model(&models.PostModel{}).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var posts []models.PostModel
	meta, err := pagination.Paginate(query, q, &posts)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return posts, meta, nil
}

// ListPublished returns all published posts, newest first. Used by the feed.
func (s *Service) ListPublished(ctx context.Context, limit int) ([]models.PostModel, error) {
	var posts []models.PostModel
	err := s.db.WithContext(ctx).
		Where("status = ?", models.PostStatusPublished).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PostModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementRead bumps the read counter for a post.
func (s *Service) IncrementRead(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Model(&models.PostModel{}).
		Where("id = ?", id).
		UpdateColumn("read_count", gorm.Expr("read_count + 1")).Error
}

// Like bumps the like counter and returns the new value.
func (s *Service) Like(ctx context.Context, id string) (int, error) {
	err := s.db.WithContext(ctx).Model(&models.PostModel{}).
		Where("id = ?", id).
		UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	if err != nil {
		return 0, err
	}
	post, err := s.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return post.LikeCount, nil
}
