package post

import (
	"time"

	"github.com/theunofficial-blog/core/internal/models"
)

type CreatePostDTO struct {
	Title      string   `json:"title" binding:"required"`
	Slug       string   `json:"slug" binding:"required"`
	Text       string   `json:"text" binding:"required"`
	Excerpt    string   `json:"excerpt"`
	AuthorName string   `json:"author_name"`
	Status     string   `json:"status"`
	Tags       []string `json:"tags"`
}

// UpdatePostDTO patches a post. Nil fields are left untouched.
type UpdatePostDTO struct {
	Title      *string   `json:"title"`
	Slug       *string   `json:"slug"`
	Text       *string   `json:"text"`
	Excerpt    *string   `json:"excerpt"`
	AuthorName *string   `json:"author_name"`
	Status     *string   `json:"status"`
	Tags       *[]string `json:"tags"`
}

type PostResponse struct {
	ID         string    `json:"id"`
	Slug       string    `json:"slug"`
	Title      string    `json:"title"`
	Text       string    `json:"text,omitempty"`
	Excerpt    string    `json:"excerpt"`
	AuthorName string    `json:"author_name"`
	Status     string    `json:"status"`
	Tags       []string  `json:"tags"`
	ReadCount  int       `json:"read_count"`
	LikeCount  int       `json:"like_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toResponse(m *models.PostModel, includeText bool) PostResponse {
	resp := PostResponse{
		ID:         m.ID,
		Slug:       m.Slug,
		Title:      m.Title,
		Excerpt:    m.Excerpt,
		AuthorName: m.AuthorName,
		Status:     m.Status,
		Tags:       m.Tags,
		ReadCount:  m.ReadCount,
		LikeCount:  m.LikeCount,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if includeText {
		resp.Text = m.Text
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	return resp
}
