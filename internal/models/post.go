package models

// Post lifecycle statuses.
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

// PostModel is a blog article.
type PostModel struct {
	Base
	Slug       string      `json:"slug"        gorm:"uniqueIndex;not null"`
	Title      string      `json:"title"       gorm:"not null"`
	Text       string      `json:"text"        gorm:"type:longtext"`
	Excerpt    string      `json:"excerpt"     gorm:"type:text"`
	AuthorName string      `json:"author_name"`
	AuthorID   string      `json:"author_id"   gorm:"index"`
	Status     string      `json:"status"      gorm:"default:draft;index"`
	Tags       StringSlice `json:"tags"        gorm:"type:json;serializer:json"`
	ReadCount  int         `json:"read"        gorm:"column:read_count;default:0"`
	LikeCount  int         `json:"like"        gorm:"column:like_count;default:0"`
}

func (PostModel) TableName() string { return "posts" }

// IsPublished reports whether the post is visible to readers.
func (p PostModel) IsPublished() bool { return p.Status == PostStatusPublished }
