package post

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/theunofficial-blog/core/internal/models"
	"github.com/theunofficial-blog/core/internal/pkg/pagination"
	"github.com/theunofficial-blog/core/internal/pkg/response"
)

// Handler exposes the posts API.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes mounts read routes behind the optional-auth middleware,
// so authenticated writers see drafts, and write routes behind the auth
// middleware. Deletion additionally requires the owner role.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, auth, optionalAuth, ownerOnly gin.HandlerFunc) {
	posts := rg.Group("/posts")
	{
		posts.GET("", optionalAuth, h.List)
		posts.GET("/:slug", optionalAuth, h.GetBySlug)
		posts.POST("/:slug/like", h.Like)

		posts.POST("", auth, h.Create)
		posts.PATCH("/:id", auth, h.Update)
		posts.DELETE("/:id", auth, ownerOnly, h.Delete)
	}
}

// authedRequest reports whether optional-auth resolved a user identity.
func authedRequest(c *gin.Context) bool {
	return c.GetString("userID") != ""
}

func (h *Handler) List(c *gin.Context) {
	q := pagination.FromContext(c)

	// Unauthenticated listings only ever see published posts.
	status := models.PostStatusPublished
	if requested := c.Query("status"); requested != "" && authedRequest(c) {
		status = requested
	}

	posts, meta, err := h.svc.List(c.Request.Context(), q, status)
	if err != nil {
		h.logger.Error("list posts", zap.Error(err))
		response.InternalError(c, "Failed to load posts")
		return
	}

	items := make([]PostResponse, 0, len(posts))
	for i := range posts {
		items = append(items, toResponse(&posts[i], false))
	}
	response.OK(c, gin.H{"data": items, "pagination": meta})
}

func (h *Handler) GetBySlug(c *gin.Context) {
	publishedOnly := !authedRequest(c)
	post, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"), publishedOnly)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "Post not found")
		return
	}
	if err != nil {
		h.logger.Error("get post", zap.Error(err))
		response.InternalError(c, "Failed to load post")
		return
	}

	if post.IsPublished() {
		if err := h.svc.IncrementRead(c.Request.Context(), post.ID); err != nil {
			h.logger.Warn("increment read count", zap.Error(err))
		}
	}
	response.OK(c, toResponse(post, true))
}

func (h *Handler) Create(c *gin.Context) {
	var dto CreatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Missing required fields")
		return
	}

	post, err := h.svc.Create(c.Request.Context(), dto, c.GetString("userID"))
	switch {
	case err == nil:
		response.Created(c, toResponse(post, true))
	case errors.Is(err, ErrSlugTaken):
		response.BadRequest(c, "Slug already in use")
	case errors.Is(err, ErrInvalidStatus):
		response.BadRequest(c, "Invalid status")
	default:
		h.logger.Error("create post", zap.Error(err))
		response.InternalError(c, "Failed to create post")
	}
}

func (h *Handler) Update(c *gin.Context) {
	var dto UpdatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	post, err := h.svc.Update(c.Request.Context(), c.Param("id"), dto)
	switch {
	case err == nil:
		response.OK(c, toResponse(post, true))
	case errors.Is(err, ErrNotFound):
		response.NotFound(c, "Post not found")
	case errors.Is(err, ErrSlugTaken):
		response.BadRequest(c, "Slug already in use")
	case errors.Is(err, ErrInvalidStatus):
		response.BadRequest(c, "Invalid status")
	default:
		h.logger.Error("update post", zap.Error(err))
		response.InternalError(c, "Failed to update post")
	}
}

func (h *Handler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		response.NoContent(c)
	case errors.Is(err, ErrNotFound):
		response.NotFound(c, "Post not found")
	default:
		h.logger.Error("delete post", zap.Error(err))
		response.InternalError(c, "Failed to delete post")
	}
}

func (h *Handler) Like(c *gin.Context) {
	post, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"), true)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "Post not found")
		return
	}
	if err != nil {
		h.logger.Error("like post", zap.Error(err))
		response.InternalError(c, "Failed to like post")
		return
	}

	likes, err := h.svc.Like(c.Request.Context(), post.ID)
	if err != nil {
		h.logger.Error("like post", zap.Error(err))
		response.InternalError(c, "Failed to like post")
		return
	}
	response.OK(c, gin.H{"likes": likes})
}
