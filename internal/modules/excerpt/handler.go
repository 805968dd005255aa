package excerpt

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/theunofficial-blog/core/internal/pkg/response"
)

// Handler exposes the excerpt generation endpoint.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the generation route. Writer-only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/excerpt/generate", h.Generate)
}

type generateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *Handler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Title and content are required")
		return
	}

	excerpt, err := h.svc.Generate(req.Title, req.Content)
	switch {
	case err == nil:
		response.OK(c, gin.H{"excerpt": excerpt})
	case errors.Is(err, ErrMissingInput):
		response.BadRequest(c, "Title and content are required")
	case errors.Is(err, ErrNoProvider):
		response.InternalError(c, "AI service not configured")
	default:
		h.logger.Error("excerpt generation failed", zap.Error(err))
		response.InternalError(c, "Failed to generate excerpt")
	}
}
