package subscribe

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/theunofficial-blog/core/internal/pkg/response"
)

// Handler exposes the subscription intake endpoint.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the subscribe routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/subscribe", h.Subscribe)
}

type subscribeRequest struct {
	Email string `json:"email"`
}

func (h *Handler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid email address.")
		return
	}

	err := h.svc.Subscribe(c.Request.Context(), req.Email)
	switch {
	case err == nil:
		response.Message(c, "Subscribed successfully!")
	case errors.Is(err, ErrInvalidEmail):
		response.BadRequest(c, "Invalid email address.")
	case errors.Is(err, ErrAlreadySubscribed):
		response.BadRequest(c, "You're already subscribed!")
	case errors.Is(err, ErrNotConfigured):
		response.InternalError(c, "Database not configured.")
	default:
		h.logger.Error("subscription failed", zap.Error(err))
		response.InternalError(c, "Subscription failed.")
	}
}
