package notify

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/theunofficial-blog/core/internal/pkg/response"
)

// Handler exposes the notification dispatch endpoint.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the dispatch route. The group should carry auth
// middleware: dispatching is a writer action.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/notifications/dispatch", h.Dispatch)
}

func (h *Handler) Dispatch(c *gin.Context) {
	var in DispatchInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Missing required fields")
		return
	}

	result, err := h.svc.Dispatch(c.Request.Context(), in)
	switch {
	case err == nil:
		body := gin.H{
			"message": "Notifications sent",
			"email":   result.Email,
		}
		if result.SMS != nil {
			body["sms"] = result.SMS
		}
		c.JSON(http.StatusOK, body)
	case errors.Is(err, ErrMissingFields):
		response.BadRequest(c, "Missing required fields")
	case errors.Is(err, ErrMailNotConfigured):
		response.InternalError(c, "Email service not configured")
	case errors.Is(err, ErrNoDatabase):
		response.InternalError(c, "Database not configured")
	default:
		h.logger.Error("dispatch failed", zap.Error(err))
		response.InternalError(c, fmt.Sprintf("Failed to send notifications: %s", err.Error()))
	}
}
