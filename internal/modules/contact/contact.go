package contact

import (
	"html"
	"html/template"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/theunofficial-blog/core/internal/config"
	"github.com/theunofficial-blog/core/internal/modules/subscribe"
	"github.com/theunofficial-blog/core/internal/pkg/mail"
	"github.com/theunofficial-blog/core/internal/pkg/response"
)

// Sender relays one contributor inquiry.
type Sender interface {
	SendContributorInquiry(to string, data mail.ContributorInquiryData) error
}

// Handler relays contributor inquiries to the site owner's inbox.
type Handler struct {
	sender Sender
	cfg    config.ContactConfig
	logger *zap.Logger
}

func NewHandler(sender Sender, cfg config.ContactConfig, logger *zap.Logger) *Handler {
	return &Handler{sender: sender, cfg: cfg, logger: logger}
}

// RegisterRoutes mounts the contact route.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/contact", h.Submit)
}

type contactRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Pitch string `json:"pitch"`
}

func (h *Handler) Submit(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "All fields are required")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Pitch = strings.TrimSpace(req.Pitch)
	if req.Name == "" || req.Pitch == "" || strings.TrimSpace(req.Email) == "" {
		response.BadRequest(c, "All fields are required")
		return
	}
	if !subscribe.ValidEmail(req.Email) {
		response.BadRequest(c, "Invalid email address.")
		return
	}
	if h.sender == nil || strings.TrimSpace(h.cfg.To) == "" {
		response.InternalError(c, "Email service not configured")
		return
	}

	pitch := strings.ReplaceAll(html.EscapeString(req.Pitch), "\n", "<br/>")
	err := h.sender.SendContributorInquiry(h.cfg.To, mail.ContributorInquiryData{
		Name:      req.Name,
		Email:     strings.TrimSpace(req.Email),
		PitchHTML: template.HTML(pitch),
	})
	if err != nil {
		h.logger.Error("contact relay failed", zap.Error(err))
		response.InternalError(c, "Failed to send message")
		return
	}

	response.OK(c, gin.H{"success": true})
}
