package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/theunofficial-blog/core/internal/middleware"
	"github.com/theunofficial-blog/core/internal/models"
	"github.com/theunofficial-blog/core/internal/pkg/response"
)

// Handler exposes login and account settings routes.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes mounts auth routes. Profile routes sit behind the auth
// middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	rg.POST("/auth/login", h.Login)
	rg.GET("/user", auth, h.Profile)
	rg.PATCH("/user/preferences", auth, h.UpdatePreferences)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func userBody(u *models.UserModel) gin.H {
	return gin.H{
		"id":                  u.ID,
		"email":               u.Email,
		"name":                u.Name,
		"role":                u.Role,
		"email_notifications": u.EmailNotifications,
		"sms_notifications":   u.SMSNotifications,
		"phone_number":        u.PhoneNumber,
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Email and password are required")
		return
	}

	token, user, err := h.svc.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	switch {
	case err == nil:
		response.OK(c, gin.H{"token": token, "user": userBody(user)})
	case errors.Is(err, ErrInvalidCredentials):
		response.Unauthorized(c, "Invalid email or password")
	default:
		h.logger.Error("login failed", zap.Error(err))
		response.InternalError(c, "Login failed")
	}
}

func (h *Handler) Profile(c *gin.Context) {
	user, err := h.svc.GetUser(c.Request.Context(), middleware.UserID(c))
	switch {
	case err == nil:
		response.OK(c, userBody(user))
	case errors.Is(err, ErrUserNotFound):
		response.NotFound(c, "User not found")
	default:
		h.logger.Error("load profile", zap.Error(err))
		response.InternalError(c, "Failed to load profile")
	}
}

func (h *Handler) UpdatePreferences(c *gin.Context) {
	var patch PreferencesPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.svc.UpdatePreferences(c.Request.Context(), middleware.UserID(c), patch)
	switch {
	case err == nil:
		response.OK(c, userBody(user))
	case errors.Is(err, ErrUserNotFound):
		response.NotFound(c, "User not found")
	default:
		h.logger.Error("update preferences", zap.Error(err))
		response.InternalError(c, "Failed to update preferences")
	}
}
