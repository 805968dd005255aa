package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/theunofficial-blog/core/internal/middleware"
	"github.com/theunofficial-blog/core/internal/modules/auth"
	"github.com/theunofficial-blog/core/internal/modules/contact"
	"github.com/theunofficial-blog/core/internal/modules/content/post"
	"github.com/theunofficial-blog/core/internal/modules/excerpt"
	"github.com/theunofficial-blog/core/internal/modules/feed"
	"github.com/theunofficial-blog/core/internal/modules/notify"
	"github.com/theunofficial-blog/core/internal/modules/subscribe"
	"github.com/theunofficial-blog/core/internal/pkg/jwt"
	"github.com/theunofficial-blog/core/internal/pkg/mail"
	"github.com/theunofficial-blog/core/internal/pkg/response"
	"github.com/theunofficial-blog/core/internal/pkg/sms"
)

func (a *App) registerRoutes() error {
	signer := jwt.New(a.cfg.JWTSecret)
	authMW := middleware.Auth(signer)
	optionalAuthMW := middleware.OptionalAuth(signer)

	mailer := mail.New(a.cfg.Mail)
	texter := sms.New(a.cfg.SMS)

	subStore := subscribe.NewStore(a.db)
	subSvc := subscribe.NewService(subStore, a.logger)
	notifySvc := notify.NewService(a.cfg, subSvc, notify.NewSMSRecipientStore(a.db), mailer, texter, a.logger)
	postSvc := post.NewService(a.db, notifySvc, a.logger)
	authSvc := auth.NewService(a.db, signer, a.logger)
	excerptSvc := excerpt.NewService(a.cfg.AI, a.logger)

	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := authSvc.EnsureOwner(seedCtx, a.cfg.Owner.Email, a.cfg.Owner.Password, a.cfg.Owner.Name); err != nil {
		a.logger.Warn("owner seeding failed", zap.Error(err))
	}

	api := a.router.Group("/api/v2")
	api.GET("/ping", pingHandler)

	subscribe.NewHandler(subSvc, a.logger).RegisterRoutes(api)
	contact.NewHandler(mailer, a.cfg.Contact, a.logger).RegisterRoutes(api)
	auth.NewHandler(authSvc, a.logger).RegisterRoutes(api, authMW)
	post.NewHandler(postSvc, a.logger).RegisterRoutes(api, authMW, optionalAuthMW, middleware.OwnerOnly())

	authed := api.Group("", authMW)
	notify.NewHandler(notifySvc, a.logger).RegisterRoutes(authed)
	excerpt.NewHandler(excerptSvc, a.logger).RegisterRoutes(authed)

	feed.NewHandler(postSvc, a.cfg, a.logger).RegisterRoutes(a.router)

	a.router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Not found")
	})
	a.router.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	return nil
}

func pingHandler(c *gin.Context) {
	response.OK(c, gin.H{"data": "pong"})
}
