package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/theunofficial-blog/core/internal/config"
	"github.com/theunofficial-blog/core/internal/pkg/mail"
)

var (
	// ErrMissingFields means the dispatch input lacks a required field.
	ErrMissingFields = errors.New("missing required fields")
	// ErrMailNotConfigured means no email transport is available.
	ErrMailNotConfigured = errors.New("email service not configured")
	// ErrNoDatabase means the subscriber store is unreachable.
	ErrNoDatabase = errors.New("database not configured")
)

// SubscriberSource lists active email subscribers.
type SubscriberSource interface {
	ActiveEmails(ctx context.Context) ([]string, error)
}

// SMSRecipientSource lists phone numbers of users who opted into texts.
type SMSRecipientSource interface {
	SMSRecipients(ctx context.Context) ([]string, error)
}

// MailSender sends one new-article email.
type MailSender interface {
	SendNewArticle(to string, data mail.NewArticleData) error
}

// SMSSender sends one text message.
type SMSSender interface {
	Send(to, body string) error
}

// DispatchInput describes the article to announce.
type DispatchInput struct {
	PostTitle  string `json:"postTitle"`
	PostSlug   string `json:"postSlug"`
	AuthorName string `json:"authorName"`
}

// ChannelResult tallies one channel's fan-out.
type ChannelResult struct {
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	Total      int `json:"total"`
}

// DispatchResult aggregates per-channel tallies. SMS is nil when the
// channel is not configured.
type DispatchResult struct {
	Email ChannelResult  `json:"email"`
	SMS   *ChannelResult `json:"sms,omitempty"`
}

// Service fans out new-article notifications to subscribers.
type Service struct {
	subscribers SubscriberSource
	smsUsers    SMSRecipientSource
	mailer      MailSender
	texter      SMSSender

	mailConfigured bool
	smsConfigured  bool
	baseURL        string
	siteName       string
	trackLinks     bool

	logger *zap.Logger
}

func NewService(cfg *config.AppConfig, subscribers SubscriberSource, smsUsers SMSRecipientSource, mailer MailSender, texter SMSSender, logger *zap.Logger) *Service {
	return &Service{
		subscribers:    subscribers,
		smsUsers:       smsUsers,
		mailer:         mailer,
		texter:         texter,
		mailConfigured: cfg.MailConfigured(),
		smsConfigured:  cfg.SMSConfigured(),
		baseURL:        cfg.BaseURL,
		siteName:       cfg.SiteName,
		trackLinks:     cfg.TrackLinks,
		logger:         logger,
	}
}

// ArticleLink builds the public URL for a post, with campaign parameters
// when link tracking is on.
func ArticleLink(baseURL, slug, channel string, track bool) string {
	link := strings.TrimRight(baseURL, "/") + "/posts/" + slug
	if track {
		link += "?utm_source=" + channel + "&utm_medium=notification&utm_campaign=new_article"
	}
	return link
}

func (in DispatchInput) validate() error {
	if strings.TrimSpace(in.PostTitle) == "" ||
		strings.TrimSpace(in.PostSlug) == "" ||
		strings.TrimSpace(in.AuthorName) == "" {
		return ErrMissingFields
	}
	return nil
}

// Dispatch notifies every active subscriber about a new article. Sends run
// concurrently; one recipient's failure never blocks the rest. The tally
// reflects exactly one outcome per recipient. Calling Dispatch twice sends
// twice: there is no delivery ledger.
func (s *Service) Dispatch(ctx context.Context, in DispatchInput) (*DispatchResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if !s.mailConfigured || s.mailer == nil {
		return nil, ErrMailNotConfigured
	}
	if s.subscribers == nil {
		return nil, ErrNoDatabase
	}

	emails, err := s.subscribers.ActiveEmails(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading subscribers: %w", err)
	}

	result := &DispatchResult{}
	result.Email = s.fanOutEmail(in, emails)

	if s.smsConfigured && s.texter != nil && s.smsUsers != nil {
		numbers, err := s.smsUsers.SMSRecipients(ctx)
		if err != nil {
			s.logger.Error("loading sms recipients", zap.Error(err))
		} else {
			tally := s.fanOutSMS(in, numbers)
			result.SMS = &tally
		}
	}

	s.logger.Info("dispatch complete",
		zap.String("slug", in.PostSlug),
		zap.Int("email_successful", result.Email.Successful),
		zap.Int("email_failed", result.Email.Failed),
	)
	return result, nil
}

func (s *Service) fanOutEmail(in DispatchInput, recipients []string) ChannelResult {
	data := mail.NewArticleData{
		Title:       in.PostTitle,
		AuthorName:  in.AuthorName,
		SiteName:    s.siteName,
		ArticleURL:  ArticleLink(s.baseURL, in.PostSlug, "email", s.trackLinks),
		SettingsURL: strings.TrimRight(s.baseURL, "/") + "/settings",
	}

	errs := make([]error, len(recipients))
	var wg sync.WaitGroup
	for i, to := range recipients {
		wg.Add(1)
		go func(i int, to string) {
			defer wg.Done()
			errs[i] = s.mailer.SendNewArticle(to, data)
		}(i, to)
	}
	wg.Wait()

	return tally(recipients, errs, s.logger, "email")
}

func (s *Service) fanOutSMS(in DispatchInput, recipients []string) ChannelResult {
	link := ArticleLink(s.baseURL, in.PostSlug, "sms", s.trackLinks)
	body := fmt.Sprintf("📰 New article published on %s: %q by %s. Read now: %s",
		s.siteName, in.PostTitle, in.AuthorName, link)

	errs := make([]error, len(recipients))
	var wg sync.WaitGroup
	for i, to := range recipients {
		wg.Add(1)
		go func(i int, to string) {
			defer wg.Done()
			errs[i] = s.texter.Send(to, body)
		}(i, to)
	}
	wg.Wait()

	return tally(recipients, errs, s.logger, "sms")
}

func tally(recipients []string, errs []error, logger *zap.Logger, channel string) ChannelResult {
	res := ChannelResult{Total: len(recipients)}
	for i, err := range errs {
		if err != nil {
			res.Failed++
			logger.Warn("notification send failed",
				zap.String("channel", channel),
				zap.String("recipient", recipients[i]),
				zap.Error(err),
			)
			continue
		}
		res.Successful++
	}
	return res
}
