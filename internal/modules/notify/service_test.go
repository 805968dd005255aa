package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/theunofficial-blog/core/internal/config"
	"github.com/theunofficial-blog/core/internal/pkg/mail"
)

type fakeSubscribers struct {
	emails []string
	err    error
	calls  int
}

func (f *fakeSubscribers) ActiveEmails(context.Context) ([]string, error) {
	f.calls++
	return f.emails, f.err
}

type fakeSMSUsers struct {
	numbers []string
	err     error
}

func (f *fakeSMSUsers) SMSRecipients(context.Context) ([]string, error) {
	return f.numbers, f.err
}

type fakeMailer struct {
	mu     sync.Mutex
	sent   []string
	failTo map[string]bool
}

func (f *fakeMailer) SendNewArticle(to string, _ mail.NewArticleData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to)
	if f.failTo[to] {
		return errors.New("bounce")
	}
	return nil
}

type fakeTexter struct {
	mu     sync.Mutex
	sent   []string
	failTo map[string]bool
}

func (f *fakeTexter) Send(to, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to)
	if f.failTo[to] {
		return errors.New("undeliverable")
	}
	return nil
}

func testConfig(sms bool) *config.AppConfig {
	cfg := config.Default()
	cfg.BaseURL = "https://theunofficial.blog"
	cfg.Mail.ResendKey = "re_test"
	if sms {
		cfg.SMS = config.SMSConfig{AccountSID: "AC1", AuthToken: "tok", FromNumber: "+15550100"}
	}
	return &cfg
}

func bareConfig() *config.AppConfig {
	cfg := config.Default()
	cfg.Mail = config.MailConfig{}
	return &cfg
}

var validInput = DispatchInput{
	PostTitle:  "On Writing",
	PostSlug:   "on-writing",
	AuthorName: "Sam",
}

func TestArticleLink(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"https://theunofficial.blog/posts/on-writing",
		ArticleLink("https://theunofficial.blog", "on-writing", "email", false))
	assert.Equal(t,
		"https://theunofficial.blog/posts/on-writing",
		ArticleLink("https://theunofficial.blog/", "on-writing", "email", false))
	assert.Equal(t,
		"https://theunofficial.blog/posts/on-writing?utm_source=sms&utm_medium=notification&utm_campaign=new_article",
		ArticleLink("https://theunofficial.blog", "on-writing", "sms", true))
}

func TestDispatchMissingFields(t *testing.T) {
	t.Parallel()

	subs := &fakeSubscribers{}
	svc := NewService(testConfig(false), subs, nil, &fakeMailer{}, nil, zap.NewNop())

	for _, in := range []DispatchInput{
		{},
		{PostTitle: "On Writing"},
		{PostTitle: "On Writing", PostSlug: "on-writing"},
		{PostSlug: "on-writing", AuthorName: "Sam"},
		{PostTitle: "  ", PostSlug: "on-writing", AuthorName: "Sam"},
	} {
		_, err := svc.Dispatch(context.Background(), in)
		assert.ErrorIs(t, err, ErrMissingFields)
	}
	assert.Zero(t, subs.calls, "store never queried on invalid input")
}

func TestDispatchZeroSubscribers(t *testing.T) {
	t.Parallel()

	mailer := &fakeMailer{}
	svc := NewService(testConfig(false), &fakeSubscribers{}, nil, mailer, nil, zap.NewNop())

	result, err := svc.Dispatch(context.Background(), validInput)
	require.NoError(t, err)

	assert.Equal(t, ChannelResult{Successful: 0, Failed: 0, Total: 0}, result.Email)
	assert.Empty(t, mailer.sent)
}

func TestDispatchMailNotConfigured(t *testing.T) {
	t.Parallel()

	mailer := &fakeMailer{}
	subs := &fakeSubscribers{emails: []string{"a@b.co"}}
	svc := NewService(bareConfig(), subs, nil, mailer, nil, zap.NewNop())

	_, err := svc.Dispatch(context.Background(), validInput)
	assert.ErrorIs(t, err, ErrMailNotConfigured)
	assert.Empty(t, mailer.sent, "no sends before precondition failure")
	assert.Zero(t, subs.calls)
}

func TestDispatchSubscriberLoadFailure(t *testing.T) {
	t.Parallel()

	mailer := &fakeMailer{}
	subs := &fakeSubscribers{err: errors.New("dial tcp: connection refused")}
	svc := NewService(testConfig(false), subs, nil, mailer, nil, zap.NewNop())

	_, err := svc.Dispatch(context.Background(), validInput)
	require.Error(t, err)
	assert.Empty(t, mailer.sent, "no sends when subscribers cannot load")
}

func TestDispatchFansOutToAll(t *testing.T) {
	t.Parallel()

	mailer := &fakeMailer{}
	subs := &fakeSubscribers{emails: []string{"a@b.co", "c@d.co", "e@f.co"}}
	svc := NewService(testConfig(false), subs, nil, mailer, nil, zap.NewNop())

	result, err := svc.Dispatch(context.Background(), validInput)
	require.NoError(t, err)

	assert.Equal(t, ChannelResult{Successful: 3, Failed: 0, Total: 3}, result.Email)
	assert.ElementsMatch(t, subs.emails, mailer.sent)
	assert.Nil(t, result.SMS, "sms channel absent when not configured")
}

func TestDispatchPartialFailure(t *testing.T) {
	t.Parallel()

	mailer := &fakeMailer{failTo: map[string]bool{"c@d.co": true}}
	subs := &fakeSubscribers{emails: []string{"a@b.co", "c@d.co", "e@f.co"}}
	svc := NewService(testConfig(false), subs, nil, mailer, nil, zap.NewNop())

	result, err := svc.Dispatch(context.Background(), validInput)
	require.NoError(t, err, "partial failure is not an error")

	assert.Equal(t, ChannelResult{Successful: 2, Failed: 1, Total: 3}, result.Email)
	assert.Len(t, mailer.sent, 3, "every recipient attempted despite failures")
}

func TestDispatchSMSChannel(t *testing.T) {
	t.Parallel()

	mailer := &fakeMailer{}
	texter := &fakeTexter{failTo: map[string]bool{"+15550102": true}}
	subs := &fakeSubscribers{emails: []string{"a@b.co"}}
	smsUsers := &fakeSMSUsers{numbers: []string{"+15550101", "+15550102"}}
	svc := NewService(testConfig(true), subs, smsUsers, mailer, texter, zap.NewNop())

	result, err := svc.Dispatch(context.Background(), validInput)
	require.NoError(t, err)

	require.NotNil(t, result.SMS)
	assert.Equal(t, ChannelResult{Successful: 1, Failed: 1, Total: 2}, *result.SMS)
	assert.Equal(t, ChannelResult{Successful: 1, Failed: 0, Total: 1}, result.Email)
}

func TestDispatchSMSLoadFailureKeepsEmailResult(t *testing.T) {
	t.Parallel()

	mailer := &fakeMailer{}
	subs := &fakeSubscribers{emails: []string{"a@b.co"}}
	smsUsers := &fakeSMSUsers{err: errors.New("table missing")}
	svc := NewService(testConfig(true), subs, smsUsers, mailer, &fakeTexter{}, zap.NewNop())

	result, err := svc.Dispatch(context.Background(), validInput)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Email.Successful)
	assert.Nil(t, result.SMS)
}

func TestDispatchTwiceSendsTwice(t *testing.T) {
	t.Parallel()

	mailer := &fakeMailer{}
	subs := &fakeSubscribers{emails: []string{"a@b.co"}}
	svc := NewService(testConfig(false), subs, nil, mailer, nil, zap.NewNop())

	_, err := svc.Dispatch(context.Background(), validInput)
	require.NoError(t, err)
	_, err = svc.Dispatch(context.Background(), validInput)
	require.NoError(t, err)

	assert.Len(t, mailer.sent, 2, "no delivery ledger across calls")
}

func newDispatchRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(svc, zap.NewNop())
	h.RegisterRoutes(r.Group("/api/v2"))
	return r
}

func postDispatch(t *testing.T, r *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v2/notifications/dispatch", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDispatchEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("success with tallies", func(t *testing.T) {
		t.Parallel()
		mailer := &fakeMailer{failTo: map[string]bool{"c@d.co": true}}
		subs := &fakeSubscribers{emails: []string{"a@b.co", "c@d.co"}}
		svc := NewService(testConfig(false), subs, nil, mailer, nil, zap.NewNop())

		w := postDispatch(t, newDispatchRouter(svc), validInput)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{
			"message": "Notifications sent",
			"email": {"successful": 1, "failed": 1, "total": 2}
		}`, w.Body.String())
	})

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()
		svc := NewService(testConfig(false), &fakeSubscribers{}, nil, &fakeMailer{}, nil, zap.NewNop())

		w := postDispatch(t, newDispatchRouter(svc), gin.H{"postTitle": "On Writing"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error": "Missing required fields"}`, w.Body.String())
	})

	t.Run("mail not configured", func(t *testing.T) {
		t.Parallel()
		svc := NewService(bareConfig(), &fakeSubscribers{}, nil, &fakeMailer{}, nil, zap.NewNop())

		w := postDispatch(t, newDispatchRouter(svc), validInput)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error": "Email service not configured"}`, w.Body.String())
	})

	t.Run("subscriber load failure", func(t *testing.T) {
		t.Parallel()
		subs := &fakeSubscribers{err: errors.New("bad connection")}
		svc := NewService(testConfig(false), subs, nil, &fakeMailer{}, nil, zap.NewNop())

		w := postDispatch(t, newDispatchRouter(svc), validInput)

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Contains(t, body["error"], "Failed to send notifications:")
		assert.Contains(t, body["error"], "bad connection")
	})
}
