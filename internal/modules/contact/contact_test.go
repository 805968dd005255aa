package contact

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/theunofficial-blog/core/internal/config"
	"github.com/theunofficial-blog/core/internal/pkg/mail"
)

type fakeSender struct {
	to   string
	data mail.ContributorInquiryData
	err  error
}

func (f *fakeSender) SendContributorInquiry(to string, data mail.ContributorInquiryData) error {
	f.to = to
	f.data = data
	return f.err
}

func newRouter(sender Sender, to string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(sender, config.ContactConfig{To: to}, zap.NewNop())
	h.RegisterRoutes(r.Group("/api/v2"))
	return r
}

func postContact(t *testing.T, r *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v2/contact", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmit(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	w := postContact(t, newRouter(sender, "editors@theunofficial.blog"), gin.H{
		"name":  "Jordan",
		"email": "jordan@example.com",
		"pitch": "I want to write about <stadiums>.\nSecond line.",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success": true}`, w.Body.String())
	assert.Equal(t, "editors@theunofficial.blog", sender.to)
	assert.Equal(t, "Jordan", sender.data.Name)
	assert.Contains(t, string(sender.data.PitchHTML), "&lt;stadiums&gt;", "pitch is escaped")
	assert.Contains(t, string(sender.data.PitchHTML), "<br/>", "newlines become breaks")
}

func TestSubmitMissingFields(t *testing.T) {
	t.Parallel()

	for _, body := range []gin.H{
		{},
		{"name": "Jordan"},
		{"name": "Jordan", "email": "jordan@example.com"},
		{"name": "  ", "email": "jordan@example.com", "pitch": "x"},
	} {
		w := postContact(t, newRouter(&fakeSender{}, "editors@theunofficial.blog"), body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error": "All fields are required"}`, w.Body.String())
	}
}

func TestSubmitInvalidEmail(t *testing.T) {
	t.Parallel()

	w := postContact(t, newRouter(&fakeSender{}, "editors@theunofficial.blog"), gin.H{
		"name": "Jordan", "email": "not-an-email", "pitch": "x",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error": "Invalid email address."}`, w.Body.String())
}

func TestSubmitNoDestination(t *testing.T) {
	t.Parallel()

	w := postContact(t, newRouter(&fakeSender{}, ""), gin.H{
		"name": "Jordan", "email": "jordan@example.com", "pitch": "x",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error": "Email service not configured"}`, w.Body.String())
}

func TestSubmitSendFailure(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{err: errors.New("smtp down")}
	w := postContact(t, newRouter(sender, "editors@theunofficial.blog"), gin.H{
		"name": "Jordan", "email": "jordan@example.com", "pitch": "x",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error": "Failed to send message"}`, w.Body.String())
}
