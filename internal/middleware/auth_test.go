package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theunofficial-blog/core/internal/pkg/jwt"
)

func signedToken(t *testing.T, signer *jwt.Signer, userID, role string) string {
	t.Helper()
	token, err := signer.Sign(userID, role, time.Hour)
	require.NoError(t, err)
	return token
}

func echoIdentity(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(CtxUserID), "role": c.GetString(CtxRole)})
}

func get(r *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	signer := jwt.New("s3cret")
	r := gin.New()
	r.GET("/private", Auth(signer), echoIdentity)

	t.Run("valid token", func(t *testing.T) {
		t.Parallel()
		w := get(r, "/private", signedToken(t, signer, "user-1", "writer"))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id": "user-1", "role": "writer"}`, w.Body.String())
	})

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()
		w := get(r, "/private", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		t.Parallel()
		w := get(r, "/private", "not.a.token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()
		w := get(r, "/private", signedToken(t, jwt.New("other"), "user-1", "writer"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	signer := jwt.New("s3cret")
	r := gin.New()
	r.GET("/posts/my-draft", OptionalAuth(signer), echoIdentity)

	t.Run("valid token resolves identity", func(t *testing.T) {
		t.Parallel()
		w := get(r, "/posts/my-draft", signedToken(t, signer, "writer-1", "writer"))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id": "writer-1", "role": "writer"}`, w.Body.String())
	})

	t.Run("anonymous proceeds without identity", func(t *testing.T) {
		t.Parallel()
		w := get(r, "/posts/my-draft", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id": "", "role": ""}`, w.Body.String())
	})

	t.Run("bad token proceeds without identity", func(t *testing.T) {
		t.Parallel()
		w := get(r, "/posts/my-draft", "not.a.token")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id": "", "role": ""}`, w.Body.String())
	})
}
