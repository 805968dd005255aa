package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "jwt_secret: s3cret\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3300, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "http://localhost:3000", cfg.BaseURL)
	assert.Equal(t, "The UnOfficial", cfg.SiteName)
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.MailConfigured())
	assert.False(t, cfg.SMSConfigured())
}

func TestLoadFull(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
port: 8080
env: production
base_url: https://theunofficial.blog/
site_name: The UnOfficial
jwt_secret: s3cret
allowed_origins:
  - theunofficial.blog
  - "*.theunofficial.blog"
database:
  host: db.internal
  port: 3306
  user: blog
  password: hunter2
  name: unofficial
mail:
  resend_key: re_123
  from: "The UnOfficial <notifications@theunofficial.blog>"
sms:
  account_sid: AC123
  auth_token: tok
  from_number: "+15550100"
contact:
  to: editors@theunofficial.blog
track_links: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "https://theunofficial.blog", cfg.BaseURL, "trailing slash stripped")
	assert.True(t, cfg.MailConfigured())
	assert.True(t, cfg.SMSConfigured())
	assert.True(t, cfg.TrackLinks)
	assert.Equal(t, []string{"theunofficial.blog", "*.theunofficial.blog"}, cfg.AllowedOrigins)
	assert.Equal(t, cfg.Mail.From, cfg.Contact.From, "contact from falls back to mail from")
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "prot: 8080\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "port: 99999\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestDSNValue(t *testing.T) {
	t.Parallel()

	t.Run("verbatim", func(t *testing.T) {
		t.Parallel()
		d := DatabaseConfig{DSN: "user:pass@tcp(host:3306)/db"}
		assert.Equal(t, "user:pass@tcp(host:3306)/db", d.DSNValue())
	})

	t.Run("built from parts", func(t *testing.T) {
		t.Parallel()
		d := DatabaseConfig{Host: "db.internal", Port: 3307, User: "blog", Password: "pw", Name: "unofficial"}
		dsn := d.DSNValue()
		assert.Contains(t, dsn, "blog:pw@tcp(db.internal:3307)/unofficial?")
		assert.Contains(t, dsn, "charset=utf8mb4")
		assert.Contains(t, dsn, "parseTime=true")
	})
}

func TestActiveAIProvider(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Nil(t, cfg.ActiveAIProvider())

	cfg.AI.Providers = []AIProvider{
		{ID: "disabled", Enabled: false},
		{ID: "first", Enabled: true},
		{ID: "second", Enabled: true},
	}
	provider := cfg.ActiveAIProvider()
	require.NotNil(t, provider)
	assert.Equal(t, "first", provider.ID)
}
