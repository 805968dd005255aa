package excerpt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/theunofficial-blog/core/internal/config"
)

func TestTruncateText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", truncateText("short", 10))
	assert.Equal(t, "abc...", truncateText("abcdef", 3))

	long := strings.Repeat("x", maxContentChars+100)
	truncated := truncateText(long, maxContentChars)
	assert.Len(t, truncated, maxContentChars+3)
	assert.True(t, strings.HasSuffix(truncated, "..."))
}

func TestNormalizeOpenAICompatibleEndpoint(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://api.openai.com", normalizeOpenAICompatibleEndpoint(""))
	assert.Equal(t, "https://llm.internal", normalizeOpenAICompatibleEndpoint("https://llm.internal/v1/"))
	assert.Equal(t, "https://llm.internal", normalizeOpenAICompatibleEndpoint("https://llm.internal"))
}

func TestNormalizeOpenAIBaseURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", normalizeOpenAIBaseURL(""))
	assert.Equal(t, "https://llm.internal/v1", normalizeOpenAIBaseURL("https://llm.internal"))
	assert.Equal(t, "https://llm.internal/v1", normalizeOpenAIBaseURL("https://llm.internal/v1/"))
}

func TestGenerateValidation(t *testing.T) {
	t.Parallel()

	svc := NewService(config.AIConfig{}, zap.NewNop())

	_, err := svc.Generate("", "content")
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = svc.Generate("title", "  ")
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = svc.Generate("title", "content")
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestProviderSelection(t *testing.T) {
	t.Parallel()

	svc := NewService(config.AIConfig{Providers: []config.AIProvider{
		{ID: "off", Enabled: false},
		{ID: "on", Enabled: true},
	}}, zap.NewNop())

	p := svc.provider()
	assert.NotNil(t, p)
	assert.Equal(t, "on", p.ID)
}
