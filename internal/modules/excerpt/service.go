package excerpt

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/theunofficial-blog/core/internal/config"
)

// The model only ever sees the leading slice of long articles.
const maxContentChars = 3000

var (
	ErrNoProvider   = errors.New("no AI provider configured")
	ErrMissingInput = errors.New("title and content are required")
)

const systemPrompt = "You are a skilled content marketer who writes compelling article excerpts. " +
	"Write a concise 1-2 sentence excerpt that hooks the reader without giving everything away. " +
	"Return only the excerpt text, no quotes or labels."

// Service generates article excerpts with the configured AI provider.
type Service struct {
	cfg    config.AIConfig
	logger *zap.Logger
}

func NewService(cfg config.AIConfig, logger *zap.Logger) *Service {
	return &Service{cfg: cfg, logger: logger}
}

func (s *Service) provider() *config.AIProvider {
	for i := range s.cfg.Providers {
		if s.cfg.Providers[i].Enabled {
			p := s.cfg.Providers[i]
			return &p
		}
	}
	return nil
}

// Generate produces an excerpt for the given article.
func (s *Service) Generate(title, content string) (string, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return "", ErrMissingInput
	}

	provider := s.provider()
	if provider == nil {
		return "", ErrNoProvider
	}

	prompt := fmt.Sprintf("Article title: %s\n\nArticle content:\n%s",
		title, truncateText(content, maxContentChars))

	raw, err := callProvider(provider, systemPrompt, prompt)
	if err != nil {
		return "", err
	}

	excerpt := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `"`))
	if excerpt == "" {
		return "", errors.New("empty response from AI")
	}
	return excerpt, nil
}
