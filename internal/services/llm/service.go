package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfextractor/internal/common"
	"github.com/ternarybob/pdfextractor/internal/interfaces"
	"github.com/ternarybob/pdfextractor/internal/models"
	"golang.org/x/time/rate"
)

const systemPrompt = `You are a helpful assistant that creates concise summaries of documents.
Your task is to summarize the provided document content clearly and accurately.
Focus on the main points, key information, and important details.
Keep the summary informative but concise.`

const userPromptTemplate = `Please summarize the following document content in approximately %d words or less:

---
%s
---

Provide a clear, structured summary that captures the essential information.`

// Service summarizes document text through the configured provider.
// A provider that cannot be built leaves the service unavailable; Summarize
// then reports no summary instead of failing.
type Service struct {
	mu            sync.RWMutex
	provider      Provider
	providerName  string
	model         string
	host          string
	maxInputChars int
	summaryWords  int
	limiter       *rate.Limiter
	logger        arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.Summarizer = (*Service)(nil)

// NewService creates the summarizer and builds its provider
func NewService(cfg *common.LLMConfig, logger arbor.ILogger) *Service {
	s := &Service{logger: logger}
	s.Rebuild(cfg)
	return s
}

// Rebuild replaces the provider and limits from a new config
func (s *Service) Rebuild(cfg *common.LLMConfig) {
	provider, err := NewProvider(cfg, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.provider = provider
	s.providerName = strings.ToLower(cfg.Provider)
	s.maxInputChars = cfg.MaxInputChars
	s.summaryWords = cfg.SummaryWords
	s.limiter = newLimiter(cfg.RateLimit)

	switch ProviderType(s.providerName) {
	case ProviderOpenRouter:
		s.model = cfg.OpenRouter.Model
		s.host = OpenRouterHost
	default:
		s.model = cfg.Ollama.Model
		s.host = cfg.Ollama.Host
	}

	if err != nil {
		s.logger.Warn().Err(err).Str("provider", cfg.Provider).Msg("LLM service not available")
		return
	}

	s.logger.Info().
		Str("provider", string(provider.GetProviderType())).
		Str("model", provider.Model()).
		Str("host", provider.Host()).
		Msg("LLM service initialized")
}

// newLimiter spaces calls by the configured interval; empty or zero means unlimited
func newLimiter(interval string) *rate.Limiter {
	d, err := time.ParseDuration(interval)
	if err != nil || d <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(d), 1)
}

// Summarize returns a summary of text. Empty input, an unavailable provider,
// a timeout or any backend error all yield ("", false).
func (s *Service) Summarize(ctx context.Context, text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		s.logger.Warn().Msg("Empty text provided for summarization")
		return "", false
	}

	s.mu.RLock()
	provider := s.provider
	limiter := s.limiter
	maxChars := s.maxInputChars
	words := s.summaryWords
	s.mu.RUnlock()

	if provider == nil {
		s.logger.Debug().Msg("Summarization skipped, no LLM provider")
		return "", false
	}

	if err := limiter.Wait(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Error generating summary")
		return "", false
	}

	started := time.Now()
	summary, err := provider.GenerateContent(ctx, &ContentRequest{
		SystemInstruction: systemPrompt,
		Prompt:            fmt.Sprintf(userPromptTemplate, words, truncateRunes(text, maxChars)),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("provider", string(provider.GetProviderType())).
			Dur("elapsed", time.Since(started)).
			Msg("Error generating summary")
		return "", false
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		s.logger.Warn().Str("provider", string(provider.GetProviderType())).Msg("LLM returned an empty summary")
		return "", false
	}

	s.logger.Info().
		Int("summary_chars", len(summary)).
		Dur("elapsed", time.Since(started)).
		Msg("Successfully generated summary")
	return summary, true
}

// truncateRunes cuts text to at most max runes; max <= 0 leaves it whole
func truncateRunes(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

func (s *Service) IsAvailable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provider != nil
}

func (s *Service) Status() models.LLMStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.LLMStatus{
		Available: s.provider != nil,
		Provider:  s.providerName,
		Model:     s.model,
		Host:      s.host,
	}
}
