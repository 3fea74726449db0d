package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfextractor/internal/common"
)

// ProviderType represents the summarization backend
type ProviderType string

const (
	// ProviderOllama uses a local or remote Ollama server
	ProviderOllama ProviderType = common.LLMProviderOllama
	// ProviderOpenRouter uses OpenRouter's Anthropic-compatible API
	ProviderOpenRouter ProviderType = common.LLMProviderOpenRouter
)

// OpenRouterHost is the endpoint reported in status output
const OpenRouterHost = "https://openrouter.ai/api/v1"

// ParseProviderType normalizes a configured provider name
func ParseProviderType(name string) (ProviderType, error) {
	switch p := ProviderType(strings.ToLower(strings.TrimSpace(name))); p {
	case ProviderOllama, ProviderOpenRouter:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported LLM provider %q: supported providers are ollama, openrouter", name)
	}
}

// ContentRequest is a provider-agnostic single-turn request
type ContentRequest struct {
	SystemInstruction string
	Prompt            string
	MaxTokens         int
}

// Provider generates text for a request
type Provider interface {
	GenerateContent(ctx context.Context, request *ContentRequest) (string, error)
	GetProviderType() ProviderType
	Model() string
	Host() string
}

// NewProvider builds the provider named in the config. It does not contact
// the backend.
func NewProvider(cfg *common.LLMConfig, logger arbor.ILogger) (Provider, error) {
	providerType, err := ParseProviderType(cfg.Provider)
	if err != nil {
		return nil, err
	}

	switch providerType {
	case ProviderOllama:
		return NewOllamaProvider(&cfg.Ollama, logger)
	case ProviderOpenRouter:
		return NewOpenRouterProvider(&cfg.OpenRouter, logger)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
