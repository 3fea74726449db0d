package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfextractor/internal/common"
)

// openRouterBaseURL is OpenRouter's Anthropic-compatible root; the SDK appends v1/messages
const openRouterBaseURL = "https://openrouter.ai/api/"

const defaultMaxTokens = 1024

// OpenRouterProvider implements Provider using the Anthropic SDK pointed at OpenRouter
type OpenRouterProvider struct {
	client anthropic.Client
	model  string
	logger arbor.ILogger
}

// NewOpenRouterProvider creates an OpenRouter provider. An API key is required.
func NewOpenRouterProvider(cfg *common.OpenRouterConfig, logger arbor.ILogger) (*OpenRouterProvider, error) {
	return newOpenRouterProvider(cfg, openRouterBaseURL, logger)
}

func newOpenRouterProvider(cfg *common.OpenRouterConfig, baseURL string, logger arbor.ILogger) (*OpenRouterProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("OpenRouter API key is required (set OPENROUTER_API_KEY or llm.openrouter.api_key)")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("OpenRouter model is required")
	}

	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithHeader("Authorization", "Bearer "+cfg.APIKey),
		// bearer only; the SDK would otherwise add x-api-key from ANTHROPIC_API_KEY
		option.WithHeaderDel("X-Api-Key"),
		option.WithMaxRetries(0),
	}
	if cfg.SiteURL != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", cfg.SiteURL))
	}
	if cfg.SiteName != "" {
		opts = append(opts, option.WithHeader("X-Title", cfg.SiteName))
	}

	logger.Debug().
		Str("model", cfg.Model).
		Str("base_url", baseURL).
		Msg("OpenRouter provider initialized")

	return &OpenRouterProvider{
		client: anthropic.NewClient(opts...),
		model:  cfg.Model,
		logger: logger,
	}, nil
}

func (p *OpenRouterProvider) GenerateContent(ctx context.Context, request *ContentRequest) (string, error) {
	maxTokens := request.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(request.Prompt)),
		},
	}
	if request.SystemInstruction != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: request.SystemInstruction},
		}
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("OpenRouter API call failed: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}

func (p *OpenRouterProvider) GetProviderType() ProviderType { return ProviderOpenRouter }
func (p *OpenRouterProvider) Model() string                 { return p.model }
func (p *OpenRouterProvider) Host() string                  { return OpenRouterHost }
