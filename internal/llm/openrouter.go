package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

	// onlineSuffix enables OpenRouter's web search plugin for a model.
	onlineSuffix = ":online"
)

// OpenRouterProvider talks to OpenRouter's OpenAI-compatible API. Search
// grounding is served by the same model with the web plugin enabled.
type OpenRouterProvider struct {
	*OpenAIProvider
	online *OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.BaseURL
	if config.BaseURL == "" {
		config.BaseURL = defaultOpenRouterBaseURL
	}
	config.HTTPClient = attributionClient{next: http.DefaultClient}

	model := strings.TrimSuffix(cfg.Model, onlineSuffix)
	return &OpenRouterProvider{
		OpenAIProvider: newOpenAIProvider(config, model),
		online:         newOpenAIProvider(config, model+onlineSuffix),
	}, nil
}

func (p *OpenRouterProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if !req.SearchGrounding {
		return p.OpenAIProvider.Generate(ctx, req)
	}
	if req.Schema != nil {
		return nil, fmt.Errorf("search grounding cannot be combined with a response schema")
	}

	req.SearchGrounding = false
	resp, err := p.online.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	// Grounded answers are prose, carried as a JSON string like Gemini's.
	b, _ := json.Marshal(string(resp.Content))
	resp.Content = b
	return resp, nil
}

// attributionClient identifies the app to OpenRouter on every request.
type attributionClient struct {
	next *http.Client
}

func (c attributionClient) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("HTTP-Referer", "https://github.com/abhisek/eduspark")
	req.Header.Set("X-Title", "EduSpark")
	return c.next.Do(req)
}
