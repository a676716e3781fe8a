package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// HuggingFaceBaseURL is the inference router's OpenAI-style endpoint
const HuggingFaceBaseURL = "https://router.huggingface.co/v1"

// HuggingFaceProvider calls the Hugging Face inference router. The router
// fronts many backends whose payloads differ, so the reply is decoded
// loosely and flattened with Normalize.
type HuggingFaceProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	config     Config
}

type hfRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream"`
}

// NewHuggingFaceProvider creates a new Hugging Face provider
func NewHuggingFaceProvider(config Config) (*HuggingFaceProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Hugging Face token is required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = HuggingFaceBaseURL
	}

	return &HuggingFaceProvider{
		apiKey:     config.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: newHTTPClient(config),
		config:     config,
	}, nil
}

// Name returns the provider name
func (p *HuggingFaceProvider) Name() string {
	return "huggingface"
}

// Complete runs a chat completion through the router
func (p *HuggingFaceProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	req = p.config.resolve(req, "deepseek-ai/DeepSeek-V3")

	apiReq := hfRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}

	var resp any
	if err := postJSON(ctx, p.httpClient, "huggingface", p.baseURL+"/chat/completions", headers, apiReq, &resp); err != nil {
		return "", err
	}

	text := strings.TrimSpace(Normalize(resp))
	if text == "" {
		return "", fmt.Errorf("empty response from Hugging Face")
	}
	return text, nil
}
