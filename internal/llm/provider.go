// Package llm provides model provider clients for structured completions.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Provider completes a single request against a model.
type Provider interface {
	Complete(ctx context.Context, req Request) (Response, error)
	Name() string
}

// New constructs the provider selected by cfg.Provider. httpClient may be nil.
func New(ctx context.Context, cfg Config, httpClient *http.Client) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderGoogle:
		return NewGoogleProvider(ctx, cfg, httpClient)
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg, httpClient)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func resolveHTTPClient(cfg Config, httpClient *http.Client) *http.Client {
	if httpClient != nil {
		return httpClient
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

func requireModelAndKey(cfg Config, provider string) (model, apiKey string, err error) {
	model = strings.TrimSpace(cfg.Model)
	if model == "" {
		return "", "", fmt.Errorf("%s model is required", provider)
	}
	apiKey = strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return "", "", fmt.Errorf("%s api key is required", provider)
	}
	return model, apiKey, nil
}
