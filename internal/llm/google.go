package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// GoogleProvider calls Gemini through the Gemini Developer API.
type GoogleProvider struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGoogleProvider constructs a Gemini provider.
func NewGoogleProvider(ctx context.Context, cfg Config, httpClient *http.Client) (*GoogleProvider, error) {
	model, apiKey, err := requireModelAndKey(cfg, ProviderGoogle)
	if err != nil {
		return nil, err
	}

	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: resolveHTTPClient(cfg, httpClient),
	}
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GoogleProvider{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
	}, nil
}

// Name implements Provider.
func (p *GoogleProvider) Name() string {
	return ProviderGoogle
}

// Complete implements Provider.
func (p *GoogleProvider) Complete(ctx context.Context, req Request) (Response, error) {
	gcc := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(p.temperature),
	}
	if strings.TrimSpace(req.Instructions) != "" {
		gcc.SystemInstruction = genai.NewContentFromText(req.Instructions, genai.RoleUser)
	}
	if len(req.Schema) > 0 {
		gcc.ResponseMIMEType = "application/json"
		gcc.ResponseJsonSchema = req.Schema
	}

	res, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(req.Input), gcc)
	if err != nil {
		return Response{}, fmt.Errorf("gemini generate content: %w", err)
	}

	out := Response{Text: strings.TrimSpace(res.Text())}
	if out.Text == "" {
		return Response{}, fmt.Errorf("gemini response did not contain output text")
	}
	if res.UsageMetadata != nil {
		out.PromptTokens = int(res.UsageMetadata.PromptTokenCount)
		out.CompletionTokens = int(res.UsageMetadata.CandidatesTokenCount)
	}
	log.Debug().
		Str("provider", ProviderGoogle).
		Str("task", req.Task).
		Int("prompt_tokens", out.PromptTokens).
		Int("completion_tokens", out.CompletionTokens).
		Msg("completion finished")
	return out, nil
}
