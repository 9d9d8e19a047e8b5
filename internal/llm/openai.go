package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider calls an OpenAI-compatible chat completions endpoint.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAIProvider constructs a provider for OpenAI or a compatible server.
func NewOpenAIProvider(cfg Config, httpClient *http.Client) (*OpenAIProvider, error) {
	model, apiKey, err := requireModelAndKey(cfg, ProviderOpenAI)
	if err != nil {
		return nil, err
	}

	oc := openai.DefaultConfig(apiKey)
	oc.BaseURL = defaultOpenAIBaseURL
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		oc.BaseURL = baseURL
	}
	oc.HTTPClient = resolveHTTPClient(cfg, httpClient)

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(oc),
		model:       model,
		temperature: cfg.Temperature,
	}, nil
}

// Name implements Provider.
func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI
}

// Complete implements Provider.
func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (Response, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, 2)
	if strings.TrimSpace(req.Instructions) != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.Instructions,
		})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Input,
	})

	ccr := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    msgs,
		Temperature: p.temperature,
	}
	if len(req.Schema) > 0 {
		ccr.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName(req.Task),
				Schema: rawSchema(req.Schema),
				Strict: true,
			},
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, ccr)
	if err != nil {
		return Response{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Response{}, fmt.Errorf("openai response did not contain choices")
	}

	out := Response{
		Text:             strings.TrimSpace(resp.Choices[0].Message.Content),
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}
	if out.Text == "" {
		return Response{}, fmt.Errorf("openai response did not contain output text")
	}
	log.Debug().
		Str("provider", ProviderOpenAI).
		Str("task", req.Task).
		Int("prompt_tokens", out.PromptTokens).
		Int("completion_tokens", out.CompletionTokens).
		Msg("completion finished")
	return out, nil
}

// rawSchema passes a generic schema map where go-openai expects a json.Marshaler.
type rawSchema map[string]any

func (r rawSchema) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any(r))
}

func schemaName(task string) string {
	if task == "" {
		return "response"
	}
	return task
}
