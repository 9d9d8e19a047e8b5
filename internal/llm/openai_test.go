package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIProviderComplete_SendsExpectedPayloadAndParsesOutput(t *testing.T) {
	var gotAuth string
	var gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path

		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read request body: %v", err)
		}
		if err := json.Unmarshal(body, &gotBody); err != nil {
			t.Errorf("unmarshal request body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-4o-mini",
			"choices": [
				{
					"index": 0,
					"message": {"role": "assistant", "content": "{\"answer\":\"42\"}"},
					"finish_reason": "stop"
				}
			],
			"usage": {"prompt_tokens": 11, "completion_tokens": 5, "total_tokens": 16}
		}`))
	}))
	t.Cleanup(srv.Close)

	p, err := NewOpenAIProvider(Config{
		Model:       "gpt-4o-mini",
		APIKey:      "test-api-key",
		BaseURL:     srv.URL,
		Temperature: 0.5,
	}, srv.Client())
	if err != nil {
		t.Fatalf("NewOpenAIProvider returned error: %v", err)
	}

	out, err := p.Complete(context.Background(), Request{
		Task:         "generate_answer",
		Instructions: "Output only JSON.",
		Input:        "question: what?",
		Schema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"answer": map[string]any{"type": "string"}},
		},
	})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if out.Text != `{"answer":"42"}` {
		t.Fatalf("output text = %q, want %q", out.Text, `{"answer":"42"}`)
	}
	if out.PromptTokens != 11 || out.CompletionTokens != 5 {
		t.Fatalf("usage = %d/%d, want 11/5", out.PromptTokens, out.CompletionTokens)
	}

	if gotAuth != "Bearer test-api-key" {
		t.Fatalf("authorization header = %q, want bearer auth", gotAuth)
	}
	if gotPath != "/chat/completions" {
		t.Fatalf("path = %q, want %q", gotPath, "/chat/completions")
	}
	if gotBody["model"] != "gpt-4o-mini" {
		t.Fatalf("model = %v, want %q", gotBody["model"], "gpt-4o-mini")
	}
	msgs, ok := gotBody["messages"].([]any)
	if !ok || len(msgs) != 2 {
		t.Fatalf("messages = %v, want system and user message", gotBody["messages"])
	}
	format, ok := gotBody["response_format"].(map[string]any)
	if !ok || format["type"] != "json_schema" {
		t.Fatalf("response_format = %v, want json_schema", gotBody["response_format"])
	}
	schema, ok := format["json_schema"].(map[string]any)
	if !ok || schema["name"] != "generate_answer" {
		t.Fatalf("json_schema = %v, want name generate_answer", format["json_schema"])
	}
}

func TestOpenAIProviderComplete_ReturnsErrorWhenChoicesMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	}))
	t.Cleanup(srv.Close)

	p, err := NewOpenAIProvider(Config{Model: "gpt-4o-mini", APIKey: "k", BaseURL: srv.URL}, srv.Client())
	if err != nil {
		t.Fatalf("NewOpenAIProvider returned error: %v", err)
	}
	_, err = p.Complete(context.Background(), Request{Input: "{}"})
	if err == nil {
		t.Fatal("Complete returned nil error, want error")
	}
	if !strings.Contains(err.Error(), "choices") {
		t.Fatalf("error = %q, want choices failure", err.Error())
	}
}

func TestOpenAIProviderComplete_PropagatesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}))
	t.Cleanup(srv.Close)

	p, err := NewOpenAIProvider(Config{Model: "gpt-4o-mini", APIKey: "k", BaseURL: srv.URL}, srv.Client())
	if err != nil {
		t.Fatalf("NewOpenAIProvider returned error: %v", err)
	}
	if _, err := p.Complete(context.Background(), Request{Input: "{}"}); err == nil {
		t.Fatal("Complete returned nil error, want error")
	}
}
