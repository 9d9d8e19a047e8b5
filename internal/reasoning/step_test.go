package reasoning

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/metalagman/coursellm/internal/llm/llmtest"
	"github.com/metalagman/coursellm/internal/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepExecute_ChainOfThought(t *testing.T) {
	t.Parallel()

	provider := llmtest.New().OnJSON(signature.GenerateAnswer, map[string]any{
		"reasoning": "The material defines it.",
		"answer":    "Photosynthesis converts light to energy.",
	})
	step := NewStep(provider, ChainOfThought)

	res, err := step.Execute(context.Background(), signature.MustLookup(signature.GenerateAnswer), GenerationRequest{
		"course_context": "Photosynthesis converts light to energy.",
		"question":       "What is photosynthesis?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis converts light to energy.", res.Text("answer"))
	assert.Equal(t, "The material defines it.", res.Reasoning)
	assert.NotContains(t, res.Fields, signature.ReasoningField)

	calls := provider.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, signature.GenerateAnswer, calls[0].Task)
	assert.Contains(t, calls[0].Instructions, "`reasoning`")
	assert.Contains(t, calls[0].Input, "[[ ## question ## ]]\nWhat is photosynthesis?")
	assert.Equal(t, []string{"reasoning", "answer"}, calls[0].Schema["required"])
}

func TestStepExecute_PredictOmitsReasoning(t *testing.T) {
	t.Parallel()

	provider := llmtest.New().OnJSON(signature.GenerateFollowUpQuestions, map[string]any{
		"follow_up_questions": []string{"a?", "b?", "c?"},
	})
	step := NewStep(provider, Predict)

	res, err := step.Execute(context.Background(), signature.MustLookup(signature.GenerateFollowUpQuestions), GenerationRequest{
		"topic":       "arithmetic",
		"previous_qa": "Q: 2+2?\nA: 5",
	})
	require.NoError(t, err)
	assert.Empty(t, res.Reasoning)

	var out struct {
		FollowUps []string `mapstructure:"follow_up_questions"`
	}
	require.NoError(t, res.Decode(&out))
	assert.Equal(t, []string{"a?", "b?", "c?"}, out.FollowUps)

	calls := provider.Calls()
	require.Len(t, calls, 1)
	assert.NotContains(t, calls[0].Instructions, "`reasoning`")
}

func TestStepExecute_MissingInput(t *testing.T) {
	t.Parallel()

	provider := llmtest.New()
	step := NewStep(provider, Predict)

	_, err := step.Execute(context.Background(), signature.MustLookup(signature.GenerateAnswer), GenerationRequest{
		"question": "What?",
	})
	require.Error(t, err)
	assert.True(t, IsGenerationError(err))
	assert.True(t, errors.Is(err, ErrMissingInput))
	assert.Empty(t, provider.Calls())
}

func TestStepExecute_ProviderErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("provider unavailable")
	provider := llmtest.New().OnError(signature.SummarizeMaterial, boom)
	step := NewStep(provider, ChainOfThought)

	_, err := step.Execute(context.Background(), signature.MustLookup(signature.SummarizeMaterial), GenerationRequest{
		"material_content": "text",
	})
	require.Error(t, err)

	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, signature.SummarizeMaterial, genErr.Task)
	assert.True(t, errors.Is(err, boom))
}

func TestStepExecute_OutputValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		reply   string
		wantErr error
	}{
		{
			name:    "missing field",
			reply:   `{"summary":"s"}`,
			wantErr: ErrInvalidOutput,
		},
		{
			name:    "mistyped field",
			reply:   `{"summary":"s","key_points":"one, two"}`,
			wantErr: ErrInvalidOutput,
		},
		{
			name:    "not json",
			reply:   `I cannot help with that.`,
			wantErr: ErrMalformedOutput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			provider := llmtest.New().On(signature.SummarizeMaterial, llmtest.Reply{Text: tt.reply})
			step := NewStep(provider, Predict)

			_, err := step.Execute(context.Background(), signature.MustLookup(signature.SummarizeMaterial), GenerationRequest{
				"material_content": "text",
			})
			require.Error(t, err)
			assert.True(t, IsGenerationError(err))
			assert.True(t, errors.Is(err, tt.wantErr), "error = %v", err)
		})
	}
}

func TestStepExecute_ExtraKeysIgnored(t *testing.T) {
	t.Parallel()

	provider := llmtest.New().On(signature.SocraticPrompt, llmtest.Reply{
		Text: `{"socratic_response":"What does light provide?","confidence":0.9}`,
	})
	step := NewStep(provider, Predict)

	res, err := step.Execute(context.Background(), signature.MustLookup(signature.SocraticPrompt), GenerationRequest{
		"course_material":  "m",
		"student_question": "q",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"socratic_response": "What does light provide?"}, res.Fields)
}

func TestStepExecute_RecoversFencedOutput(t *testing.T) {
	t.Parallel()

	provider := llmtest.New().On(signature.SocraticPrompt, llmtest.Reply{
		Text: "Here you go:\n```json\n{\"socratic_response\": \"What does {light} provide?\"}\n```",
	})
	step := NewStep(provider, Predict)

	res, err := step.Execute(context.Background(), signature.MustLookup(signature.SocraticPrompt), GenerationRequest{
		"course_material":  "m",
		"student_question": "q",
	})
	require.NoError(t, err)
	assert.Equal(t, "What does {light} provide?", res.Text("socratic_response"))
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{name: "plain", in: `{"a":1}`, want: `{"a":1}`, ok: true},
		{name: "prefixed", in: `result: {"a":{"b":"}"}} trailing`, want: `{"a":{"b":"}"}}`, ok: true},
		{name: "escaped quote", in: `{"a":"\"{"}`, want: `{"a":"\"{"}`, ok: true},
		{name: "none", in: `no json here`, ok: false},
		{name: "unbalanced", in: `{"a":1`, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ExtractJSON([]byte(tt.in))
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, string(got))
			}
		})
	}
}

func TestBuildInput_FormatsValues(t *testing.T) {
	t.Parallel()

	input, err := buildInput(signature.MustLookup(signature.GenerateQuizQuestions), GenerationRequest{
		"material_content": "cells",
		"difficulty":       "hard",
		"num_questions":    3,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(input, "[[ ## num_questions ## ]]\n3\n"), input)
}

func TestPreview_KeepsRunesWhole(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("a", 119) + "é" + strings.Repeat("b", 10)
	got := preview(text)
	assert.True(t, utf8.ValidString(got), got)
	assert.Equal(t, strings.Repeat("a", 119)+"...", got)

	assert.Equal(t, "short", preview("  short  "))
}

func TestBuildInstructions_ReasoningMatchesSchema(t *testing.T) {
	t.Parallel()

	spec := signature.MustLookup(signature.SummarizeMaterial)
	instructions := buildInstructions(spec, ChainOfThought)
	field := signature.ReasoningOutput()
	assert.Contains(t, instructions, "1. `"+field.Name+"` (string): "+field.Description)

	props := spec.OutputSchema(true)["properties"].(map[string]any)
	reasoning := props[signature.ReasoningField].(map[string]any)
	assert.Equal(t, field.Description, reasoning["description"])
}
