package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/metalagman/coursellm/internal/llm/llmtest"
	"github.com/metalagman/coursellm/internal/reasoning"
	"github.com/metalagman/coursellm/internal/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arithmeticRequest(answer string) AssessmentRequest {
	return AssessmentRequest{
		Question:      "2+2?",
		StudentAnswer: answer,
		CorrectAnswer: "4",
		Topic:         "arithmetic",
	}
}

func assessReply(level UnderstandingLevel) map[string]any {
	return map[string]any{
		"reasoning":           "Compare the answers.",
		"assessment":          "Feedback for " + string(level),
		"understanding_level": string(level),
	}
}

func TestNeedsFollowUp(t *testing.T) {
	t.Parallel()

	assert.False(t, NeedsFollowUp(LevelExcellent))
	assert.False(t, NeedsFollowUp(LevelGood))
	assert.True(t, NeedsFollowUp(LevelPartial))
	assert.True(t, NeedsFollowUp(LevelNeedsImprovement))
	assert.False(t, NeedsFollowUp(UnderstandingLevel("unknown")))
}

func TestAssessmentPipeline_SkipsFollowUpForStrongAnswers(t *testing.T) {
	t.Parallel()

	for _, level := range []UnderstandingLevel{LevelExcellent, LevelGood} {
		t.Run(string(level), func(t *testing.T) {
			t.Parallel()
			provider := llmtest.New().OnJSON(signature.AssessUnderstanding, assessReply(level))

			res, err := NewAssessmentPipeline(provider).Run(context.Background(), arithmeticRequest("4"))
			require.NoError(t, err)
			assert.Equal(t, level, res.UnderstandingLevel)
			assert.Equal(t, "Feedback for "+string(level), res.Assessment)
			assert.NotNil(t, res.FollowUpQuestions)
			assert.Empty(t, res.FollowUpQuestions)
			assert.Equal(t, 0, provider.CallCount(signature.GenerateFollowUpQuestions))
		})
	}
}

func TestAssessmentPipeline_GeneratesFollowUpsForWeakAnswers(t *testing.T) {
	t.Parallel()

	for _, level := range []UnderstandingLevel{LevelPartial, LevelNeedsImprovement} {
		t.Run(string(level), func(t *testing.T) {
			t.Parallel()
			provider := llmtest.New().
				OnJSON(signature.AssessUnderstanding, assessReply(level)).
				OnJSON(signature.GenerateFollowUpQuestions, map[string]any{
					"follow_up_questions": []string{"What is 2+1?", "What is 3+1?", "How do you count up?"},
				})

			res, err := NewAssessmentPipeline(provider).Run(context.Background(), arithmeticRequest("5"))
			require.NoError(t, err)
			assert.Equal(t, level, res.UnderstandingLevel)
			assert.Len(t, res.FollowUpQuestions, 3)

			calls := provider.Calls()
			require.Len(t, calls, 2)
			assert.Equal(t, signature.AssessUnderstanding, calls[0].Task)
			assert.NotContains(t, calls[0].Input, "arithmetic")
			assert.Equal(t, signature.GenerateFollowUpQuestions, calls[1].Task)
			assert.Contains(t, calls[1].Input, "[[ ## previous_qa ## ]]\nQ: 2+2?\nA: 5")
			assert.Contains(t, calls[1].Input, "[[ ## topic ## ]]\narithmetic")
		})
	}
}

func TestAssessmentPipeline_RejectsLevelOutsideVocabulary(t *testing.T) {
	t.Parallel()

	provider := llmtest.New().OnJSON(signature.AssessUnderstanding, assessReply("mediocre"))

	_, err := NewAssessmentPipeline(provider).Run(context.Background(), arithmeticRequest("4"))
	require.Error(t, err)
	assert.True(t, reasoning.IsGenerationError(err))
	assert.True(t, errors.Is(err, reasoning.ErrInvalidOutput))
}

func TestAssessmentPipeline_NormalizesLevel(t *testing.T) {
	t.Parallel()

	provider := llmtest.New().
		OnJSON(signature.AssessUnderstanding, assessReply(" Needs Improvement ")).
		OnJSON(signature.GenerateFollowUpQuestions, map[string]any{
			"follow_up_questions": []string{"What is 1+1?", "What is 2+1?", "What is 3+1?"},
		})

	res, err := NewAssessmentPipeline(provider).Run(context.Background(), arithmeticRequest("22"))
	require.NoError(t, err)
	assert.Equal(t, LevelNeedsImprovement, res.UnderstandingLevel)
	assert.Len(t, res.FollowUpQuestions, 3)
}

func TestParseUnderstandingLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want UnderstandingLevel
		ok   bool
	}{
		{in: "excellent", want: LevelExcellent, ok: true},
		{in: "GOOD", want: LevelGood, ok: true},
		{in: "needs-improvement", want: LevelNeedsImprovement, ok: true},
		{in: "", ok: false},
		{in: "mediocre", ok: false},
	}
	for _, tt := range tests {
		got, ok := ParseUnderstandingLevel(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestAssessmentPipeline_FollowUpFailureIsNotSwallowed(t *testing.T) {
	t.Parallel()

	boom := errors.New("quota exceeded")
	provider := llmtest.New().
		OnJSON(signature.AssessUnderstanding, assessReply(LevelPartial)).
		OnError(signature.GenerateFollowUpQuestions, boom)

	_, err := NewAssessmentPipeline(provider).Run(context.Background(), arithmeticRequest("5"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
}

func TestAssessmentTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to assessmentState
		allowed  bool
	}{
		{stateAssess, stateFollowUp, true},
		{stateAssess, stateDone, true},
		{stateFollowUp, stateDone, true},
		{stateFollowUp, stateAssess, false},
		{stateDone, stateAssess, false},
		{stateDone, stateFollowUp, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.allowed, isAllowedAssessmentTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
	assert.True(t, stateDone.IsTerminal())
	assert.False(t, stateFollowUp.IsTerminal())
}
