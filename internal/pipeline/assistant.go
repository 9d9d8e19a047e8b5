package pipeline

import (
	"context"

	"github.com/metalagman/coursellm/internal/llm"
)

// Assistant is the single entry point for answering, assessment and
// summarization. It is safe for concurrent use once constructed.
type Assistant struct {
	answer     *AnswerPipeline
	assessment *AssessmentPipeline
	summarizer *SummarizationPipeline
}

// NewAssistant builds every pipeline against the same provider.
func NewAssistant(provider llm.Provider) *Assistant {
	return &Assistant{
		answer:     NewAnswerPipeline(provider),
		assessment: NewAssessmentPipeline(provider),
		summarizer: NewSummarizationPipeline(provider),
	}
}

// AnswerQuestion answers req.Question using the joined course materials.
func (a *Assistant) AnswerQuestion(ctx context.Context, req AnswerRequest) (AnswerResult, error) {
	if err := req.Validate(); err != nil {
		return AnswerResult{}, err
	}
	mode := ModeDirect
	if req.UseSocratic {
		mode = ModeSocratic
	}
	return a.answer.Run(ctx, joinMaterials(req.CourseMaterials), req.Question, mode)
}

// AssessAndProvideFeedback assesses a student answer.
func (a *Assistant) AssessAndProvideFeedback(ctx context.Context, req AssessmentRequest) (AssessmentResult, error) {
	if err := req.Validate(); err != nil {
		return AssessmentResult{}, err
	}
	return a.assessment.Run(ctx, req)
}

// SummarizeMaterials summarizes the given materials.
func (a *Assistant) SummarizeMaterials(ctx context.Context, req SummarizeRequest) (SummaryResult, error) {
	if err := req.Validate(); err != nil {
		return SummaryResult{}, err
	}
	return a.summarizer.Run(ctx, req.Materials)
}
