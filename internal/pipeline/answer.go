package pipeline

import (
	"context"

	"github.com/metalagman/coursellm/internal/llm"
	"github.com/metalagman/coursellm/internal/reasoning"
	"github.com/metalagman/coursellm/internal/signature"
)

// AnswerPipeline answers a question directly or with a guiding question.
type AnswerPipeline struct {
	direct   stage
	socratic stage
}

// NewAnswerPipeline constructs an AnswerPipeline backed by provider.
func NewAnswerPipeline(provider llm.Provider) *AnswerPipeline {
	cot := reasoning.NewStep(provider, reasoning.ChainOfThought)
	return &AnswerPipeline{
		direct:   newStage(cot, signature.GenerateAnswer),
		socratic: newStage(cot, signature.SocraticPrompt),
	}
}

// Name returns the pipeline name.
func (p *AnswerPipeline) Name() string {
	return "answer"
}

// Run makes one model call. In socratic mode the response is a guiding
// question rather than an answer.
func (p *AnswerPipeline) Run(ctx context.Context, courseContext, question string, mode Mode) (AnswerResult, error) {
	if mode == ModeSocratic {
		res, err := p.socratic.step.Execute(ctx, p.socratic.spec, reasoning.GenerationRequest{
			"course_material":  courseContext,
			"student_question": question,
		})
		if err != nil {
			return AnswerResult{}, err
		}
		return AnswerResult{Response: res.Text("socratic_response"), Type: ModeSocratic}, nil
	}

	res, err := p.direct.step.Execute(ctx, p.direct.spec, reasoning.GenerationRequest{
		"course_context": courseContext,
		"question":       question,
	})
	if err != nil {
		return AnswerResult{}, err
	}
	return AnswerResult{Response: res.Text("answer"), Type: ModeDirect}, nil
}
