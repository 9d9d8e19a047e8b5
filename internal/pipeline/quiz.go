package pipeline

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/metalagman/coursellm/internal/llm"
	"github.com/metalagman/coursellm/internal/reasoning"
	"github.com/metalagman/coursellm/internal/signature"
	"github.com/rs/zerolog/log"
)

// QuizPipeline generates multiple-choice questions from material.
type QuizPipeline struct {
	generate stage
}

// NewQuizPipeline constructs a QuizPipeline backed by provider.
func NewQuizPipeline(provider llm.Provider) *QuizPipeline {
	return &QuizPipeline{
		generate: newStage(reasoning.NewStep(provider, reasoning.ChainOfThought), signature.GenerateQuizQuestions),
	}
}

// Name returns the pipeline name.
func (p *QuizPipeline) Name() string {
	return "quiz"
}

// Run applies request defaults, validates the request and makes one model
// call. Extra questions are dropped; too few is an error.
func (p *QuizPipeline) Run(ctx context.Context, req QuizRequest) (QuizResult, error) {
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return QuizResult{}, err
	}

	res, err := p.generate.step.Execute(ctx, p.generate.spec, reasoning.GenerationRequest{
		"material_content": req.MaterialContent,
		"difficulty":       req.Difficulty,
		"num_questions":    req.Count(),
	})
	if err != nil {
		return QuizResult{}, err
	}

	var out QuizResult
	if err := res.Decode(&out); err != nil {
		return QuizResult{}, &reasoning.GenerationError{Task: p.generate.spec.Name, Err: err}
	}

	questions, err := checkQuestions(out.Questions, req.Count())
	if err != nil {
		return QuizResult{}, &reasoning.GenerationError{Task: p.generate.spec.Name, Err: err}
	}
	if len(out.Questions) > len(questions) {
		log.Debug().Int("got", len(out.Questions)).Int("want", req.Count()).Msg("dropping extra quiz questions")
	}
	return QuizResult{Questions: questions}, nil
}

func checkQuestions(questions []QuizQuestion, want int) ([]QuizQuestion, error) {
	if len(questions) < want {
		return nil, fmt.Errorf("%w: got %d questions, want %d", reasoning.ErrInvalidOutput, len(questions), want)
	}
	questions = slices.Clip(questions[:want])
	if questions == nil {
		questions = []QuizQuestion{}
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Question) == "" {
			return nil, fmt.Errorf("%w: question %d has no text", reasoning.ErrInvalidOutput, i+1)
		}
		if len(q.Options) < 2 {
			return nil, fmt.Errorf("%w: question %d has %d options", reasoning.ErrInvalidOutput, i+1, len(q.Options))
		}
		if !slices.Contains(q.Options, q.CorrectAnswer) {
			return nil, fmt.Errorf("%w: question %d correct answer is not an option", reasoning.ErrInvalidOutput, i+1)
		}
	}
	return questions, nil
}
