package pipeline

import (
	"context"

	"github.com/metalagman/coursellm/internal/llm"
	"github.com/metalagman/coursellm/internal/reasoning"
	"github.com/metalagman/coursellm/internal/signature"
)

// SummarizationPipeline condenses materials into a summary and key points.
type SummarizationPipeline struct {
	summarize stage
}

// NewSummarizationPipeline constructs a SummarizationPipeline backed by provider.
func NewSummarizationPipeline(provider llm.Provider) *SummarizationPipeline {
	return &SummarizationPipeline{
		summarize: newStage(reasoning.NewStep(provider, reasoning.ChainOfThought), signature.SummarizeMaterial),
	}
}

// Name returns the pipeline name.
func (p *SummarizationPipeline) Name() string {
	return "summarize"
}

// Run joins materials in order and makes one model call.
func (p *SummarizationPipeline) Run(ctx context.Context, materials []string) (SummaryResult, error) {
	res, err := p.summarize.step.Execute(ctx, p.summarize.spec, reasoning.GenerationRequest{
		"material_content": joinMaterials(materials),
	})
	if err != nil {
		return SummaryResult{}, err
	}

	var out SummaryResult
	if err := res.Decode(&out); err != nil {
		return SummaryResult{}, &reasoning.GenerationError{Task: p.summarize.spec.Name, Err: err}
	}
	if out.KeyPoints == nil {
		out.KeyPoints = []string{}
	}
	return out, nil
}
