// Package reasoning executes task signatures against a model provider.
package reasoning

import (
	"context"
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/metalagman/coursellm/internal/llm"
	"github.com/metalagman/coursellm/internal/signature"
	"github.com/rs/zerolog/log"
)

// Strategy selects how a step asks the model for its outputs.
type Strategy string

const (
	// Predict asks for the declared outputs only.
	Predict Strategy = "predict"
	// ChainOfThought asks for an intermediate reasoning field before the outputs.
	ChainOfThought Strategy = "chain_of_thought"
)

// GenerationRequest maps input field names to values.
type GenerationRequest map[string]any

// GenerationResult maps output field names to values. Reasoning holds the
// intermediate trace when the step ran with ChainOfThought.
type GenerationResult struct {
	Fields    map[string]any
	Reasoning string
}

// Text returns the named output as a string, or "" when absent.
func (r GenerationResult) Text(name string) string {
	s, _ := r.Fields[name].(string)
	return s
}

// Decode copies the outputs into target, a pointer to a struct with
// mapstructure tags.
func (r GenerationResult) Decode(target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("create result decoder: %w", err)
	}
	if err := dec.Decode(r.Fields); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

// Step runs one signature per call with a fixed strategy.
type Step struct {
	provider llm.Provider
	strategy Strategy
}

// NewStep constructs a step using the given provider and strategy.
func NewStep(provider llm.Provider, strategy Strategy) *Step {
	if strategy == "" {
		strategy = Predict
	}
	return &Step{provider: provider, strategy: strategy}
}

// Strategy returns the step's strategy.
func (s *Step) Strategy() Strategy {
	return s.strategy
}

// Execute makes exactly one provider call for spec. Any failure is returned
// as a *GenerationError; no retry or fallback is attempted.
func (s *Step) Execute(ctx context.Context, spec signature.TaskSpec, req GenerationRequest) (GenerationResult, error) {
	withReasoning := s.strategy == ChainOfThought

	input, err := buildInput(spec, req)
	if err != nil {
		return GenerationResult{}, &GenerationError{Task: spec.Name, Err: err}
	}

	start := time.Now()
	log.Debug().Str("task", spec.Name).Str("strategy", string(s.strategy)).Msg("reasoning step started")

	resp, err := s.provider.Complete(ctx, llm.Request{
		Task:         spec.Name,
		Instructions: buildInstructions(spec, s.strategy),
		Input:        input,
		Schema:       spec.OutputSchema(withReasoning),
	})
	if err != nil {
		return GenerationResult{}, &GenerationError{Task: spec.Name, Err: err}
	}

	obj, err := decodeObject(resp.Text)
	if err != nil {
		return GenerationResult{}, &GenerationError{Task: spec.Name, Err: err}
	}
	if err := validateObject(spec.ResultSchema(withReasoning), obj); err != nil {
		return GenerationResult{}, &GenerationError{Task: spec.Name, Err: err}
	}

	res := GenerationResult{Fields: make(map[string]any, len(spec.Outputs))}
	for _, name := range spec.OutputNames() {
		res.Fields[name] = obj[name]
	}
	if withReasoning {
		res.Reasoning, _ = obj[signature.ReasoningField].(string)
	}

	log.Debug().
		Str("task", spec.Name).
		Str("strategy", string(s.strategy)).
		Dur("latency", time.Since(start)).
		Msg("reasoning step finished")
	return res, nil
}
