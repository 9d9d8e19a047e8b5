package pipeline

import (
	"context"
	"fmt"

	"github.com/metalagman/coursellm/internal/llm"
	"github.com/metalagman/coursellm/internal/reasoning"
	"github.com/metalagman/coursellm/internal/signature"
	"github.com/rs/zerolog/log"
)

type assessmentState string

const (
	stateAssess   assessmentState = "assess"
	stateFollowUp assessmentState = "follow_up"
	stateDone     assessmentState = "done"
)

// IsTerminal reports whether no further step runs from s.
func (s assessmentState) IsTerminal() bool {
	return s == stateDone
}

// assessmentRun carries the values produced while an assessment advances.
type assessmentRun struct {
	req       AssessmentRequest
	state     assessmentState
	feedback  string
	level     UnderstandingLevel
	followUps []string
}

func (r *assessmentRun) transition(to assessmentState) error {
	if !isAllowedAssessmentTransition(r.state, to) {
		return fmt.Errorf("invalid assessment transition %s -> %s", r.state, to)
	}
	r.state = to
	return nil
}

func isAllowedAssessmentTransition(from, to assessmentState) bool {
	switch from {
	case stateAssess:
		return to == stateFollowUp || to == stateDone
	case stateFollowUp:
		return to == stateDone
	default:
		return false
	}
}

func (r *assessmentRun) result() AssessmentResult {
	return AssessmentResult{
		Assessment:         r.feedback,
		UnderstandingLevel: r.level,
		FollowUpQuestions:  r.followUps,
	}
}

// AssessmentPipeline evaluates a student answer and, when understanding is
// weak, generates follow-up questions.
type AssessmentPipeline struct {
	assess   stage
	followUp stage
}

// NewAssessmentPipeline constructs an AssessmentPipeline backed by provider.
func NewAssessmentPipeline(provider llm.Provider) *AssessmentPipeline {
	return &AssessmentPipeline{
		assess:   newStage(reasoning.NewStep(provider, reasoning.ChainOfThought), signature.AssessUnderstanding),
		followUp: newStage(reasoning.NewStep(provider, reasoning.Predict), signature.GenerateFollowUpQuestions),
	}
}

// Name returns the pipeline name.
func (p *AssessmentPipeline) Name() string {
	return "assessment"
}

// Run makes one model call, or two when the level calls for follow-ups.
// Topic is used only by the follow-up step.
func (p *AssessmentPipeline) Run(ctx context.Context, req AssessmentRequest) (AssessmentResult, error) {
	run := &assessmentRun{
		req:       req,
		state:     stateAssess,
		followUps: []string{},
	}

	for !run.state.IsTerminal() {
		var err error
		switch run.state {
		case stateAssess:
			err = p.runAssess(ctx, run)
		case stateFollowUp:
			err = p.runFollowUp(ctx, run)
		default:
			err = fmt.Errorf("unexpected assessment state %q", run.state)
		}
		if err != nil {
			return AssessmentResult{}, err
		}
	}
	return run.result(), nil
}

func (p *AssessmentPipeline) runAssess(ctx context.Context, run *assessmentRun) error {
	res, err := p.assess.step.Execute(ctx, p.assess.spec, reasoning.GenerationRequest{
		"question":       run.req.Question,
		"student_answer": run.req.StudentAnswer,
		"correct_answer": run.req.CorrectAnswer,
	})
	if err != nil {
		return err
	}

	raw := res.Text("understanding_level")
	level, ok := ParseUnderstandingLevel(raw)
	if !ok {
		return &reasoning.GenerationError{
			Task: p.assess.spec.Name,
			Err:  fmt.Errorf("%w: unknown understanding level %q", reasoning.ErrInvalidOutput, raw),
		}
	}
	run.feedback = res.Text("assessment")
	run.level = level
	log.Debug().Str("level", string(run.level)).Msg("answer assessed")

	if NeedsFollowUp(run.level) {
		return run.transition(stateFollowUp)
	}
	return run.transition(stateDone)
}

func (p *AssessmentPipeline) runFollowUp(ctx context.Context, run *assessmentRun) error {
	res, err := p.followUp.step.Execute(ctx, p.followUp.spec, reasoning.GenerationRequest{
		"topic":       run.req.Topic,
		"previous_qa": previousQA(run.req.Question, run.req.StudentAnswer),
	})
	if err != nil {
		return err
	}

	var out struct {
		Questions []string `mapstructure:"follow_up_questions"`
	}
	if err := res.Decode(&out); err != nil {
		return &reasoning.GenerationError{Task: p.followUp.spec.Name, Err: err}
	}
	if out.Questions != nil {
		run.followUps = out.Questions
	}
	return run.transition(stateDone)
}

func previousQA(question, answer string) string {
	return fmt.Sprintf("Q: %s\nA: %s", question, answer)
}
