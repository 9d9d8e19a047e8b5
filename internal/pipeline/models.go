package pipeline

import "strings"

// Mode selects how a question is answered.
type Mode string

// Answer modes.
const (
	ModeDirect   Mode = "direct"
	ModeSocratic Mode = "socratic"
)

// UnderstandingLevel classifies the quality of a student answer.
type UnderstandingLevel string

// Understanding levels, best first.
const (
	LevelExcellent        UnderstandingLevel = "excellent"
	LevelGood             UnderstandingLevel = "good"
	LevelPartial          UnderstandingLevel = "partial"
	LevelNeedsImprovement UnderstandingLevel = "needs_improvement"
)

// Valid reports whether l is part of the fixed vocabulary.
func (l UnderstandingLevel) Valid() bool {
	switch l {
	case LevelExcellent, LevelGood, LevelPartial, LevelNeedsImprovement:
		return true
	default:
		return false
	}
}

// ParseUnderstandingLevel normalizes s (trimmed, lower-cased, spaces and
// hyphens to underscores) and reports whether it is in the vocabulary.
func ParseUnderstandingLevel(s string) (UnderstandingLevel, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	l := UnderstandingLevel(norm)
	return l, l.Valid()
}

// NeedsFollowUp reports whether an assessment at level l gets follow-up questions.
func NeedsFollowUp(l UnderstandingLevel) bool {
	return l == LevelPartial || l == LevelNeedsImprovement
}

// Quiz request defaults.
const (
	DefaultDifficulty   = "medium"
	DefaultNumQuestions = 5
)

// AnswerRequest asks a question about a set of course materials.
type AnswerRequest struct {
	CourseMaterials []string `json:"course_materials"`
	Question        string   `json:"question"`
	UseSocratic     bool     `json:"use_socratic"`
}

// Validate checks required fields.
func (r AnswerRequest) Validate() error {
	if len(r.CourseMaterials) == 0 {
		return invalid("course_materials", "at least one material is required")
	}
	if strings.TrimSpace(r.Question) == "" {
		return invalid("question", "must not be empty")
	}
	return nil
}

// AnswerResult is the answer to a question.
type AnswerResult struct {
	Response string `json:"response"`
	Type     Mode   `json:"type"`
}

// AssessmentRequest asks for feedback on a student answer.
type AssessmentRequest struct {
	Question      string `json:"question"`
	StudentAnswer string `json:"student_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Topic         string `json:"topic"`
}

// Validate checks required fields.
func (r AssessmentRequest) Validate() error {
	fields := []struct{ name, value string }{
		{"question", r.Question},
		{"student_answer", r.StudentAnswer},
		{"correct_answer", r.CorrectAnswer},
		{"topic", r.Topic},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return invalid(f.name, "must not be empty")
		}
	}
	return nil
}

// AssessmentResult is feedback on a student answer. FollowUpQuestions is
// never nil.
type AssessmentResult struct {
	Assessment         string             `json:"assessment"`
	UnderstandingLevel UnderstandingLevel `json:"understanding_level"`
	FollowUpQuestions  []string           `json:"follow_up_questions"`
}

// SummarizeRequest asks for a summary of course materials.
type SummarizeRequest struct {
	Materials []string `json:"materials"`
}

// Validate checks required fields.
func (r SummarizeRequest) Validate() error {
	if len(r.Materials) == 0 {
		return invalid("materials", "at least one material is required")
	}
	return nil
}

// SummaryResult is a summary with its key points in order.
type SummaryResult struct {
	Summary   string   `json:"summary"    mapstructure:"summary"`
	KeyPoints []string `json:"key_points" mapstructure:"key_points"`
}

// QuizRequest asks for quiz questions generated from material.
type QuizRequest struct {
	MaterialContent string `json:"material_content"`
	Difficulty      string `json:"difficulty"`
	// NumQuestions is nil when the field was omitted. An explicit 0 is kept.
	NumQuestions *int `json:"num_questions"`
}

// WithDefaults fills an empty difficulty and an omitted question count.
func (r QuizRequest) WithDefaults() QuizRequest {
	if strings.TrimSpace(r.Difficulty) == "" {
		r.Difficulty = DefaultDifficulty
	}
	if r.NumQuestions == nil {
		n := DefaultNumQuestions
		r.NumQuestions = &n
	}
	return r
}

// Count returns the requested number of questions, or the default when omitted.
func (r QuizRequest) Count() int {
	if r.NumQuestions == nil {
		return DefaultNumQuestions
	}
	return *r.NumQuestions
}

// Validate checks required fields. Difficulty is free-form and the question
// count is passed to the model as given; only a negative count is rejected.
func (r QuizRequest) Validate() error {
	if strings.TrimSpace(r.MaterialContent) == "" {
		return invalid("material_content", "must not be empty")
	}
	if r.Count() < 0 {
		return invalid("num_questions", "must not be negative")
	}
	return nil
}

// QuizQuestion is one multiple-choice question.
type QuizQuestion struct {
	Question      string   `json:"question"       mapstructure:"question"`
	Options       []string `json:"options"        mapstructure:"options"`
	CorrectAnswer string   `json:"correct_answer" mapstructure:"correct_answer"`
	Explanation   string   `json:"explanation"    mapstructure:"explanation"`
}

// QuizResult is an ordered list of quiz questions.
type QuizResult struct {
	Questions []QuizQuestion `json:"questions" mapstructure:"questions"`
}
