// Package signature declares the text-generation tasks the assistant can run.
//
// A signature (TaskSpec) is a named instruction with ordered, typed input and
// output fields. Signatures carry no logic; they are rendered into prompts and
// JSON schemas by the reasoning package.
package signature

import (
	"fmt"
	"slices"
)

// Task names declared in signatures.yaml.
const (
	GenerateAnswer            = "generate_answer"
	GenerateFollowUpQuestions = "generate_follow_up_questions"
	AssessUnderstanding       = "assess_understanding"
	SocraticPrompt            = "socratic_prompt"
	SummarizeMaterial         = "summarize_material"
	GenerateQuizQuestions     = "generate_quiz_questions"
)

// ReasoningField is the output field prepended by chain-of-thought execution.
const ReasoningField = "reasoning"

// FieldType is the semantic type of a signature field.
type FieldType string

// Supported field types.
const (
	TypeString     FieldType = "string"
	TypeInteger    FieldType = "integer"
	TypeStringList FieldType = "string_list"
	TypeObjectList FieldType = "object_list"
)

// Field is a single named input or output of a task.
type Field struct {
	Name        string    `yaml:"name"`
	Type        FieldType `yaml:"type"`
	Description string    `yaml:"description"`
	Enum        []string  `yaml:"enum,omitempty"`
	Items       []Field   `yaml:"items,omitempty"`
}

// TaskSpec is a declared text-generation task.
type TaskSpec struct {
	Name        string  `yaml:"name"`
	Instruction string  `yaml:"instruction"`
	Inputs      []Field `yaml:"inputs"`
	Outputs     []Field `yaml:"outputs"`
}

// InputNames returns input field names in declaration order.
func (t TaskSpec) InputNames() []string {
	return fieldNames(t.Inputs)
}

// OutputNames returns output field names in declaration order.
func (t TaskSpec) OutputNames() []string {
	return fieldNames(t.Outputs)
}

// OutputSchema renders the JSON schema sent to the model as the response
// format. When withReasoning is set a leading "reasoning" string field is
// required.
func (t TaskSpec) OutputSchema(withReasoning bool) map[string]any {
	return objectSchema(t.outputFields(withReasoning), true)
}

// ResultSchema is OutputSchema without the closed-object and enum
// constraints. Results are checked against it: every declared field must be
// present and typed, and extra keys are ignored. Enum membership is left to
// the caller, which may normalize the value first.
func (t TaskSpec) ResultSchema(withReasoning bool) map[string]any {
	return objectSchema(t.outputFields(withReasoning), false)
}

func (t TaskSpec) outputFields(withReasoning bool) []Field {
	if !withReasoning {
		return t.Outputs
	}
	return append([]Field{ReasoningOutput()}, t.Outputs...)
}

// ReasoningOutput is the field chain-of-thought execution asks for ahead of
// the declared outputs.
func ReasoningOutput() Field {
	return Field{
		Name:        ReasoningField,
		Type:        TypeString,
		Description: "Think step by step in order to produce the remaining fields",
	}
}

func (t TaskSpec) clone() TaskSpec {
	out := t
	out.Inputs = cloneFields(t.Inputs)
	out.Outputs = cloneFields(t.Outputs)
	return out
}

func (t TaskSpec) validate() error {
	if t.Name == "" {
		return fmt.Errorf("signature without name")
	}
	if t.Instruction == "" {
		return fmt.Errorf("signature %q: instruction is required", t.Name)
	}
	if len(t.Inputs) == 0 || len(t.Outputs) == 0 {
		return fmt.Errorf("signature %q: inputs and outputs are required", t.Name)
	}
	seen := map[string]bool{ReasoningField: true}
	for _, f := range slices.Concat(t.Inputs, t.Outputs) {
		if seen[f.Name] {
			return fmt.Errorf("signature %q: duplicate or reserved field %q", t.Name, f.Name)
		}
		seen[f.Name] = true
		if err := f.validate(); err != nil {
			return fmt.Errorf("signature %q: %w", t.Name, err)
		}
	}
	return nil
}

func (f Field) validate() error {
	if f.Name == "" {
		return fmt.Errorf("field without name")
	}
	switch f.Type {
	case TypeString, TypeInteger, TypeStringList:
		if len(f.Items) > 0 {
			return fmt.Errorf("field %q: items only apply to %s", f.Name, TypeObjectList)
		}
	case TypeObjectList:
		if len(f.Items) == 0 {
			return fmt.Errorf("field %q: %s requires items", f.Name, TypeObjectList)
		}
		for _, item := range f.Items {
			if item.Type == TypeObjectList {
				return fmt.Errorf("field %q: nested %s is not supported", f.Name, TypeObjectList)
			}
			if err := item.validate(); err != nil {
				return fmt.Errorf("field %q: %w", f.Name, err)
			}
		}
	default:
		return fmt.Errorf("field %q: unknown type %q", f.Name, f.Type)
	}
	return nil
}

func (f Field) schema(closed bool) map[string]any {
	var s map[string]any
	switch f.Type {
	case TypeInteger:
		s = map[string]any{"type": "integer"}
	case TypeStringList:
		s = map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
	case TypeObjectList:
		s = map[string]any{"type": "array", "items": objectSchema(f.Items, closed)}
	default:
		s = map[string]any{"type": "string"}
	}
	if f.Description != "" {
		s["description"] = f.Description
	}
	if closed && len(f.Enum) > 0 {
		s["enum"] = slices.Clone(f.Enum)
	}
	return s
}

func objectSchema(fields []Field, closed bool) map[string]any {
	props := make(map[string]any, len(fields))
	for _, f := range fields {
		props[f.Name] = f.schema(closed)
	}
	s := map[string]any{
		"type":       "object",
		"properties": props,
		"required":   fieldNames(fields),
	}
	if closed {
		s["additionalProperties"] = false
	}
	return s
}

func fieldNames(fields []Field) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Name)
	}
	return out
}

func cloneFields(fields []Field) []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = f
		out[i].Enum = slices.Clone(f.Enum)
		out[i].Items = cloneFields(f.Items)
	}
	return out
}
