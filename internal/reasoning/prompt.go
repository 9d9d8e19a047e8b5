package reasoning

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/metalagman/coursellm/internal/signature"
)

func buildInstructions(spec signature.TaskSpec, strategy Strategy) string {
	var b strings.Builder
	b.WriteString(spec.Instruction)
	b.WriteString("\n\n")

	b.WriteString("Your input fields are:\n")
	writeFields(&b, spec.Inputs)

	b.WriteString("Your output fields are:\n")
	outputs := spec.Outputs
	if strategy == ChainOfThought {
		outputs = append([]signature.Field{signature.ReasoningOutput()}, outputs...)
	}
	writeFields(&b, outputs)

	b.WriteString("\nRespond with a single JSON object whose keys are exactly the output fields above.\n")
	b.WriteString("Do not wrap the JSON in markdown and do not add commentary.\n")
	if strategy == ChainOfThought {
		b.WriteString("Fill 'reasoning' first, then derive the other fields from it.\n")
	}
	return b.String()
}

func writeFields(b *strings.Builder, fields []signature.Field) {
	for i, f := range fields {
		fmt.Fprintf(b, "%d. `%s` (%s)", i+1, f.Name, f.Type)
		if f.Description != "" {
			b.WriteString(": ")
			b.WriteString(f.Description)
		}
		if len(f.Enum) > 0 {
			fmt.Fprintf(b, " [one of: %s]", strings.Join(f.Enum, ", "))
		}
		if len(f.Items) > 0 {
			names := make([]string, 0, len(f.Items))
			for _, item := range f.Items {
				names = append(names, item.Name)
			}
			fmt.Fprintf(b, " [objects with keys: %s]", strings.Join(names, ", "))
		}
		b.WriteString("\n")
	}
}

func buildInput(spec signature.TaskSpec, req GenerationRequest) (string, error) {
	var b strings.Builder
	for _, f := range spec.Inputs {
		v, ok := req[f.Name]
		if !ok || v == nil {
			return "", fmt.Errorf("%w %q", ErrMissingInput, f.Name)
		}
		fmt.Fprintf(&b, "[[ ## %s ## ]]\n", f.Name)
		b.WriteString(formatValue(v))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n", nil
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case int, int32, int64:
		return fmt.Sprintf("%d", t)
	default:
		out, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(out)
	}
}
