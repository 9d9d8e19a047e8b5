// Package pipeline composes reasoning steps into the assistant's use cases.
//
// Each pipeline validates nothing on its own beyond what its steps require;
// request validation happens in the Assistant facade and in QuizPipeline.Run.
package pipeline

import (
	"strings"

	"github.com/metalagman/coursellm/internal/reasoning"
	"github.com/metalagman/coursellm/internal/signature"
)

const materialSeparator = "\n\n"

// joinMaterials builds a single context string from ordered materials.
func joinMaterials(materials []string) string {
	return strings.Join(materials, materialSeparator)
}

// stage pairs a reasoning step with the signature it runs.
type stage struct {
	step *reasoning.Step
	spec signature.TaskSpec
}

func newStage(step *reasoning.Step, task string) stage {
	return stage{step: step, spec: signature.MustLookup(task)}
}
