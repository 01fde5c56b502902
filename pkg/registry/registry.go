package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

func LoadRegistry(path string) (*TaskRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg TaskRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// FindTask looks a task up by its broker task type.
func (r *TaskRegistry) FindTask(taskType string) *Task {
	for i := range r.Tasks {
		if r.Tasks[i].TaskType == taskType {
			return &r.Tasks[i]
		}
	}
	return nil
}

// ValidateInput checks raw job variables against the task's input schema.
// A task without an input schema accepts anything.
func (t *Task) ValidateInput(variables []byte) error {
	return validateAgainst(t.InputSchema, variables, "input")
}

// ValidateOutput checks completion variables against the task's output schema.
func (t *Task) ValidateOutput(variables []byte) error {
	return validateAgainst(t.OutputSchema, variables, "output")
}

func validateAgainst(schema map[string]interface{}, variables []byte, kind string) error {
	if len(schema) == 0 {
		return nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewBytesLoader(variables),
	)
	if err != nil {
		return fmt.Errorf("validate %s: %w", kind, err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("%s does not match schema: %s", kind, strings.Join(problems, "; "))
}
