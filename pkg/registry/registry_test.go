package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTask() Task {
	return Task{
		ID:       "classify-intent",
		TaskType: "classify-intent",
		Category: "qa",
		InputSchema: map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"question"},
			"properties": map[string]interface{}{
				"question": map[string]interface{}{"type": "string", "minLength": 1},
			},
		},
	}
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "task-registry.json")
	payload := `{
		"version": "1.0.0",
		"lastUpdated": "2026-01-01T00:00:00Z",
		"tasks": [{"id": "classify-intent", "taskType": "classify-intent", "category": "qa"}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0644))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	require.Len(t, reg.Tasks, 1)

	assert.NotNil(t, reg.FindTask("classify-intent"))
	assert.Nil(t, reg.FindTask("unknown-task"))
}

func TestTaskValidateInput(t *testing.T) {
	task := sampleTask()

	assert.NoError(t, task.ValidateInput([]byte(`{"question": "What is SECR?"}`)))

	err := task.ValidateInput([]byte(`{"question": ""}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match schema")

	assert.Error(t, task.ValidateInput([]byte(`{}`)))
}

func TestTaskValidateInput_NoSchemaAcceptsAnything(t *testing.T) {
	task := Task{ID: "free-form"}
	assert.NoError(t, task.ValidateInput([]byte(`{"anything": true}`)))
}
