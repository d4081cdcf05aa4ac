// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse activity registry %s: %w", path, err)
	}
	return &reg, nil
}

// FindByTaskType returns the activity bound to taskType, or nil.
func (r *ActivityRegistry) FindByTaskType(taskType string) *Activity {
	if r == nil {
		return nil
	}
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i]
		}
	}
	return nil
}

// InputSchema loads the registry at path and returns the input schema of
// taskType. An empty path, or an activity without a schema, yields nil.
func InputSchema(path, taskType string) (map[string]interface{}, error) {
	if path == "" {
		return nil, nil
	}
	reg, err := LoadRegistry(path)
	if err != nil {
		return nil, err
	}
	activity := reg.FindByTaskType(taskType)
	if activity == nil {
		return nil, fmt.Errorf("task type %q not found in activity registry %s", taskType, path)
	}
	return activity.InputSchema, nil
}
