package calculateassignmentscore

import "assignment-workers/internal/common/validation"

// GetInputSchema is used when the activity registry has no entry for the task.
func GetInputSchema() validation.JSONSchema {
	nonEmptyStrings := map[string]interface{}{
		"type":     "array",
		"minItems": 1,
		"items":    map[string]interface{}{"type": "string"},
	}

	return validation.JSONSchema{
		"type": "object",
		"properties": map[string]interface{}{
			"line":      map[string]interface{}{"type": "string", "minLength": 1},
			"customers": nonEmptyStrings,
			"products":  nonEmptyStrings,
			"strategy":  map[string]interface{}{"type": "string"},
		},
		"oneOf": []interface{}{
			map[string]interface{}{
				"required": []interface{}{"line"},
				"not": map[string]interface{}{
					"anyOf": []interface{}{
						map[string]interface{}{"required": []interface{}{"customers"}},
						map[string]interface{}{"required": []interface{}{"products"}},
					},
				},
			},
			map[string]interface{}{
				"required": []interface{}{"customers", "products"},
				"not":      map[string]interface{}{"required": []interface{}{"line"}},
			},
		},
	}
}
