package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testActivity(id string) Activity {
	return Activity{
		ID:          id,
		DisplayName: "Test " + id,
		Category:    "matching",
		TaskType:    id,
		InputSchema: map[string]interface{}{"type": "object"},
	}
}

func TestValidate_RepositoryFile(t *testing.T) {
	reg, err := LoadRegistry(repoRegistry)
	require.NoError(t, err)
	assert.NoError(t, reg.Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(reg *ActivityRegistry)
		wantErr string
	}{
		{"empty", func(reg *ActivityRegistry) { reg.Activities = nil }, "no activities"},
		{"missing id", func(reg *ActivityRegistry) { reg.Activities[0].ID = "" }, "field: id"},
		{"missing category", func(reg *ActivityRegistry) { reg.Activities[0].Category = "" }, "field: category"},
		{"duplicate id", func(reg *ActivityRegistry) {
			dup := testActivity("a")
			dup.TaskType = "other"
			reg.Activities = append(reg.Activities, dup)
		}, "duplicate activity ID"},
		{"duplicate task type", func(reg *ActivityRegistry) {
			dup := testActivity("b")
			dup.TaskType = "a"
			reg.Activities = append(reg.Activities, dup)
		}, "duplicate task type"},
		{"bad schema", func(reg *ActivityRegistry) {
			reg.Activities[0].OutputSchema = map[string]interface{}{"type": 12}
		}, "outputSchema"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &ActivityRegistry{Activities: []Activity{testActivity("a")}}
			tt.mutate(reg)

			err := reg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAddUpdateSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "registry.json")

	reg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Empty(t, reg.Activities)

	require.NoError(t, reg.Add(testActivity("calculate-assignment-score")))
	assert.Error(t, reg.Add(testActivity("calculate-assignment-score")))

	require.NoError(t, reg.Update("calculate-assignment-score", "retries", "3"))
	require.NoError(t, reg.Update("calculate-assignment-score", "timeout", "30s"))
	require.NoError(t, reg.Update("calculate-assignment-score", "status", "implemented"))
	assert.Error(t, reg.Update("calculate-assignment-score", "retries", "-1"))
	assert.Error(t, reg.Update("calculate-assignment-score", "timeout", "soon"))
	assert.Error(t, reg.Update("calculate-assignment-score", "workflows", "x"))
	assert.Error(t, reg.Update("missing", "status", "x"))

	require.NoError(t, reg.Save(path))
	assert.NotEmpty(t, reg.LastUpdated)

	loaded, err := LoadOrCreate(path)
	require.NoError(t, err)
	activity := loaded.FindByTaskType("calculate-assignment-score")
	require.NotNil(t, activity)
	assert.Equal(t, 3, activity.Retries)
	assert.Equal(t, "30s", activity.Timeout)
	assert.Equal(t, "implemented", activity.ImplementationStatus)
	assert.NoError(t, loaded.Validate())
}
