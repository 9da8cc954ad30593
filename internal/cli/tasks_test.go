package cli

import (
	"encoding/json"
	"testing"

	"github.com/runoshun/chat-tasks/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTasksCommand_Table(t *testing.T) {
	deps := newTestDeps()
	cmd := newTasksCommand(deps.newTestContainer())

	out, _, err := run(cmd)

	require.NoError(t, err)
	assert.Contains(t, out, "SPACE")
	assert.Contains(t, out, "ASSIGNEE")
	assert.Contains(t, out, "Team A")
	assert.Contains(t, out, "T1")
	assert.Contains(t, out, "Completed")
	assert.Contains(t, out, "Bruno")
	assert.Contains(t, out, domain.UnassignedName)
	assert.Contains(t, out, "2024-05-02T09:00:00Z")
	assert.Nil(t, deps.store.Tasks)
}

func TestTasksCommand_JSON(t *testing.T) {
	deps := newTestDeps()
	cmd := newTasksCommand(deps.newTestContainer())

	out, _, err := run(cmd, "--format", "json")
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "T1", got[0]["id"])
	assert.Equal(t, "Ana", got[0]["assignee"])
	assert.Equal(t, "COMPLETED", got[0]["status"])
	assert.Equal(t, "spaces/A", got[0]["space"])
	assert.Equal(t, "Team A", got[0]["space_display_name"])
	assert.Equal(t, "T9", got[2]["id"])
}

func TestTasksCommand_Refresh(t *testing.T) {
	deps := newTestDeps()

	_, _, err := run(newTasksCommand(deps.newTestContainer()))
	require.NoError(t, err)
	assert.Empty(t, deps.source.Invalidated())

	_, _, err = run(newTasksCommand(deps.newTestContainer()), "--refresh")
	require.NoError(t, err)
	assert.Equal(t, []string{"spaces/A", "spaces/B"}, deps.source.Invalidated())
}

func TestTasksCommand_YAML(t *testing.T) {
	deps := newTestDeps()
	cmd := newTasksCommand(deps.newTestContainer())

	out, _, err := run(cmd, "-f", "yaml")
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "T2", got[1]["id"])
	assert.Equal(t, "Team A", got[1]["space_display_name"])
}

func TestTasksCommand_EmptyJSONIsList(t *testing.T) {
	deps := newTestDeps()
	deps.source.Messages = map[string][]domain.Message{}
	cmd := newTasksCommand(deps.newTestContainer())

	out, _, err := run(cmd, "--format", "json")

	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestTasksCommand_SaveAndDateRange(t *testing.T) {
	deps := newTestDeps()
	cmd := newTasksCommand(deps.newTestContainer())

	_, errOut, err := run(cmd, "--save", "--date-start", "2024-05-01", "--date-end", "2024-05-10")

	require.NoError(t, err)
	assert.Contains(t, errOut, "Saved 3 tasks")
	assert.Len(t, deps.store.Tasks, 3)
}

func TestTasksCommand_SkipsFailingSpace(t *testing.T) {
	deps := newTestDeps()
	deps.source.Errs["spaces/B"] = domain.ErrFetch
	cmd := newTasksCommand(deps.newTestContainer())

	out, errOut, err := run(cmd)

	require.NoError(t, err)
	assert.Contains(t, errOut, "Warning: skipped Team B")
	assert.NotContains(t, out, "T9")
}

func TestTasksCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "unknown format", args: []string{"--format", "xml"}},
		{name: "bad date", args: []string{"--date-start", "May 1"}, want: domain.ErrInvalidDate},
		{name: "inverted range", args: []string{"--date-start", "2024-05-10", "--date-end", "2024-05-01"}, want: domain.ErrInvalidDateRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestDeps()
			cmd := newTasksCommand(deps.newTestContainer())

			_, _, err := run(cmd, tt.args...)

			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
			assert.Zero(t, deps.source.Calls("spaces/A"))
		})
	}
}
