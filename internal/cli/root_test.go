package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommand_Help(t *testing.T) {
	root := NewRootCommand(nil, "test-version")

	out, _, err := run(root, "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "Data Commands:")
	assert.Contains(t, out, "Setup Commands:")
	for _, name := range []string{"spaces", "people", "tasks", "report", "config"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "--dir")
	assert.Contains(t, out, "--config")
}

func TestNewRootCommand_Version(t *testing.T) {
	root := NewRootCommand(nil, "1.2.3")

	out, _, err := run(root, "--version")

	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
}

func TestNewRootCommand_PrintsConfigWarnings(t *testing.T) {
	deps := newTestDeps()
	deps.warnings = []string{"unknown key in [fetch]: retries"}
	root := NewRootCommand(deps.newTestContainer(), "test")

	_, errOut, err := run(root, "spaces")

	require.NoError(t, err)
	assert.Contains(t, errOut, "Warning: unknown key in [fetch]: retries")
}

func TestNewRootCommand_AcceptsGlobalFlags(t *testing.T) {
	deps := newTestDeps()
	root := NewRootCommand(deps.newTestContainer(), "test")

	_, _, err := run(root, "--dir", t.TempDir(), "--config", "other.toml", "spaces")

	assert.NoError(t, err)
}
