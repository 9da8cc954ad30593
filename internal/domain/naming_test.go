package domain

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPaths(t *testing.T) {
	dir := "/work"

	t.Run("GlobalConfigPath", func(t *testing.T) {
		assert.Equal(t, filepath.Join("/home/u/.config", "chattasks", "config.toml"), GlobalConfigPath("/home/u/.config"))
	})

	t.Run("LocalConfigPath", func(t *testing.T) {
		assert.Equal(t, filepath.Join(dir, "chattasks.toml"), LocalConfigPath(dir))
	})

	t.Run("GlobalLogPath", func(t *testing.T) {
		assert.Equal(t, filepath.Join(dir, "logs", "chattasks.log"), GlobalLogPath(dir))
	})

	t.Run("SpaceLogPath", func(t *testing.T) {
		assert.Equal(t, filepath.Join(dir, "logs", "space-AAAA.log"), SpaceLogPath(dir, "spaces/AAAA"))
		assert.Equal(t, filepath.Join(dir, "logs", "space-a_b.log"), SpaceLogPath(dir, "a.b"))
	})
}

func TestReportFileName(t *testing.T) {
	r := DateRange{
		Start: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "task_report_2024-02-01_2024-03-01.csv", ReportFileName(r))
}
