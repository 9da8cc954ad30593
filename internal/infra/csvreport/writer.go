// Package csvreport writes completion reports as CSV files.
package csvreport

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/runoshun/chat-tasks/internal/domain"
)

// Ensure Writer implements domain.ReportWriter.
var _ domain.ReportWriter = (*Writer)(nil)

// Writer writes report files into a directory.
type Writer struct {
	dir string
}

// New creates a Writer that places reports in dir.
func New(dir string) *Writer {
	return &Writer{dir: dir}
}

// WriteReport writes task_report_<start>_<end>.csv and returns its path.
func (w *Writer) WriteReport(report domain.Report, r domain.DateRange) (string, error) {
	path := filepath.Join(w.dir, domain.ReportFileName(r))

	f, err := os.Create(path) //nolint:gosec // Report path is derived from the date range
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	if err := Encode(f, report); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}
	return path, nil
}

// Encode writes the header row followed by one row per assignee.
// The header is written even when the report has no rows.
func Encode(out io.Writer, report domain.Report) error {
	columns := report.Columns
	if len(columns) == 0 {
		columns = domain.ReportColumns
	}

	cw := csv.NewWriter(out)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	for _, row := range report.Rows {
		record := []string{
			row.Assignee,
			strconv.Itoa(row.TasksReceived),
			strconv.Itoa(row.TasksCompleted),
			strconv.FormatFloat(row.CompletionRate, 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write report row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}
