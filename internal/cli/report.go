package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/runoshun/chat-tasks/internal/app"
	"github.com/runoshun/chat-tasks/internal/domain"
	"github.com/runoshun/chat-tasks/internal/usecase"
	"github.com/spf13/cobra"
)

// newReportCommand creates the report command.
func newReportCommand(c *app.Container) *cobra.Command {
	var (
		dates   dateFlags
		save    bool
		refresh bool
		pretty  bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report task completion per assignee",
		Long: `Report, per assignee, how many tasks were received and completed in
the date range, and the completion rate (completed / received).

Tasks come from the tasks file when it exists, otherwise from the API.
Use --refresh to always fetch from the API, bypassing cached messages. When a people file exists,
only the assignees listed in it are counted.

With --save, the report is also written to
task_report_<date-start>_<date-end>.csv in the working directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := dates.resolve(c)
			if err != nil {
				return err
			}

			out, err := c.BuildReportUseCase().Execute(cmd.Context(), usecase.BuildReportInput{
				Range:   r,
				Save:    save,
				Refresh: refresh,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Task Report for period: %s\n", out.Range)
			_, _ = fmt.Fprintf(w, "Source: %s", out.Source)
			if out.Filtered {
				_, _ = fmt.Fprint(w, " (filtered by people file)")
			}
			_, _ = fmt.Fprintln(w)
			_, _ = fmt.Fprintln(w)

			switch {
			case out.Report.IsEmpty():
				_, _ = fmt.Fprintln(w, "No tasks found to analyze")
			case pretty:
				_, _ = fmt.Fprintln(w, renderReportTable(out.Report))
			default:
				printReport(w, out.Report)
			}

			printSkipped(cmd.ErrOrStderr(), out.Skipped)
			if out.Path != "" {
				_, _ = fmt.Fprintf(w, "\nReport saved as %s\n", out.Path)
			}
			return nil
		},
	}

	dates.register(cmd)
	cmd.Flags().BoolVar(&save, "save", false, "Write the report as CSV")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Ignore the tasks file and cached messages, fetch from the API")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Render the report as a styled table")

	return cmd
}

// reportRecord formats a row for display.
func reportRecord(row domain.ReportRow) []string {
	return []string{
		row.Assignee,
		strconv.Itoa(row.TasksReceived),
		strconv.Itoa(row.TasksCompleted),
		strconv.FormatFloat(row.CompletionRate, 'f', 2, 64),
	}
}

// printReport prints the report and a TOTAL row in TSV format.
func printReport(w io.Writer, report domain.Report) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "ASSIGNEE\tRECEIVED\tCOMPLETED\tRATE")
	for _, row := range report.Rows {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", toAny(reportRecord(row))...)
	}
	_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", toAny(reportRecord(report.Totals()))...)
}

func toAny(fields []string) []any {
	out := make([]any, len(fields))
	for i, f := range fields {
		out[i] = f
	}
	return out
}

var (
	reportHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	reportCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	reportNumberStyle = reportCellStyle.Align(lipgloss.Right)
	reportTotalStyle  = reportNumberStyle.Bold(true)
	reportBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// renderReportTable renders the report with a TOTAL footer row.
func renderReportTable(report domain.Report) string {
	rows := make([][]string, 0, len(report.Rows)+1)
	for _, row := range report.Rows {
		rows = append(rows, reportRecord(row))
	}
	rows = append(rows, reportRecord(report.Totals()))
	last := len(rows) - 1

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(reportBorderStyle).
		Headers("ASSIGNEE", "RECEIVED", "COMPLETED", "RATE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return reportHeaderStyle
			case row == last && col == 0:
				return reportCellStyle.Bold(true)
			case row == last:
				return reportTotalStyle
			case col == 0:
				return reportCellStyle
			default:
				return reportNumberStyle
			}
		}).
		String()
}
