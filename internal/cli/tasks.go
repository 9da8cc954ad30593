package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/runoshun/chat-tasks/internal/app"
	"github.com/runoshun/chat-tasks/internal/usecase"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats for the tasks command.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// newTasksCommand creates the tasks command.
func newTasksCommand(c *app.Container) *cobra.Command {
	var (
		dates   dateFlags
		format  string
		save    bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Reconstruct tasks from notifications",
		Long: `Reconstruct the state of every task created in the date range from
the "via Tasks" notifications of each space.

Spaces whose messages cannot be fetched are skipped with a warning.
With --save, the tasks are written to the tasks file, which report uses
instead of calling the API again. Use --refresh to drop cached message
batches and fetch them from the API.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch format {
			case formatTable, formatJSON, formatYAML:
			default:
				return fmt.Errorf("unknown format %q (expected table, json or yaml)", format)
			}

			r, err := dates.resolve(c)
			if err != nil {
				return err
			}

			out, err := c.FetchTasksUseCase().Execute(cmd.Context(), usecase.FetchTasksInput{
				Range:           r,
				Save:            save,
				ContinueOnError: true,
				Refresh:         refresh,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if err := printTasks(w, out.Views(), format); err != nil {
				return err
			}
			printSkipped(cmd.ErrOrStderr(), out.Skipped)
			if out.Saved {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Saved %d tasks\n", len(out.Tasks))
			}
			return nil
		},
	}

	dates.register(cmd)
	cmd.Flags().BoolVar(&save, "save", false, "Write the tasks to the tasks file")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Drop cached messages and fetch from the API")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, json or yaml")

	return cmd
}

func printTasks(w io.Writer, views []usecase.TaskView, format string) error {
	if views == nil {
		views = []usecase.TaskView{}
	}
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(views) == 0 {
		_, _ = fmt.Fprintln(w, "No tasks found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "SPACE\tID\tASSIGNEE\tSTATUS\tCREATED")
	for _, v := range views {
		assignee := "-"
		if v.Assignee != "" {
			assignee = v.Assignee
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			v.SpaceDisplayName, v.ID, assignee, v.Status.Display(), v.CreatedTime.UTC().Format(time.RFC3339))
	}
	return nil
}

// printSkipped reports the spaces left out of a run.
func printSkipped(w io.Writer, skipped []usecase.SkippedSpace) {
	for _, s := range skipped {
		_, _ = fmt.Fprintf(w, "Warning: skipped %s: %v\n", s.Space.Label(), s.Err)
	}
}
