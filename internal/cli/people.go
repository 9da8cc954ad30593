package cli

import (
	"fmt"

	"github.com/runoshun/chat-tasks/internal/app"
	"github.com/runoshun/chat-tasks/internal/usecase"
	"github.com/spf13/cobra"
)

// newPeopleCommand creates the people command.
func newPeopleCommand(c *app.Container) *cobra.Command {
	var (
		dates dateFlags
		save  bool
	)

	cmd := &cobra.Command{
		Use:   "people",
		Short: "Discover people in the spaces",
		Long: `Collect the display names of message senders and task assignees
in the date range.

With --save, the names are written to the people file. When a people file
exists, report only counts the assignees listed in it, so it can be edited
into an allow-list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := dates.resolve(c)
			if err != nil {
				return err
			}

			out, err := c.DiscoverPeopleUseCase().Execute(cmd.Context(), usecase.DiscoverPeopleInput{
				Range: r,
				Save:  save,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.People) == 0 {
				_, _ = fmt.Fprintln(w, "No people found")
			}
			for _, name := range out.People {
				_, _ = fmt.Fprintln(w, name)
			}
			printSkipped(cmd.ErrOrStderr(), out.Skipped)
			if out.Saved {
				_, _ = fmt.Fprintf(w, "\nSaved %d people\n", len(out.People))
			}
			return nil
		},
	}

	dates.register(cmd)
	cmd.Flags().BoolVar(&save, "save", false, "Write the names to the people file")

	return cmd
}
