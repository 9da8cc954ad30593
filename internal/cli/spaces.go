package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/runoshun/chat-tasks/internal/app"
	"github.com/runoshun/chat-tasks/internal/domain"
	"github.com/runoshun/chat-tasks/internal/usecase"
	"github.com/spf13/cobra"
)

// newSpacesCommand creates the spaces command.
func newSpacesCommand(c *app.Container) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "spaces",
		Short: "List group spaces",
		Long: `List the group spaces visible to the authorized user.
Direct messages are left out.

With --save, the list is written to the spaces file and later commands
read spaces from it instead of the API.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListSpacesUseCase().Execute(cmd.Context(), usecase.ListSpacesInput{
				Save: save,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printSpaces(w, out.Spaces)
			if out.Saved {
				_, _ = fmt.Fprintf(w, "\nSaved %d spaces\n", len(out.Spaces))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Write the spaces to the spaces file")

	return cmd
}

// printSpaces prints spaces in TSV format.
func printSpaces(w io.Writer, spaces []domain.Space) {
	if len(spaces) == 0 {
		_, _ = fmt.Fprintln(w, "No spaces found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "NAME\tDISPLAY NAME")
	for _, s := range spaces {
		display := "-"
		if s.DisplayName != "" {
			display = s.DisplayName
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", s.Name, display)
	}
}
