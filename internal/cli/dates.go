package cli

import (
	"github.com/runoshun/chat-tasks/internal/app"
	"github.com/runoshun/chat-tasks/internal/domain"
	"github.com/spf13/cobra"
)

// dateFlags holds the --date-start and --date-end values.
type dateFlags struct {
	start string
	end   string
}

func (f *dateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "date-start", "", "First day of the range, YYYY-MM-DD (default: first day of previous month)")
	cmd.Flags().StringVar(&f.end, "date-end", "", "Day after the range, YYYY-MM-DD (default: first day of current month)")
}

func (f *dateFlags) resolve(c *app.Container) (domain.DateRange, error) {
	return c.DateRange(f.start, f.end)
}
