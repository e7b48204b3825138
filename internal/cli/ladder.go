package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"wake_sync_bot/internal/app"
)

// NewLadderCommand creates the ladder command.
func NewLadderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ladder",
		Short: "Print the sleep-interval backoff ladder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-10s %s\n", "current", "next")
			for _, step := range app.Ladder() {
				fmt.Fprintf(w, "%-10s %s\n", step.From, step.To)
			}
			fmt.Fprintf(w, "%-10s %s\n", "other", app.MaxSleepInterval)
			return nil
		},
	}
}
