package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"wake_sync_bot/internal/infra/config"
)

// NewStateCommand creates the state command group.
func NewStateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or reset the persisted cycle state",
		Long: `Inspect or reset the cycle state kept in the SQL store.

Only available with STATE_DRIVER=sqlite3 or postgres; the memory store
lives and dies with the running process.`,
	}
	cmd.AddCommand(newStateShowCommand(rootOpts))
	cmd.AddCommand(newStateResetCommand(rootOpts))
	return cmd
}

func newStateShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored sleep interval and message id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSQLStore(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer store.close()

			state, err := store.sql.Load(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "sleep interval: %s\n", state.SleepInterval)
			if state.LastMessageID.Valid {
				fmt.Fprintf(w, "message id:     %d\n", state.LastMessageID.Int32)
			} else {
				fmt.Fprintln(w, "message id:     none")
			}
			if state.IsFirstCycle() {
				fmt.Fprintln(w, "next wake is a cold boot")
			}
			return nil
		},
	}
}

func newStateResetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget the stored state; the next cycle starts from a cold boot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSQLStore(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer store.close()

			if err := store.sql.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cycle state reset")
			return nil
		},
	}
}

func openSQLStore(rootOpts *RootOptions, cmd *cobra.Command) (*stateStore, error) {
	cfg, err := loadConfig(rootOpts, cmd)
	if err != nil {
		return nil, err
	}
	if cfg.StateDriver == config.StateDriverMemory {
		return nil, fmt.Errorf("state commands need STATE_DRIVER=sqlite3 or postgres, got %q", cfg.StateDriver)
	}
	return openStateStore(cmd.Context(), cfg)
}
