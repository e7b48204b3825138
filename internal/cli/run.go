package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"wake_sync_bot/internal/domain/cycle"
	"wake_sync_bot/internal/infra/logger"
	"wake_sync_bot/internal/infra/retained"
	"wake_sync_bot/internal/infra/scheduler"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run wake cycles until interrupted",
		Long: `Run wake cycles back to back. Between cycles the process sleeps on a
one-shot wake timer for the interval chosen by the backoff ladder.
SIGINT or SIGTERM ends the current wait and exits.

Example:
  wakesync run
  wakesync run --env-file /etc/wakesync.env -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCycles(rootOpts, cmd)
		},
	}
}

func runCycles(opts *RootOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts, cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStateStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.close()

	// One RTC for the life of the process: it survives the emulated deep sleeps.
	svc, err := buildCycleService(cfg, store.repo, retained.NewRTC(), scheduler.NewWakeScheduler(logger.For("scheduler")))
	if err != nil {
		return err
	}

	log := logger.For("cli")
	log.WithField("state_driver", cfg.StateDriver).Info("Starting wake cycles")
	for {
		out := svc.Run(ctx)
		if ctx.Err() != nil {
			log.Info("Interrupted, shutting down")
			return nil
		}
		if out.PowerDownErr != nil {
			return fmt.Errorf("wake timer failed: %w", out.PowerDownErr)
		}
	}
}

// NewOnceCommand creates the once command.
func NewOnceCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Run a single wake cycle and print its outcome",
		Long: `Run one wake cycle. Instead of sleeping, the process halts right after
arming the wake timer and prints what the cycle did.

With STATE_DRIVER=memory every invocation is a cold boot; use sqlite3 or
postgres to carry the interval and message id between invocations.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts, cmd)
			if err != nil {
				return err
			}
			store, err := openStateStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.close()

			power := &haltPower{}
			svc, err := buildCycleService(cfg, store.repo, retained.NewRTC(), power)
			if err != nil {
				return err
			}
			printOutcome(cmd.OutOrStdout(), svc.Run(cmd.Context()))
			return nil
		},
	}
}

// haltPower records the armed wake timer and returns at once.
type haltPower struct {
	armedMicros uint64
}

func (p *haltPower) ArmWakeTimer(micros uint64) { p.armedMicros = micros }

func (p *haltPower) PowerDown(ctx context.Context) error {
	logger.For("scheduler").WithField("wake_in", time.Duration(p.armedMicros)*time.Microsecond).Info("Halting instead of sleeping")
	return nil
}

func printOutcome(w io.Writer, out *cycle.Outcome) {
	fmt.Fprintf(w, "cycle:      %s\n", out.ID)
	fmt.Fprintf(w, "connected:  %t\n", out.Connected)
	if out.Connected {
		fmt.Fprintf(w, "rtc:        %s\n", out.RetainedRTC)
		if out.FetchErr != nil {
			fmt.Fprintf(w, "ntp:        failed (%v)\n", out.FetchErr)
		} else {
			fmt.Fprintf(w, "ntp:        %s\n", out.NetworkTime)
		}
	}
	fmt.Fprintf(w, "clock:      %s", out.Clock)
	if out.Clock == cycle.ClockDriftReported {
		fmt.Fprintf(w, " (drift %ds)", out.Drift)
	}
	fmt.Fprintln(w)
	switch {
	case !out.ReportAttempted:
		fmt.Fprintln(w, "report:     skipped")
	case out.ReportErr != nil:
		fmt.Fprintf(w, "report:     failed (%v)\n", out.ReportErr)
	default:
		fmt.Fprintln(w, "report:     delivered")
	}
	if out.HasMessageID {
		fmt.Fprintf(w, "message id: %d\n", out.MessageID)
	}
	fmt.Fprintf(w, "sleep:      %s -> %s\n", out.PreviousInterval, out.NextInterval)
}
