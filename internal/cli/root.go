package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"wake_sync_bot/internal/infra/config"
	"wake_sync_bot/internal/infra/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFile string
	Verbose bool
}

// NewRootCommand creates the root command for the wakesync CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "wakesync",
		Short: "Wake, sync the clock, report, sleep",
		Long: `wakesync runs the duty cycle of a battery-powered clock node on a host:
connect, fetch network time, reconcile the retained clock, post a status
message to a Telegram chat (editing the previous one), then sleep for an
interval that backs off from 5 minutes to 24 hours.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file read before the environment")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewOnceCommand(opts))
	cmd.AddCommand(NewStateCommand(opts))
	cmd.AddCommand(NewLadderCommand())

	return cmd
}

// loadConfig reads the configuration and points the global logger at the command's stderr.
func loadConfig(opts *RootOptions, cmd *cobra.Command) (*config.AppConfig, error) {
	cfg, err := config.Load(opts.EnvFile)
	if err != nil {
		return nil, err
	}
	logger.InitTo(cmd.ErrOrStderr(), cfg)
	if opts.Verbose && logger.Log.GetLevel() < logrus.DebugLevel {
		logger.Log.SetLevel(logrus.DebugLevel)
	}
	return cfg, nil
}
