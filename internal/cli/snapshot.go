package cli

import (
	"context"
	"io"

	"github.com/rileyhilliard/termdash/internal/config"
	"github.com/rileyhilliard/termdash/internal/errors"
	"github.com/rileyhilliard/termdash/internal/logger"
	"github.com/rileyhilliard/termdash/internal/monitor"
	"github.com/rileyhilliard/termdash/internal/sensors"
	"github.com/spf13/cobra"
)

// snapshotCmd prints one sampled state without taking over the terminal
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print the current machine state as YAML",
	Long: `Sample the machine twice, one interval apart, and print the result
as YAML. The second sample gives network interfaces a rate.

Doesn't need a terminal, so it works in scripts and over pipes.

Examples:
  termdash snapshot
  termdash snapshot --interval 2s --processes 10
  termdash snapshot --mount / > state.yaml`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		log, closer, err := openLogger(settings)
		if err != nil {
			return err
		}
		defer closer.Close()
		logger.SetDefault(log)

		ctx := cmd.Context()
		mounts := resolveMounts(ctx, settings, log)
		src := newHost(mounts, settings, log)
		return snapshotCommand(ctx, cmd.OutOrStdout(), src, mounts, sensors.Hostname(ctx), settings, log)
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}

// snapshotCommand samples src and writes the snapshot YAML to w.
func snapshotCommand(ctx context.Context, w io.Writer, src monitor.Source, mounts []string, hostname string, s *config.Settings, log logger.Logger) error {
	sampler, state := newSampler(src, mounts, s, log)
	state.Hostname = hostname

	snap, err := monitor.TakeSnapshot(ctx, sampler, state, s.Interval)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrSensor,
			"Snapshot interrupted",
			"Let the command run for at least one --interval.")
	}

	out, err := snap.YAML()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrRender,
			"Couldn't encode snapshot", "")
	}

	if _, err := w.Write(out); err != nil {
		return errors.WrapWithCode(err, errors.ErrRender,
			"Couldn't write snapshot", "Check that stdout is writable.")
	}
	return nil
}
