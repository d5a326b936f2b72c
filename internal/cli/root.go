package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/termdash/internal/config"
	"github.com/rileyhilliard/termdash/internal/errors"
	"github.com/rileyhilliard/termdash/internal/logger"
	"github.com/rileyhilliard/termdash/internal/monitor"
	"github.com/rileyhilliard/termdash/internal/sensors"
	"github.com/spf13/cobra"
)

// rootCmd runs the dashboard
var rootCmd = &cobra.Command{
	Use:   "termdash",
	Short: "Live CPU, memory, disk and network dashboard for this machine",
	Long: `Show a live dashboard of the local machine in the terminal.

CPU and memory usage are drawn as graphs, mounted disks as gauges, and
active network interfaces with their receive and transmit rates. Values
that couldn't be read on the latest sample are marked with ~.

Keyboard shortcuts:
  q / Esc / Ctrl+C  Quit

Examples:
  termdash
  termdash --interval 2s --history 120
  termdash --mount / --mount /home --processes 0`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		return dashboardCommand(cmd.Context(), settings)
	},
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())
}

// Execute runs the root command. SIGINT and SIGTERM cancel the context,
// which ends the dashboard and restores the terminal.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openLogger returns the file logger asked for by settings, or a no-op
// logger. The dashboard owns stdout, so logs never go there.
func openLogger(s *config.Settings) (logger.Logger, io.Closer, error) {
	if s.LogFile == "" {
		return logger.Noop(), nopCloser{}, nil
	}
	log, closer, err := logger.OpenFile(s.LogFile, "termdash", s.Debug)
	if err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Couldn't open log file %s", s.LogFile),
			"Check the directory exists and is writable, or drop --log-file.")
	}
	return log, closer, nil
}

func applyColor(s *config.Settings) {
	if s.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

func resolveMounts(ctx context.Context, s *config.Settings, log logger.Logger) []string {
	if len(s.Mounts) > 0 {
		return s.Mounts
	}
	mounts := sensors.DiscoverMounts(ctx)
	log.Debug("discovered mounts: %v", mounts)
	return mounts
}

// newSampler wires a source into a sampler and a fresh state sized by
// settings.
func newSampler(src monitor.Source, mounts []string, s *config.Settings, log logger.Logger) (*monitor.Sampler, *monitor.DashboardState) {
	sampler := monitor.NewSampler(src,
		monitor.WithMounts(mounts...),
		monitor.WithProcessCount(s.Processes),
		monitor.WithTimeout(s.SampleTimeout),
		monitor.WithLogger(logger.With(log, "sampler")),
	)
	state := monitor.NewDashboardState(s.History, logger.With(log, "network"))
	return sampler, state
}

func newHost(mounts []string, s *config.Settings, log logger.Logger) *sensors.Host {
	return sensors.NewHost(mounts,
		sensors.WithProcesses(s.Processes > 0),
		sensors.WithLogger(logger.With(log, "sensors")),
	)
}

// dashboardCommand runs the live dashboard until the user quits or ctx is
// cancelled.
func dashboardCommand(ctx context.Context, s *config.Settings) error {
	log, closer, err := openLogger(s)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.SetDefault(log)

	applyColor(s)

	mounts := resolveMounts(ctx, s, log)
	sampler, state := newSampler(newHost(mounts, s, log), mounts, s, log)
	state.Hostname = sensors.Hostname(ctx)

	log.Info("starting dashboard on %s: interval=%s mounts=%v", state.Hostname, s.Interval, mounts)

	model := monitor.NewModel(ctx, sampler, state, s.Interval, logger.With(log, "scheduler"))
	session := monitor.NewSession(model, monitor.WithSessionLogger(logger.With(log, "session")))

	err = session.Run(ctx)
	if err != nil {
		log.Error("dashboard stopped: %v", err)
	} else {
		log.Info("dashboard stopped")
	}
	return err
}
