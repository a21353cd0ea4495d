package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/fightcal/internal/config"
	"github.com/pfrederiksen/fightcal/internal/logger"
	"github.com/pfrederiksen/fightcal/internal/metrics"
	"github.com/pfrederiksen/fightcal/internal/notifier"
	"github.com/pfrederiksen/fightcal/internal/publish"
)

const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitNewEvents = 2
)

// exitCodeError carries a non-zero exit code out of a command.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// ExitCode maps an Execute error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ec *exitCodeError
	if errors.As(err, &ec) {
		return ec.code
	}
	return ExitError
}

// app holds what every command needs after the persistent flags are parsed.
type app struct {
	configPath string
	logLevel   string
	dataDir    string

	cfg     *config.Config
	log     *logger.Logger
	runID   string
	metrics *metrics.Recorder

	now          func() time.Time
	stdin        io.Reader
	newNotifier  func(channel string, dryRun bool, out io.Writer) (notifier.Notifier, error)
	newPublisher func(ctx context.Context, cfg publish.S3Config) (publish.Publisher, error)
}

func newApp() *app {
	return &app{
		now:          time.Now,
		stdin:        os.Stdin,
		newNotifier:  defaultNotifier,
		newPublisher: defaultPublisher,
	}
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fightcal",
		Short: "Turn the Boxing247 fight schedule into a calendar",
		Long: `A CLI tool that converts the Boxing247 fight schedule into iCalendar events.
Each card gets a stable UID, a start time resolved from its broadcast annotations
and a fixed duration. New cards can be announced on Twitter or Telegram.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "Data directory for snapshots (default ~/.local/share/fightcal)")

	cmd.AddCommand(newBuildCmd(a), newListCmd(a), newAnnounceCmd(a))
	return cmd
}

// setup loads the configuration and creates the run-scoped logger.
func (a *app) setup(stderr io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.runID = uuid.NewString()
	a.log = logger.New(level, stderr).With(logger.Fields{"run_id": a.runID})
	a.metrics = metrics.New()
	logger.SetDefault(a.log)
	return nil
}

// writeMetrics stamps the run and writes the textfile when a path is configured.
func (a *app) writeMetrics(path string) error {
	if path == "" {
		path = a.cfg.MetricsFile
	}
	if path == "" {
		return nil
	}
	a.metrics.MarkRun(a.now())
	if err := a.metrics.WriteTextfile(path); err != nil {
		return err
	}
	a.log.Debug("Wrote metrics", logger.Fields{"path": path})
	return nil
}

// Execute runs the CLI
func Execute() {
	err := NewRootCmd().Execute()
	code := ExitCode(err)
	if code == ExitError {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(code)
}
