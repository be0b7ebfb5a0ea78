// Package cmd provides the CLI commands for bookindex.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/bookindex/internal/config"
	amerrors "github.com/Aman-CERP/bookindex/internal/errors"
	"github.com/Aman-CERP/bookindex/internal/logging"
	"github.com/Aman-CERP/bookindex/internal/profiling"
	"github.com/Aman-CERP/bookindex/pkg/version"
)

// skipConfigAnnotation marks commands that must run even when the
// configuration cannot be loaded.
const skipConfigAnnotation = "bookindex/skip-config"

// rootOptions holds persistent flags and state shared by subcommands.
type rootOptions struct {
	configPath string
	debug      bool
	logLevel   string
	profile    profiling.Options

	cfg            *config.Config
	loggingCleanup func()
	profiler       *profiling.Session
}

// NewRootCmd creates the root command for the bookindex CLI.
func NewRootCmd() *cobra.Command {
	cmd, _ := newRootCmd()
	return cmd
}

func newRootCmd() (*cobra.Command, *rootOptions) {
	o := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "bookindex",
		Short: "Build and merge back-of-book indexes",
		Long: `bookindex builds a back-of-book index (term: pages) from a PDF or a
plain-text export of a book, and merges several such indexes into one.

Common English words, short tokens, numbers and URLs are left out, as are
terms that appear on too many pages to be useful.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("bookindex version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&o.configPath, "config", "", "Config file (overrides the user config)")
	cmd.PersistentFlags().BoolVar(&o.debug, "debug", false, "Enable debug logging to ~/.bookindex/logs/")
	cmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.PersistentFlags().StringVar(&o.profile.CPUPath, "cpuprofile", "", "Write a CPU profile to file")
	cmd.PersistentFlags().StringVar(&o.profile.HeapPath, "memprofile", "", "Write a heap profile to file on exit")
	cmd.PersistentFlags().StringVar(&o.profile.TracePath, "trace", "", "Write an execution trace to file")
	for _, name := range []string{"cpuprofile", "memprofile", "trace"} {
		_ = cmd.PersistentFlags().MarkHidden(name)
	}

	// Teardown runs from run, not PersistentPostRunE, which cobra skips
	// when RunE fails.
	cmd.PersistentPreRunE = o.setup

	cmd.AddCommand(newBuildCmd(o))
	cmd.AddCommand(newMergeCmd(o))
	cmd.AddCommand(newConfigCmd(o))
	cmd.AddCommand(newVersionCmd())

	return cmd, o
}

// setup loads configuration, configures logging and tags the command
// context with a run id.
func (o *rootOptions) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		if cmd.Annotations[skipConfigAnnotation] == "" {
			return err
		}
		cfg = config.NewConfig()
	}
	o.cfg = cfg

	if err := o.setupLogging(cmd); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if o.profile.Enabled() {
		p, err := profiling.Start(o.profile)
		if err != nil {
			return err
		}
		o.profiler = p
	}

	runID := logging.NewRunID()
	cmd.SetContext(logging.WithRunID(ctx, runID))

	slog.Debug("command_start",
		slog.String("command", cmd.CommandPath()),
		slog.String("run_id", runID),
		slog.String("version", version.Short()))
	return nil
}

// setupLogging sends JSON logs to a rotating file with --debug or a
// configured log file; otherwise warnings and above go to stderr as text.
func (o *rootOptions) setupLogging(cmd *cobra.Command) error {
	level := o.cfg.Logging.Level
	if o.logLevel != "" {
		if _, err := logging.ParseLevel(o.logLevel); err != nil {
			return amerrors.ConfigError("invalid --log-level", err).
				WithSuggestion("Use debug, info, warn or error")
		}
		level = o.logLevel
	}

	if o.debug || o.cfg.Logging.File != "" {
		logCfg := logging.Config{
			Level:     level,
			FilePath:  o.cfg.Logging.File,
			MaxSizeMB: o.cfg.Logging.MaxSizeMB,
			MaxFiles:  o.cfg.Logging.MaxFiles,
		}
		if o.debug {
			logCfg.Level = "debug"
		}
		logger, cleanup, err := logging.Setup(logCfg)
		if err != nil {
			return amerrors.IOError("failed to set up logging", err)
		}
		o.loggingCleanup = cleanup
		slog.SetDefault(logger)
		return nil
	}

	if o.logLevel == "" {
		level = "warn"
	}
	slog.SetDefault(logging.NewConsole(cmd.ErrOrStderr(), level))
	return nil
}

// run executes cmd and always stops profiling and closes the log file,
// recording a failed run in the log file first.
func (o *rootOptions) run(ctx context.Context, cmd *cobra.Command) (err error) {
	defer func() {
		if terr := o.teardown(); err == nil {
			err = terr
		}
	}()

	err = cmd.ExecuteContext(ctx)
	if err != nil && o.loggingCleanup != nil {
		slog.Error("command_failed", amerrors.LogAttrs(err)...)
	}
	return err
}

func (o *rootOptions) teardown() error {
	var err error
	if o.profiler != nil {
		err = o.profiler.Stop()
		o.profiler = nil
		slog.Debug("profiles_written",
			slog.String("heap_in_use", profiling.FormatBytes(profiling.HeapInUse())))
	}
	if o.loggingCleanup != nil {
		o.loggingCleanup()
		o.loggingCleanup = nil
	}
	return err
}

// Execute runs the root command, cancelling on SIGINT/SIGTERM, and prints
// any error in CLI form.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, o := newRootCmd()
	err := o.run(ctx, cmd)
	if err != nil {
		_, _ = fmt.Fprint(os.Stderr, amerrors.FormatForCLI(err))
	}
	return err
}
