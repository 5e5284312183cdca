// Package cli implements the integrate and histogram command-line tools:
// argument handling, input and output files, diagnostics and exit codes.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/utkarsh5026/refine/internal/config"
	"github.com/utkarsh5026/refine/internal/logging"
	"github.com/utkarsh5026/refine/pool"
)

// UsageLine describes the positional arguments of both tools.
const UsageLine = "<input_path> <output_path> <thread_count>"

// Args are the validated positional arguments.
type Args struct {
	Input   string
	Output  string
	Threads pool.ThreadSpec
}

// Env is what a kernel runner needs besides its arguments.
type Env struct {
	Config config.Config
	Logger *zap.Logger
	Stderr io.Writer
}

type runFunc func(env *Env, args Args) error

// flagValues holds command-line overrides of config.Config.
type flagValues struct {
	configPath string
	cfg        config.Config
}

// newCommand builds a tool command. extra registers kernel-specific flags
// bound to the override config.
func newCommand(use, short, long string, run runFunc, extra func(*pflag.FlagSet, *config.Config)) *cobra.Command {
	var fv flagValues

	cmd := &cobra.Command{
		Use:   use + " [flags] " + UsageLine,
		Short: short,
		Long:  long,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 3 {
				return invalidArgs("expected %s, got %d argument(s)", UsageLine, len(args))
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			threads, err := pool.ParseThreadSpec(args[2])
			if err != nil {
				return invalidArgs("thread count: %w", err)
			}

			cfg, err := resolveConfig(cmd, &fv)
			if err != nil {
				return newError(InvalidArguments, "load config", fv.configPath, err)
			}

			logger, err := logging.New(use, cfg.LogLevel, cmd.ErrOrStderr())
			if err != nil {
				return newError(InvalidArguments, "", "", err)
			}
			defer func() { _ = logger.Sync() }()

			env := &Env{Config: cfg, Logger: logger, Stderr: cmd.ErrOrStderr()}
			return run(env, Args{Input: args[0], Output: args[1], Threads: threads})
		},
	}

	// Flags must precede the positional arguments so that a thread count of
	// -1 is not parsed as a flag.
	flags := cmd.Flags()
	flags.SetInterspersed(false)
	flags.StringVar(&fv.configPath, "config", "", "YAML file with default settings")
	flags.StringVar(&fv.cfg.Schedule, "schedule", "", "work partitioning: static, dynamic or guided")
	flags.IntVar(&fv.cfg.ChunkSize, "chunk", 0, "chunk size for the schedule (0 = schedule default)")
	flags.BoolVar(&fv.cfg.Affinity, "affinity", false, "pin worker threads to CPUs")
	flags.StringVar(&fv.cfg.LogLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flags.BoolVar(&fv.cfg.Report, "report", false, "print a timing table on stderr")
	flags.BoolVar(&fv.cfg.Progress, "progress", false, "show a progress indicator on stderr")
	if extra != nil {
		extra(flags, &fv.cfg)
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return invalidArgs("%w", err)
	})
	return cmd
}

// resolveConfig layers explicitly set flags over the loaded configuration.
func resolveConfig(cmd *cobra.Command, fv *flagValues) (config.Config, error) {
	cfg, err := config.Load(fv.configPath)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("schedule") {
		cfg.Schedule = fv.cfg.Schedule
	}
	if flags.Changed("chunk") {
		cfg.ChunkSize = fv.cfg.ChunkSize
	}
	if flags.Changed("affinity") {
		cfg.Affinity = fv.cfg.Affinity
	}
	if flags.Changed("mode") {
		cfg.Mode = fv.cfg.Mode
	}
	if flags.Changed("max-levels") {
		cfg.MaxLevels = fv.cfg.MaxLevels
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = fv.cfg.LogLevel
	}
	if flags.Changed("report") {
		cfg.Report = fv.cfg.Report
	}
	if flags.Changed("progress") {
		cfg.Progress = fv.cfg.Progress
	}

	return cfg, cfg.Validate()
}

// Main runs cmd with args and returns the process exit status. Errors are
// printed on the command's stderr.
func Main(cmd *cobra.Command, args []string) int {
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err != nil {
		printError(cmd.ErrOrStderr(), err)
		if KindOf(err) == InvalidArguments {
			fmt.Fprintf(cmd.ErrOrStderr(), "usage: %s\n", cmd.UseLine())
		}
	}
	return ExitCode(err)
}

// Run is Main for the current process.
func Run(cmd *cobra.Command) {
	os.Exit(Main(cmd, os.Args[1:]))
}
