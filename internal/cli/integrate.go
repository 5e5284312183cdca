package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/utkarsh5026/refine/integrate"
	"github.com/utkarsh5026/refine/internal/config"
	"github.com/utkarsh5026/refine/pool"
)

// NewIntegrateCommand returns the integrate tool.
func NewIntegrateCommand() *cobra.Command {
	return newCommand(
		"integrate",
		"Adaptive trapezoidal integration of log(sin(x))",
		`Reads "a b tolerance" from the input file and integrates log(sin(x))
over [a, b], doubling the number of trapezoids until two successive
estimates differ by at most 3*tolerance. The estimate is written to the
output file as a single line.

thread_count: -1 sequential, 0 all available CPUs, n >= 1 exactly n workers.`,
		RunIntegrate,
		func(flags *pflag.FlagSet, cfg *config.Config) {
			flags.IntVar(&cfg.MaxLevels, "max-levels", 0, "give up after this many refinement levels (0 = no limit)")
		},
	)
}

// RunIntegrate reads the bounds, integrates and writes the estimate.
func RunIntegrate(env *Env, args Args) error {
	bounds, err := ReadBounds(args.Input)
	if err != nil {
		return err
	}

	req := integrate.Request{
		A:         bounds.A,
		B:         bounds.B,
		Tolerance: bounds.Tolerance,
		Threads:   args.Threads,
	}
	if err := req.Validate(); err != nil {
		return newError(MalformedInput, "read input", args.Input, err)
	}

	schedule := env.Config.ScheduleOr(pool.ScheduleStatic)
	bar := newProgress(env.Config.Progress, env.Stderr, -1, "refining")
	sometimes := rate.Sometimes{First: 4, Interval: 100 * time.Millisecond}

	res, err := integrate.Integrate(req,
		integrate.WithSchedule(schedule),
		integrate.WithChunkSize(env.Config.ChunkSize),
		integrate.WithAffinity(env.Config.Affinity),
		integrate.WithMaxLevels(env.Config.MaxLevels),
		integrate.WithLevelHook(func(l integrate.Level) {
			bar.Add(1)
			bar.Describe(fmt.Sprintf("refining: %d trapezoids", l.Trapezoids))
			sometimes.Do(func() {
				env.Logger.Debug("refinement level",
					zap.Int("level", l.Index),
					zap.Int("trapezoids", l.Trapezoids),
					zap.Float64("estimate", l.Estimate),
					zap.Float64("delta", l.Delta),
				)
			})
		}),
	)
	bar.Finish()
	if err != nil {
		if errors.Is(err, integrate.ErrNotConverged) {
			return newError(NotConverged, "integrate", "", err)
		}
		return newError(MalformedInput, "integrate", args.Input, err)
	}

	env.Logger.Info("integral converged",
		zap.Float64("value", res.Value),
		zap.Int("levels", res.Levels),
		zap.Int("trapezoids", res.Trapezoids),
		zap.Int("threads", res.Threads),
		zap.Stringer("spec", args.Threads),
		zap.Duration("elapsed", res.Elapsed),
	)

	if err := WriteEstimate(args.Output, res.Value); err != nil {
		return err
	}

	timing := Timing{
		Kernel:   "integrate",
		Threads:  res.Threads,
		Schedule: scheduleLabel(args.Threads, schedule),
		Detail:   fmt.Sprintf("%d trapezoids, %d levels", res.Trapezoids, res.Levels),
		Elapsed:  res.Elapsed,
	}
	printTiming(env.Stderr, timing)
	if env.Config.Report {
		return renderReport(env.Stderr, timing)
	}
	return nil
}

func scheduleLabel(spec pool.ThreadSpec, s pool.Schedule) string {
	if spec.Kind() == pool.KindSequential {
		return "sequential"
	}
	return s.String()
}
