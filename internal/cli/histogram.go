package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/utkarsh5026/refine/histogram"
	"github.com/utkarsh5026/refine/internal/config"
	"github.com/utkarsh5026/refine/pool"
)

// NewHistogramCommand returns the histogram tool.
func NewHistogramCommand() *cobra.Command {
	return newCommand(
		"histogram",
		"Brightness histogram of a binary PGM image",
		`Reads a P5 (binary PGM) image and counts how often each of the 256
brightness values occurs. The output file receives the 256 counters as raw
native-endian uint32 values.

thread_count: -1 sequential, 0 all available CPUs, n >= 1 exactly n workers.`,
		RunHistogram,
		func(flags *pflag.FlagSet, cfg *config.Config) {
			flags.StringVar(&cfg.Mode, "mode", histogram.ModeAtomic.String(),
				"parallel counting: atomic (shared counters) or private (per-worker merge)")
		},
	)
}

// RunHistogram reads the image, counts its samples and writes the counters.
func RunHistogram(env *Env, args Args) error {
	mode, err := env.Config.HistogramMode()
	if err != nil {
		return newError(InvalidArguments, "histogram mode", "", err)
	}

	img, err := ReadImage(args.Input)
	if err != nil {
		return err
	}
	env.Logger.Debug("image loaded",
		zap.Uint32("width", img.Width),
		zap.Uint32("height", img.Height),
		zap.Uint32("maxval", img.MaxValue),
	)

	schedule := env.Config.ScheduleOr(pool.ScheduleDynamic)
	bar := newProgress(env.Config.Progress, env.Stderr, int64(len(img.Samples)), "counting")

	spec := args.Threads.Resolved()
	threads := spec.Resolve()
	start := time.Now()
	h := histogram.Compute(img.Samples, spec,
		histogram.WithMode(mode),
		histogram.WithSchedule(schedule),
		histogram.WithChunkSize(env.Config.ChunkSize),
		histogram.WithAffinity(env.Config.Affinity),
		histogram.WithProgress(bar.Add),
	)
	elapsed := time.Since(start)
	bar.Finish()

	env.Logger.Info("histogram computed",
		zap.Uint64("samples", h.Total()),
		zap.Int("threads", threads),
		zap.Stringer("spec", args.Threads),
		zap.Stringer("mode", mode),
		zap.Duration("elapsed", elapsed),
	)

	if err := WriteHistogram(args.Output, &h); err != nil {
		return err
	}

	timing := Timing{
		Kernel:   "histogram",
		Threads:  threads,
		Schedule: scheduleLabel(args.Threads, schedule),
		Detail:   fmt.Sprintf("%dx%d, %s", img.Width, img.Height, mode),
		Elapsed:  elapsed,
	}
	printTiming(env.Stderr, timing)
	if env.Config.Report {
		return renderReport(env.Stderr, timing)
	}
	return nil
}
