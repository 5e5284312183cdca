package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
)

var (
	bold = color.New(color.Bold)
	red  = color.New(color.FgRed, color.Bold)
)

// Timing is what a run reports on the diagnostic stream.
type Timing struct {
	Kernel   string
	Threads  int
	Schedule string
	Detail   string
	Elapsed  time.Duration
}

// Milliseconds returns the elapsed time in fractional milliseconds.
func (t Timing) Milliseconds() float64 {
	return float64(t.Elapsed) / float64(time.Millisecond)
}

// printTiming writes the one-line timing diagnostic.
func printTiming(w io.Writer, t Timing) {
	_, _ = bold.Fprintf(w, "Time (%d thread(s)): %g ms\n", t.Threads, t.Milliseconds())
}

// renderReport writes a table summarizing the run.
func renderReport(w io.Writer, t Timing) error {
	table := tablewriter.NewWriter(w)
	table.Header("Kernel", "Threads", "Schedule", "Detail", "Elapsed")
	if err := table.Append(t.Kernel, fmt.Sprint(t.Threads), t.Schedule, t.Detail, t.Elapsed.String()); err != nil {
		return err
	}
	return table.Render()
}

// printError writes err in red.
func printError(w io.Writer, err error) {
	_, _ = red.Fprintf(w, "error: %v\n", err)
}

// progress wraps an optional progress bar; the zero value is a no-op.
type progress struct {
	bar *progressbar.ProgressBar
}

// newProgress returns a bar over total steps, or a spinner when total is
// -1. It returns a no-op progress when disabled.
func newProgress(enabled bool, w io.Writer, total int64, desc string) progress {
	if !enabled {
		return progress{}
	}

	return progress{bar: progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(50*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)}
}

func (p progress) Add(n int) {
	if p.bar != nil {
		_ = p.bar.Add(n)
	}
}

func (p progress) Describe(desc string) {
	if p.bar != nil {
		p.bar.Describe(desc)
	}
}

func (p progress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
