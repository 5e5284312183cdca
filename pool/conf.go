package pool

import (
	"fmt"
	"strings"
	"time"

	"github.com/utkarsh5026/refine/internal/partition"
)

// Schedule selects how a region splits its index range among workers.
type Schedule int

const (
	// ScheduleStatic assigns contiguous blocks before the loop starts.
	ScheduleStatic Schedule = iota
	// ScheduleDynamic lets workers claim fixed-size chunks at run time.
	ScheduleDynamic
	// ScheduleGuided lets workers claim chunks that shrink as work drains.
	ScheduleGuided
)

func (s Schedule) String() string {
	return s.kind().String()
}

func (s Schedule) kind() partition.Kind {
	switch s {
	case ScheduleDynamic:
		return partition.Dynamic
	case ScheduleGuided:
		return partition.Guided
	default:
		return partition.Static
	}
}

// ParseSchedule accepts "static", "dynamic" or "guided" (case-insensitive).
func ParseSchedule(s string) (Schedule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "static":
		return ScheduleStatic, nil
	case "dynamic":
		return ScheduleDynamic, nil
	case "guided":
		return ScheduleGuided, nil
	default:
		return ScheduleStatic, fmt.Errorf("unknown schedule %q", s)
	}
}

// WorkerStats describes one worker's share of a finished region.
type WorkerStats struct {
	Worker  int
	Chunks  int
	Items   int
	Elapsed time.Duration
}

// Option is a functional option for configuring a Region.
type Option func(*regionConfig)

type regionConfig struct {
	schedule    Schedule
	chunkSize   int
	affinity    bool
	workerStart func(worker int)
	workerEnd   func(WorkerStats)
}

// WithSchedule sets the partitioning policy. The default is ScheduleStatic.
func WithSchedule(s Schedule) Option {
	return func(cfg *regionConfig) {
		cfg.schedule = s
	}
}

// WithChunkSize sets the chunk size used by the schedule.
// Zero keeps the schedule's default; negative values are ignored.
func WithChunkSize(size int) Option {
	return func(cfg *regionConfig) {
		if size >= 0 {
			cfg.chunkSize = size
		}
	}
}

// WithAffinity locks every worker to an OS thread pinned to its own CPU
// for the duration of the region.
func WithAffinity(enabled bool) Option {
	return func(cfg *regionConfig) {
		cfg.affinity = enabled
	}
}

// WithWorkerStart registers a hook called on each worker goroutine before
// it claims its first chunk.
func WithWorkerStart(fn func(worker int)) Option {
	return func(cfg *regionConfig) {
		cfg.workerStart = fn
	}
}

// WithWorkerEnd registers a hook called on each worker goroutine after it
// has drained its share of the range. Hooks run concurrently, so they must
// be safe for concurrent use.
func WithWorkerEnd(fn func(WorkerStats)) Option {
	return func(cfg *regionConfig) {
		cfg.workerEnd = fn
	}
}
