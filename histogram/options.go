package histogram

import (
	"fmt"
	"strings"

	"github.com/utkarsh5026/refine/pool"
)

// Mode selects how parallel workers update the shared counters.
type Mode int

const (
	// ModeAtomic increments the shared counters atomically, element by
	// element.
	ModeAtomic Mode = iota
	// ModePrivate counts into a per-worker histogram and merges it into the
	// shared one under a mutex when the worker finishes.
	ModePrivate
)

func (m Mode) String() string {
	switch m {
	case ModePrivate:
		return "private"
	default:
		return "atomic"
	}
}

// ParseMode accepts "atomic" or "private" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "atomic":
		return ModeAtomic, nil
	case "private":
		return ModePrivate, nil
	default:
		return ModeAtomic, fmt.Errorf("unknown histogram mode %q", s)
	}
}

// Option configures Compute.
type Option func(*config)

type config struct {
	mode      Mode
	schedule  pool.Schedule
	chunkSize int
	affinity  bool
	progress  func(samples int)
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		mode:     ModeAtomic,
		schedule: pool.ScheduleDynamic,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithMode selects the counter update strategy. The default is ModeAtomic.
func WithMode(m Mode) Option {
	return func(cfg *config) {
		cfg.mode = m
	}
}

// WithSchedule sets how samples are split among workers.
// The default is pool.ScheduleDynamic.
func WithSchedule(s pool.Schedule) Option {
	return func(cfg *config) {
		cfg.schedule = s
	}
}

// WithChunkSize sets the partition chunk size.
func WithChunkSize(size int) Option {
	return func(cfg *config) {
		cfg.chunkSize = size
	}
}

// WithAffinity pins region workers to CPUs.
func WithAffinity(enabled bool) Option {
	return func(cfg *config) {
		cfg.affinity = enabled
	}
}

// WithProgress registers a callback that receives the number of samples
// each worker processed once it finishes. It may be called concurrently.
func WithProgress(fn func(samples int)) Option {
	return func(cfg *config) {
		cfg.progress = fn
	}
}
