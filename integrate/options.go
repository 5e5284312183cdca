package integrate

import "github.com/utkarsh5026/refine/pool"

// Option configures an integration.
type Option func(*config)

type config struct {
	f         Integrand
	schedule  pool.Schedule
	chunkSize int
	affinity  bool
	onLevel   func(Level)
	maxLevels int
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		f:        LogSin,
		schedule: pool.ScheduleStatic,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithIntegrand replaces the default LogSin integrand.
func WithIntegrand(f Integrand) Option {
	return func(cfg *config) {
		if f != nil {
			cfg.f = f
		}
	}
}

// WithSchedule sets how interior nodes are split among workers.
// The default is pool.ScheduleStatic.
func WithSchedule(s pool.Schedule) Option {
	return func(cfg *config) {
		cfg.schedule = s
	}
}

// WithChunkSize sets the partition chunk size passed to the region.
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

// WithLevelHook registers a function called after every estimate.
func WithLevelHook(fn func(Level)) Option {
	return func(cfg *config) {
		cfg.onLevel = fn
	}
}

// WithMaxLevels caps the number of estimates. Zero, the default, means no
// cap: the loop runs until the estimates converge.
func WithMaxLevels(n int) Option {
	return func(cfg *config) {
		if n >= 0 {
			cfg.maxLevels = n
		}
	}
}
