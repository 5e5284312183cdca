package benchmarks

import (
	"fmt"
	"math/rand"
	"runtime"

	"github.com/utkarsh5026/refine/pool"
)

// regionConfig is one thread spec and schedule combination to benchmark.
type regionConfig struct {
	name     string
	threads  pool.ThreadSpec
	schedule pool.Schedule
}

// getAllConfigs returns the sequential baseline followed by every schedule
// at 1, 2, 4 and GOMAXPROCS workers.
func getAllConfigs() []regionConfig {
	configs := []regionConfig{{name: "Sequential", threads: pool.Sequential}}

	counts := []uint32{1, 2, 4}
	if n := uint32(runtime.GOMAXPROCS(0)); n > 4 {
		counts = append(counts, n)
	}

	for _, sched := range []pool.Schedule{pool.ScheduleStatic, pool.ScheduleDynamic, pool.ScheduleGuided} {
		for _, n := range counts {
			configs = append(configs, regionConfig{
				name:     fmt.Sprintf("%s/%d", sched, n),
				threads:  pool.Fixed(n),
				schedule: sched,
			})
		}
	}
	return configs
}

// uniformSamples returns n bytes spread evenly over all values.
func uniformSamples(n int) []byte {
	rng := rand.New(rand.NewSource(1))
	samples := make([]byte, n)
	for i := range samples {
		samples[i] = byte(rng.Intn(256))
	}
	return samples
}

// darkSamples returns n bytes concentrated in a few low values, the worst
// case for contention on shared counters.
func darkSamples(n int) []byte {
	rng := rand.New(rand.NewSource(2))
	samples := make([]byte, n)
	for i := range samples {
		samples[i] = byte(rng.Intn(4))
	}
	return samples
}
