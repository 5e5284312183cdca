//go:build linux

package cpu

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// allowedCPUs lists the CPU ids in the calling thread's affinity mask.
func allowedCPUs() []int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil
	}

	ids := make([]int, 0, set.Count())
	for id := 0; len(ids) < set.Count() && id < 1024; id++ {
		if set.IsSet(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// pinToCore pins the current OS thread to the worker-th allowed CPU,
// wrapping around when there are more workers than CPUs.
// Must be called after runtime.LockOSThread().
func pinToCore(worker int, allowed []int) (int, error) {
	if len(allowed) == 0 {
		return -1, unix.EINVAL
	}
	cpuID := allowed[worker%len(allowed)]

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpuID)

	if err := unix.SchedSetaffinity(0, &mask); err != nil { // 0 = current thread
		return -1, err
	}
	return cpuID, nil
}

// Pin locks the calling goroutine to its OS thread and binds that thread
// to one CPU chosen by worker index. The returned release function must be
// deferred; it restores the thread's original mask and unlocks it.
func Pin(worker int) (release func()) {
	runtime.LockOSThread()

	var original unix.CPUSet
	haveOriginal := unix.SchedGetaffinity(0, &original) == nil
	_, _ = pinToCore(worker, allowedCPUs())

	return func() {
		if haveOriginal {
			_ = unix.SchedSetaffinity(0, &original)
		}
		runtime.UnlockOSThread()
	}
}
