// Package cpu reports usable hardware concurrency and pins worker
// goroutines to OS threads.
package cpu

import "runtime"

// MaxThreads returns the number of workers an automatically sized region
// should use: the current GOMAXPROCS setting, which the runtime derives
// from the CPUs this process may run on.
func MaxThreads() int {
	return max(runtime.GOMAXPROCS(0), 1)
}
