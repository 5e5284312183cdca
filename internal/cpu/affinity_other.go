//go:build !linux && !darwin && !windows

package cpu

import "runtime"

// Pin locks the goroutine to an OS thread; CPU pinning is unsupported here.
func Pin(worker int) (release func()) {
	runtime.LockOSThread()
	return runtime.UnlockOSThread
}
