//go:build darwin

package cpu

import "runtime"

// Pin locks the goroutine to an OS thread.
// CPU pinning is not available on macOS.
func Pin(worker int) (release func()) {
	runtime.LockOSThread()
	return runtime.UnlockOSThread
}
