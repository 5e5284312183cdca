//go:build windows

package cpu

import (
	"runtime"
	"syscall"
)

var (
	kernel32              = syscall.NewLazyDLL("kernel32.dll")
	setThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
	getCurrentThread      = kernel32.NewProc("GetCurrentThread")
)

// pinToCore sets the affinity mask of the current thread to a single CPU
// and returns the previous mask (0 on failure).
func pinToCore(worker int) uintptr {
	cpuID := worker % runtime.NumCPU()
	if cpuID >= 64 {
		return 0
	}

	handle, _, _ := getCurrentThread.Call()
	prev, _, _ := setThreadAffinityMask.Call(handle, uintptr(1)<<cpuID)
	return prev
}

// Pin locks the calling goroutine to its OS thread and binds that thread
// to one CPU chosen by worker index. The returned release function must be
// deferred.
func Pin(worker int) (release func()) {
	runtime.LockOSThread()
	prev := pinToCore(worker)

	return func() {
		if prev != 0 {
			handle, _, _ := getCurrentThread.Call()
			_, _, _ = setThreadAffinityMask.Call(handle, prev)
		}
		runtime.UnlockOSThread()
	}
}
