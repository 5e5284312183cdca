package pool

import (
	"fmt"
	"runtime"
)

// WorkerPanic carries a panic recovered inside a region worker.
// The region re-panics with this value on the calling goroutine after all
// workers have joined.
type WorkerPanic struct {
	Worker int
	Value  any
	Stack  []byte
}

func (p *WorkerPanic) Error() string {
	return fmt.Sprintf("worker %d panic: %v\nstack trace:\n%s", p.Worker, p.Value, p.Stack)
}

// Unwrap exposes the panic value when it was an error.
func (p *WorkerPanic) Unwrap() error {
	if err, ok := p.Value.(error); ok {
		return err
	}
	return nil
}

// recoverWorker converts a panic in the current goroutine into a
// *WorkerPanic stored in err.
func recoverWorker(worker int, err *error) {
	if r := recover(); r != nil {
		buf := make([]byte, 4096)
		n := runtime.Stack(buf, false)
		*err = &WorkerPanic{Worker: worker, Value: r, Stack: buf[:n]}
	}
}
