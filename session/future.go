package session

import (
	"context"

	"github.com/neuroplastio/joyconcore/joyconerr"
)

// Result is a task's terminal outcome: Done, TimedOut, Abort, or Error.
type Result struct {
	Code joyconerr.Code
	Err  error
}

func (r Result) String() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	switch r.Code {
	case joyconerr.Done:
		return "done"
	case joyconerr.TimedOut:
		return "timed out"
	case joyconerr.Abort:
		return "aborted"
	default:
		return "error"
	}
}

// Future is returned by Session.Transmit; exactly one Result is ever
// delivered to it.
type Future struct {
	done chan Result
}

func newFuture() *Future {
	return &Future{done: make(chan Result, 1)}
}

func (f *Future) resolve(r Result) {
	select {
	case f.done <- r:
	default:
		// already resolved; Task.test never calls resolve twice.
	}
}

// Wait blocks until the task reaches a terminal state or ctx is canceled.
func (f *Future) Wait(ctx context.Context) (Result, error) {
	select {
	case r := <-f.done:
		return r, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
