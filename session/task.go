package session

import (
	"sync"

	"github.com/neuroplastio/joyconcore/joyconerr"
)

// Verdict is what an Inspector reports about one received buffer.
type Verdict struct {
	Code joyconerr.Code
	Err  error
}

func Done() Verdict           { return Verdict{Code: joyconerr.Done} }
func Again() Verdict          { return Verdict{Code: joyconerr.Again} }
func Waiting() Verdict        { return Verdict{Code: joyconerr.Waiting} }
func Err(err error) Verdict   { return Verdict{Code: joyconerr.Error, Err: err} }

// Inspector examines one received input report and decides whether the
// task it belongs to is satisfied, should keep waiting, should keep waiting
// without spending a retry (Again), or has failed.
type Inspector func(report []byte) Verdict

// task is one outstanding Transmit call: a retry budget, the inspector that
// judges incoming reports against it, and the future its result resolves.
//
// test implements the exact algorithm of the source's Task::test: the
// retry budget is checked and decremented before the inspector runs, and an
// Again verdict undoes that decrement so it never costs a retry.
type task struct {
	retry     int
	inspector Inspector
	future    *Future
}

// reset re-initializes a pooled task for a new Transmit call.
func (t *task) reset(retry int, inspector Inspector) *Future {
	t.retry = retry
	t.inspector = inspector
	t.future = newFuture()
	return t.future
}

func (t *task) done() {
	t.future.resolve(Result{Code: joyconerr.Done})
}

func (t *task) abort() {
	t.future.resolve(Result{Code: joyconerr.Abort})
}

func (t *task) error(err error) {
	t.future.resolve(Result{Code: joyconerr.Error, Err: err})
}

// test runs one recv cycle against the task. It returns true when the task
// is terminal and should be removed from the poll queue.
func (t *task) test(buf []byte) bool {
	t.retry--
	if t.retry < 0 {
		t.future.resolve(Result{Code: joyconerr.TimedOut})
		return true
	}
	if t.inspector == nil {
		return true
	}
	v := t.inspector(buf)
	switch v.Code {
	case joyconerr.Done:
		t.future.resolve(Result{Code: joyconerr.Done})
		return true
	case joyconerr.Again:
		t.retry++
		return false
	case joyconerr.Waiting:
		return false
	default:
		t.future.resolve(Result{Code: joyconerr.Error, Err: v.Err})
		return true
	}
}

// taskPool recycles tasks across Transmit calls, the idiomatic analogue of
// the source's fixed-size object pool.
type taskPool struct {
	pool sync.Pool
}

func newTaskPool() *taskPool {
	return &taskPool{pool: sync.Pool{New: func() any { return &task{} }}}
}

func (p *taskPool) get() *task {
	return p.pool.Get().(*task)
}

func (p *taskPool) put(t *task) {
	t.inspector = nil
	t.future = nil
	p.pool.Put(t)
}
