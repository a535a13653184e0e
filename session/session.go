// Package session implements the request/response engine that turns a raw
// transport.Transport into ordered, retryable Transmit calls: every sent
// report may carry an Inspector that judges the replies streaming back on
// the recv side, first-come-first-served.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/neuroplastio/joyconcore/joyconerr"
	"github.com/neuroplastio/joyconcore/transport"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PushMode selects how the push loop drains outgoing reports.
type PushMode int

const (
	// PushFree sends the next queued report as soon as the transport is
	// free, with no fixed inter-send delay.
	PushFree PushMode = iota
	// PushTimed paces sends to one every pushInterval, the cadence the
	// controller's rumble/input loop expects.
	PushTimed
)

const pushInterval = 16 * time.Millisecond

// maxConsecutiveRecvErrors is how many receive errors in a row the poll
// loop tolerates before sleeping 100ms, resetting the count, and receiving
// again; it never gives up on the transport.
const maxConsecutiveRecvErrors = 100

type pushRequest struct {
	buf  []byte
	task *task
}

// Option configures a Session at construction time.
type Option func(*Session)

func WithLogger(log *zap.Logger) Option {
	return func(s *Session) { s.log = log }
}

func WithPushMode(m PushMode) Option {
	return func(s *Session) { s.pushMode = m }
}

// Session owns one Transport and runs its poll/push loops for as long as
// it is open.
type Session struct {
	log       *zap.Logger
	transport transport.Transport
	pushMode  PushMode

	timer timer
	pool  *taskPool

	pollMu    sync.Mutex
	pollQueue []*task

	pushCh chan pushRequest

	ctx    context.Context
	cancel context.CancelFunc
	eg     *errgroup.Group

	outstanding atomic.Int64
}

// New starts a Session's poll and push goroutines over t. Close must be
// called to release them.
func New(t transport.Transport, opts ...Option) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	eg, ctx := errgroup.WithContext(ctx)
	s := &Session{
		log:       zap.NewNop(),
		transport: t,
		pool:      newTaskPool(),
		pushCh:    make(chan pushRequest, 16),
		ctx:       ctx,
		cancel:    cancel,
		eg:        eg,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.eg.Go(func() error { return s.pollLoop() })
	s.eg.Go(func() error { return s.pushLoop() })
	return s
}

// Transmit sends out (if non-nil) and/or registers inspector against the
// recv stream, returning a Future for the task's terminal Result.
//
//   - out != nil, inspector != nil: send, then poll replies against
//     inspector until it returns Done/Error or retry is exhausted.
//   - out != nil, inspector == nil: fire-and-forget; future resolves Done
//     once the report is handed to the transport.
//   - out == nil, inspector != nil: register a bare poll task (used to wait
//     on an unsolicited report, e.g. the first IR fragment after enabling
//     the MCU).
func (s *Session) Transmit(ctx context.Context, retry int, out []byte, inspector Inspector) (*Future, error) {
	if s.ctx.Err() != nil {
		return nil, joyconerr.ErrAbort
	}
	t := s.pool.get()
	future := t.reset(retry, inspector)
	s.outstanding.Inc()

	switch {
	case out != nil:
		buf := make([]byte, len(out))
		copy(buf, out)
		req := pushRequest{buf: buf, task: t}
		select {
		case s.pushCh <- req:
		case <-s.ctx.Done():
			t.abort()
			s.outstanding.Dec()
		case <-ctx.Done():
			t.abort()
			s.outstanding.Dec()
		}
	case inspector != nil:
		s.appendPoll(t)
	default:
		t.done()
		s.outstanding.Dec()
	}
	return future, nil
}

func (s *Session) appendPoll(t *task) {
	if s.ctx.Err() != nil {
		t.abort()
		s.outstanding.Dec()
		return
	}
	s.pollMu.Lock()
	s.pollQueue = append(s.pollQueue, t)
	s.pollMu.Unlock()
}

// pushLoop drains pushCh, stamping the timer and handing each buffer to the
// transport, then either promotes the task to the poll queue (if it has an
// inspector) or resolves it Done.
func (s *Session) pushLoop() error {
	for {
		select {
		case <-s.ctx.Done():
			return nil
		case req := <-s.pushCh:
			s.sendOne(req)
			if s.pushMode == PushTimed {
				select {
				case <-time.After(pushInterval):
				case <-s.ctx.Done():
					return nil
				}
			}
		}
	}
}

func (s *Session) sendOne(req pushRequest) {
	req.buf[1] = s.timer.next()
	_, err := s.transport.Send(req.buf)
	if err != nil {
		req.task.error(fmt.Errorf("session: send: %w", err))
		s.outstanding.Dec()
		return
	}
	if req.task.inspector != nil {
		s.appendPoll(req.task)
	} else {
		req.task.done()
		s.outstanding.Dec()
	}
}

// pollLoop receives reports and tests them against every outstanding poll
// task, first-come-first-served: the oldest registered task sees the
// report first, matching the source's insertion-ordered queue.
func (s *Session) pollLoop() error {
	buf := make([]byte, s.transport.RecvSize())
	consecutiveErrors := 0
	for {
		if s.ctx.Err() != nil {
			s.abortPoll()
			return nil
		}
		var n int
		var err error
		if rc, ok := s.transport.(interface {
			RecvCtx(context.Context, []byte) (int, error)
		}); ok {
			n, err = rc.RecvCtx(s.ctx, buf)
		} else {
			n, err = s.transport.Recv(buf)
		}
		if err != nil {
			consecutiveErrors++
			s.log.Debug("recv error", zap.Error(err), zap.Int("consecutive", consecutiveErrors))
			if consecutiveErrors > maxConsecutiveRecvErrors {
				time.Sleep(100 * time.Millisecond)
				consecutiveErrors = 0
			}
			continue
		}
		consecutiveErrors = 0
		s.dispatch(buf[:n])
	}
}

func (s *Session) dispatch(buf []byte) {
	s.pollMu.Lock()
	remaining := s.pollQueue[:0]
	tasks := s.pollQueue
	s.pollQueue = nil
	s.pollMu.Unlock()

	for _, t := range tasks {
		if t.test(buf) {
			s.outstanding.Dec()
			s.pool.put(t)
		} else {
			remaining = append(remaining, t)
		}
	}

	s.pollMu.Lock()
	s.pollQueue = append(remaining, s.pollQueue...)
	s.pollMu.Unlock()
}

func (s *Session) abortPoll() {
	s.pollMu.Lock()
	tasks := s.pollQueue
	s.pollQueue = nil
	s.pollMu.Unlock()
	for _, t := range tasks {
		t.abort()
		s.outstanding.Dec()
		s.pool.put(t)
	}
}

// Close cancels both loops, joins them, and aborts whatever is left
// outstanding. It logs (never panics) if tasks remain after drain. A
// transport that has a RecvCtx method has its pending receive interrupted
// by the cancel; for any other transport the join waits until the pending
// Recv returns. The transport is closed, if it has a Close method, after
// the join.
func (s *Session) Close() error {
	s.cancel()
	err := s.eg.Wait()
	s.abortPoll()
	if n := s.outstanding.Load(); n != 0 {
		s.log.Warn("session closed with outstanding tasks", zap.Int64("outstanding", n))
	}
	if closer, ok := s.transport.(interface{ Close() error }); ok {
		if cerr := closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
