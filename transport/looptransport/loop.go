// Package looptransport is an in-memory transport.Transport used by the
// session and protocol test suites to script controller responses without a
// real HID device.
package looptransport

import (
	"context"
	"errors"
	"sync"

	"github.com/neuroplastio/joyconcore/report"
)

var ErrClosed = errors.New("looptransport: closed")

// Transport records every Send and serves Recv from an injected queue, so
// a test can assert on what the session sent and script what it receives
// back.
type Transport struct {
	sendSize int
	recvSize int

	mu      sync.Mutex
	history [][]byte
	closed  bool

	inbox chan []byte
}

func New() *Transport {
	return &Transport{
		sendSize: report.OutputSize,
		recvSize: report.InputStandardSize,
		inbox:    make(chan []byte, 64),
	}
}

func (t *Transport) Send(buf []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0, ErrClosed
	}
	cp := make([]byte, len(buf))
	copy(cp, buf)
	t.history = append(t.history, cp)
	return len(buf), nil
}

func (t *Transport) Recv(buf []byte) (int, error) {
	msg, ok := <-t.inbox
	if !ok {
		return 0, ErrClosed
	}
	n := copy(buf, msg)
	return n, nil
}

// RecvCtx is the context-aware variant of Recv; session.Session's poll loop
// uses it, so closing the Session interrupts a pending receive.
func (t *Transport) RecvCtx(ctx context.Context, buf []byte) (int, error) {
	select {
	case msg, ok := <-t.inbox:
		if !ok {
			return 0, ErrClosed
		}
		return copy(buf, msg), nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (t *Transport) SendSize() int { return t.sendSize }
func (t *Transport) RecvSize() int { return t.recvSize }

// SetRecvSize lets a test switch to extended (362-byte) input reports for
// an MCU/IR reply sequence. session.New sizes its receive buffer once, so
// this must be called before the Session is created.
func (t *Transport) SetRecvSize(n int) { t.recvSize = n }

// Inject queues a report to be returned by the next Recv call.
func (t *Transport) Inject(buf []byte) {
	cp := make([]byte, len(buf))
	copy(cp, buf)
	t.inbox <- cp
}

// LastSent returns the most recently sent buffer, or nil if none yet.
func (t *Transport) LastSent() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.history) == 0 {
		return nil
	}
	return t.history[len(t.history)-1]
}

// SentHistory returns every buffer sent so far, oldest first.
func (t *Transport) SentHistory() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([][]byte, len(t.history))
	copy(out, t.history)
	return out
}

func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	close(t.inbox)
	return nil
}
