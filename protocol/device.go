// Package protocol implements the controller-facing operations (pairing,
// polling, memory I/O, LEDs, rumble, MCU/IR/NFC) on top of one or more
// session.Session request/response engines.
package protocol

import (
	"context"
	"sync"

	"github.com/neuroplastio/joyconcore/joyconerr"
	"github.com/neuroplastio/joyconcore/report"
	"github.com/neuroplastio/joyconcore/session"
	"golang.org/x/sync/errgroup"
)

// Transmitter is the subset of session.Session that Device depends on; it
// exists so tests can substitute a fake without a real Transport.
type Transmitter interface {
	Transmit(ctx context.Context, retry int, out []byte, inspector session.Inspector) (*session.Future, error)
}

// defaultRetry is the retry budget of every send-and-await operation;
// BackupMemory/RestoreMemory get it per window through ReadMemory and
// WriteMemory. Fire-and-forget sends (rumble, IR ACKs) pass 1.
const defaultRetry = 5

// Device wraps an ordered list of sessions driving one logical controller.
// NewDevice accepts several sessions and fans every send out to all of
// them; the controller package builds one Device per session, including
// one per half for a Joy-Con in Dual mode. outputLock serializes transmit
// calls, each held from the send through awaiting its futures; sessLock
// serializes each sub-command exchange and whole multi-step sequences
// (Pair, MCU bring-up) so two goroutines never interleave them on the same
// Device. BackupMemory and RestoreMemory take sessLock once per window, not
// for the whole sweep.
type Device struct {
	sessions []Transmitter

	outputLock sync.Mutex
	sessLock   sync.Mutex

	mac      [6]byte
	category report.Category
}

// NewDevice wraps one or more sessions as a single logical controller.
func NewDevice(sessions ...Transmitter) *Device {
	return &Device{sessions: sessions}
}

// transmit sends out (or nil) with inspector on every underlying session
// concurrently, fires all Transmit calls before awaiting any of them, and
// returns the last session's result: "last future wins" when sessions
// disagree.
func (d *Device) transmit(ctx context.Context, retry int, out *report.OutputReport, inspector session.Inspector) (session.Result, error) {
	d.outputLock.Lock()
	defer d.outputLock.Unlock()

	var buf []byte
	if out != nil {
		buf = out.Bytes()
	}

	futures := make([]*session.Future, len(d.sessions))
	eg, gctx := errgroup.WithContext(ctx)
	for i, s := range d.sessions {
		i, s := i, s
		eg.Go(func() error {
			f, err := s.Transmit(gctx, retry, buf, inspector)
			if err != nil {
				return err
			}
			futures[i] = f
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return session.Result{}, err
	}

	var last session.Result
	for _, f := range futures {
		r, err := f.Wait(ctx)
		if err != nil {
			return session.Result{}, err
		}
		last = r
	}
	return last, resultErr(last)
}

// resultErr turns a non-Done terminal Result into an error the caller can
// inspect with errors.Is(err, joyconerr.ErrTimedOut) etc.
func resultErr(r session.Result) error {
	switch r.Code {
	case joyconerr.Done:
		return nil
	case joyconerr.Error:
		return joyconerr.Wrap(r.Err)
	default:
		return joyconerr.New(r.Code, r.Err)
	}
}

func ackInspector(wantSubcmd byte, onReply func(reply []byte)) session.Inspector {
	return func(buf []byte) session.Verdict {
		ir := report.ParseInputReport(buf)
		if ir.ID() != report.InputSubcommandReply {
			return session.Waiting()
		}
		if ir.SubcommandID() != wantSubcmd {
			return session.Waiting()
		}
		if onReply != nil {
			onReply(ir.SubcommandReplyData())
		}
		return session.Done()
	}
}
