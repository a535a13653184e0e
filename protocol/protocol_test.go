package protocol

import (
	"context"
	"testing"
	"time"

	"github.com/neuroplastio/joyconcore/joyconerr"
	"github.com/neuroplastio/joyconcore/report"
	"github.com/neuroplastio/joyconcore/session"
	"github.com/neuroplastio/joyconcore/transport/looptransport"
)

func withTimeout(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), 2*time.Second)
}

// replyBuf builds a standard-size (64-byte) 0x21 sub-command reply report,
// laid out per original_source's reply_data_t: ack byte at offset 13,
// echoed sub-command id at 14, the sub-command's own data starting at 15.
func replyBuf(subcmdID byte, data []byte) []byte {
	buf := make([]byte, report.InputStandardSize)
	buf[0] = report.InputSubcommandReply
	buf[13] = 0x80 | subcmdID
	buf[14] = subcmdID
	copy(buf[15:], data)
	return buf
}

// irFragmentBuf builds an extended (362-byte) id-0x31 report carrying one
// available IR fragment: nfcir[0]=0x03, nfcir[3]=fragNo, nfcir[10:310]
// filled with fill.
func irFragmentBuf(fragNo, fill byte) []byte {
	buf := make([]byte, report.InputExtendedSize)
	buf[0] = report.InputStandardExt
	nfcir := buf[49:362]
	nfcir[0] = 0x03
	nfcir[3] = fragNo
	for i := 10; i < 310; i++ {
		nfcir[i] = fill
	}
	return buf
}

// scenario 1: SetPlayer replay — loopback injects a 0x21 reply echoing the
// 0x30 sub-command, Transmit resolves Done.
func TestSetPlayerReplay(t *testing.T) {
	lt := looptransport.New()
	s := session.New(lt)
	defer s.Close()
	dev := NewDevice(s)

	ctx, cancel := withTimeout(t)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- dev.SetPlayer(ctx, 0b0101, 0b1010) }()

	time.Sleep(20 * time.Millisecond)
	lt.Inject(replyBuf(report.SubcmdSetPlayerLED, nil))

	if err := <-done; err != nil {
		t.Fatalf("SetPlayer: %v", err)
	}
}

// scenario 2: timeout — loopback injects only non-matching reports; after
// the retry budget is exhausted the call resolves TimedOut.
func TestSetPlayerTimesOut(t *testing.T) {
	lt := looptransport.New()
	s := session.New(lt)
	defer s.Close()
	dev := NewDevice(s)

	ctx, cancel := withTimeout(t)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- dev.SetPlayer(ctx, 1, 0) }()

	time.Sleep(20 * time.Millisecond)
	for i := 0; i < 8; i++ {
		// id 0x30 is a standard input report, not a 0x21 reply: never matches.
		lt.Inject([]byte{report.InputStandard})
	}

	err := <-done
	if !joyconerrIs(err, joyconerr.TimedOut) {
		t.Fatalf("SetPlayer err = %v, want TimedOut", err)
	}
}

func joyconerrIs(err error, code joyconerr.Code) bool {
	return joyconerr.CodeOf(err) == code
}

// scenario 3: backup of the first window — loopback replies to 0x10 with
// addr=0, len=0x1D, payload all 0xAA; the caller's buffer gets 0..29 =
// 0xAA and progress(total, 0x1D) fires. Here we
// exercise just the first ReadMemory call rather than the full 0x80000
// sweep.
func TestReadMemoryFirstWindow(t *testing.T) {
	lt := looptransport.New()
	s := session.New(lt)
	defer s.Close()
	dev := NewDevice(s)

	ctx, cancel := withTimeout(t)
	defer cancel()

	type result struct {
		data []byte
		err  error
	}
	resCh := make(chan result, 1)
	go func() {
		data, err := dev.ReadMemory(ctx, 0, 0x1D)
		resCh <- result{data, err}
	}()

	time.Sleep(20 * time.Millisecond)
	payload := make([]byte, 0x1D)
	for i := range payload {
		payload[i] = 0xAA
	}
	reply := make([]byte, 5+len(payload))
	reply[4] = 0x1D // length
	copy(reply[5:], payload)
	lt.Inject(replyBuf(report.SubcmdFlashRead, reply))

	res := <-resCh
	if res.err != nil {
		t.Fatalf("ReadMemory: %v", res.err)
	}
	if len(res.data) != 0x1D {
		t.Fatalf("len(data) = %d, want 0x1D", len(res.data))
	}
	for i, b := range res.data {
		if b != 0xAA {
			t.Fatalf("data[%d] = %#x, want 0xAA", i, b)
		}
	}
}

// ReadMemory/WriteMemory reject out-of-range arguments without touching
// the transport.
func TestFlashBoundsRejected(t *testing.T) {
	lt := looptransport.New()
	s := session.New(lt)
	defer s.Close()
	dev := NewDevice(s)

	ctx, cancel := withTimeout(t)
	defer cancel()

	if _, err := dev.ReadMemory(ctx, 0x80000, 1); !joyconerrIs(err, joyconerr.Invalid) {
		t.Fatalf("ReadMemory(addr>=0x80000) err = %v, want Invalid", err)
	}
	if _, err := dev.ReadMemory(ctx, 0, 0x1E); !joyconerrIs(err, joyconerr.Invalid) {
		t.Fatalf("ReadMemory(len=0x1E) err = %v, want Invalid", err)
	}
	if err := dev.WriteMemory(ctx, 0x80000, []byte{0}); !joyconerrIs(err, joyconerr.Invalid) {
		t.Fatalf("WriteMemory(addr>=0x80000) err = %v, want Invalid", err)
	}
}

// WriteMemory resolves Done only when the echoed status byte is zero.
func TestWriteMemoryStatus(t *testing.T) {
	lt := looptransport.New()
	s := session.New(lt)
	defer s.Close()
	dev := NewDevice(s)

	ctx, cancel := withTimeout(t)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- dev.WriteMemory(ctx, 0, []byte{1, 2, 3}) }()

	time.Sleep(20 * time.Millisecond)
	lt.Inject(replyBuf(report.SubcmdFlashWrite, []byte{0x00}))

	if err := <-done; err != nil {
		t.Fatalf("WriteMemory: %v", err)
	}
}

// scenario 4: IR fragment streaming from 0 through maxFragments — each
// injected fragment i is filled with byte value i; once fragment
// maxFragments lands, cb fires exactly once with the assembled image and
// GetIrImage returns.
//
// The loopback's recv buffer is sized once when session.New starts
// pollLoop, so SetRecvSize must happen before session.New, not after.
func TestGetIrImageStreamsFragmentsToCompletion(t *testing.T) {
	lt := looptransport.New()
	lt.SetRecvSize(report.InputExtendedSize)
	s := session.New(lt)
	defer s.Close()
	dev := NewDevice(s)

	ctx, cancel := withTimeout(t)
	defer cancel()

	const maxFragments = 3
	image := make([]byte, (maxFragments+1)*300)

	var cbCalls int
	var gotFrame []byte
	cb := func(frame []byte) int {
		cbCalls++
		gotFrame = append([]byte(nil), frame...)
		return 1
	}

	done := make(chan error, 1)
	go func() { done <- dev.GetIrImage(ctx, maxFragments, image, cb) }()

	time.Sleep(20 * time.Millisecond)
	for i := byte(0); i <= maxFragments; i++ {
		lt.Inject(irFragmentBuf(i, i))
		time.Sleep(5 * time.Millisecond)
	}

	if err := <-done; err != nil {
		t.Fatalf("GetIrImage: %v", err)
	}
	if cbCalls != 1 {
		t.Fatalf("cb called %d times, want 1", cbCalls)
	}
	for i := byte(0); i <= maxFragments; i++ {
		frag := gotFrame[int(i)*300 : int(i)*300+300]
		for j, b := range frag {
			if b != i {
				t.Fatalf("fragment %d byte %d = %#x, want %#x", i, j, b, i)
			}
		}
	}
}

// scenario 5: a duplicate fragment is ACKed but not re-copied into the
// image — injecting fragment 1 twice must not disturb the data fragment 1
// already wrote, and both injections still get a fragment ACK sent back
// (the common ack-send code runs for both the accepted and the duplicate
// branch). preFragNo starts at its zero value, so fragment 1 lands as the
// "next fragment" case on its first arrival without needing fragment 0
// first.
func TestGetIrImageDropsDuplicateFragment(t *testing.T) {
	lt := looptransport.New()
	lt.SetRecvSize(report.InputExtendedSize)
	s := session.New(lt)
	defer s.Close()
	dev := NewDevice(s)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const maxFragments = 5
	image := make([]byte, (maxFragments+1)*300)

	done := make(chan error, 1)
	go func() { done <- dev.GetIrImage(ctx, maxFragments, image, nil) }()

	time.Sleep(20 * time.Millisecond)
	lt.Inject(irFragmentBuf(1, 0xBB))
	time.Sleep(20 * time.Millisecond)
	lt.Inject(irFragmentBuf(1, 0xCC)) // duplicate of fragment 1, must be dropped
	time.Sleep(20 * time.Millisecond)

	cancel()
	<-done

	frag1 := image[300:600]
	for j, b := range frag1 {
		if b != 0xBB {
			t.Fatalf("fragment 1 byte %d = %#x, want 0xbb (duplicate must not overwrite)", j, b)
		}
	}

	// EncodeIrFragmentAck writes the fragment number to buffer byte 14
	// (payload offset 4); the initial poll-start report leaves that byte 0,
	// so counting buf[14] == 1 isolates the fragment-1 acks.
	sent := lt.SentHistory()
	var fragAcks int
	for _, buf := range sent {
		if len(buf) > 14 && buf[14] == 1 {
			fragAcks++
		}
	}
	if fragAcks != 2 {
		t.Fatalf("fragment-1 acks sent = %d, want 2 (one per injection)", fragAcks)
	}
}

// scenario 6: rumble encoding vector — Rumblef's wire bytes for a
// 320Hz/0.5-amplitude high side and 160Hz/0.5-amplitude low side match the
// worked example: fH_hex = round(log2(32)*32) = 0xA0, FH = (0xA0-0x60)<<2 =
// 0x100; fL_hex = round(log2(16)*32) = 0x80, FL = 0x80-0x40 = 0x40; kH = kL
// = round(log2(0.5*8.7)*32) = 0x44, giving the side encoding 00 89 40 62.
func TestRumblefEncodingVector(t *testing.T) {
	lt := looptransport.New()
	s := session.New(lt)
	defer s.Close()
	dev := NewDevice(s)

	ctx, cancel := withTimeout(t)
	defer cancel()

	freq := &report.RumbleFreq{HighFreqHz: 320, HighAmp: 0.5, LowFreqHz: 160, LowAmp: 0.5}
	if err := dev.Rumblef(ctx, freq, freq); err != nil {
		t.Fatalf("Rumblef: %v", err)
	}

	sent := lt.LastSent()
	if len(sent) < 10 || sent[0] != report.OutputRumble {
		t.Fatalf("LastSent = % x, want id 0x10 rumble report", sent)
	}
	want := [4]byte{0x00, 0x89, 0x40, 0x62}
	var left, right [4]byte
	copy(left[:], sent[2:6])
	copy(right[:], sent[6:10])
	if left != want {
		t.Fatalf("left side = % x, want % x", left, want)
	}
	if right != want {
		t.Fatalf("right side = % x, want % x", right, want)
	}
}
