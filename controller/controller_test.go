package controller

import (
	"context"
	"testing"
	"time"

	"github.com/neuroplastio/joyconcore/report"
	"github.com/neuroplastio/joyconcore/session"
	"github.com/neuroplastio/joyconcore/transport/looptransport"
)

func withTimeout(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), 2*time.Second)
}

func replyBuf(subcmdID byte) []byte {
	buf := make([]byte, report.InputStandardSize)
	buf[0] = report.InputSubcommandReply
	buf[13] = 0x80 | subcmdID
	buf[14] = subcmdID
	return buf
}

// Open rejects a category/session-count mismatch rather than falling
// through to JoyConDual the way the source's unbroken switch does.
func TestOpenRejectsWrongSessionCount(t *testing.T) {
	lt := looptransport.New()
	s := session.New(lt)
	defer s.Close()

	if _, err := Open(report.ProGrip); err == nil {
		t.Fatal("Open(ProGrip) with zero sessions: want error, got nil")
	}
	if _, err := Open(report.JoyConDual, s); err == nil {
		t.Fatal("Open(JoyConDual) with one session: want error, got nil")
	}
}

func TestOpenBuildsRequestedCategoryOnly(t *testing.T) {
	lt := looptransport.New()
	s := session.New(lt)
	defer s.Close()

	c, err := Open(report.JoyConL, s)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if c.Category() != report.JoyConL {
		t.Fatalf("Category() = %v, want JoyConL", c.Category())
	}
	if _, ok := c.(*JoyConL); !ok {
		t.Fatalf("Open(JoyConL) returned %T, want *JoyConL", c)
	}
}

// JoyConL zeroes the right rumble slot before forwarding to the session;
// JoyConR zeroes the left slot.
func TestJoyConLRumbleZeroesRightSlot(t *testing.T) {
	lt := looptransport.New()
	s := session.New(lt)
	defer s.Close()

	c, err := Open(report.JoyConL, s)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ctx, cancel := withTimeout(t)
	defer cancel()

	r := report.Rumble{Left: report.RumbleSide{1, 2, 3, 4}, Right: report.RumbleSide{5, 6, 7, 8}}
	if err := c.Rumble(ctx, r); err != nil {
		t.Fatalf("Rumble: %v", err)
	}

	sent := lt.LastSent()
	if sent == nil {
		t.Fatal("nothing sent")
	}
	var zero report.RumbleSide
	gotRight := report.RumbleSide{sent[6], sent[7], sent[8], sent[9]}
	if gotRight != zero {
		t.Fatalf("right slot = %v, want zeroed", gotRight)
	}
	gotLeft := report.RumbleSide{sent[2], sent[3], sent[4], sent[5]}
	if gotLeft != r.Left {
		t.Fatalf("left slot = %v, want %v", gotLeft, r.Left)
	}
}

// JoyConDual fans SetPlayer out to both sessions before awaiting either,
// and resolves once both halves have replied.
func TestJoyConDualFansOutSetPlayer(t *testing.T) {
	ltL := looptransport.New()
	ltR := looptransport.New()
	sL := session.New(ltL)
	sR := session.New(ltR)
	defer sL.Close()
	defer sR.Close()

	c, err := Open(report.JoyConDual, sL, sR)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ctx, cancel := withTimeout(t)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.SetPlayer(ctx, 0b0011, 0) }()

	time.Sleep(20 * time.Millisecond)
	ltL.Inject(replyBuf(report.SubcmdSetPlayerLED))
	ltR.Inject(replyBuf(report.SubcmdSetPlayerLED))

	if err := <-done; err != nil {
		t.Fatalf("SetPlayer: %v", err)
	}
	if ltL.LastSent() == nil || ltR.LastSent() == nil {
		t.Fatal("expected SetPlayer to reach both sessions")
	}
}

// JoyConDual.Rumble forwards only the left slot to the left session and
// only the right slot to the right session.
func TestJoyConDualRumbleSplitsPerSession(t *testing.T) {
	ltL := looptransport.New()
	ltR := looptransport.New()
	sL := session.New(ltL)
	sR := session.New(ltR)
	defer sL.Close()
	defer sR.Close()

	c, err := Open(report.JoyConDual, sL, sR)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ctx, cancel := withTimeout(t)
	defer cancel()

	r := report.Rumble{Left: report.RumbleSide{1, 2, 3, 4}, Right: report.RumbleSide{5, 6, 7, 8}}
	if err := c.Rumble(ctx, r); err != nil {
		t.Fatalf("Rumble: %v", err)
	}

	sentL := ltL.LastSent()
	sentR := ltR.LastSent()
	if sentL == nil || sentR == nil {
		t.Fatal("expected rumble to reach both sessions")
	}
	var zero report.RumbleSide
	if got := (report.RumbleSide{sentL[6], sentL[7], sentL[8], sentL[9]}); got != zero {
		t.Fatalf("left session right slot = %v, want zeroed", got)
	}
	if got := (report.RumbleSide{sentL[2], sentL[3], sentL[4], sentL[5]}); got != r.Left {
		t.Fatalf("left session left slot = %v, want %v", got, r.Left)
	}
	if got := (report.RumbleSide{sentR[2], sentR[3], sentR[4], sentR[5]}); got != zero {
		t.Fatalf("right session left slot = %v, want zeroed", got)
	}
	if got := (report.RumbleSide{sentR[6], sentR[7], sentR[8], sentR[9]}); got != r.Right {
		t.Fatalf("right session right slot = %v, want %v", got, r.Right)
	}
}

// GetData merges the two Dual halves by bitwise-OR.
func TestJoyConDualGetDataMerges(t *testing.T) {
	ltL := looptransport.New()
	ltR := looptransport.New()
	sL := session.New(ltL)
	sR := session.New(ltR)
	defer sL.Close()
	defer sR.Close()

	c, err := Open(report.JoyConDual, sL, sR)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ctx, cancel := withTimeout(t)
	defer cancel()

	type result struct {
		data report.ControllerData
		err  error
	}
	resCh := make(chan result, 1)
	go func() {
		d, err := c.GetData(ctx)
		resCh <- result{d, err}
	}()

	time.Sleep(20 * time.Millisecond)
	leftReport := make([]byte, report.InputStandardSize)
	leftReport[0] = report.InputStandard
	leftReport[3] = 0x01 // one left-half button bit
	rightReport := make([]byte, report.InputStandardSize)
	rightReport[0] = report.InputStandard
	rightReport[5] = 0x01 // one right-half button bit

	ltL.Inject(leftReport)
	ltR.Inject(rightReport)

	res := <-resCh
	if res.err != nil {
		t.Fatalf("GetData: %v", res.err)
	}
	if res.data.Buttons.Left == 0 || res.data.Buttons.Right == 0 {
		t.Fatalf("GetData merge = %+v, want both halves' bits set", res.data)
	}
}
