package controller

import (
	"context"

	"github.com/neuroplastio/joyconcore/report"
	"github.com/neuroplastio/joyconcore/session"
)

// JoyConL is the left Joy-Con façade (PID 0x2006): one session, rumble only
// forwards the left actuator slot — the right slot is always sent zeroed.
type JoyConL struct {
	base
}

func newJoyConL(s *session.Session) *JoyConL {
	return &JoyConL{base: newBase(report.JoyConL, s)}
}

func (j *JoyConL) Rumble(ctx context.Context, r report.Rumble) error {
	r.Right = report.RumbleSide{}
	return j.base.Rumble(ctx, r)
}

func (j *JoyConL) Rumblef(ctx context.Context, left, right *report.RumbleFreq) error {
	return j.base.Rumblef(ctx, left, nil)
}

var _ Controller = (*JoyConL)(nil)
