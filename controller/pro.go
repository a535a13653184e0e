package controller

import (
	"github.com/neuroplastio/joyconcore/report"
	"github.com/neuroplastio/joyconcore/session"
)

// Pro is the Pro Controller façade (PID 0x2009): one session, rumble
// forwards to both actuator sides unchanged.
type Pro struct {
	base
}

func newPro(s *session.Session) *Pro {
	return &Pro{base: newBase(report.ProGrip, s)}
}

var _ Controller = (*Pro)(nil)
