package controller

import (
	"context"

	"github.com/neuroplastio/joyconcore/protocol"
	"github.com/neuroplastio/joyconcore/report"
	"github.com/neuroplastio/joyconcore/session"
)

// JoyConR is the right Joy-Con façade (PID 0x2007): one session, rumble
// only forwards the right actuator slot, and it exposes MCU/IR/NFC
// operations — the MCU lives in the right Joy-Con (JoyConDual exposes the
// same operations through its right half; the Pro Controller also has an
// MCU, but this driver does not route MCU calls through it).
type JoyConR struct {
	base
}

func newJoyConR(s *session.Session) *JoyConR {
	return &JoyConR{base: newBase(report.JoyConR, s)}
}

func (j *JoyConR) Rumble(ctx context.Context, r report.Rumble) error {
	r.Left = report.RumbleSide{}
	return j.base.Rumble(ctx, r)
}

func (j *JoyConR) Rumblef(ctx context.Context, left, right *report.RumbleFreq) error {
	return j.base.Rumblef(ctx, nil, right)
}

func (j *JoyConR) SetHomeLight(ctx context.Context, cfg report.HomeLightConfig) error {
	return j.dev.SetHomeLight(ctx, cfg)
}

func (j *JoyConR) SetMcuState(ctx context.Context, state report.McuState) error {
	return j.dev.SetMcuState(ctx, state)
}

func (j *JoyConR) SetMcuMode(ctx context.Context, mode report.McuMode) error {
	return j.dev.SetMcuMode(ctx, mode)
}

func (j *JoyConR) CheckMcuMode(ctx context.Context, mode report.McuMode) error {
	return j.dev.CheckMcuMode(ctx, mode)
}

func (j *JoyConR) SetMcuIrConfig(ctx context.Context, fixed *report.IrFixedConfig, live *report.IrLiveConfig) error {
	return j.dev.SetMcuIrConfig(ctx, fixed, live)
}

func (j *JoyConR) CheckMcuIrMode(ctx context.Context, mode report.IrMode) error {
	return j.dev.CheckMcuIrMode(ctx, mode)
}

func (j *JoyConR) SetMcuIrRegisters(ctx context.Context, regs []report.McuReg) error {
	return j.dev.SetMcuIrRegisters(ctx, regs)
}

func (j *JoyConR) SetIrConfig(ctx context.Context, fixed report.IrFixedConfig, live report.IrLiveConfig, image []byte, cb protocol.IrCallback) error {
	return j.dev.SetIrConfig(ctx, fixed, live, image, cb)
}

func (j *JoyConR) GetIrImage(ctx context.Context, maxFragments byte, image []byte, cb protocol.IrCallback) error {
	return j.dev.GetIrImage(ctx, maxFragments, image, cb)
}

func (j *JoyConR) TestIR(ctx context.Context, resolution report.IrResolution, image []byte, cb protocol.IrCallback) error {
	return j.dev.TestIR(ctx, resolution, image, cb)
}

func (j *JoyConR) SetMcuNfcConfig(ctx context.Context) error {
	return j.dev.SetMcuNfcConfig(ctx)
}

func (j *JoyConR) GetNfcNtag(ctx context.Context) (protocol.NfcTag, error) {
	return j.dev.GetNfcNtag(ctx)
}

func (j *JoyConR) GetNfcData(ctx context.Context) ([]byte, error) {
	return j.dev.GetNfcData(ctx)
}

var _ Controller = (*JoyConR)(nil)
