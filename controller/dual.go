package controller

import (
	"context"

	"github.com/neuroplastio/joyconcore/protocol"
	"github.com/neuroplastio/joyconcore/report"
	"github.com/neuroplastio/joyconcore/session"
	"golang.org/x/sync/errgroup"
)

// JoyConDual is the combined-Joy-Con façade (PID 0x2006 + 0x2007): it owns
// two independent *protocol.Device, one per physical half, and fans every
// common operation out to both concurrently — every operation starts both
// sides before either is awaited — rather than delegating to a single
// protocol.Device over two sessions, because Rumble must send each half a
// different payload (its own actuator slot only; the other zeroed), which
// a single shared output buffer cannot express.
// MCU/IR/NFC operations route only to the right half.
type JoyConDual struct {
	left  *protocol.Device
	right *protocol.Device
}

func newJoyConDual(left, right *session.Session) *JoyConDual {
	return &JoyConDual{
		left:  protocol.NewDevice(left),
		right: protocol.NewDevice(right),
	}
}

func (j *JoyConDual) Category() report.Category { return report.JoyConDual }

// fanOut runs left and right concurrently, firing both before observing
// either's outcome, and returns right's result as the "last-awaited" value
// — the Go analogue of the source's last-future-wins ambiguity over a
// dual-session operation. left's error is
// discarded by design once both have completed: the caller attempts both
// sides regardless of the first's result.
func fanOut(ctx context.Context, left, right func(ctx context.Context) error) error {
	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return left(gctx) })
	rightErr := right(ctx)
	_ = eg.Wait()
	return rightErr
}

func (j *JoyConDual) Pair(ctx context.Context, mac [6]byte, alias string) error {
	return fanOut(ctx,
		func(ctx context.Context) error { return j.left.Pair(ctx, mac, alias) },
		func(ctx context.Context) error { return j.right.Pair(ctx, mac, alias) },
	)
}

func (j *JoyConDual) Poll(ctx context.Context, pollType report.PollType) error {
	return fanOut(ctx,
		func(ctx context.Context) error { return j.left.Poll(ctx, pollType) },
		func(ctx context.Context) error { return j.right.Poll(ctx, pollType) },
	)
}

// GetData reads both halves concurrently and OR-merges the result, since
// the two physical halves each report only their own buttons and stick.
func (j *JoyConDual) GetData(ctx context.Context) (report.ControllerData, error) {
	eg, gctx := errgroup.WithContext(ctx)
	var left, right report.ControllerData
	eg.Go(func() error {
		var err error
		left, err = j.left.GetData(gctx)
		return err
	})
	right, rightErr := j.right.GetData(ctx)
	if err := eg.Wait(); err != nil && rightErr == nil {
		return report.ControllerData{}, err
	}
	if rightErr != nil {
		return report.ControllerData{}, rightErr
	}
	return left.Merge(right), nil
}

// BackupMemory reads both halves' flash concurrently; the two controllers
// have independent flash spaces, so there is no merge — the caller gets
// both buffers back, left first.
func (j *JoyConDual) BackupMemory(ctx context.Context, progress protocol.Progress) ([]byte, error) {
	var left []byte
	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		left, err = j.left.BackupMemory(gctx, progress)
		return err
	})
	right, rightErr := j.right.BackupMemory(ctx, progress)
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if rightErr != nil {
		return nil, rightErr
	}
	return append(left, right...), nil
}

func (j *JoyConDual) RestoreMemory(ctx context.Context, data []byte, progress protocol.Progress) error {
	half := len(data) / 2
	return fanOut(ctx,
		func(ctx context.Context) error { return j.left.RestoreMemory(ctx, data[:half], progress) },
		func(ctx context.Context) error { return j.right.RestoreMemory(ctx, data[half:], progress) },
	)
}

func (j *JoyConDual) GetColor(ctx context.Context) (report.ControllerColor, error) {
	return j.right.GetColor(ctx)
}

func (j *JoyConDual) SetColor(ctx context.Context, color report.ControllerColor) error {
	return fanOut(ctx,
		func(ctx context.Context) error { return j.left.SetColor(ctx, color) },
		func(ctx context.Context) error { return j.right.SetColor(ctx, color) },
	)
}

func (j *JoyConDual) SetPlayer(ctx context.Context, player, flash uint8) error {
	return fanOut(ctx,
		func(ctx context.Context) error { return j.left.SetPlayer(ctx, player, flash) },
		func(ctx context.Context) error { return j.right.SetPlayer(ctx, player, flash) },
	)
}

func (j *JoyConDual) SetLowPower(ctx context.Context, enable bool) error {
	return fanOut(ctx,
		func(ctx context.Context) error { return j.left.SetLowPower(ctx, enable) },
		func(ctx context.Context) error { return j.right.SetLowPower(ctx, enable) },
	)
}

func (j *JoyConDual) SetImu(ctx context.Context, enable bool) error {
	return fanOut(ctx,
		func(ctx context.Context) error { return j.left.SetImu(ctx, enable) },
		func(ctx context.Context) error { return j.right.SetImu(ctx, enable) },
	)
}

func (j *JoyConDual) SetRumble(ctx context.Context, enable bool) error {
	return fanOut(ctx,
		func(ctx context.Context) error { return j.left.SetRumble(ctx, enable) },
		func(ctx context.Context) error { return j.right.SetRumble(ctx, enable) },
	)
}

// Rumble forwards only the left actuator slot to the left half and only
// the right slot to the right half — each physical Joy-Con drives one
// actuator — mirroring JoyConL/JoyConR's own Rumble overrides.
func (j *JoyConDual) Rumble(ctx context.Context, r report.Rumble) error {
	leftOnly := report.Rumble{Left: r.Left}
	rightOnly := report.Rumble{Right: r.Right}
	return fanOut(ctx,
		func(ctx context.Context) error { return j.left.Rumble(ctx, leftOnly) },
		func(ctx context.Context) error { return j.right.Rumble(ctx, rightOnly) },
	)
}

func (j *JoyConDual) Rumblef(ctx context.Context, left, right *report.RumbleFreq) error {
	return fanOut(ctx,
		func(ctx context.Context) error { return j.left.Rumblef(ctx, left, nil) },
		func(ctx context.Context) error { return j.right.Rumblef(ctx, nil, right) },
	)
}

// SetHomeLight, SetMcuState, and the rest of the MCU/IR/NFC surface route
// only to the right half — the MCU lives in the right Joy-Con only.
func (j *JoyConDual) SetHomeLight(ctx context.Context, cfg report.HomeLightConfig) error {
	return j.right.SetHomeLight(ctx, cfg)
}

func (j *JoyConDual) SetMcuState(ctx context.Context, state report.McuState) error {
	return j.right.SetMcuState(ctx, state)
}

func (j *JoyConDual) SetMcuMode(ctx context.Context, mode report.McuMode) error {
	return j.right.SetMcuMode(ctx, mode)
}

func (j *JoyConDual) CheckMcuMode(ctx context.Context, mode report.McuMode) error {
	return j.right.CheckMcuMode(ctx, mode)
}

func (j *JoyConDual) SetMcuIrConfig(ctx context.Context, fixed *report.IrFixedConfig, live *report.IrLiveConfig) error {
	return j.right.SetMcuIrConfig(ctx, fixed, live)
}

func (j *JoyConDual) CheckMcuIrMode(ctx context.Context, mode report.IrMode) error {
	return j.right.CheckMcuIrMode(ctx, mode)
}

func (j *JoyConDual) SetMcuIrRegisters(ctx context.Context, regs []report.McuReg) error {
	return j.right.SetMcuIrRegisters(ctx, regs)
}

func (j *JoyConDual) SetIrConfig(ctx context.Context, fixed report.IrFixedConfig, live report.IrLiveConfig, image []byte, cb protocol.IrCallback) error {
	return j.right.SetIrConfig(ctx, fixed, live, image, cb)
}

func (j *JoyConDual) GetIrImage(ctx context.Context, maxFragments byte, image []byte, cb protocol.IrCallback) error {
	return j.right.GetIrImage(ctx, maxFragments, image, cb)
}

func (j *JoyConDual) TestIR(ctx context.Context, resolution report.IrResolution, image []byte, cb protocol.IrCallback) error {
	return j.right.TestIR(ctx, resolution, image, cb)
}

func (j *JoyConDual) SetMcuNfcConfig(ctx context.Context) error {
	return j.right.SetMcuNfcConfig(ctx)
}

func (j *JoyConDual) GetNfcNtag(ctx context.Context) (protocol.NfcTag, error) {
	return j.right.GetNfcNtag(ctx)
}

func (j *JoyConDual) GetNfcData(ctx context.Context) ([]byte, error) {
	return j.right.GetNfcData(ctx)
}

var _ Controller = (*JoyConDual)(nil)
