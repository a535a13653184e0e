package protocol

import (
	"context"

	"github.com/neuroplastio/joyconcore/report"
)

// SetRumble enables or disables the vibration subsystem (sub-command 0x48);
// it must be enabled once before any Rumble/Rumblef call has effect.
func (d *Device) SetRumble(ctx context.Context, enable bool) error {
	d.sessLock.Lock()
	defer d.sessLock.Unlock()

	out := report.EncodeEnableVibration(enable)
	_, err := d.transmit(ctx, defaultRetry, out, ackInspector(report.SubcmdEnableVibration, nil))
	return err
}

// Rumble sends one fire-and-forget rumble frame (output report id 0x10, no
// sub-command, no reply expected).
func (d *Device) Rumble(ctx context.Context, r report.Rumble) error {
	out := report.EncodeRumbleOnly(r)
	_, err := d.transmit(ctx, 1, out, nil)
	return err
}

// Rumblef encodes independent high/low frequency+amplitude parameters per
// side and sends them as a rumble frame, combining EncodeRumbleSides with
// Rumble.
func (d *Device) Rumblef(ctx context.Context, left, right *report.RumbleFreq) error {
	r, err := report.EncodeRumbleSides(left, right)
	if err != nil {
		return err
	}
	return d.Rumble(ctx, r)
}
