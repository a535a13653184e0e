package protocol

import (
	"context"

	"github.com/neuroplastio/joyconcore/report"
)

// SetLowPower toggles the controller's low-power shipment mode
// (sub-command 0x08).
func (d *Device) SetLowPower(ctx context.Context, enable bool) error {
	d.sessLock.Lock()
	defer d.sessLock.Unlock()

	out := report.EncodeSetLowPower(enable)
	_, err := d.transmit(ctx, defaultRetry, out, ackInspector(report.SubcmdSetLowPower, nil))
	return err
}
