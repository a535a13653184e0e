package protocol

import (
	"context"

	"github.com/neuroplastio/joyconcore/report"
)

// SetPlayer sets the player LEDs (sub-command 0x30).
func (d *Device) SetPlayer(ctx context.Context, player, flash uint8) error {
	d.sessLock.Lock()
	defer d.sessLock.Unlock()

	out := report.EncodeSetPlayerLED(player, flash)
	_, err := d.transmit(ctx, defaultRetry, out, ackInspector(report.SubcmdSetPlayerLED, nil))
	return err
}

// SetHomeLight sets the Home button's light pattern (sub-command 0x38).
func (d *Device) SetHomeLight(ctx context.Context, cfg report.HomeLightConfig) error {
	d.sessLock.Lock()
	defer d.sessLock.Unlock()

	out := report.EncodeHomeLight(cfg)
	_, err := d.transmit(ctx, defaultRetry, out, ackInspector(report.SubcmdHomeLight, nil))
	return err
}
