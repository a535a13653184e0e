package protocol

import (
	"context"

	"github.com/neuroplastio/joyconcore/report"
)

// SetImu enables or disables the IMU stream (sub-command 0x40).
func (d *Device) SetImu(ctx context.Context, enable bool) error {
	d.sessLock.Lock()
	defer d.sessLock.Unlock()

	out := report.EncodeEnableIMU(enable)
	_, err := d.transmit(ctx, defaultRetry, out, ackInspector(report.SubcmdEnableIMU, nil))
	return err
}

// SetImuSensitivity configures gyro/accelerometer sensitivity and
// performance (sub-command 0x41). Supplemented from
// original_source/src/controller.cc, which exposes it as a named
// operation.
func (d *Device) SetImuSensitivity(ctx context.Context, cfg report.ImuConfig) error {
	d.sessLock.Lock()
	defer d.sessLock.Unlock()

	out := report.EncodeIMUSensitivity(cfg)
	_, err := d.transmit(ctx, defaultRetry, out, ackInspector(report.SubcmdIMUSensitivity, nil))
	return err
}
