package protocol

import (
	"context"

	"github.com/neuroplastio/joyconcore/report"
)

// Pair runs the manual-pairing sub-command (0x01) with the host's MAC and
// alias, retrying until the controller echoes it back.
func (d *Device) Pair(ctx context.Context, mac [6]byte, alias string) error {
	d.sessLock.Lock()
	defer d.sessLock.Unlock()

	out := report.EncodeManualPair(mac, alias)
	_, err := d.transmit(ctx, defaultRetry, out, ackInspector(report.SubcmdManualPair, nil))
	if err == nil {
		d.mac = mac
	}
	return err
}

// GetDeviceInfo issues sub-command 0x02 and decodes the controller's
// firmware version, category, and own MAC address from the reply.
func (d *Device) GetDeviceInfo(ctx context.Context) (report.ControllerInfo, error) {
	d.sessLock.Lock()
	defer d.sessLock.Unlock()

	var info report.ControllerInfo
	out := report.EncodeDeviceInfo()
	_, err := d.transmit(ctx, defaultRetry, out, ackInspector(report.SubcmdDeviceInfo, func(reply []byte) {
		info = decodeDeviceInfoReply(reply)
	}))
	if err != nil {
		return report.ControllerInfo{}, err
	}
	d.category = info.Category
	return info, nil
}

func decodeDeviceInfoReply(d []byte) report.ControllerInfo {
	var info report.ControllerInfo
	info.Firmware[0], info.Firmware[1] = d[0], d[1]
	info.Category = report.Category(d[2])
	copy(info.MAC[:], d[4:10])
	return info
}
