package joyconcli

import (
	"fmt"
	"path/filepath"

	"github.com/jochenvg/go-udev"
	"github.com/neuroplastio/joyconcore/transport/hidtransport"
)

// DeviceListing is one enumerated controller candidate, merging go-hid's
// own cross-platform device info with (on Linux) the matching udev
// "hidraw" node's syspath, joining two enumeration sources before handing
// anything to a caller.
type DeviceListing struct {
	hidtransport.DeviceInfo
	Syspath string
}

// ListDevices enumerates every Joy-Con/Pro Controller hidraw endpoint
// go-hid can see, then best-effort annotates each with its udev syspath.
// A udev lookup failure for one device (e.g. running inside a container
// without /sys) degrades that entry's Syspath to "" rather than failing
// the whole listing.
func ListDevices() ([]DeviceListing, error) {
	devices, err := hidtransport.Enumerate()
	if err != nil {
		return nil, fmt.Errorf("joyconcli: enumerate: %w", err)
	}
	u := &udev.Udev{}
	listings := make([]DeviceListing, 0, len(devices))
	for _, d := range devices {
		listing := DeviceListing{DeviceInfo: d}
		if hidraw := u.NewDeviceFromSubsystemSysname("hidraw", filepath.Base(d.Path)); hidraw != nil {
			listing.Syspath = hidraw.Syspath()
		}
		listings = append(listings, listing)
	}
	return listings, nil
}
