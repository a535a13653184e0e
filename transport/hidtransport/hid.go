// Package hidtransport implements transport.Transport over a real
// Bluetooth/USB HID endpoint using github.com/sstallion/go-hid.
package hidtransport

import (
	"fmt"
	"sync"

	"github.com/neuroplastio/joyconcore/report"
	"github.com/sstallion/go-hid"
)

// Nintendo's USB vendor id and the Joy-Con/Pro Controller product ids.
const (
	VendorID          uint16 = 0x057E
	ProductJoyConL    uint16 = 0x2006
	ProductJoyConR    uint16 = 0x2007
	ProductProCon     uint16 = 0x2009
	ProductJoyConGrip uint16 = 0x200E
)

// Transport is a transport.Transport backed by one opened hidraw device.
// Send and Recv each take their own lock since the session layer may call
// them from different goroutines concurrently; go-hid devices are not
// documented safe for concurrent Read+Write otherwise.
type Transport struct {
	dev *hid.Device

	sendSize int
	recvSize int

	writeMu sync.Mutex
	readMu  sync.Mutex
}

// Open finds the first HID device matching vid/pid and opens it.
func Open(vid, pid uint16) (*Transport, error) {
	dev, err := hid.OpenFirst(vid, pid)
	if err != nil {
		return nil, fmt.Errorf("hidtransport: open %04x:%04x: %w", vid, pid, err)
	}
	return newTransport(dev), nil
}

// OpenPath opens a specific hidraw path, as reported by Enumerate.
func OpenPath(path string) (*Transport, error) {
	dev, err := hid.OpenPath(path)
	if err != nil {
		return nil, fmt.Errorf("hidtransport: open %s: %w", path, err)
	}
	return newTransport(dev), nil
}

func newTransport(dev *hid.Device) *Transport {
	return &Transport{
		dev:      dev,
		sendSize: report.OutputSize,
		recvSize: report.InputStandardSize,
	}
}

// SetRecvSize switches the read buffer size between the standard (64) and
// MCU-extended (362) input report lengths. session.New sizes its receive
// buffer once from RecvSize, so a change made after the Session is created
// does not reach its poll loop.
func (t *Transport) SetRecvSize(n int) { t.recvSize = n }

func (t *Transport) Send(buf []byte) (int, error) {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	n, err := t.dev.Write(buf)
	if err != nil {
		return n, fmt.Errorf("hidtransport: write: %w", err)
	}
	return n, nil
}

func (t *Transport) Recv(buf []byte) (int, error) {
	t.readMu.Lock()
	defer t.readMu.Unlock()
	n, err := t.dev.Read(buf)
	if err != nil {
		return n, fmt.Errorf("hidtransport: read: %w", err)
	}
	return n, nil
}

func (t *Transport) SendSize() int { return t.sendSize }
func (t *Transport) RecvSize() int { return t.recvSize }

func (t *Transport) Close() error {
	return t.dev.Close()
}

// DeviceInfo is one enumerated candidate controller.
type DeviceInfo struct {
	Path         string
	Serial       string
	ProductID    uint16
	InterfaceNbr int
}

// Enumerate lists every Joy-Con/Pro Controller hidraw path currently visible.
func Enumerate() ([]DeviceInfo, error) {
	var infos []DeviceInfo
	err := hid.Enumerate(VendorID, hid.ProductIDAny, func(d *hid.DeviceInfo) error {
		switch d.ProductID {
		case ProductJoyConL, ProductJoyConR, ProductProCon, ProductJoyConGrip:
		default:
			return nil
		}
		infos = append(infos, DeviceInfo{
			Path:         d.Path,
			Serial:       d.SerialNbr,
			ProductID:    d.ProductID,
			InterfaceNbr: d.InterfaceNbr,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("hidtransport: enumerate: %w", err)
	}
	return infos, nil
}

func init() {
	// hid.Init is idempotent and cheap; calling it here means callers never
	// need to remember to do it before Open/Enumerate.
	_ = hid.Init()
}
