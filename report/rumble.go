package report

import (
	"math"

	"github.com/neuroplastio/joyconcore/joyconerr"
)

// RumbleSide is the 4-byte-per-side encoding of high/low frequency and
// amplitude driving one of the controller's linear resonant actuators.
type RumbleSide [4]byte

// Rumble is the 8-byte rumble block at output report bytes 2-9.
type Rumble struct {
	Left, Right RumbleSide
}

func (r Rumble) Encode(buf []byte) {
	copy(buf[0:4], r.Left[:])
	copy(buf[4:8], r.Right[:])
}

// RumbleFreq is the physical parameters for one actuator: frequency in Hz
// and amplitude in [0, 1]. Valid ranges: high frequency side 80-1252Hz,
// low frequency side 40-626Hz.
type RumbleFreq struct {
	HighFreqHz float64
	HighAmp    float64
	LowFreqHz  float64
	LowAmp     float64
}

// amp is the amplitude transform: three log-domain regimes plus a clipped
// (and intentionally unsafe) saturation branch above 1.0.
func amp(a float64) float64 {
	switch {
	case a < 0.117471:
		return 0.0005 * a * a
	case a < 0.229908:
		return math.Log2(a*17) * 16
	case a > 1.0:
		return 100
	default:
		return math.Log2(a*8.7) * 32
	}
}

// encodeSide implements CalcRumblef for a single actuator pair (one side's
// high+low components combine into one 4-byte RumbleSide).
func encodeSide(freqH, ampH, freqL, ampL float64) (RumbleSide, error) {
	if freqH < 80 || freqH > 1252 || ampH < 0 || ampH > 1 {
		return RumbleSide{}, joyconerr.ErrInvalid
	}
	if freqL < 40 || freqL > 626 || ampL < 0 || ampL > 1 {
		return RumbleSide{}, joyconerr.ErrInvalid
	}
	freqHHex := uint8(math.Round(math.Log2(freqH/10.0) * 32.0))
	freqLHex := uint8(math.Round(math.Log2(freqL/10.0) * 32.0))
	fh := uint16(freqHHex-0x60) << 2
	fl := freqLHex - 0x40
	kH := uint8(math.Round(amp(ampH)))
	kL := uint8(math.Round(amp(ampL)))
	fhAmp := kH * 2
	msb := uint16(kL&0x1) << 15
	flAmp := ((uint16(kL) >> 1) | msb) + 0x0040

	var side RumbleSide
	side[0] = byte(fh & 0xFF)
	side[1] = fhAmp | byte((fh>>8)&0xFF)
	side[2] = fl | byte((flAmp>>8)&0xFF)
	side[3] = byte(flAmp & 0xFF)
	return side, nil
}

// EncodeRumbleSides encodes independent high/low parameters for the left
// and right actuators. Either side may be nil, leaving that actuator at
// its zero (silent) encoding.
func EncodeRumbleSides(left, right *RumbleFreq) (Rumble, error) {
	var r Rumble
	if left != nil {
		side, err := encodeSide(left.HighFreqHz, left.HighAmp, left.LowFreqHz, left.LowAmp)
		if err != nil {
			return Rumble{}, err
		}
		r.Left = side
	}
	if right != nil {
		side, err := encodeSide(right.HighFreqHz, right.HighAmp, right.LowFreqHz, right.LowAmp)
		if err != nil {
			return Rumble{}, err
		}
		r.Right = side
	}
	return r, nil
}
