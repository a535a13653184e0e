package report

import "testing"

func TestStickRoundTrip(t *testing.T) {
	s := Stick{X: 0xABC, Y: 0x123}
	var raw [3]byte
	s.Encode(raw[:])
	got := DecodeStick(raw[:])
	if got != s {
		t.Fatalf("round trip = %+v, want %+v", got, s)
	}
}

func TestButtonsMerge(t *testing.T) {
	left := Buttons{Left: BitDPadDown, Shared: BitMinus, Right: 0}
	right := Buttons{Left: 0, Shared: BitPlus, Right: BitA}
	merged := left.Merge(right)
	want := Buttons{Left: BitDPadDown, Shared: BitMinus | BitPlus, Right: BitA}
	if merged != want {
		t.Fatalf("merge = %+v, want %+v", merged, want)
	}
}

func TestControllerStateRoundTrip(t *testing.T) {
	s := ControllerState{Power: PowerSwitch, Category: JoyConDual, Battery: BatteryFull}
	got := DecodeControllerState(s.Encode())
	if got != s {
		t.Fatalf("round trip = %+v, want %+v", got, s)
	}
}

func TestControllerColorRoundTrip(t *testing.T) {
	c := ControllerColor{
		Body:      [3]byte{0x32, 0x32, 0x32},
		Button:    [3]byte{0x00, 0x00, 0x00},
		LeftGrip:  [3]byte{0xFF, 0x00, 0x00},
		RightGrip: [3]byte{0x00, 0xFF, 0x00},
	}
	got := DecodeControllerColor(c.Encode())
	if got != c {
		t.Fatalf("round trip = %+v, want %+v", got, c)
	}
}
