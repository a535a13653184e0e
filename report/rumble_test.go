package report

import "testing"

func TestEncodeRumbleSidesRejectsOutOfRangeFreq(t *testing.T) {
	bad := &RumbleFreq{HighFreqHz: 2000, HighAmp: 0.5, LowFreqHz: 100, LowAmp: 0.5}
	if _, err := EncodeRumbleSides(bad, nil); err == nil {
		t.Fatal("expected error for high frequency above 1252Hz")
	}
}

func TestEncodeRumbleSidesRejectsOutOfRangeAmp(t *testing.T) {
	bad := &RumbleFreq{HighFreqHz: 320, HighAmp: 1.5, LowFreqHz: 160, LowAmp: 0.5}
	if _, err := EncodeRumbleSides(bad, nil); err == nil {
		t.Fatal("expected error for amplitude above 1.0")
	}
}

func TestEncodeRumbleSidesNilLeavesSideZero(t *testing.T) {
	right := &RumbleFreq{HighFreqHz: 320, HighAmp: 0.5, LowFreqHz: 160, LowAmp: 0.5}
	r, err := EncodeRumbleSides(nil, right)
	if err != nil {
		t.Fatalf("EncodeRumbleSides: %v", err)
	}
	if r.Left != (RumbleSide{}) {
		t.Fatalf("Left = %v, want zero value", r.Left)
	}
	if r.Right == (RumbleSide{}) {
		t.Fatal("Right should be non-zero for a valid configuration")
	}
}

func TestEncodeRumbleSidesDeterministic(t *testing.T) {
	freq := &RumbleFreq{HighFreqHz: 320, HighAmp: 0.5, LowFreqHz: 160, LowAmp: 0.5}
	a, err := EncodeRumbleSides(freq, freq)
	if err != nil {
		t.Fatalf("EncodeRumbleSides: %v", err)
	}
	b, err := EncodeRumbleSides(freq, freq)
	if err != nil {
		t.Fatalf("EncodeRumbleSides: %v", err)
	}
	if a != b {
		t.Fatalf("encoding not deterministic: %+v != %+v", a, b)
	}
	if a.Left != a.Right {
		t.Fatalf("identical input should encode identically on both sides: %+v != %+v", a.Left, a.Right)
	}
}
