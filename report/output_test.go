package report

import "testing"

func TestEncodeSetInputModeCRCWindow(t *testing.T) {
	o := EncodeSetInputMode(PollStandard)
	want := CRC8(o.Bytes()[11:47])
	if got := o.Bytes()[47]; got != want {
		t.Fatalf("crc at byte 47 = %x, want %x", got, want)
	}
	if o.Bytes()[0] != OutputSubcommand {
		t.Fatalf("report id = %x, want %x", o.Bytes()[0], OutputSubcommand)
	}
	if o.Bytes()[10] != SubcmdSetInputMode {
		t.Fatalf("subcommand id = %x, want %x", o.Bytes()[10], SubcmdSetInputMode)
	}
	if o.Bytes()[11] != byte(PollStandard) {
		t.Fatalf("poll type = %x, want %x", o.Bytes()[11], PollStandard)
	}
}

func TestEncodeSetPlayerLEDPacksNibbles(t *testing.T) {
	o := EncodeSetPlayerLED(0b0101, 0b0011)
	got := o.Payload()[1]
	want := byte(0b0101) | byte(0b0011)<<4
	if got != want {
		t.Fatalf("player LED byte = %08b, want %08b", got, want)
	}
}

func TestEncodeFlashReadLittleEndianAddr(t *testing.T) {
	o := EncodeFlashRead(0x00006050, 0x0D)
	p := o.Payload()
	if p[1] != 0x50 || p[2] != 0x60 || p[3] != 0x00 || p[4] != 0x00 {
		t.Fatalf("addr bytes = % x, want 50 60 00 00", p[1:5])
	}
	if p[5] != 0x0D {
		t.Fatalf("length = %x, want 0d", p[5])
	}
}

func TestEncodeFlashWriteCopiesData(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	o := EncodeFlashWrite(0x1000, data)
	p := o.Payload()
	if p[5] != byte(len(data)) {
		t.Fatalf("length = %d, want %d", p[5], len(data))
	}
	if p[6] != 0x01 || p[7] != 0x02 || p[8] != 0x03 {
		t.Fatalf("data = % x, want 01 02 03", p[6:9])
	}
}

func TestEncodeIMUSensitivityDefaults(t *testing.T) {
	cfg := DefaultImuConfig()
	o := EncodeIMUSensitivity(cfg)
	p := o.Payload()
	if p[1] != GyroSens2000DPS || p[2] != AccSens8G || p[3] != GyroPerf208Hz || p[4] != AccBW100Hz {
		t.Fatalf("imu config payload = % x, want defaults", p[1:5])
	}
}

func TestHomeLightPatternPacking(t *testing.T) {
	patterns := []HomeLightPattern{
		{Intensity: 0xF, Duration: 0x1, Transition: 0x2},
		{Intensity: 0x3, Duration: 0x4, Transition: 0x5},
	}
	raw := EncodePatterns(patterns)
	if raw[0] != 0xF3 {
		t.Fatalf("raw[0] = %x, want f3", raw[0])
	}
	if raw[1] != 0x21 {
		t.Fatalf("raw[1] = %x, want 21", raw[1])
	}
	if raw[2] != 0x54 {
		t.Fatalf("raw[2] = %x, want 54", raw[2])
	}
}
