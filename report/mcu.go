package report

// MCU command ids (output sub-command 0x21's own first payload byte).
const (
	McuCmdSetMode byte = 0x21
	McuCmdWrite   byte = 0x23
)

// MCU write sub-commands (second payload byte under McuCmdWrite).
const (
	McuSetIRMode byte = 0x1
	McuSetIRReg  byte = 0x4
)

// McuMode is the MCU operating mode set via McuCmdSetMode.
type McuMode byte

const (
	McuModeStandby McuMode = 0x1
	McuModeNFC     McuMode = 0x4
	McuModeIR      McuMode = 0x5
	McuModeInit    McuMode = 0x6
)

// McuState is sub-command 0x22's payload.
type McuState byte

const (
	McuStateSuspend McuState = 0
	McuStateResume  McuState = 1
	McuStateUpdate  McuState = 2
)

// IrMode is the IR camera operating mode reported via MCU status replies.
type IrMode byte

const (
	IrModeNone             IrMode = 0x2
	IrModeMoment           IrMode = 0x3
	IrModeDPD              IrMode = 0x4
	IrModeClustering       IrMode = 0x6
	IrModeImgTransfer      IrMode = 0x7
	IrModeAnsisSilhouette  IrMode = 0x8
	IrModeAnsisImage       IrMode = 0x9
	IrModeAnsisBoth        IrMode = 0xA
)

// McuReg is one {big-endian address, value} register write in an IR/NFC
// register batch.
type McuReg struct {
	Addr  uint16
	Value uint8
}

// MCU register addresses used by the fixed/live IR configuration steps.
const (
	McuRegUpdateTime      uint16 = 0x0004
	McuRegFinalize        uint16 = 0x0007
	McuRegExtLightFilter  uint16 = 0x000E
	McuRegLedsState       uint16 = 0x0010
	McuRegLeds12Intensity uint16 = 0x0011
	McuRegLeds34Intensity uint16 = 0x0012
	McuRegFlipImage       uint16 = 0x002D
	McuRegResolution      uint16 = 0x002E
	McuRegDigiGainLSB     uint16 = 0x012E
	McuRegDigiGainMSB     uint16 = 0x012F
	McuRegExpTimeLSB      uint16 = 0x0130
	McuRegExpTimeMSB      uint16 = 0x0131
	McuRegExpTimeMax      uint16 = 0x0132
	McuRegExlfThreshold   uint16 = 0x0143
	McuRegDenoiseAlg      uint16 = 0x0167
	McuRegDenoiseEdge     uint16 = 0x0168
	McuRegDenoiseColor    uint16 = 0x0169
)

const FinalizeTrue uint8 = 1

// IrResolution selects one of the four fixed IR capture resolutions; its
// value doubles as the wire RESOLUTION register value.
type IrResolution uint8

const (
	IrResolution240p IrResolution = 0b00000000
	IrResolution120p IrResolution = 0b01010000
	IrResolution60p  IrResolution = 0b01100100
	IrResolution30p  IrResolution = 0b01101001
)

// IrFixedConfig is the mode+fragments+FW-version step (the first of the
// two SetMcuIrConfig calls in the MCU state machine).
type IrFixedConfig struct {
	Mode         IrMode
	Resolution   IrResolution
	Fragments    uint8
	UpdateTime   uint8
	Width        int
	Height       int
	FWMajor      uint16
	FWMinor      uint16
}

var (
	IrConfig240p = IrFixedConfig{Mode: IrModeImgTransfer, Resolution: IrResolution240p, Fragments: 0xFF, UpdateTime: 0x32, Width: 320, Height: 240, FWMajor: 0x0005, FWMinor: 0x0018}
	IrConfig120p = IrFixedConfig{Mode: IrModeImgTransfer, Resolution: IrResolution120p, Fragments: 0x3F, UpdateTime: 0x32, Width: 160, Height: 120, FWMajor: 0x0005, FWMinor: 0x0018}
	IrConfig60p  = IrFixedConfig{Mode: IrModeImgTransfer, Resolution: IrResolution60p, Fragments: 0x0F, UpdateTime: 0x32, Width: 80, Height: 60, FWMajor: 0x0005, FWMinor: 0x0018}
	IrConfig30p  = IrFixedConfig{Mode: IrModeImgTransfer, Resolution: IrResolution30p, Fragments: 0x03, UpdateTime: 0x2D, Width: 40, Height: 30, FWMajor: 0x0005, FWMinor: 0x0018}
)

// IrLiveConfig is the exposure/LED/denoise step (the second SetMcuIrConfig
// call, sent once IMG_TRANSFER mode is confirmed).
type IrLiveConfig struct {
	ExposureUs     int
	Leds           uint8
	BrightIntensity uint8
	DimIntensity    uint8
	ExtLightFilter  uint8
	DigiGain        uint8
	DenoiseEnable   bool
	DenoiseEdge     uint8
	DenoiseColor    uint8
	Flip            uint8
}

const (
	IrLedBrightDim uint8 = 0b00000000
	IrLedBright    uint8 = 0b00100000
	IrLedDim       uint8 = 0b00010000
	IrLedNone      uint8 = 0b00110000
	IrLedFlash     uint8 = 0b00000001
	IrLedStrobe    uint8 = 0b10000000

	IrExFilterOn  uint8 = 0x03
	IrExFilterOff uint8 = 0x00

	IrFlipNormal     uint8 = 0
	IrFlipVertical   uint8 = 1
	IrFlipHorizontal uint8 = 2
	IrFlipBoth       uint8 = 3
)

// ExposureRegValue converts microseconds to the register's 16-bit encoding:
// (31200 * us / 1000), per original_source/include/mcu.h's ir_exposure_us.
func ExposureRegValue(us int) uint16 {
	return uint16(31200 * us / 1000)
}

// EncodeMcuSetMode builds output sub-command 0x21 / mcu-cmd 0x21 (set MCU
// mode), with CRC-8 over the 36-byte window [12:48) stored at byte 48.
func EncodeMcuSetMode(mode McuMode) *OutputReport {
	o := NewOutputReport(OutputMCU)
	o.SetSubcommand(SubcmdMCUCmd)
	p := o.Payload()
	p[1] = McuCmdSetMode
	p[2] = byte(mode)
	o.crc8(12, 48)
	return o
}

// EncodeMcuIrFixed builds the first SetMcuIrConfig write (mode, fragment
// count, FW version).
func EncodeMcuIrFixed(cfg IrFixedConfig) *OutputReport {
	o := NewOutputReport(OutputMCU)
	o.SetSubcommand(SubcmdMCUCmd)
	p := o.Payload()
	p[1] = McuCmdWrite
	p[2] = McuSetIRMode
	p[3] = byte(cfg.Mode)
	p[4] = cfg.Fragments
	p[5] = byte(cfg.FWMajor)
	p[6] = byte(cfg.FWMajor >> 8)
	p[7] = byte(cfg.FWMinor)
	p[8] = byte(cfg.FWMinor >> 8)
	o.crc8(12, 48)
	return o
}

// EncodeMcuIrRegisters builds a register-write batch (McuSetIRReg), used
// both for the fixed step's RESOLUTION/UPDATE_TIME/FINALIZE registers and
// the live step's exposure/LED/denoise registers. Up to 9 registers fit the
// 27-byte reg array (original_source/include/output_report.h: mcu_reg_t
// reg[9]).
func EncodeMcuIrRegisters(regs []McuReg) *OutputReport {
	o := NewOutputReport(OutputMCU)
	o.SetSubcommand(SubcmdMCUCmd)
	p := o.Payload()
	p[1] = McuCmdWrite
	p[2] = McuSetIRReg
	p[3] = uint8(len(regs))
	for i, r := range regs {
		if i >= 9 {
			break
		}
		base := 4 + i*3
		p[base] = byte(r.Addr >> 8)
		p[base+1] = byte(r.Addr)
		p[base+2] = r.Value
	}
	o.crc8(12, 48)
	return o
}

// FixedConfigRegisters is the RESOLUTION/UPDATE_TIME/FINALIZE register batch
// sent right after EncodeMcuIrFixed, per the MCU state machine step 6.
func FixedConfigRegisters(cfg IrFixedConfig) []McuReg {
	return []McuReg{
		{McuRegResolution, uint8(cfg.Resolution)},
		{McuRegUpdateTime, cfg.UpdateTime},
		{McuRegFinalize, FinalizeTrue},
	}
}

// LiveConfigRegisters is the exposure/LED/denoise register batch sent as
// step 8 of the MCU state machine.
func LiveConfigRegisters(cfg IrLiveConfig) []McuReg {
	exp := ExposureRegValue(cfg.ExposureUs)
	denoise := uint8(0)
	if cfg.DenoiseEnable {
		denoise = 1
	}
	return []McuReg{
		{McuRegExpTimeLSB, byte(exp)},
		{McuRegExpTimeMSB, byte(exp >> 8)},
		{McuRegExpTimeMax, 0},
		{McuRegLedsState, cfg.Leds},
		{McuRegDigiGainLSB, cfg.DigiGain},
		{McuRegDigiGainMSB, 0},
		{McuRegExtLightFilter, cfg.ExtLightFilter},
		{McuRegExlfThreshold, 0xC8},
		{McuRegLeds12Intensity, cfg.BrightIntensity},
		{McuRegLeds34Intensity, cfg.DimIntensity},
		{McuRegFlipImage, cfg.Flip},
		{McuRegDenoiseAlg, denoise},
		{McuRegDenoiseEdge, cfg.DenoiseEdge},
		{McuRegDenoiseColor, cfg.DenoiseColor},
		{McuRegFinalize, FinalizeTrue},
	}
}

// EncodeMcuState builds sub-command 0x22 (enable/disable the MCU).
func EncodeMcuState(state McuState) *OutputReport {
	o := NewOutputReport(OutputSubcommand)
	o.SetSubcommand(SubcmdMCUState)
	o.Payload()[1] = byte(state)
	return o
}

// irPollReport lays out the id-0x11 / sub-command-0x03 report used to enter
// NFC_IR_CAM polling and to ACK/resend during IR fragment streaming. Payload
// layout (payload index : buffer byte): 0:10 cmd, 1:11 raw[0] (poll_type
// position), 2:12 raw[1], 3:13 raw[2], 4:14 raw[3], 37:47 crc, 38:48 tail.
// CRC covers buffer bytes [11:47); tail (always 0xFF in this flow) sits
// outside that window.
func newIrPollReport() *OutputReport {
	o := NewOutputReport(OutputMCU)
	o.SetSubcommand(SubcmdSetInputMode)
	o.Payload()[38] = 0xFF
	return o
}

// EncodeIrPollStart builds the initial poll-type switch to NFC_IR_CAM that
// begins IR image streaming.
func EncodeIrPollStart() *OutputReport {
	o := newIrPollReport()
	o.Payload()[1] = byte(PollNFCIRCam)
	o.crc8(11, 47)
	return o
}

// EncodeIrFragmentAck builds the per-fragment ACK, writing cur into
// raw[3] (payload offset 4 / buffer byte 14).
func EncodeIrFragmentAck(cur byte) *OutputReport {
	o := newIrPollReport()
	o.Payload()[4] = cur
	o.crc8(11, 47)
	return o
}

// EncodeIrResendAck rebuilds the ACK for an empty (0xFF) IR report: resend
// pre unchanged (raw[1..2] = 0, raw[3] = pre).
func EncodeIrResendAck(pre byte) *OutputReport {
	o := newIrPollReport()
	p := o.Payload()
	p[2], p[3], p[4] = 0x00, 0x00, pre
	o.crc8(11, 47)
	return o
}

// EncodeIrMissedFragmentRequest builds the request for a missed fragment
// (controller sent a 0x00 "report missed" marker): raw[1]=1, raw[2]=pre+1,
// raw[3]=0.
func EncodeIrMissedFragmentRequest(pre byte) *OutputReport {
	o := newIrPollReport()
	p := o.Payload()
	p[2], p[3], p[4] = 0x01, pre+1, 0x00
	o.crc8(11, 47)
	return o
}
