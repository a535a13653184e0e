package protocol

import (
	"context"
	"fmt"

	"github.com/neuroplastio/joyconcore/report"
	"github.com/neuroplastio/joyconcore/session"
)

// maxBringupAttempts bounds the IR/MCU bring-up retry loop below. The
// source retries each stalled step in place via goto; stalls are rare
// enough in practice that a handful of full-sequence restarts covers the
// same ground without open-ended looping.
const maxBringupAttempts = 3

// IrCallback is invoked once per completed IR frame; its return value lets
// the caller stop the stream early (return 0 to request the next frame, any
// other value to stop) the way the source's caller-supplied stop flag does.
type IrCallback func(frame []byte) int

// SetIrConfig brings the MCU up into IR image-transfer mode and streams
// images into image until cb returns non-zero or ctx is done, then always
// suspends the MCU and returns the controller to standard polling — the
// state machine from original_source/src/controller.cc's SetIrConfig,
// re-expressed as a bounded retry loop over attemptIrBringup rather than
// the source's goto-based step labels.
func (d *Device) SetIrConfig(ctx context.Context, fixed report.IrFixedConfig, live report.IrLiveConfig, image []byte, cb IrCallback) error {
	d.sessLock.Lock()
	defer d.sessLock.Unlock()

	defer func() {
		_, _ = d.transmit(context.Background(), defaultRetry, report.EncodeMcuState(report.McuStateSuspend), ackInspector(report.SubcmdMCUState, nil))
		_, _ = d.transmit(context.Background(), defaultRetry, report.EncodeSetInputMode(report.PollStandard), ackInspector(report.SubcmdSetInputMode, nil))
	}()

	var err error
	for attempt := 0; attempt < maxBringupAttempts; attempt++ {
		err = d.attemptIrBringup(ctx, fixed, live, image, cb)
		if err == nil {
			return nil
		}
	}
	return fmt.Errorf("ir bring-up failed after %d attempts: %w", maxBringupAttempts, err)
}

func (d *Device) attemptIrBringup(ctx context.Context, fixed report.IrFixedConfig, live report.IrLiveConfig, image []byte, cb IrCallback) error {
	if _, err := d.transmit(ctx, defaultRetry, report.EncodeSetInputMode(report.PollNFCIR), ackInspector(report.SubcmdSetInputMode, nil)); err != nil {
		return err
	}
	if _, err := d.transmit(ctx, defaultRetry, report.EncodeMcuState(report.McuStateResume), ackInspector(report.SubcmdMCUState, nil)); err != nil {
		return err
	}
	if err := d.CheckMcuMode(ctx, report.McuModeStandby); err != nil {
		return err
	}
	if err := d.SetMcuMode(ctx, report.McuModeIR); err != nil {
		return err
	}
	if err := d.CheckMcuMode(ctx, report.McuModeIR); err != nil {
		return err
	}
	if err := d.setMcuIrFixed(ctx, fixed); err != nil {
		return err
	}
	if err := d.CheckMcuIrMode(ctx, report.IrModeImgTransfer); err != nil {
		return err
	}
	if err := d.setMcuIrLive(ctx, live); err != nil {
		return err
	}
	return d.GetIrImage(ctx, fixed.Fragments, image, cb)
}

// GetIrImage drives the 300-byte fragment-streaming loop once the MCU is
// in IMG_TRANSFER mode, dispatching each input report to the right ACK
// (begin/duplicate/next/end) or recovery request (resend/missed-fragment),
// per controller.cc's GetIrImage. maxFragments is the last valid fragment
// index (controller.cc's ir_max_frag, taken from IrFixedConfig.Fragments —
// e.g. 0x0F for the 60p config's 16 fragments); a frame completes when the
// controller reports this index, not when the caller's buffer fills up.
// SetIrConfig calls it as the last step of its own bring-up; it is also
// exposed standalone for a caller that has already brought the MCU up
// (e.g. to resume streaming after its own callback returned non-zero
// without going through SetIrConfig again).
func (d *Device) GetIrImage(ctx context.Context, maxFragments byte, image []byte, cb IrCallback) error {
	const fragmentSize = 300
	var preFragNo byte

	inspector := func(buf []byte) session.Verdict {
		ir := report.ParseInputReport(buf)
		if ir.ID() != report.InputStandardExt {
			return session.Waiting()
		}
		nfcir := ir.NFCIR()
		if nfcir == nil {
			return session.Waiting()
		}

		switch nfcir[0] {
		case 0xff:
			// Empty report, controller wants the previous fragment resent.
			d.ackFireAndForget(ctx, report.EncodeIrResendAck(preFragNo))
			return session.Again()
		case 0x00:
			// Empty report, controller missed a fragment entirely.
			d.ackFireAndForget(ctx, report.EncodeIrMissedFragmentRequest(preFragNo))
			return session.Again()
		case 0x03:
			// Fragment available.
		default:
			return session.Waiting()
		}

		fragNo := nfcir[3]
		payload := nfcir[10:]
		if len(payload) > fragmentSize {
			payload = payload[:fragmentSize]
		}

		switch {
		case fragNo == 0:
			// Fragment begin: every frame starts at 0, whether this is the
			// first frame or a restart.
			preFragNo = 0
			copyFragment(image, fragNo, payload, fragmentSize)
		case fragNo == preFragNo:
			// Duplicate of the fragment already written, ACK and move on.
		case fragNo == maxFragments:
			preFragNo = fragNo
			copyFragment(image, fragNo, payload, fragmentSize)
			if cb != nil && cb(image) != 0 {
				return session.Done()
			}
			zeroImage(image)
		case fragNo == preFragNo+1:
			preFragNo = fragNo
			copyFragment(image, fragNo, payload, fragmentSize)
		default:
			return session.Waiting()
		}

		d.ackFireAndForget(ctx, report.EncodeIrFragmentAck(fragNo))
		return session.Again()
	}

	_, err := d.transmit(ctx, defaultRetry, report.EncodeIrPollStart(), inspector)
	return err
}

func zeroImage(image []byte) {
	for i := range image {
		image[i] = 0
	}
}

func copyFragment(image []byte, fragNo byte, payload []byte, fragmentSize int) {
	off := int(fragNo) * fragmentSize
	if off >= len(image) {
		return
	}
	end := off + len(payload)
	if end > len(image) {
		end = len(image)
	}
	copy(image[off:end], payload[:end-off])
}

// ackFireAndForget sends an IR ACK/recovery report without waiting for a
// reply; the next input report, whatever it is, drives the state machine
// forward regardless of whether this send is acknowledged. It runs inside
// GetIrImage's inspector while GetIrImage's own transmit holds outputLock,
// so it queues the report on each session directly and awaits nothing.
func (d *Device) ackFireAndForget(ctx context.Context, out *report.OutputReport) {
	buf := out.Bytes()
	for _, s := range d.sessions {
		_, _ = s.Transmit(ctx, 1, buf, nil)
	}
}

// TestIR is a convenience wrapper selecting one of the four fixed
// resolutions and the fixed live-config parameters controller.cc uses for
// its own IR self-test (exposure 100us, bright+strobe LEDs, intensity
// 0x70/0x70, filter off, digital gain 1, denoise 0/0x7f/0x7f, normal flip).
func (d *Device) TestIR(ctx context.Context, resolution report.IrResolution, image []byte, cb IrCallback) error {
	var fixed report.IrFixedConfig
	switch resolution {
	case report.IrResolution240p:
		fixed = report.IrConfig240p
	case report.IrResolution120p:
		fixed = report.IrConfig120p
	case report.IrResolution60p:
		fixed = report.IrConfig60p
	case report.IrResolution30p:
		fixed = report.IrConfig30p
	default:
		return fmt.Errorf("protocol: unsupported IR resolution %v", resolution)
	}

	live := report.IrLiveConfig{
		ExposureUs:      100,
		Leds:            report.IrLedBright | report.IrLedStrobe,
		BrightIntensity: 0x70,
		DimIntensity:    0x70,
		ExtLightFilter:  report.IrExFilterOff,
		DigiGain:        1,
		DenoiseEnable:   false,
		DenoiseEdge:     0x7f,
		DenoiseColor:    0x7f,
		Flip:            report.IrFlipNormal,
	}
	return d.SetIrConfig(ctx, fixed, live, image, cb)
}
