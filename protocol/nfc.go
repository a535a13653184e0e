package protocol

import (
	"context"

	"github.com/neuroplastio/joyconcore/report"
	"github.com/neuroplastio/joyconcore/session"
)

// NfcTag is the minimal identity GetNfcNtag reads off of a newly detected
// tag; GetNfcData reads the full data block that follows.
type NfcTag struct {
	UID []byte
}

// SetMcuNfcConfig brings the MCU into NFC discovery mode: switch to
// extended polling, resume the MCU, confirm it reaches standby, switch it
// to NFC mode, confirm that, then start tag discovery. Mirrors SetIrConfig's
// bring-up shape minus the IR-specific resolution/exposure register steps,
// since NFC discovery takes no such parameters.
func (d *Device) SetMcuNfcConfig(ctx context.Context) error {
	d.sessLock.Lock()
	defer d.sessLock.Unlock()

	if _, err := d.transmit(ctx, defaultRetry, report.EncodeSetInputMode(report.PollNFCIR), ackInspector(report.SubcmdSetInputMode, nil)); err != nil {
		return err
	}
	if _, err := d.transmit(ctx, defaultRetry, report.EncodeMcuState(report.McuStateResume), ackInspector(report.SubcmdMCUState, nil)); err != nil {
		return err
	}
	if err := d.CheckMcuMode(ctx, report.McuModeStandby); err != nil {
		return err
	}
	if err := d.SetMcuMode(ctx, report.McuModeNFC); err != nil {
		return err
	}
	if err := d.CheckMcuMode(ctx, report.McuModeNFC); err != nil {
		return err
	}
	_, err := d.transmit(ctx, defaultRetry, report.EncodeMcuNfcStartPolling(), ackInspector(report.SubcmdMCUCmd, nil))
	return err
}

// GetNfcNtag waits for an id-0x31 report whose NFC block carries the
// status-reply marker and reports a detected tag, then reads
// the UID out of that same report. Reports still in Awaiting/Initializing
// are treated as Again, not Waiting: the MCU has answered (it is not simply
// a report we don't care about), just not yet with a tag.
func (d *Device) GetNfcNtag(ctx context.Context) (NfcTag, error) {
	var tag NfcTag
	inspector := func(buf []byte) session.Verdict {
		ir := report.ParseInputReport(buf)
		if ir.ID() != report.InputStandardExt || !ir.IsNFCStatusReply() {
			return session.Waiting()
		}
		switch ir.NFCState() {
		case report.NfcTagDetected:
			nfcir := ir.NFCIR()
			if len(nfcir) < 16 {
				return session.Waiting()
			}
			tag = NfcTag{UID: append([]byte(nil), nfcir[8:16]...)}
			return session.Done()
		default:
			return session.Again()
		}
	}
	_, err := d.transmit(ctx, defaultRetry, nil, inspector)
	return tag, err
}

// GetNfcData requests the full data block off the tag GetNfcNtag most
// recently detected.
func (d *Device) GetNfcData(ctx context.Context) ([]byte, error) {
	var data []byte
	inspector := func(buf []byte) session.Verdict {
		ir := report.ParseInputReport(buf)
		if ir.ID() != report.InputStandardExt || !ir.IsNFCStatusReply() {
			return session.Waiting()
		}
		nfcir := ir.NFCIR()
		data = append([]byte(nil), nfcir[8:]...)
		return session.Done()
	}
	_, err := d.transmit(ctx, defaultRetry, report.EncodeMcuNfcReadData(), inspector)
	return data, err
}
