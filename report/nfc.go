package report

// MCU-write sub-commands driving NFC tag discovery, the NFC analogue of
// McuSetIRMode/McuSetIRReg. The original source's mcu.h names MCU_MODE_NFC
// as a top-level mode but does not document a discovery/read sub-protocol
// beyond it; these ids are this driver's own numbering, not grounded on a
// transcribed header.
const (
	McuNfcStartPolling byte = 0x02
	McuNfcReadData     byte = 0x06
)

// NfcState decodes the tag-presence state reported in the NFC/IR block's
// byte 7 once the MCU is in NFC mode.
type NfcState byte

const (
	NfcAwaiting     NfcState = 0x00
	NfcTagDetected  NfcState = 0x09
	NfcInitializing NfcState = 0x0B
)

// EncodeMcuNfcStartPolling requests the MCU begin NFC tag discovery.
func EncodeMcuNfcStartPolling() *OutputReport {
	o := NewOutputReport(OutputMCU)
	o.SetSubcommand(SubcmdMCUCmd)
	p := o.Payload()
	p[1] = McuCmdWrite
	p[2] = McuNfcStartPolling
	o.crc8(12, 48)
	return o
}

// EncodeMcuNfcReadData requests the data block off the tag last reported by
// an NFC status reply.
func EncodeMcuNfcReadData() *OutputReport {
	o := NewOutputReport(OutputMCU)
	o.SetSubcommand(SubcmdMCUCmd)
	p := o.Payload()
	p[1] = McuCmdWrite
	p[2] = McuNfcReadData
	o.crc8(12, 48)
	return o
}

// IsNFCStatusReply reports whether this extended input report's NFC/IR block
// carries the NFC status-reply marker: nfc[0]==0x2A (NFC reply tag) and
// nfc[2]==0x05 (status sub-type).
func (r InputReport) IsNFCStatusReply() bool {
	nfcir := r.NFCIR()
	return nfcir != nil && len(nfcir) > 2 && nfcir[0] == 0x2A && nfcir[2] == 0x05
}

// NFCState reads the tag-presence byte (nfc[7]) out of an NFC status reply.
// Call only after IsNFCStatusReply reports true.
func (r InputReport) NFCState() NfcState {
	nfcir := r.NFCIR()
	if nfcir == nil || len(nfcir) < 8 {
		return NfcAwaiting
	}
	return NfcState(nfcir[7])
}
