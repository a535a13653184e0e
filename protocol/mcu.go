package protocol

import (
	"context"

	"github.com/neuroplastio/joyconcore/report"
	"github.com/neuroplastio/joyconcore/session"
)

// SetMcuState enables, disables, or updates the MCU (sub-command 0x22).
func (d *Device) SetMcuState(ctx context.Context, state report.McuState) error {
	d.sessLock.Lock()
	defer d.sessLock.Unlock()

	out := report.EncodeMcuState(state)
	_, err := d.transmit(ctx, defaultRetry, out, ackInspector(report.SubcmdMCUState, nil))
	return err
}

// CheckMcuMode polls standard-extended reports until the MCU status field
// (report.InputReport.NFCIR()[7]) reports mode, or the retry budget runs
// out. Exposed standalone for JoyCon-R callers driving their own bring-up
// sequence; SetIrConfig/SetMcuNfcConfig call it while already holding
// sessLock, so it takes none of its own.
func (d *Device) CheckMcuMode(ctx context.Context, mode report.McuMode) error {
	inspector := func(buf []byte) session.Verdict {
		ir := report.ParseInputReport(buf)
		if ir.ID() != report.InputStandardExt {
			return session.Waiting()
		}
		nfcir := ir.NFCIR()
		if nfcir == nil || nfcir[0] != 0x01 {
			return session.Waiting()
		}
		if nfcir[7] != byte(mode) {
			return session.Waiting()
		}
		return session.Done()
	}
	_, err := d.transmit(ctx, defaultRetry, nil, inspector)
	return err
}

// CheckMcuIrMode mirrors CheckMcuMode, but for the MCU's reported IR mode
// (NFCIR()[0]==0x13, NFCIR()[2]==mode), reached while the MCU is already in
// IR mode and IMG_TRANSFER is coming up.
func (d *Device) CheckMcuIrMode(ctx context.Context, mode report.IrMode) error {
	inspector := func(buf []byte) session.Verdict {
		ir := report.ParseInputReport(buf)
		if ir.ID() != report.InputStandardExt {
			return session.Waiting()
		}
		nfcir := ir.NFCIR()
		if nfcir == nil || nfcir[0] != 0x13 || nfcir[1] != 0x00 {
			return session.Waiting()
		}
		if nfcir[2] != byte(mode) {
			return session.Waiting()
		}
		return session.Done()
	}
	_, err := d.transmit(ctx, defaultRetry, nil, inspector)
	return err
}

// SetMcuMode sets the MCU's top-level mode (sub-command 0x21, MCU command
// 0x21), accepting only a reply whose echoed status and mode-is-standby
// bytes both read 1 (the source's buffer->reply.data[0]==0x1 &&
// data[7]==0x1 check — the "standby acknowledged" shape every mode switch
// reply shares).
func (d *Device) SetMcuMode(ctx context.Context, mode report.McuMode) error {
	out := report.EncodeMcuSetMode(mode)
	inspector := func(buf []byte) session.Verdict {
		ir := report.ParseInputReport(buf)
		if ir.ID() != report.InputSubcommandReply || ir.SubcommandID() != report.SubcmdMCUCmd {
			return session.Waiting()
		}
		data := ir.SubcommandReplyData()
		if len(data) > 7 && data[0] == 0x1 && data[7] == 0x1 {
			return session.Done()
		}
		return session.Waiting()
	}
	_, err := d.transmit(ctx, defaultRetry, out, inspector)
	return err
}

// SetMcuIrRegisters writes regs in batches of up to 9, the wire layout's
// per-report register-array limit.
func (d *Device) SetMcuIrRegisters(ctx context.Context, regs []report.McuReg) error {
	inspector := func(buf []byte) session.Verdict {
		ir := report.ParseInputReport(buf)
		if ir.ID() == report.InputSubcommandReply && ir.SubcommandID() == report.SubcmdMCUCmd {
			return session.Done()
		}
		return session.Waiting()
	}
	for i := 0; i < len(regs); i += 9 {
		end := i + 9
		if end > len(regs) {
			end = len(regs)
		}
		out := report.EncodeMcuIrRegisters(regs[i:end])
		if _, err := d.transmit(ctx, defaultRetry, out, inspector); err != nil {
			return err
		}
	}
	return nil
}

// setMcuIrFixed sends the fixed IR config (mode/fragments/firmware) step,
// then its resolution/update-time/finalize register batch.
func (d *Device) setMcuIrFixed(ctx context.Context, cfg report.IrFixedConfig) error {
	out := report.EncodeMcuIrFixed(cfg)
	inspector := func(buf []byte) session.Verdict {
		ir := report.ParseInputReport(buf)
		if ir.ID() != report.InputSubcommandReply || ir.SubcommandID() != report.SubcmdMCUCmd {
			return session.Waiting()
		}
		data := ir.SubcommandReplyData()
		if len(data) > 0 && data[0] == 0x0b {
			return session.Done()
		}
		return session.Waiting()
	}
	if _, err := d.transmit(ctx, defaultRetry, out, inspector); err != nil {
		return err
	}
	return d.SetMcuIrRegisters(ctx, report.FixedConfigRegisters(cfg))
}

// setMcuIrLive sends the exposure/LED/denoise register batch, the second
// (no top-level command, registers only) half of IR configuration.
func (d *Device) setMcuIrLive(ctx context.Context, cfg report.IrLiveConfig) error {
	return d.SetMcuIrRegisters(ctx, report.LiveConfigRegisters(cfg))
}

// SetMcuIrConfig is the public, single-step-at-a-time form of the two
// private helpers above: pass fixed on the first call (mode/fragments/FW
// version + resolution/update-time/finalize registers), then live on the
// second (exposure/LED/denoise registers), matching the two SetMcuIrConfig
// invocations named in the MCU state machine.
// Exactly one of fixed/live must be non-nil.
func (d *Device) SetMcuIrConfig(ctx context.Context, fixed *report.IrFixedConfig, live *report.IrLiveConfig) error {
	if fixed != nil {
		return d.setMcuIrFixed(ctx, *fixed)
	}
	if live != nil {
		return d.setMcuIrLive(ctx, *live)
	}
	return nil
}
