package protocol

import (
	"context"
	"sync"

	"github.com/neuroplastio/joyconcore/report"
	"github.com/neuroplastio/joyconcore/session"
)

// GetData waits for the next standard/extended/subcommand-reply input
// report and decodes its ControllerData. The first matching report is
// taken as is; when the Device has more than one session, each further
// session's report is OR-merged into it (source's controller_data_merge).
// The reported category is not consulted.
func (d *Device) GetData(ctx context.Context) (report.ControllerData, error) {
	var mu sync.Mutex
	var data report.ControllerData
	first := true
	inspector := func(buf []byte) session.Verdict {
		ir := report.ParseInputReport(buf)
		switch ir.ID() {
		case report.InputStandard, report.InputSubcommandReply, report.InputStandardExt:
			got := ir.Data()
			mu.Lock()
			if first {
				data = got
				first = false
			} else {
				data = data.Merge(got)
			}
			mu.Unlock()
			return session.Done()
		default:
			return session.Waiting()
		}
	}
	_, err := d.transmit(ctx, defaultRetry, nil, inspector)
	if err != nil {
		return report.ControllerData{}, err
	}
	return data, nil
}
