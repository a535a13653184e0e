package session

import "go.uber.org/atomic"

// timer is the per-session monotonic mod-256 counter stamped into every
// output report at send time. The original implementation kept one such
// counter process-wide; scoping it per Session is the one behavioral fix
// this driver makes over that layout.
type timer struct {
	v atomic.Uint32
}

// next returns the next timer byte, counting up through 0xff and wrapping
// 0xff -> 0x00, so all 256 values are emitted.
func (t *timer) next() byte {
	for {
		cur := t.v.Load()
		var n uint32
		if cur > 0xfe {
			n = 0
		} else {
			n = cur + 1
		}
		if t.v.CAS(cur, n) {
			return byte(n)
		}
	}
}
