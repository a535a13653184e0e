package controller

import (
	"context"

	"github.com/neuroplastio/joyconcore/protocol"
	"github.com/neuroplastio/joyconcore/report"
	"github.com/neuroplastio/joyconcore/session"
)

// base wraps a single *protocol.Device and forwards the Controller
// interface's common operations to it unchanged. Pro, JoyConL, and JoyConR
// each embed one; JoyConDual does not (it fans out across two Devices
// itself — see dual.go).
type base struct {
	dev      *protocol.Device
	category report.Category
}

func newBase(category report.Category, s *session.Session) base {
	return base{dev: protocol.NewDevice(s), category: category}
}

func (b *base) Category() report.Category { return b.category }

func (b *base) Pair(ctx context.Context, mac [6]byte, alias string) error {
	return b.dev.Pair(ctx, mac, alias)
}

func (b *base) Poll(ctx context.Context, pollType report.PollType) error {
	return b.dev.Poll(ctx, pollType)
}

func (b *base) GetData(ctx context.Context) (report.ControllerData, error) {
	return b.dev.GetData(ctx)
}

func (b *base) BackupMemory(ctx context.Context, progress protocol.Progress) ([]byte, error) {
	return b.dev.BackupMemory(ctx, progress)
}

func (b *base) RestoreMemory(ctx context.Context, data []byte, progress protocol.Progress) error {
	return b.dev.RestoreMemory(ctx, data, progress)
}

func (b *base) GetColor(ctx context.Context) (report.ControllerColor, error) {
	return b.dev.GetColor(ctx)
}

func (b *base) SetColor(ctx context.Context, color report.ControllerColor) error {
	return b.dev.SetColor(ctx, color)
}

func (b *base) SetPlayer(ctx context.Context, player, flash uint8) error {
	return b.dev.SetPlayer(ctx, player, flash)
}

func (b *base) SetLowPower(ctx context.Context, enable bool) error {
	return b.dev.SetLowPower(ctx, enable)
}

func (b *base) SetImu(ctx context.Context, enable bool) error {
	return b.dev.SetImu(ctx, enable)
}

func (b *base) SetRumble(ctx context.Context, enable bool) error {
	return b.dev.SetRumble(ctx, enable)
}

func (b *base) Rumble(ctx context.Context, r report.Rumble) error {
	return b.dev.Rumble(ctx, r)
}

func (b *base) Rumblef(ctx context.Context, left, right *report.RumbleFreq) error {
	return b.dev.Rumblef(ctx, left, right)
}
