// Package controller assembles the four Joy-Con/Pro Controller façades (Pro,
// JoyCon-L, JoyCon-R, JoyCon-Dual) over the protocol layer. All four satisfy
// the same Controller interface; they differ only in which session(s) a
// given operation is fanned out to and which rumble slot(s) a Rumble call
// forwards into.
package controller

import (
	"context"

	"github.com/neuroplastio/joyconcore/protocol"
	"github.com/neuroplastio/joyconcore/report"
	"github.com/neuroplastio/joyconcore/session"
)

// Category identifies which of the four controller shapes to build. It is
// an alias of report.Category, re-exported here as the construction-time
// selector; the same type is also the decoded wire field.
type Category = report.Category

const (
	CategoryProGrip    = report.ProGrip
	CategoryJoyConL    = report.JoyConL
	CategoryJoyConR    = report.JoyConR
	CategoryJoyConDual = report.JoyConDual
)

// Controller is the operation set common to all four variants.
// JoyConR and JoyConDual (which routes them to its right half) additionally
// expose MCU/IR/NFC operations through a type assertion to *JoyConR or
// *JoyConDual; Pro and JoyConL do not.
type Controller interface {
	Pair(ctx context.Context, mac [6]byte, alias string) error
	Poll(ctx context.Context, pollType report.PollType) error
	GetData(ctx context.Context) (report.ControllerData, error)
	BackupMemory(ctx context.Context, progress protocol.Progress) ([]byte, error)
	RestoreMemory(ctx context.Context, data []byte, progress protocol.Progress) error
	GetColor(ctx context.Context) (report.ControllerColor, error)
	SetColor(ctx context.Context, color report.ControllerColor) error
	SetPlayer(ctx context.Context, player, flash uint8) error
	SetLowPower(ctx context.Context, enable bool) error
	SetImu(ctx context.Context, enable bool) error
	SetRumble(ctx context.Context, enable bool) error
	Rumble(ctx context.Context, r report.Rumble) error
	Rumblef(ctx context.Context, left, right *report.RumbleFreq) error

	// Category reports which of the four shapes this Controller is.
	Category() report.Category
}

// Open builds the Controller variant for category over sessions. Unlike
// the original source's create(category) switch — which is missing a
// break on every case and so falls through to constructing JoyCon_Dual
// regardless of the requested category — every case below returns
// immediately, so the caller gets exactly the variant it asked for.
//
// JoyConDual takes exactly two sessions (left, then right); every other
// category takes exactly one.
func Open(category report.Category, sessions ...*session.Session) (Controller, error) {
	switch category {
	case report.ProGrip:
		if len(sessions) != 1 {
			return nil, errWrongSessionCount("pro", 1, len(sessions))
		}
		return newPro(sessions[0]), nil
	case report.JoyConL:
		if len(sessions) != 1 {
			return nil, errWrongSessionCount("joycon-l", 1, len(sessions))
		}
		return newJoyConL(sessions[0]), nil
	case report.JoyConR:
		if len(sessions) != 1 {
			return nil, errWrongSessionCount("joycon-r", 1, len(sessions))
		}
		return newJoyConR(sessions[0]), nil
	case report.JoyConDual:
		if len(sessions) != 2 {
			return nil, errWrongSessionCount("joycon-dual", 2, len(sessions))
		}
		return newJoyConDual(sessions[0], sessions[1]), nil
	default:
		return nil, errUnknownCategory(category)
	}
}
