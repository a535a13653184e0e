package controller

import (
	"fmt"

	"github.com/neuroplastio/joyconcore/report"
)

func errWrongSessionCount(variant string, want, got int) error {
	return fmt.Errorf("controller: %s requires %d session(s), got %d", variant, want, got)
}

func errUnknownCategory(c report.Category) error {
	return fmt.Errorf("controller: unknown category %d", c)
}
