// Package joyconcli is the cobra command tree, config, cache, and
// documentation glue for cmd/joyconctl. None of it is imported by
// session, report, protocol, or controller — it is purely CLI surface,
// kept out of the core driver's scope.
package joyconcli

import (
	"fmt"

	"github.com/iancoleman/strcase"
	"github.com/neuroplastio/joyconcore/report"
	stoewer "github.com/stoewer/go-strcase"
)

// pollTypeNames maps report.PollType values to the kebab-case name the
// --poll-type flag accepts/prints, converted with iancoleman/strcase.
var pollTypeNames = map[report.PollType]string{
	report.PollStandard:  strcase.ToKebab("Standard"),
	report.PollNFCIR:     strcase.ToKebab("NFCIR"),
	report.PollSimpleHID: strcase.ToKebab("SimpleHID"),
	report.PollIRCam:     strcase.ToKebab("IRCam"),
	report.PollNFCIRCam:  strcase.ToKebab("NFCIRCam"),
	report.PollNFCIRMCU:  strcase.ToKebab("NFCIRMCU"),
	report.PollNFCIRData: strcase.ToKebab("NFCIRData"),
}

// ParsePollType resolves a --poll-type flag value (e.g. "nfcir",
// "simple-hid") back to a report.PollType.
func ParsePollType(s string) (report.PollType, error) {
	for pt, name := range pollTypeNames {
		if name == s {
			return pt, nil
		}
	}
	return 0, fmt.Errorf("joyconcli: unknown poll type %q", s)
}

// PollTypeNames lists every accepted --poll-type flag value, for help text.
func PollTypeNames() []string {
	names := make([]string, 0, len(pollTypeNames))
	for _, n := range pollTypeNames {
		names = append(names, n)
	}
	return names
}

// irResolutionNames maps report.IrResolution to the snake_case name
// ParseIrResolution accepts (no joyconctl subcommand takes it), converted with
// github.com/stoewer/go-strcase, kept separate from pollTypeNames' kebab
// convention above.
var irResolutionNames = map[report.IrResolution]string{
	report.IrResolution240p: stoewer.SnakeCase("Res240p"),
	report.IrResolution120p: stoewer.SnakeCase("Res120p"),
	report.IrResolution60p:  stoewer.SnakeCase("Res60p"),
	report.IrResolution30p:  stoewer.SnakeCase("Res30p"),
}

// ParseIrResolution resolves an IR resolution name.
func ParseIrResolution(s string) (report.IrResolution, error) {
	for res, name := range irResolutionNames {
		if name == s {
			return res, nil
		}
	}
	return 0, fmt.Errorf("joyconcli: unknown IR resolution %q", s)
}

func IrResolutionNames() []string {
	names := make([]string, 0, len(irResolutionNames))
	for _, n := range irResolutionNames {
		names = append(names, n)
	}
	return names
}
