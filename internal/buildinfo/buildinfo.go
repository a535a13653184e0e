// Package buildinfo carries the version string cobra's root command prints
// for `joyconctl version`, set at link time rather than embedded in VCS
// metadata the core cares about.
package buildinfo

// Version is overridden at build time via:
//
//	go build -ldflags "-X github.com/neuroplastio/joyconcore/internal/buildinfo.Version=v1.2.3"
var Version = "dev"
