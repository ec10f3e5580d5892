// Package buildinfo provides build information for vfsnap.
//
// Release builds inject Version, Commit and BuildTime through ldflags;
// builds without them fall back to the VCS stamps the Go toolchain
// embeds, so `go build` from a checkout still reports a usable commit.
// Both binaries print String() for their version flags.
package buildinfo
