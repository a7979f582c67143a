// Package version holds build-time version information, injected via
// -ldflags at release time.
package version

import "runtime"

var (
	// GitRelease is the release tag (e.g. v0.3.0).
	GitRelease = "dev"
	// GitCommit is the commit hash the binary was built from.
	GitCommit = "unknown"
	// GitCommitDate is the commit timestamp.
	GitCommitDate = "unknown"
	// GoInfo is the Go toolchain used for the build.
	GoInfo = runtime.Version()
)
