// Package version holds build information set with -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Build-time variables set via ldflags
var (
	// Version is the release tag or branch name
	Version = "dev"

	// GitCommit is the short git commit SHA
	GitCommit = "unknown"

	// BuildDate is the build timestamp
	BuildDate = "unknown"
)

// String returns "v1.2.0 (abc1234)".
func String() string {
	return fmt.Sprintf("%s (%s)", Version, GitCommit)
}

// Full returns the version with build date, Go version and the compiled-in
// target mode.
func Full(mode string) string {
	return fmt.Sprintf("%s (%s) built %s with %s, target %s", Version, GitCommit, BuildDate, runtime.Version(), mode)
}
