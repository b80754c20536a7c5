// Package version carries build identification stamped in via
// -ldflags "-X github.com/palmlink/palmlink/internal/version.Version=...".
package version

import "fmt"

var (
	// Version is the release tag, or a dev placeholder for local builds.
	Version = "0.1.0-dev"
	// Commit is the short git hash of the build.
	Commit = "none"
	// BuildDate is the UTC build timestamp.
	BuildDate = "unknown"
)

// Full renders the line shown by the version command.
func Full() string {
	return fmt.Sprintf("palmlink v%s (commit %s, built %s)", Version, Commit, BuildDate)
}
