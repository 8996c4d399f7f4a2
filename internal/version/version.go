// Package version exposes build metadata injected with -ldflags.
package version

import "fmt"

var (
	// Version is the semantic version of the build.
	Version = "0.1.0"
	// Commit is the short git SHA, or "none".
	Commit = "none"
	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"
)

// Short returns the semantic version only.
func Short() string {
	return Version
}

// Full returns version, commit and build time.
func Full() string {
	return fmt.Sprintf("blinkd %s (commit %s, built %s)", Version, Commit, BuildTime)
}
