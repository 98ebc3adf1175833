// Package version carries build metadata injected at link time via
// -ldflags "-X github.com/herolab/roster/internal/version.Version=...".
package version

import "fmt"

var (
	// Version is the roster release version.
	Version = "dev"
	// GitSHA is the git commit the binary was built from.
	GitSHA = "unknown"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// String renders the full build identification line.
func String() string {
	return fmt.Sprintf("roster %s (%s, built %s)", Version, GitSHA, BuildTime)
}
