package version

import (
	"fmt"
	"runtime"
)

// Set by ldflags during release builds.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns the bare version number.
func Short() string {
	return Version
}

// String returns the full version line for the version command.
func String() string {
	commit := Commit
	if len(commit) > 8 {
		commit = commit[:8]
	}
	return fmt.Sprintf("kickabout %s (%s) built %s with %s for %s/%s",
		Version, commit, Date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
