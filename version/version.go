package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the current version of conch, set via build flags
	Version = "dev"

	// Commit is the git commit hash, set via build flags
	Commit = "none"

	// BuildTime is the build timestamp, set via build flags
	BuildTime = "unknown"
)

// FullVersion returns the full version string
func FullVersion() string {
	return fmt.Sprintf("conch %s, build %s, built at %s with %s", Version, Commit, BuildTime, runtime.Version())
}

func AbbreviatedVersion() string {
	return fmt.Sprintf("%s-%s", Version, Commit)
}
