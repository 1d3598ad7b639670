package app

import "fmt"

// Build information, set with -ldflags "-X" at release time.
var (
	BuildVersion = "0.0.0-dev"
	BuildCommit  = "unknown"
	BuildDate    = "unknown"
)

// VersionString is the one-line version shown by the CLI.
func VersionString() string {
	return fmt.Sprintf("%s (commit %s, built %s)", BuildVersion, BuildCommit, BuildDate)
}
