// Package version carries build metadata. Release builds set it with
// -ldflags "-X github.com/MrSnakeDoc/wapi/internal/version.Version=v0.1.0".
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "dev"     // ex: v0.1.0
	Commit    = "none"    // ex: abcd123
	BuildDate = "unknown" // ex: 2025-08-11T18:42:00Z
	GoVersion = runtime.Version()
)

// String is the one-line form printed by `wapi version` and at startup.
func String() string {
	return fmt.Sprintf("wapi %s (commit=%s, built=%s, go=%s)", Version, Commit, BuildDate, GoVersion)
}
