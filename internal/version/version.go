package version

import (
	"fmt"
	"runtime"
)

// These variables are set by ldflags during build.
var (
	version   = "dev"     // App version (e.g., v1.0.0)
	buildDate = "unknown" // Build date (RFC3339)
	gitCommit = "unknown" // Git commit SHA
)

// BuildInfo contains version and build details.
type BuildInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"buildDate"`
	GitCommit string `json:"gitCommit"`
	GoVersion string `json:"goVersion"`
}

// Get returns the build information.
func Get() BuildInfo {
	return BuildInfo{
		Version:   version,
		BuildDate: buildDate,
		GitCommit: gitCommit,
		GoVersion: runtime.Version(),
	}
}

// String renders the build information on one line, as printed by --version
func (b BuildInfo) String() string {
	return fmt.Sprintf("tagsched version %s (commit: %s, built: %s, %s)",
		b.Version, shortCommit(b.GitCommit), b.BuildDate, b.GoVersion)
}

func shortCommit(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
