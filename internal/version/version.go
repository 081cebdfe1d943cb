// Package version holds the build information stamped in with -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Set at build time with -ldflags "-X evalgo.org/flightasset/internal/version.Version=...".
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get collects the build information together with the Go runtime and
// platform the binary is running on.
func Get() Info {
	return Info{
		Version:   Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String is the one line shown by "version".
func (i Info) String() string {
	return fmt.Sprintf("Flight Asset %s (%s) built at %s on %s",
		i.Version,
		i.GitCommit,
		i.BuildTime,
		i.Platform,
	)
}

// UserAgent is sent with every API request.
func UserAgent() string {
	return "flight-asset/" + Version
}
