// Package version reports the build stamp of a binary
package version

import "runtime"

// BuildInfo is the build stamp served by /meta/version and printed by -version
type BuildInfo struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

// Info returns the stamp for service. version, commit and date are set with
//
//	-ldflags "-X 'otnanalyzer/internal/core/version.version=v0.1.0' -X 'otnanalyzer/internal/core/version.commit=abcd'"
func Info(service string) BuildInfo {
	if service == "" {
		service = "otnanalyzer"
	}
	return BuildInfo{
		Service:   service,
		Version:   version,
		Commit:    commit,
		Date:      date,
		GoVersion: runtime.Version(),
	}
}

// String is the one line form used by CLIs
func (b BuildInfo) String() string {
	return b.Service + " " + b.Version + " (" + b.Commit + ", " + b.Date + ", " + b.GoVersion + ")"
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
