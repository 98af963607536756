// Package version reports build metadata stamped at link time
package version

// BuildInfo holds version information about the build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Set via -ldflags "-X 'aardsync/internal/core/version.version=v0.1.0'
// -X 'aardsync/internal/core/version.commit=abcd' -X 'aardsync/internal/core/version.date=2026-10-19'"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build information for service
func Info(service string) BuildInfo {
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// UserAgent is the User-Agent sent to the forge, e.g. "aardsync/dev"
func UserAgent() string { return "aardsync/" + version }
