package version

import "runtime"

// Set via -ldflags "-X github.com/meftunca/numbench/pkg/version.GitCommit=..."
var (
	// Version represents the current version of numbench
	Version = "0.1.0"

	// BuildDate will be set during build
	BuildDate = "unknown"

	// GitCommit will be set during build
	GitCommit = ""
)

const (
	// AppName is the application name
	AppName = "numbench"

	// AppDescription is the application description
	AppDescription = "Thousands-grouping formatting micro-benchmark"
)

// GetVersionInfo returns formatted version information
func GetVersionInfo() map[string]string {
	return map[string]string{
		"name":        AppName,
		"version":     Version,
		"description": AppDescription,
		"build_date":  BuildDate,
		"git_commit":  GitCommit,
		"go_version":  runtime.Version(),
	}
}
