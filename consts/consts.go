// Package consts defines cross-module constants used throughout the application.
package consts

import (
	"sync"
	"time"
)

// ServiceName is the application service name
const ServiceName = "reportgen"

// Report type constants
const (
	// ReportTypeComprehensive is the only report type the assembler produces.
	// Output filenames are derived from it.
	ReportTypeComprehensive = "comprehensive"

	// ReportNameComprehensive is the human-readable report name
	ReportNameComprehensive = "Comprehensive Business Health Report"
)

// Output filename suffixes
const (
	HTMLFileSuffix = ".html"
	MetaFileSuffix = ".meta.json"
)

// Project information constants
const (
	// ProjectName is the display name of the project
	ProjectName = "ReportGen"

	// ProjectURL is the repository URL
	ProjectURL = "https://github.com/bizhealth/reportgen"
)

// Build information - set via ldflags during build or programmatically
var (
	// Version is the application version
	Version = "dev"

	// BuildTime is the build timestamp
	BuildTime = "unknown"

	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// Server runtime information
var (
	startedAt   time.Time
	startedOnce sync.Once
)

// SetStartedAt records the server start time (can only be called once)
func SetStartedAt(t time.Time) {
	startedOnce.Do(func() {
		startedAt = t
	})
}

// GetStartedAt returns the recorded server start time
func GetStartedAt() time.Time {
	return startedAt
}

// GetUptime returns the duration since server started
func GetUptime() time.Duration {
	if startedAt.IsZero() {
		return 0
	}
	return time.Since(startedAt)
}
