// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Watchroom is the canonical application identifier used for filesystem paths and CLI branding.
	Watchroom = "watchroom"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// Repository is the GitHub owner/name pair used for release lookups.
	Repository = "watchroom/watchroom"
)

// Build metadata, overridden through -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
