// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// App is the canonical application identifier used for filesystem paths and CLI branding.
	App = "mpv-handler"

	// Version is the current application semantic version string.
	Version = "0.4.0"

	// UserAgent mimics the Android Emby client; some servers reject unknown agents on stream URLs.
	UserAgent = "Emby/3.2.32-17.32 (Linux;Android 13) ExoPlayerLib/2.13.2"

	// Repository is the GitHub owner/name pair used for release discovery.
	Repository = "mpv-handler/mpv-handler"
)

// Build metadata, overridden at link time with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
