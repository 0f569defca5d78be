// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Media Player - these keys describe how the external player is located and launched.
const (
	PlayerPath           = "player.path"
	PlayerVolume         = "player.volume"
	PlayerPositionSource = "player.position_source"
	PlayerIPCPath        = "player.ipc_path"
	PlayerMsgLevel       = "player.msg_level"
)

// Network - these keys configure the single HTTP client shared by every server call.
const (
	NetworkProxy          = "network.proxy"
	NetworkUserAgent      = "network.user_agent"
	NetworkTimeout        = "network.timeout"
	NetworkTLSFingerprint = "network.tls_fingerprint"
)

// Media Server - these keys shape the identity presented to the Emby-compatible server.
const (
	EmbyBasePath   = "emby.base_path"
	EmbyClient     = "emby.client"
	EmbyDeviceName = "emby.device_name"
)

// Session Timing - intervals in seconds for the playback supervision loop.
const (
	SessionProgressInterval = "session.progress_interval"
	SessionLivenessInterval = "session.liveness_interval"
)

// Iconography
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
	CliErrorExit    = "cli.error_exit_code"
)

// Legacy top-level keys written by older installers.
const (
	LegacyPlayer    = "mpv"
	LegacyProxy     = "proxy"
	LegacyUserAgent = "useragent"
)
