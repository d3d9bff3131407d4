// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Relay Connection - these keys locate the relay and identify this participant.
const (
	RelayURL            = "relay.url"
	RelayUsername       = "relay.username"
	RelayReconnectDelay = "relay.reconnect_delay"
	RelayListen         = "relay.listen"
)

// Synchronization - these keys tune the suppression window and the seek-detection poller.
const (
	SyncGrace         = "sync.grace"
	SyncSettleMax     = "sync.settle_max"
	SyncPollInterval  = "sync.poll_interval"
	SyncSeekThreshold = "sync.seek_threshold"
)

// Media Playback - these keys select and configure the local player backend.
const (
	Player           = "player.default"
	PlayerYtdlFormat = "player.ytdl_format"
)

// Room History - these keys configure the persistence of joined rooms.
const (
	HistorySaveOnJoin = "history.save_on_join"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
