package constant

// Defaults for room sessions; each has a matching configuration key.
const (
	DefaultRelayURL      = "ws://localhost:5000/ws"
	DefaultListenAddr    = ":5000"
	DefaultGrace         = "500ms"
	DefaultSettleMax     = "2s"
	DefaultPollInterval  = "250ms"
	DefaultSeekThreshold = 1.5
	DefaultReconnect     = "2s"
)
