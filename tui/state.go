package tui

type state int

const (
	// offlineState hides the room while the relay is unreachable
	offlineState state = iota
	roomState
	addState
	errorState
)
