// Package player drives the local video player that mirrors the shared room.
// The only backend is mpv, controlled through its JSON-IPC interface.
package player

import "errors"

// ErrNotReady is returned by commands issued before the backend accepts them.
var ErrNotReady = errors.New("player not ready")

// State is the coarse playback state reported by a backend.
type State int

const (
	Unstarted State = iota
	Ended
	Playing
	Paused
	Buffering
)

func (s State) String() string {
	switch s {
	case Unstarted:
		return "UNSTARTED"
	case Ended:
		return "ENDED"
	case Playing:
		return "PLAYING"
	case Paused:
		return "PAUSED"
	case Buffering:
		return "BUFFERING"
	default:
		return "UNKNOWN"
	}
}

// Adapter is the set of commands and queries the sync controller needs from a player.
type Adapter interface {
	// Load replaces the current video and starts it at the given offset in seconds.
	Load(videoID string, start float64) error

	// Play resumes playback.
	Play() error

	// Pause suspends playback.
	Pause() error

	// SeekTo moves playback to an absolute position in seconds.
	SeekTo(seconds float64) error

	// Position reports the current playback position in seconds.
	Position() (float64, error)

	// Ready reports whether the backend accepts commands.
	Ready() bool

	// Notifications delivers state transitions as the backend reports them.
	Notifications() <-chan State

	// Close stops the backend and releases its resources.
	Close() error
}
