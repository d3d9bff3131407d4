// Package lockstep keeps a local player in step with a shared room.
//
// A Controller consumes relay messages and player notifications, keeps a cached copy of
// the room's playback state, and decides which player commands to issue and which local
// changes to report back. Player notifications that arrive while a remote change is being
// applied are treated as echoes of that change and dropped.
//
// A Controller is not safe for concurrent use. Its owner calls every method from one
// goroutine.
package lockstep

import (
	"time"

	"github.com/watchroom/watchroom/constant"
	"github.com/watchroom/watchroom/protocol"
)

// Sender delivers outbound envelopes to the relay.
type Sender interface {
	Send(env protocol.Envelope) error
}

// Renderer displays the parts of the room a participant can see.
type Renderer interface {
	// RenderQueue shows the queue. nowPlaying is a valid index or protocol.NoSelection.
	RenderQueue(queue []protocol.QueueEntry, nowPlaying int)

	RenderUsers(users []string)

	RenderPlayState(state protocol.PlayState)
}

// Options tune a Controller. Zero values fall back to the defaults.
type Options struct {
	Room string

	// Grace is how long player notifications are ignored after a remote change is applied.
	Grace time.Duration

	// SettleMax bounds how long buffering reported inside the window may keep extending
	// it, counted from the remote change. Defaults to four times Grace.
	SettleMax time.Duration

	// SeekThreshold is the position jump in seconds between two polls that counts as a seek.
	SeekThreshold float64

	// Now replaces time.Now, for tests.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Grace <= 0 {
		o.Grace, _ = time.ParseDuration(constant.DefaultGrace)
	}
	if o.SettleMax < o.Grace {
		o.SettleMax = 4 * o.Grace
	}
	if o.SeekThreshold <= 0 {
		o.SeekThreshold = constant.DefaultSeekThreshold
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
