package lockstep

import (
	"errors"
	"fmt"
	"math"

	"github.com/watchroom/watchroom/log"
	"github.com/watchroom/watchroom/player"
	"github.com/watchroom/watchroom/protocol"
)

// Controller mirrors one room onto one local player.
type Controller struct {
	room      string
	adapter   player.Adapter
	sender    Sender
	renderer  Renderer
	threshold float64

	state     protocol.PlaybackState
	suppress  *suppressor
	lastKnown float64
}

func New(adapter player.Adapter, sender Sender, renderer Renderer, opts Options) *Controller {
	opts = opts.withDefaults()

	return &Controller{
		room:      opts.Room,
		adapter:   adapter,
		sender:    sender,
		renderer:  renderer,
		threshold: opts.SeekThreshold,
		state:     protocol.NewPlaybackState(),
		suppress:  newSuppressor(opts.Grace, opts.SettleMax, opts.Now),
	}
}

// State returns a copy of the cached playback state.
func (c *Controller) State() protocol.PlaybackState {
	return c.state.Clone()
}

// Suppressed reports whether player notifications are currently being ignored.
func (c *Controller) Suppressed() bool {
	return c.suppress.active()
}

// Join announces this participant to the room.
func (c *Controller) Join(username string) error {
	return c.send(protocol.EventJoin, protocol.Join{Room: c.room, Username: username})
}

// ApplyRemoteEvent handles one message received from the relay. Only undecodable
// payloads are reported; everything else degrades to a partial render.
func (c *Controller) ApplyRemoteEvent(env protocol.Envelope) error {
	switch env.Event {
	case protocol.EventSyncState:
		msg, err := env.SyncState()
		if err != nil {
			return err
		}
		c.applySyncState(msg)

	case protocol.EventStateChange:
		msg, err := env.StateChange()
		if err != nil {
			return err
		}
		c.applyStateChange(msg)

	case protocol.EventQueueUpdate:
		msg, err := env.QueueUpdate()
		if err != nil {
			return err
		}
		c.state.Queue = msg.Queue
		c.renderQueue()

	case protocol.EventUserListUpdate:
		msg, err := env.UserListUpdate()
		if err != nil {
			return err
		}
		c.renderer.RenderUsers(msg.Users)

	default:
		log.Debugf("room %s: ignoring relay event %q", c.room, env.Event)
	}

	return nil
}

func (c *Controller) applySyncState(msg protocol.SyncState) {
	gen := c.suppress.begin()
	defer c.suppress.extend()

	c.state = protocol.PlaybackState{
		Queue:        msg.Queue,
		CurrentIndex: msg.CurrentVideoIndex,
		PlayState:    normalize(msg.State),
		Position:     msg.Time,
	}
	c.lastKnown = msg.Time

	log.Infof("room %s: sync #%d, %d queued, index %d, %s at %.1fs",
		c.room, gen, len(msg.Queue), msg.CurrentVideoIndex, c.state.PlayState, msg.Time)

	c.renderQueue()
	if msg.Users != nil {
		c.renderer.RenderUsers(msg.Users)
	}
	c.renderer.RenderPlayState(c.state.PlayState)

	entry, ok := c.state.Current()
	if !ok {
		return
	}

	c.command("load", func() error { return c.adapter.Load(entry.VideoID, msg.Time) })
	c.applyPlayState()
}

func (c *Controller) applyStateChange(msg protocol.StateChange) {
	gen := c.suppress.begin()
	defer c.suppress.extend()

	c.state.PlayState = derivePlayState(msg, c.state.PlayState)
	if msg.Time != nil {
		c.state.Position = *msg.Time
		c.lastKnown = *msg.Time
	}

	log.Infof("room %s: state change #%d %s, %s at %.1fs", c.room, gen, msg.Event, c.state.PlayState, c.state.Position)

	switch msg.Event {
	case protocol.ActionLoadVideo:
		c.loadVideo(msg)

	case protocol.ActionPlay:
		c.seekToRemote(msg.Time)
		c.command("play", c.adapter.Play)

	case protocol.ActionPause:
		c.command("pause", c.adapter.Pause)
		c.seekToRemote(msg.Time)

	case protocol.ActionSeek:
		c.seekToRemote(msg.Time)
		c.applyPlayState()

	case protocol.ActionVideoEnded, protocol.ActionQueueEnded:
		// nothing to command, the room is paused

	default:
		log.Debugf("room %s: ignoring state change %q", c.room, msg.Event)
	}

	c.renderer.RenderPlayState(c.state.PlayState)
}

// loadVideo switches to the announced entry. The relay may announce an index before the
// queue_update that makes it valid, so the video id in the message takes precedence.
func (c *Controller) loadVideo(msg protocol.StateChange) {
	if msg.CurrentVideoIndex != nil {
		c.state.CurrentIndex = *msg.CurrentVideoIndex
	}

	id := msg.VideoID
	if id == "" {
		if entry, ok := c.state.Current(); ok {
			id = entry.VideoID
		}
	}

	c.renderQueue()

	if id == "" {
		log.Warnf("room %s: load_video without a resolvable video", c.room)
		return
	}

	start := 0.0
	if msg.Time != nil {
		start = *msg.Time
	}

	c.command("load", func() error { return c.adapter.Load(id, start) })
	if c.state.PlayState == protocol.Playing {
		c.command("play", c.adapter.Play)
	}
}

func (c *Controller) seekToRemote(t *float64) {
	if t == nil {
		return
	}
	c.command("seek", func() error { return c.adapter.SeekTo(*t) })
}

// applyPlayState makes the player match the cached play state.
func (c *Controller) applyPlayState() {
	if c.state.PlayState == protocol.Playing {
		c.command("play", c.adapter.Play)
	} else {
		c.command("pause", c.adapter.Pause)
	}
}

// OnPlayerNotification reports a local player change to the relay unless it falls inside
// the grace window of a remote change. Buffering inside the window stretches it, up to
// the settle limit, so a slow load does not leak its final state.
func (c *Controller) OnPlayerNotification(state player.State) error {
	if c.suppress.active() {
		if state == player.Buffering {
			c.suppress.settle()
		}
		log.Debugf("room %s: suppressed %s (instruction #%d)", c.room, state, c.suppress.generation)
		return nil
	}

	switch state {
	case player.Playing:
		c.state.PlayState = protocol.Playing
		return c.emit(protocol.ActionPlay, protocol.Seconds(c.position()))

	case player.Paused:
		c.state.PlayState = protocol.Paused
		return c.emit(protocol.ActionPause, protocol.Seconds(c.position()))

	case player.Ended:
		return c.emitEnded()

	default:
		return nil
	}
}

// Poll samples the player position and reports a seek when it jumped further than the
// threshold since the previous sample. Ticks inside the grace window or while the player
// is not ready are skipped without touching the baseline.
func (c *Controller) Poll() error {
	if c.suppress.active() || !c.adapter.Ready() {
		return nil
	}

	p, err := c.adapter.Position()
	if err != nil {
		log.Tracef("room %s: poll skipped: %v", c.room, err)
		return nil
	}

	jump := math.Abs(p - c.lastKnown)
	c.lastKnown = p
	c.state.Position = p

	if jump <= c.threshold {
		return nil
	}

	log.Debugf("room %s: detected seek to %.1fs (jump %.1fs)", c.room, p, jump)
	return c.emit(protocol.ActionSeek, protocol.Seconds(p))
}

func (c *Controller) emit(action protocol.Action, t *float64) error {
	if err := c.send(protocol.EventPlayerEvent, protocol.PlayerEvent{Room: c.room, Event: action, Time: t}); err != nil {
		return fmt.Errorf("report %s: %w", action, err)
	}
	return nil
}

// emitEnded names the entry that ended so the relay advances once however many
// participants report it.
func (c *Controller) emitEnded() error {
	msg := protocol.PlayerEvent{Room: c.room, Event: protocol.ActionVideoEnded}
	if c.state.CurrentIndex != protocol.NoSelection {
		msg.CurrentVideoIndex = protocol.Index(c.state.CurrentIndex)
	}
	if err := c.send(protocol.EventPlayerEvent, msg); err != nil {
		return fmt.Errorf("report %s: %w", protocol.ActionVideoEnded, err)
	}
	return nil
}

func (c *Controller) send(event string, payload any) error {
	env, err := protocol.NewEnvelope(event, payload)
	if err != nil {
		return err
	}
	return c.sender.Send(env)
}

// position reads the player, falling back to the last known position.
func (c *Controller) position() float64 {
	p, err := c.adapter.Position()
	if err != nil {
		log.Debugf("room %s: position unavailable, using %.1fs: %v", c.room, c.state.Position, err)
		return c.state.Position
	}
	c.state.Position = p
	return p
}

// command runs one player command. Failures never abort message handling.
func (c *Controller) command(name string, run func() error) {
	err := run()
	switch {
	case err == nil:
	case errors.Is(err, player.ErrNotReady):
		log.Debugf("room %s: player not ready for %s", c.room, name)
	default:
		log.Warnf("room %s: player %s: %v", c.room, name, err)
	}
}

func (c *Controller) renderQueue() {
	c.renderer.RenderQueue(c.state.Queue, c.state.NowPlaying())
}

func normalize(s protocol.PlayState) protocol.PlayState {
	if s == protocol.Playing {
		return protocol.Playing
	}
	return protocol.Paused
}

// derivePlayState picks the play state a state change leaves the room in. The relay omits
// the state on play and pause, and on seek the cached state stays in force.
func derivePlayState(msg protocol.StateChange, cached protocol.PlayState) protocol.PlayState {
	switch msg.Event {
	case protocol.ActionVideoEnded, protocol.ActionQueueEnded:
		return protocol.Paused
	}

	if msg.State == protocol.Playing || msg.State == protocol.Paused {
		return msg.State
	}

	switch msg.Event {
	case protocol.ActionPlay, protocol.ActionLoadVideo:
		return protocol.Playing
	case protocol.ActionPause:
		return protocol.Paused
	default:
		return cached
	}
}
