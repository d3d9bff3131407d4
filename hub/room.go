package hub

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/watchroom/watchroom/log"
	"github.com/watchroom/watchroom/protocol"
)

const untitled = "Untitled"

var (
	errNoRoom    = errors.New("no such room")
	errNoVideoID = errors.New("missing video id")
	errBadIndex  = errors.New("index out of range")
)

type room struct {
	name    string
	users   []string
	members map[*client]struct{}

	queue     []protocol.QueueEntry
	index     int
	state     protocol.PlayState
	time      float64
	updatedAt time.Time
}

func newRoom(name string) *room {
	return &room{
		name:    name,
		users:   []string{},
		members: make(map[*client]struct{}),
		queue:   []protocol.QueueEntry{},
		index:   protocol.NoSelection,
		state:   protocol.Paused,
	}
}

// position extrapolates the stored time while the room is playing.
func (r *room) position(now time.Time) float64 {
	if r.state != protocol.Playing || r.updatedAt.IsZero() {
		return r.time
	}
	return r.time + now.Sub(r.updatedAt).Seconds()
}

func (r *room) setTime(t float64, now time.Time) {
	r.time = t
	r.updatedAt = now
}

func (r *room) snapshot(now time.Time) protocol.SyncState {
	return protocol.SyncState{
		Queue:             append([]protocol.QueueEntry{}, r.queue...),
		CurrentVideoIndex: r.index,
		State:             r.state,
		Time:              r.position(now),
		Users:             append([]string{}, r.users...),
	}
}

func (r *room) broadcast(env protocol.Envelope, except *client) {
	for member := range r.members {
		if member != except {
			member.push(env)
		}
	}
}

// removeMember drops c and reports whether its username left the room with it.
func (r *room) removeMember(c *client) bool {
	delete(r.members, c)

	for member := range r.members {
		if member.username == c.username {
			return false
		}
	}

	before := len(r.users)
	r.users = lo.Without(r.users, c.username)
	return len(r.users) != before
}

// playAt switches the room to the entry at index and tells everyone to load it.
func (r *room) playAt(index int, now time.Time) error {
	if index < 0 || index >= len(r.queue) {
		return fmt.Errorf("%w: %d", errBadIndex, index)
	}

	r.index = index
	r.state = protocol.Playing
	r.setTime(0, now)

	entry := r.queue[index]
	log.Infof("room %s now playing #%d %s", r.name, index, entry.VideoID)

	r.broadcast(protocol.MustEnvelope(protocol.EventStateChange, protocol.StateChange{
		Event:             protocol.ActionLoadVideo,
		VideoID:           entry.VideoID,
		CurrentVideoIndex: protocol.Index(index),
		Time:              protocol.Seconds(0),
		State:             protocol.Playing,
	}), nil)
	return nil
}

// roomFor returns the named room, creating it on first use.
func (h *Hub) roomFor(name string) *room {
	r, ok := h.rooms[name]
	if !ok {
		r = newRoom(name)
		h.rooms[name] = r
		log.Infof("room %s created", name)
	}
	return r
}

func (h *Hub) existing(name string) (*room, error) {
	r, ok := h.rooms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errNoRoom, name)
	}
	return r, nil
}

func (h *Hub) join(c *client, env protocol.Envelope) error {
	var msg protocol.Join
	if err := env.Decode(&msg); err != nil {
		return err
	}
	if msg.Room == "" {
		return fmt.Errorf("%w: empty name", errNoRoom)
	}

	if previous, ok := h.rooms[c.room]; ok && c.room != msg.Room {
		if previous.removeMember(c) {
			previous.broadcast(protocol.MustEnvelope(protocol.EventUserListUpdate, protocol.UserListUpdate{Users: previous.users}), nil)
		}
	}

	username := msg.Username
	if username == "" {
		username = "guest-" + c.id[:4]
	}

	r := h.roomFor(msg.Room)
	c.room = r.name
	c.username = username
	r.members[c] = struct{}{}
	if !lo.Contains(r.users, username) {
		r.users = append(r.users, username)
	}

	log.Infof("%s (%s) joined room %s", username, c.id, r.name)

	r.broadcast(protocol.MustEnvelope(protocol.EventUserListUpdate, protocol.UserListUpdate{Users: r.users}), nil)
	c.push(protocol.MustEnvelope(protocol.EventSyncState, r.snapshot(h.now())))
	return nil
}

func (h *Hub) addToQueue(env protocol.Envelope) error {
	msg := protocol.AddToQueue{VideoTitle: untitled}
	if err := env.Decode(&msg); err != nil {
		return err
	}

	r, err := h.existing(msg.Room)
	if err != nil {
		return err
	}
	if msg.VideoID == "" {
		return errNoVideoID
	}
	if msg.VideoTitle == "" {
		msg.VideoTitle = untitled
	}

	r.queue = append(r.queue, protocol.QueueEntry{VideoID: msg.VideoID, Title: msg.VideoTitle})
	if r.index == protocol.NoSelection {
		_ = r.playAt(0, h.now())
	}

	r.broadcast(protocol.MustEnvelope(protocol.EventQueueUpdate, protocol.QueueUpdate{Queue: r.queue}), nil)
	return nil
}

func (h *Hub) playSpecific(env protocol.Envelope) error {
	msg := protocol.PlaySpecificVideo{Index: protocol.NoSelection}
	if err := env.Decode(&msg); err != nil {
		return err
	}

	r, err := h.existing(msg.Room)
	if err != nil {
		return err
	}
	return r.playAt(msg.Index, h.now())
}

func (h *Hub) playerEvent(c *client, env protocol.Envelope) error {
	var msg protocol.PlayerEvent
	if err := env.Decode(&msg); err != nil {
		return err
	}

	r, err := h.existing(msg.Room)
	if err != nil {
		return err
	}

	now := h.now()
	t := r.position(now)
	if msg.Time != nil {
		t = *msg.Time
	}

	switch msg.Event {
	case protocol.ActionPlay:
		r.state = protocol.Playing
	case protocol.ActionPause:
		r.state = protocol.Paused
	case protocol.ActionSeek:
		// a seek keeps the play state
	case protocol.ActionVideoEnded:
		return r.ended(msg.CurrentVideoIndex, now)
	default:
		return fmt.Errorf("unknown player event %q", msg.Event)
	}

	r.setTime(t, now)
	r.broadcast(protocol.MustEnvelope(protocol.EventStateChange, protocol.StateChange{
		Event: msg.Event,
		Time:  protocol.Seconds(t),
		State: r.state,
	}), c)
	return nil
}

// ended advances past the entry at index, or pauses the room after the last one. Every
// participant reports the same end, so reports naming an entry other than the current
// one are late duplicates. Reports without an index refer to the current entry.
func (r *room) ended(index *int, now time.Time) error {
	if r.index == protocol.NoSelection {
		return nil
	}
	if index != nil && *index != r.index {
		log.Debugf("room %s: ignoring video_ended for #%d, now at #%d", r.name, *index, r.index)
		return nil
	}

	if next := r.index + 1; next < len(r.queue) {
		return r.playAt(next, now)
	}

	if r.state == protocol.Paused {
		return nil
	}

	r.setTime(r.position(now), now)
	r.state = protocol.Paused
	r.broadcast(protocol.MustEnvelope(protocol.EventStateChange, protocol.StateChange{Event: protocol.ActionQueueEnded}), nil)
	return nil
}
