package lockstep

import (
	"fmt"
	"time"

	"github.com/watchroom/watchroom/player"
	"github.com/watchroom/watchroom/protocol"
)

type fakeAdapter struct {
	ready    bool
	playing  bool
	position float64
	posErr   error
	videoID  string
	calls    []string
	notes    chan player.State
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{ready: true, notes: make(chan player.State)}
}

func (f *fakeAdapter) Load(videoID string, start float64) error {
	if !f.ready {
		return player.ErrNotReady
	}
	f.videoID = videoID
	f.position = start
	f.calls = append(f.calls, fmt.Sprintf("load %s %.1f", videoID, start))
	return nil
}

func (f *fakeAdapter) Play() error {
	if !f.ready {
		return player.ErrNotReady
	}
	f.playing = true
	f.calls = append(f.calls, "play")
	return nil
}

func (f *fakeAdapter) Pause() error {
	if !f.ready {
		return player.ErrNotReady
	}
	f.playing = false
	f.calls = append(f.calls, "pause")
	return nil
}

func (f *fakeAdapter) SeekTo(seconds float64) error {
	if !f.ready {
		return player.ErrNotReady
	}
	f.position = seconds
	f.calls = append(f.calls, fmt.Sprintf("seek %.1f", seconds))
	return nil
}

func (f *fakeAdapter) Position() (float64, error) {
	if !f.ready {
		return 0, player.ErrNotReady
	}
	return f.position, f.posErr
}

func (f *fakeAdapter) Ready() bool                        { return f.ready }
func (f *fakeAdapter) Notifications() <-chan player.State { return f.notes }
func (f *fakeAdapter) Close() error                       { return nil }

type recordingSender struct {
	sent []protocol.Envelope
	err  error
}

func (r *recordingSender) Send(env protocol.Envelope) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, env)
	return nil
}

// playerEvents decodes every player_event sent so far.
func (r *recordingSender) playerEvents() []protocol.PlayerEvent {
	var events []protocol.PlayerEvent
	for _, env := range r.sent {
		if env.Event != protocol.EventPlayerEvent {
			continue
		}
		var ev protocol.PlayerEvent
		if err := env.Decode(&ev); err != nil {
			panic(err)
		}
		events = append(events, ev)
	}
	return events
}

type recordingRenderer struct {
	queue      []protocol.QueueEntry
	nowPlaying int
	users      []string
	playState  protocol.PlayState
	renders    int
}

func (r *recordingRenderer) RenderQueue(queue []protocol.QueueEntry, nowPlaying int) {
	r.queue = queue
	r.nowPlaying = nowPlaying
	r.renders++
}

func (r *recordingRenderer) RenderUsers(users []string) {
	r.users = users
}

func (r *recordingRenderer) RenderPlayState(state protocol.PlayState) {
	r.playState = state
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type fixture struct {
	adapter    *fakeAdapter
	sender     *recordingSender
	renderer   *recordingRenderer
	clock      *fakeClock
	controller *Controller
}

const testGrace = 500 * time.Millisecond

func newFixture() *fixture {
	f := &fixture{
		adapter:  newFakeAdapter(),
		sender:   &recordingSender{},
		renderer: &recordingRenderer{nowPlaying: protocol.NoSelection},
		clock:    &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	f.controller = New(f.adapter, f.sender, f.renderer, Options{
		Room:          "lounge",
		Grace:         testGrace,
		SeekThreshold: 1.5,
		Now:           f.clock.Now,
	})
	return f
}

// afterGrace moves the clock past the suppression window.
func (f *fixture) afterGrace() {
	f.clock.Advance(testGrace + time.Millisecond)
}

func (f *fixture) apply(event string, payload any) error {
	return f.controller.ApplyRemoteEvent(protocol.MustEnvelope(event, payload))
}

func (f *fixture) reset() {
	f.adapter.calls = nil
	f.sender.sent = nil
}
