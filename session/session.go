// Package session runs one participant's room: it owns the relay connection, the poller and
// the sync controller, and drives all of them from a single event loop.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/watchroom/watchroom/constant"
	"github.com/watchroom/watchroom/lockstep"
	"github.com/watchroom/watchroom/log"
	"github.com/watchroom/watchroom/player"
	"github.com/watchroom/watchroom/protocol"
	"github.com/watchroom/watchroom/relay"
)

// ErrPlayerClosed ends a session whose player went away.
var ErrPlayerClosed = errors.New("player closed")

const intentQueue = 16

// Status is the state of the relay connection.
type Status int

const (
	Connecting Status = iota
	Connected
	Disconnected
)

func (s Status) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// View is everything a session shows. Its methods are called from the session's goroutine.
type View interface {
	lockstep.Renderer

	RenderStatus(status Status)

	// Notify shows a transient message, usually an error caused by user input.
	Notify(message string)
}

// Conn is the relay connection as the session uses it.
type Conn interface {
	Send(env protocol.Envelope) error
	Messages() <-chan protocol.Envelope
	Done() <-chan struct{}
	Err() error
	Close() error
}

// Dialer opens a relay connection.
type Dialer func(ctx context.Context, url string) (Conn, error)

// Options configure a Session. Durations that are not positive fall back to the defaults.
type Options struct {
	RelayURL string
	Room     string
	Username string

	Adapter player.Adapter
	View    View

	Grace          time.Duration
	SettleMax      time.Duration
	PollInterval   time.Duration
	ReconnectDelay time.Duration
	SeekThreshold  float64

	// Dial replaces relay.Dial, for tests.
	Dial Dialer
}

type intent struct {
	name string
	run  func(*lockstep.Controller) error
}

// Session is one participant in one room.
type Session struct {
	opts       Options
	controller *lockstep.Controller
	conn       Conn
	intents    chan intent
}

func New(opts Options) *Session {
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay, _ = time.ParseDuration(constant.DefaultReconnect)
	}
	if opts.Dial == nil {
		opts.Dial = func(ctx context.Context, url string) (Conn, error) {
			return relay.Dial(ctx, url)
		}
	}

	s := &Session{
		opts:    opts,
		intents: make(chan intent, intentQueue),
	}

	s.controller = lockstep.New(opts.Adapter, s, opts.View, lockstep.Options{
		Room:          opts.Room,
		Grace:         opts.Grace,
		SettleMax:     opts.SettleMax,
		SeekThreshold: opts.SeekThreshold,
	})

	return s
}

// Send forwards to the current connection. It is only called from the event loop.
func (s *Session) Send(env protocol.Envelope) error {
	if s.conn == nil {
		return relay.ErrClosed
	}
	return s.conn.Send(env)
}

// AddToQueue asks the room to queue the video behind link. Safe for concurrent use.
func (s *Session) AddToQueue(link string) {
	s.submit(intent{name: "add to queue", run: func(c *lockstep.Controller) error {
		return c.AddToQueue(link)
	}})
}

// PlaySpecific asks the room to switch to the entry at index. Safe for concurrent use.
func (s *Session) PlaySpecific(index int) {
	s.submit(intent{name: "play entry", run: func(c *lockstep.Controller) error {
		return c.PlaySpecific(index)
	}})
}

func (s *Session) submit(in intent) {
	select {
	case s.intents <- in:
	default:
		log.Warnf("room %s: dropping %s, session is busy", s.opts.Room, in.name)
	}
}

// Run connects and keeps the session going until ctx is cancelled or the player closes.
// A lost connection is retried after the reconnect delay; the relay resends the full
// room state on every join.
func (s *Session) Run(ctx context.Context) error {
	poller := lockstep.NewPoller(s.opts.PollInterval)
	defer poller.Stop()

	for {
		s.opts.View.RenderStatus(Connecting)

		conn, err := s.opts.Dial(ctx, s.opts.RelayURL)
		if err == nil {
			err = s.serve(ctx, conn, poller)
			_ = conn.Close()
		}

		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, ErrPlayerClosed) {
			return err
		}

		log.Warnf("room %s: %v, retrying in %s", s.opts.Room, err, s.opts.ReconnectDelay)
		s.opts.View.RenderStatus(Disconnected)

		if err := s.idle(ctx, s.opts.ReconnectDelay); err != nil {
			return err
		}
	}
}

func (s *Session) serve(ctx context.Context, conn Conn, poller *lockstep.Poller) error {
	s.conn = conn
	defer func() { s.conn = nil }()

	if err := s.controller.Join(s.opts.Username); err != nil {
		return fmt.Errorf("join %s: %w", s.opts.Room, err)
	}
	s.opts.View.RenderStatus(Connected)

	notes := s.opts.Adapter.Notifications()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case env, ok := <-conn.Messages():
			if !ok {
				return connErr(conn)
			}
			if err := s.controller.ApplyRemoteEvent(env); err != nil {
				log.Warnf("room %s: %v", s.opts.Room, err)
			}

		case state, ok := <-notes:
			if !ok {
				return ErrPlayerClosed
			}
			if err := s.controller.OnPlayerNotification(state); err != nil {
				log.Warnf("room %s: %v", s.opts.Room, err)
			}

		case <-poller.C:
			if err := s.controller.Poll(); err != nil {
				log.Warnf("room %s: %v", s.opts.Room, err)
			}

		case in := <-s.intents:
			if err := in.run(s.controller); err != nil {
				s.opts.View.Notify(err.Error())
			}
		}
	}
}

// idle waits out the reconnect delay. Player notifications are drained since there is
// nobody to report them to, and user requests are refused.
func (s *Session) idle(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	notes := s.opts.Adapter.Notifications()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			return nil
		case _, ok := <-notes:
			if !ok {
				return ErrPlayerClosed
			}
		case <-s.intents:
			s.opts.View.Notify("not connected to the relay")
		}
	}
}

func connErr(conn Conn) error {
	if err := conn.Err(); err != nil {
		return err
	}
	return relay.ErrClosed
}

// State returns the controller's cached playback state. Only safe once Run has returned.
func (s *Session) State() protocol.PlaybackState {
	return s.controller.State()
}
