// Package relay is the client side of the websocket link between a participant and the relay.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/watchroom/watchroom/log"
	"github.com/watchroom/watchroom/network"
	"github.com/watchroom/watchroom/protocol"
)

// ErrClosed is returned by Send after the connection has gone away.
var ErrClosed = errors.New("relay connection closed")

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 16
	inboxSize      = 64
)

// Conn is one websocket connection to the relay.
type Conn struct {
	ws       *websocket.Conn
	writeMu  sync.Mutex
	messages chan protocol.Envelope

	done      chan struct{}
	closeOnce sync.Once
	err       error
}

// Dial connects to the relay at url.
func Dial(ctx context.Context, url string) (*Conn, error) {
	ws, _, err := network.Dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	c := &Conn{
		ws:       ws,
		messages: make(chan protocol.Envelope, inboxSize),
		done:     make(chan struct{}),
	}

	go c.readLoop()
	go c.pingLoop()

	log.Infof("connected to relay %s", url)
	return c, nil
}

// Send writes one envelope. It is safe for concurrent use.
func (c *Conn) Send(env protocol.Envelope) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteJSON(env); err != nil {
		c.closeWith(err)
		return fmt.Errorf("send %s: %w", env.Event, err)
	}

	log.Tracef("relay <- %s", env)
	return nil
}

// Messages delivers decoded envelopes in arrival order. It is closed once the
// connection is gone.
func (c *Conn) Messages() <-chan protocol.Envelope {
	return c.messages
}

// Done is closed when the connection ends, for whatever reason.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Err reports why the connection ended. It is nil while the connection is up.
func (c *Conn) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// Close says goodbye to the relay and tears the connection down.
func (c *Conn) Close() error {
	_ = c.ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
	c.closeWith(ErrClosed)
	return nil
}

func (c *Conn) closeWith(err error) {
	c.closeOnce.Do(func() {
		c.err = err
		close(c.done)
		_ = c.ws.Close()
	})
}

func (c *Conn) readLoop() {
	defer close(c.messages)

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnf("relay read: %v", err)
			}
			c.closeWith(err)
			return
		}

		var env protocol.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Warnf("relay sent an undecodable frame: %v", err)
			continue
		}

		log.Tracef("relay -> %s", env)

		select {
		case c.messages <- env:
		case <-c.done:
			return
		}
	}
}

func (c *Conn) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.closeWith(err)
				return
			}
		}
	}
}
