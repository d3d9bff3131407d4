package hub

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/watchroom/watchroom/log"
	"github.com/watchroom/watchroom/protocol"
)

const (
	maxMessageSize = 1 << 16
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	writeWait      = 10 * time.Second
	sendQueue      = 64
)

type client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// The fields below are guarded by hub.mu.
	room     string
	username string
	gone     bool
}

// push queues env for delivery. A client that cannot keep up is disconnected.
// The caller holds hub.mu.
func (c *client) push(env protocol.Envelope) {
	if c.gone {
		return
	}

	data, err := json.Marshal(env)
	if err != nil {
		log.Errorf("marshal %s: %v", env.Event, err)
		return
	}

	select {
	case c.send <- data:
	default:
		log.Warnf("client %s is too slow, dropping it", c.id)
		c.stop()
	}
}

// stop closes the send queue, which makes writePump close the socket.
// The caller holds hub.mu.
func (c *client) stop() {
	if !c.gone {
		c.gone = true
		close(c.send)
	}
}

func (c *client) readPump() {
	defer c.hub.leave(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnf("client %s: %v", c.id, err)
			}
			return
		}

		var env protocol.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Debugf("client %s sent an undecodable frame: %v", c.id, err)
			continue
		}

		c.hub.dispatch(c, env)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
