// Package hub is a reference relay: it keeps every room's queue and playback state in
// memory and fans participant messages out to the rest of the room.
package hub

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
	"github.com/watchroom/watchroom/log"
	"github.com/watchroom/watchroom/protocol"
)

const shutdownTimeout = 5 * time.Second

// Hub tracks rooms and the clients connected to them.
type Hub struct {
	mu       sync.Mutex
	rooms    map[string]*room
	upgrader websocket.Upgrader
	now      func() time.Time
}

func New() *Hub {
	return &Hub{
		rooms: make(map[string]*room),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		now: time.Now,
	}
}

// ServeHTTP upgrades the request and serves the client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("upgrade %s: %v", r.RemoteAddr, err)
		return
	}

	c := &client{
		id:   uuid.NewString(),
		hub:  h,
		conn: ws,
		send: make(chan []byte, sendQueue),
	}

	log.Infof("client %s connected from %s", c.id, r.RemoteAddr)

	go c.writePump()
	c.readPump()
}

// Handler routes /ws to the hub and /rooms to a JSON overview of its rooms.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	mux.HandleFunc("/rooms", h.serveRooms)
	return mux
}

// ListenAndServe serves the hub on addr until ctx is cancelled.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{Addr: addr, Handler: h.Handler()}

	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()

	log.Infof("relay listening on %s", addr)

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Snapshot returns the sync_state a client joining name would receive.
func (h *Hub) Snapshot(name string) (protocol.SyncState, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms[name]
	if !ok {
		return protocol.SyncState{}, false
	}
	return r.snapshot(h.now()), true
}

// Rooms lists the names of known rooms.
func (h *Hub) Rooms() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	names := lo.Keys(h.rooms)
	sort.Strings(names)
	return names
}

func (h *Hub) dispatch(c *client, env protocol.Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	switch env.Event {
	case protocol.EventJoin:
		err = h.join(c, env)
	case protocol.EventAddToQueue:
		err = h.addToQueue(env)
	case protocol.EventPlaySpecificVideo:
		err = h.playSpecific(env)
	case protocol.EventPlayerEvent:
		err = h.playerEvent(c, env)
	default:
		log.Debugf("client %s: unknown event %q", c.id, env.Event)
	}

	if err != nil {
		log.Debugf("client %s: %s: %v", c.id, env.Event, err)
	}
}

// leave disconnects c and updates the room's participants when c was its user's last connection.
func (h *Hub) leave(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.stop()

	r, ok := h.rooms[c.room]
	if !ok {
		log.Infof("client %s disconnected without joining", c.id)
		return
	}

	if r.removeMember(c) {
		r.broadcast(protocol.MustEnvelope(protocol.EventUserListUpdate, protocol.UserListUpdate{Users: r.users}), nil)
	}

	log.Infof("%s (%s) left room %s", c.username, c.id, r.name)
}
