package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/watchroom/watchroom/log"
)

// EventCallback receives property changes (by property name) and plain mpv events (by event name).
type EventCallback func(name string, data any)

// observed lists the properties whose changes decide the coarse playback state.
var observed = []string{
	"idle-active",
	"eof-reached",
	"pause",
	"seeking",
	"paused-for-cache",
}

// EventListener holds a persistent IPC connection that receives mpv notifications.
// mpv delivers property changes only to the connection that registered the observer,
// so registration and reading share one socket.
type EventListener struct {
	socketPath string
	callback   EventCallback

	mu        sync.Mutex
	conn      net.Conn
	listening bool
	done      chan struct{}
}

func NewEventListener(socketPath string, callback EventCallback) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		callback:   callback,
		done:       make(chan struct{}),
	}
}

// Start registers the observers and begins reading in the background.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observed {
		payload, err := encodeCommand([]any{"observe_property", i + 1, name})
		if err != nil {
			conn.Close()
			return err
		}
		if _, err := conn.Write(payload); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.listening = true
	go el.readLoop(conn)

	log.Debugf("mpv event listener started on %s", el.socketPath)
	return nil
}

// Stop closes the connection, which ends the read loop.
func (el *EventListener) Stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}
	el.listening = false
	_ = el.conn.Close()
}

// Done is closed once the read loop has returned.
func (el *EventListener) Done() <-chan struct{} {
	return el.done
}

func (el *EventListener) readLoop(conn net.Conn) {
	defer close(el.done)

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		el.dispatch(scanner.Bytes())
	}

	if err := scanner.Err(); err != nil {
		el.mu.Lock()
		stopped := !el.listening
		el.mu.Unlock()
		if !stopped {
			log.Warnf("mpv event listener: %v", err)
		}
	}
}

type ipcEvent struct {
	Event string `json:"event"`
	Name  string `json:"name"`
	Data  any    `json:"data"`
}

// dispatch decodes a single line. Replies to the observe requests carry no event and are dropped.
func (el *EventListener) dispatch(line []byte) {
	var event ipcEvent
	if err := json.Unmarshal(line, &event); err != nil || event.Event == "" || el.callback == nil {
		return
	}

	if event.Event == "property-change" {
		if event.Name != "" {
			el.callback(event.Name, event.Data)
		}
		return
	}

	el.callback(event.Event, nil)
}
