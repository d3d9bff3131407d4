package player

import (
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/watchroom/watchroom/constant"
	"github.com/watchroom/watchroom/log"
	"github.com/watchroom/watchroom/where"
	"github.com/watchroom/watchroom/youtube"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitTimeout       = 3 * time.Second
	notificationQueue = 32
)

// Options customise how mpv is spawned.
type Options struct {
	// Binary is the executable to run. Defaults to "mpv".
	Binary string

	// YtdlFormat is passed through as --ytdl-format when set.
	YtdlFormat string
}

// MPV implements Adapter on top of an mpv process it owns.
type MPV struct {
	opts       Options
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	ready      atomic.Bool
	mu         sync.Mutex // serialises IPC requests
	closeOnce  sync.Once

	tracker  *tracker
	listener *EventListener
	notes    chan State
}

var _ Adapter = (*MPV)(nil)

func NewMPV(opts Options) *MPV {
	if opts.Binary == "" {
		opts.Binary = "mpv"
	}

	return &MPV{
		opts:    opts,
		exited:  make(chan struct{}),
		tracker: newTracker(),
		notes:   make(chan State, notificationQueue),
	}
}

// Start spawns an idle mpv window and waits until its IPC socket accepts connections.
func (m *MPV) Start() error {
	m.socketPath = filepath.Join(where.Temp(), fmt.Sprintf("mpv-%s.sock", uuid.NewString()[:8]))

	m.cmd = exec.Command(m.opts.Binary, m.args()...)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	go func() {
		_ = m.cmd.Wait()
		m.ready.Store(false)
		close(m.exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.listener = NewEventListener(m.socketPath, m.onEvent)
	if err := m.listener.Start(); err != nil {
		_ = killProcess(m.cmd)
		return err
	}

	go func() {
		<-m.listener.Done()
		close(m.notes)
	}()

	m.ready.Store(true)
	log.Infof("mpv started on %s", m.socketPath)
	return nil
}

func (m *MPV) args() []string {
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--idle=yes",
		"--force-window=yes",
		"--keep-open=yes",
		"--input-ipc-server=" + m.socketPath,
		"--title=" + constant.Watchroom,
	}

	if m.opts.YtdlFormat != "" {
		args = append(args, "--ytdl-format="+m.opts.YtdlFormat)
	}

	return args
}

func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

func (m *MPV) onEvent(name string, data any) {
	state, changed := m.tracker.observe(name, data)
	if !changed {
		return
	}

	select {
	case m.notes <- state:
	default:
		log.Warnf("mpv notification queue full, dropping %s", state)
	}
}

// Load replaces the current file with the video, starting at start seconds.
func (m *MPV) Load(videoID string, start float64) error {
	// start is a per-file option so later reloads of other files begin at zero.
	// Named arguments keep this independent of where mpv puts the playlist index.
	_, err := m.namedCommand(map[string]any{
		"name":    "loadfile",
		"url":     youtube.WatchURL(videoID),
		"flags":   "replace",
		"options": "start=" + strconv.FormatFloat(start, 'f', 3, 64),
	})
	return err
}

func (m *MPV) Play() error {
	_, err := m.command("set_property", "pause", false)
	return err
}

func (m *MPV) Pause() error {
	_, err := m.command("set_property", "pause", true)
	return err
}

func (m *MPV) SeekTo(seconds float64) error {
	_, err := m.command("seek", seconds, "absolute")
	return err
}

// Position returns time-pos. mpv reports the property as unavailable while nothing is loaded.
func (m *MPV) Position() (float64, error) {
	data, err := m.command("get_property", "time-pos")
	if err != nil {
		return 0, err
	}

	pos, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("time-pos: expected float64, got %T", data)
	}
	return pos, nil
}

func (m *MPV) Ready() bool {
	return m.ready.Load()
}

func (m *MPV) Notifications() <-chan State {
	return m.notes
}

// Close asks mpv to quit, kills it if it lingers and removes the socket.
func (m *MPV) Close() error {
	m.closeOnce.Do(func() {
		if m.cmd == nil {
			return
		}

		if m.Ready() {
			_, _ = roundTrip(m.socketPath, []any{"quit"})
		}

		select {
		case <-m.exited:
		case <-time.After(quitTimeout):
			_ = killProcess(m.cmd)
		}

		if m.listener != nil {
			m.listener.Stop()
		}

		_ = os.Remove(m.socketPath)
	})

	return nil
}
