package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// ipcCommand carries either positional arguments ([]any) or named ones (map[string]any).
type ipcCommand struct {
	Command any `json:"command"`
}

type ipcResponse struct {
	Data  any    `json:"data"`
	Error string `json:"error"`
}

const (
	maxRetries   = 3
	retryDelay   = 100 * time.Millisecond
	readDeadline = time.Second
)

// command sends one JSON-IPC command to mpv, retrying transient socket failures.
func (m *MPV) command(args ...any) (any, error) {
	return m.send(args[0], args)
}

// namedCommand sends a command in mpv's named-argument form. The name field selects it.
func (m *MPV) namedCommand(fields map[string]any) (any, error) {
	return m.send(fields["name"], fields)
}

func (m *MPV) send(name, command any) (any, error) {
	if !m.Ready() {
		return nil, ErrNotReady
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		result, err := roundTrip(m.socketPath, command)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("ipc %v failed after %d attempts: %w", name, maxRetries, lastErr)
}

// roundTrip performs a single request on a fresh connection.
func roundTrip(socketPath string, command any) (any, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	payload, err := encodeCommand(command)
	if err != nil {
		return nil, err
	}

	if _, err = conn.Write(payload); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	// mpv may interleave unsolicited events on any connection, so skip until a reply shows up.
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(scanner.Bytes(), &probe); err != nil {
			continue
		}
		if _, isEvent := probe["event"]; isEvent {
			continue
		}

		var resp ipcResponse
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}
		if resp.Error != "" && resp.Error != "success" {
			return nil, fmt.Errorf("mpv error: %s", resp.Error)
		}
		return resp.Data, nil
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return nil, fmt.Errorf("read: connection closed without reply")
}

func encodeCommand(command any) ([]byte, error) {
	payload, err := json.Marshal(ipcCommand{Command: command})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return append(payload, '\n'), nil
}
