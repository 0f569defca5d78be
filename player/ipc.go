package player

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/mpv-handler/mpv-handler/ticks"
)

// ipcCommand is the JSON structure sent to mpv's IPC socket.
type ipcCommand struct {
	Command []any `json:"command"`
}

// ipcResponse is one line received from mpv's IPC socket.
// Asynchronous events share the channel and carry Event instead of Error.
type ipcResponse struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
	Event string          `json:"event"`
}

const (
	dialTimeout  = 1 * time.Second
	readDeadline = 1 * time.Second
	maxLines     = 32
)

// IPCSource queries time-pos over mpv's JSON-IPC endpoint.
// Every query opens and closes its own connection.
type IPCSource struct {
	Path string

	dial func(ctx context.Context, path string) (net.Conn, error)
}

// NewIPCSource returns a source for the endpoint at path.
func NewIPCSource(path string) *IPCSource {
	if path == "" {
		path = DefaultIPCPath
	}
	return &IPCSource{Path: path, dial: dialIPC}
}

// Position returns time-pos converted to ticks.
func (s *IPCSource) Position(ctx context.Context) (ticks.Ticks, error) {
	data, err := s.command(ctx, "get_property", "time-pos")
	if err != nil {
		return 0, err
	}

	var seconds float64
	if err := json.Unmarshal(data, &seconds); err != nil {
		return 0, fmt.Errorf("time-pos: expected number, got %s", string(data))
	}

	return ticks.FromSeconds(seconds), nil
}

// Quit asks the player to exit.
func (s *IPCSource) Quit(ctx context.Context) error {
	_, err := s.command(ctx, "quit")
	return err
}

func (s *IPCSource) command(ctx context.Context, command ...any) (json.RawMessage, error) {
	dial := s.dial
	if dial == nil {
		dial = dialIPC
	}

	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	conn, err := dial(ctx, s.Path)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", s.Path, err)
	}
	defer conn.Close()

	payload, err := json.Marshal(ipcCommand{Command: command})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	// mpv requires newline-delimited JSON
	if _, err = conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	reader := bufio.NewReader(conn)
	for range maxLines {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}

		var resp ipcResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}

		if resp.Event != "" {
			continue
		}

		if resp.Error != "" && resp.Error != "success" {
			return nil, fmt.Errorf("mpv error: %s", resp.Error)
		}

		return resp.Data, nil
	}

	return nil, fmt.Errorf("read: no reply within %d lines", maxLines)
}
