//go:build !windows

package player

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"os"
)

// DefaultIPCPath is the control socket passed to --input-ipc-server.
const DefaultIPCPath = "/tmp/mpvsocket"

func dialIPC(ctx context.Context, path string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "unix", path)
}

// removeIPC deletes a socket file left behind by a killed player.
func removeIPC(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
