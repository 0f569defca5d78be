//go:build windows

package player

import (
	"context"
	"net"

	"github.com/Microsoft/go-winio"
)

// DefaultIPCPath is the named pipe passed to --input-ipc-server.
const DefaultIPCPath = `\\.\pipe\mpvsocket`

func dialIPC(ctx context.Context, path string) (net.Conn, error) {
	return winio.DialPipeContext(ctx, path)
}

// Named pipes vanish with their server.
func removeIPC(string) error {
	return nil
}
