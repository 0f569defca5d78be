// Package player launches mpv for a single playback and reads back its position,
// either over the JSON-IPC channel or from the terminal status line.
package player

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mpv-handler/mpv-handler/ticks"
)

// ErrNoPosition is returned by a source that has not observed a position yet.
var ErrNoPosition = errors.New("no playback position available")

// PositionSource reports the current playback position of a running player.
type PositionSource interface {
	Position(ctx context.Context) (ticks.Ticks, error)
}

// SourceKind selects how the position is read back from the player.
type SourceKind string

const (
	SourceIPC    SourceKind = "ipc"
	SourceStdout SourceKind = "stdout"
)

// ParseSourceKind accepts the values of the player.position_source setting.
func ParseSourceKind(s string) (SourceKind, error) {
	switch kind := SourceKind(strings.ToLower(strings.TrimSpace(s))); kind {
	case SourceIPC, SourceStdout:
		return kind, nil
	case "":
		return SourceIPC, nil
	default:
		return "", fmt.Errorf("unknown position source %q, expected %q or %q", s, SourceIPC, SourceStdout)
	}
}

// StatusFormat makes mpv print the full playback time as its terminal status line.
const StatusFormat = "${playback-time/full}"

// Options describe one launch of the player.
type Options struct {
	Media    string
	Subtitle string
	Title    string
	Start    ticks.Ticks

	UserAgent string
	Proxy     string
	Volume    int
	MsgLevel  string

	// IPCPath is the control endpoint, DefaultIPCPath when empty.
	IPCPath string
	Source  SourceKind
}

func (o Options) ipcPath() string {
	if o.IPCPath != "" {
		return o.IPCPath
	}
	return DefaultIPCPath
}

// msgLevel keeps the status line visible in stdout mode, where a quiet level like all=error would hide it.
func (o Options) msgLevel() string {
	if o.Source != SourceStdout || strings.Contains(o.MsgLevel, "statusline=") {
		return o.MsgLevel
	}
	if o.MsgLevel == "" {
		return "statusline=status"
	}
	return o.MsgLevel + ",statusline=status"
}

// BuildArgs renders the mpv command line for opts. The media URL always comes first.
func BuildArgs(opts Options) []string {
	args := []string{opts.Media}

	if opts.Subtitle != "" {
		args = append(args, "--sub-file="+opts.Subtitle)
	}

	args = append(args,
		"--user-agent="+opts.UserAgent,
		fmt.Sprintf("--volume=%d", opts.Volume),
		"--input-ipc-server="+opts.ipcPath(),
		"--msg-level="+opts.msgLevel(),
		"--force-window=immediate",
		"--force-media-title="+sanitizeTitle(opts.Title),
		fmt.Sprintf("--start=%d", opts.Start.Seconds()),
	)

	if opts.Proxy != "" {
		args = append(args, "--http-proxy="+opts.Proxy)
	}

	if opts.Source == SourceStdout {
		args = append(args, "--term-status-msg="+StatusFormat)
	}

	return args
}

// sanitizeTitle keeps the title on a single line.
func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
