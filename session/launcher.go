package session

import (
	"context"

	"github.com/mpv-handler/mpv-handler/player"
	"github.com/mpv-handler/mpv-handler/ticks"
)

// Handle is a launched player as seen by the coordinator. *player.Process implements it.
type Handle interface {
	IsRunning() bool
	Position(ctx context.Context) (ticks.Ticks, error)
	Close() error
}

// Launcher starts a player.
type Launcher interface {
	Launch(ctx context.Context, opts player.Options) (Handle, error)
}

// LauncherFunc adapts a function to Launcher.
type LauncherFunc func(ctx context.Context, opts player.Options) (Handle, error)

func (f LauncherFunc) Launch(ctx context.Context, opts player.Options) (Handle, error) {
	return f(ctx, opts)
}

// PlayerLauncher launches mpv.
func PlayerLauncher(mpv *player.MPV) Launcher {
	return LauncherFunc(func(ctx context.Context, opts player.Options) (Handle, error) {
		process, err := mpv.Launch(ctx, opts)
		if err != nil {
			return nil, err
		}
		return process, nil
	})
}
