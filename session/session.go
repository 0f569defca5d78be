// Package session drives one playback from a handler URL to the final stop report.
package session

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/mpv-handler/mpv-handler/emby"
	"github.com/mpv-handler/mpv-handler/link"
	"github.com/mpv-handler/mpv-handler/log"
	"github.com/mpv-handler/mpv-handler/player"
	"github.com/mpv-handler/mpv-handler/ticks"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

const (
	DefaultProgressInterval = 10 * time.Second
	DefaultLivenessInterval = 2 * time.Second

	stopTimeout = 10 * time.Second
)

// API is the part of the media server a session talks to. *emby.Client implements it.
type API interface {
	ResolveIdentity(ctx context.Context) (emby.Identity, error)
	ResumePosition(ctx context.Context, itemID string) (ticks.Ticks, error)
	ChapterTitle(ctx context.Context, itemID string) (string, error)
	Report(ctx context.Context, phase emby.Phase, progress emby.Progress) mo.Result[int]
}

// Connector binds an API to the server and token found in a media URL.
type Connector func(params link.Params) API

// Options configure a Coordinator.
type Options struct {
	ProgressInterval time.Duration
	LivenessInterval time.Duration

	// Player carries the launch settings shared by every playback;
	// media, subtitle, title and start position are filled in per session.
	Player player.Options

	// Out receives the console progress lines.
	Out io.Writer

	// OnState, when set, observes every transition.
	OnState func(State)
}

// Coordinator runs the session state machine on the calling goroutine.
type Coordinator struct {
	connect  Connector
	launcher Launcher
	opts     Options
	state    atomic.Int32
}

// positive returns d, or fallback when d is zero or negative.
func positive(d, fallback time.Duration) time.Duration {
	return lo.Ternary(d > 0, d, fallback)
}

// New returns a coordinator in the Decoding state.
func New(connect Connector, launcher Launcher, opts Options) *Coordinator {
	opts.ProgressInterval = positive(opts.ProgressInterval, DefaultProgressInterval)
	opts.LivenessInterval = positive(opts.LivenessInterval, DefaultLivenessInterval)
	if opts.Out == nil {
		opts.Out = io.Discard
	}

	return &Coordinator{
		connect:  connect,
		launcher: launcher,
		opts:     opts,
	}
}

// State is the current step; it may be read from any goroutine.
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

func (c *Coordinator) enter(s State) {
	c.state.Store(int32(s))
	log.Debugf("session: %s", s)
	if c.opts.OnState != nil {
		c.opts.OnState(s)
	}
}

func (c *Coordinator) abort(err error) error {
	abortErr := &AbortError{State: c.State(), Err: err}
	log.Error(abortErr)
	c.enter(Aborted)
	return abortErr
}

// Run plays the media encoded in handlerURL and returns once the player has
// exited and the stop report was attempted. Failures before playback starts
// are returned as *AbortError; telemetry failures are only logged.
func (c *Coordinator) Run(ctx context.Context, handlerURL string) error {
	c.enter(Decoding)

	request, err := link.Decode(handlerURL)
	if err != nil {
		return c.abort(err)
	}

	params, err := link.ExtractParams(request.Media)
	if err != nil {
		return c.abort(err)
	}

	api := c.connect(params)

	c.enter(Resolving)

	if _, err := api.ResolveIdentity(ctx); err != nil {
		return c.abort(err)
	}

	resume, err := api.ResumePosition(ctx, params.ItemID)
	if err != nil {
		return c.abort(err)
	}

	title, err := api.ChapterTitle(ctx, params.ItemID)
	if err != nil {
		log.Warnf("chapter title: %v", err)
		title = ""
	}

	c.enter(Starting)

	opts := c.opts.Player
	opts.Media = request.Media
	opts.Subtitle = request.Subtitle
	opts.Title = title
	opts.Start = resume

	handle, err := c.launcher.Launch(ctx, opts)
	if err != nil {
		return c.abort(err)
	}
	defer func() {
		if err := handle.Close(); err != nil {
			log.Warnf("release player: %v", err)
		}
	}()

	c.enter(Playing)

	progress := emby.Progress{
		ItemID:        params.ItemID,
		MediaSourceID: params.MediaSourceID,
		Position:      resume,
	}

	c.report(ctx, api, emby.PhasePlay, progress)
	last := c.monitor(ctx, api, handle, progress)

	c.enter(Stopping)

	// the stop report goes out even when ctx was cancelled
	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopTimeout)
	defer cancel()

	if position, err := handle.Position(stopCtx); err == nil {
		last = mo.Some(position)
	} else {
		log.Debugf("final position read: %v", err)
	}

	position, ok := last.Get()
	if !ok {
		log.Warnf("no playback position was read, reporting the resume position %s", resume)
		fmt.Fprintln(c.opts.Out, "Playback time was never read, sending the resume position / 未能获取播放时间，上传初始进度")
		position = resume
	}

	progress.Position = position
	c.report(stopCtx, api, emby.PhaseStop, progress)

	c.enter(Done)
	return nil
}

// monitor checks liveness every LivenessInterval and samples the position once
// ProgressInterval has passed since the last successful sample. It returns the
// last sampled position when the player exits or ctx is done.
func (c *Coordinator) monitor(ctx context.Context, api API, handle Handle, progress emby.Progress) mo.Option[ticks.Ticks] {
	last := mo.None[ticks.Ticks]()
	lastSample := time.Now()

	ticker := time.NewTicker(c.opts.LivenessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Warnf("session cancelled: %v", ctx.Err())
			return last
		case <-ticker.C:
		}

		if !handle.IsRunning() {
			return last
		}

		if time.Since(lastSample) < c.opts.ProgressInterval {
			continue
		}

		position, err := handle.Position(ctx)
		if err != nil {
			log.Warnf("position poll: %v", err)
			fmt.Fprintln(c.opts.Out, "Failed to update playback time / 更新播放时间失败")
			continue
		}

		last = mo.Some(position)
		lastSample = time.Now()

		progress.Position = position
		c.report(ctx, api, emby.PhaseProgress, progress)
	}
}

func (c *Coordinator) report(ctx context.Context, api API, phase emby.Phase, progress emby.Progress) {
	status, err := api.Report(ctx, phase, progress).Get()
	if err != nil {
		fmt.Fprintf(c.opts.Out, "%s: failed / 出错\n", phase.Label())
		return
	}
	fmt.Fprintf(c.opts.Out, "%s, status / 服务状态: %d\n", phase.Label(), status)
}
