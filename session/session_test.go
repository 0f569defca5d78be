package session

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mpv-handler/mpv-handler/emby"
	"github.com/mpv-handler/mpv-handler/link"
	"github.com/mpv-handler/mpv-handler/player"
	"github.com/mpv-handler/mpv-handler/ticks"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

const media = "https://h:8096/emby/videos/42/stream.mkv?api_key=ABC&MediaSourceId=XYZ"

func handlerURL(s string) string {
	return "mpv://play/" + base64.RawURLEncoding.EncodeToString([]byte(s))
}

type report struct {
	Phase    emby.Phase
	Position ticks.Ticks
}

type fakeAPI struct {
	mu          sync.Mutex
	params      link.Params
	identityErr error
	resume      ticks.Ticks
	resumeErr   error
	title       string
	titleErr    error
	reportErr   error
	reports     []report
}

func (f *fakeAPI) ResolveIdentity(context.Context) (emby.Identity, error) {
	return emby.Identity{UserID: "u1", PlaySessionID: "ps"}, f.identityErr
}

func (f *fakeAPI) ResumePosition(context.Context, string) (ticks.Ticks, error) {
	return f.resume, f.resumeErr
}

func (f *fakeAPI) ChapterTitle(context.Context, string) (string, error) {
	return f.title, f.titleErr
}

func (f *fakeAPI) Report(_ context.Context, phase emby.Phase, progress emby.Progress) mo.Result[int] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, report{phase, progress.Position})
	if f.reportErr != nil {
		return mo.Err[int](f.reportErr)
	}
	return mo.Ok(204)
}

func (f *fakeAPI) phases() []emby.Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	phases := make([]emby.Phase, len(f.reports))
	for i, r := range f.reports {
		phases[i] = r.Phase
	}
	return phases
}

func (f *fakeAPI) last() report {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reports[len(f.reports)-1]
}

// fakeHandle runs for a fixed wall time and returns positions in order.
type fakeHandle struct {
	mu        sync.Mutex
	until     time.Time
	positions []mo.Result[ticks.Ticks]
	polls     int
	closed    int
}

func (h *fakeHandle) IsRunning() bool {
	return time.Now().Before(h.until)
}

func (h *fakeHandle) Position(context.Context) (ticks.Ticks, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.polls >= len(h.positions) {
		return 0, player.ErrNoPosition
	}
	r := h.positions[h.polls]
	h.polls++
	return r.Get()
}

func (h *fakeHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed++
	return nil
}

func TestCoordinator(t *testing.T) {
	Convey("Given a coordinator with fake collaborators", t, func() {
		api := &fakeAPI{resume: 12345 * ticks.PerSecond, title: "Show - S1E5 - Pilot"}
		handle := &fakeHandle{until: time.Now().Add(120 * time.Millisecond)}

		var (
			launched player.Options
			launches int
			states   []State
			out      bytes.Buffer
		)

		launcher := LauncherFunc(func(_ context.Context, opts player.Options) (Handle, error) {
			launches++
			launched = opts
			return handle, nil
		})

		coordinator := New(func(params link.Params) API {
			api.params = params
			return api
		}, launcher, Options{
			ProgressInterval: 20 * time.Millisecond,
			LivenessInterval: 5 * time.Millisecond,
			Player:           player.Options{Volume: 85, UserAgent: "UA"},
			Out:              &out,
			OnState:          func(s State) { states = append(states, s) },
		})

		Convey("A normal playback walks every state and reports play, progress and stop", func() {
			handle.positions = []mo.Result[ticks.Ticks]{
				mo.Ok[ticks.Ticks](12350 * ticks.PerSecond),
				mo.Ok[ticks.Ticks](12360 * ticks.PerSecond),
			}

			err := coordinator.Run(context.Background(), handlerURL(media))
			So(err, ShouldBeNil)
			So(states, ShouldResemble, []State{Decoding, Resolving, Starting, Playing, Stopping, Done})
			So(coordinator.State(), ShouldEqual, Done)

			So(api.params, ShouldResemble, link.Params{Host: "https://h:8096", ItemID: "42", MediaSourceID: "XYZ", APIKey: "ABC"})
			So(launched.Media, ShouldEqual, media)
			So(launched.Start, ShouldEqual, ticks.Ticks(12345*ticks.PerSecond))
			So(launched.Title, ShouldEqual, "Show - S1E5 - Pilot")
			So(launched.Volume, ShouldEqual, 85)

			phases := api.phases()
			So(phases[0], ShouldEqual, emby.PhasePlay)
			So(phases[len(phases)-1], ShouldEqual, emby.PhaseStop)
			So(phases, ShouldContain, emby.PhaseProgress)
			So(api.reports[0].Position, ShouldEqual, ticks.Ticks(12345*ticks.PerSecond))
			So(api.last().Position, ShouldEqual, ticks.Ticks(12360*ticks.PerSecond))

			So(handle.closed, ShouldEqual, 1)
			So(out.String(), ShouldContainSubstring, "开始播放")
			So(out.String(), ShouldContainSubstring, "结束播放")
		})

		Convey("Failing reports never interrupt playback", func() {
			api.reportErr = errors.New("500")
			handle.positions = []mo.Result[ticks.Ticks]{mo.Ok[ticks.Ticks](7 * ticks.PerSecond)}

			err := coordinator.Run(context.Background(), handlerURL(media))
			So(err, ShouldBeNil)
			So(coordinator.State(), ShouldEqual, Done)
			So(api.phases()[0], ShouldEqual, emby.PhasePlay)
			So(api.last().Phase, ShouldEqual, emby.PhaseStop)
			So(out.String(), ShouldContainSubstring, "出错")
		})

		Convey("Poll failures are retried and do not stop monitoring", func() {
			handle.positions = []mo.Result[ticks.Ticks]{
				mo.Err[ticks.Ticks](errors.New("socket busy")),
				mo.Ok[ticks.Ticks](99 * ticks.PerSecond),
			}

			So(coordinator.Run(context.Background(), handlerURL(media)), ShouldBeNil)
			So(handle.polls, ShouldBeGreaterThanOrEqualTo, 2)
			So(api.last().Position, ShouldEqual, ticks.Ticks(99*ticks.PerSecond))
			So(out.String(), ShouldContainSubstring, "更新播放时间失败")
		})

		Convey("Non-positive intervals fall back to the defaults", func() {
			c := New(nil, launcher, Options{ProgressInterval: -time.Second, LivenessInterval: -2 * time.Second})
			So(c.opts.ProgressInterval, ShouldEqual, DefaultProgressInterval)
			So(c.opts.LivenessInterval, ShouldEqual, DefaultLivenessInterval)

			zero := New(nil, launcher, Options{})
			So(zero.opts.LivenessInterval, ShouldEqual, DefaultLivenessInterval)
		})

		Convey("A negative liveness interval still plays through to the stop report", func() {
			handle.until = time.Now()
			c := New(func(link.Params) API { return api }, launcher, Options{LivenessInterval: -2 * time.Second, Out: &out})

			var err error
			So(func() { err = c.Run(context.Background(), handlerURL(media)) }, ShouldNotPanic)
			So(err, ShouldBeNil)
			So(c.State(), ShouldEqual, Done)
			So(api.last().Phase, ShouldEqual, emby.PhaseStop)
		})

		Convey("Without any successful poll the stop report carries the resume position", func() {
			handle.until = time.Now().Add(10 * time.Millisecond)

			So(coordinator.Run(context.Background(), handlerURL(media)), ShouldBeNil)
			So(api.last(), ShouldResemble, report{emby.PhaseStop, 12345 * ticks.PerSecond})
			So(out.String(), ShouldContainSubstring, "resume position")
		})

		Convey("A title failure is tolerated", func() {
			api.titleErr = errors.New("boom")

			So(coordinator.Run(context.Background(), handlerURL(media)), ShouldBeNil)
			So(launched.Title, ShouldBeEmpty)
		})

		Convey("A malformed handler URL aborts before anything else", func() {
			err := coordinator.Run(context.Background(), "http://example.com")

			var abortErr *AbortError
			So(errors.As(err, &abortErr), ShouldBeTrue)
			So(abortErr.State, ShouldEqual, Decoding)
			So(errors.Is(err, link.ErrInvalidScheme), ShouldBeTrue)
			So(abortErr.Diagnostic(), ShouldContainSubstring, "不是有效的")
			So(states, ShouldResemble, []State{Decoding, Aborted})
			So(launches, ShouldEqual, 0)
		})

		Convey("A media URL without a token aborts", func() {
			err := coordinator.Run(context.Background(), handlerURL("https://h/emby/videos/42/stream.mkv?MediaSourceId=XYZ"))

			var abortErr *AbortError
			So(errors.As(err, &abortErr), ShouldBeTrue)
			So(errors.Is(err, link.ErrMissingField), ShouldBeTrue)
			So(abortErr.Diagnostic(), ShouldContainSubstring, "api_key")
		})

		Convey("An identity failure aborts in Resolving", func() {
			api.identityErr = &emby.APIError{Op: "get sessions", Err: emby.ErrNoSession}
			err := coordinator.Run(context.Background(), handlerURL(media))

			var abortErr *AbortError
			So(errors.As(err, &abortErr), ShouldBeTrue)
			So(abortErr.State, ShouldEqual, Resolving)
			So(coordinator.State(), ShouldEqual, Aborted)
			So(launches, ShouldEqual, 0)
			So(api.reports, ShouldBeEmpty)
		})

		Convey("A resume position failure aborts", func() {
			api.resumeErr = errors.New("timeout")
			err := coordinator.Run(context.Background(), handlerURL(media))

			var abortErr *AbortError
			So(errors.As(err, &abortErr), ShouldBeTrue)
			So(abortErr.State, ShouldEqual, Resolving)
		})

		Convey("A spawn failure aborts in Starting", func() {
			failing := New(func(link.Params) API { return api }, LauncherFunc(func(context.Context, player.Options) (Handle, error) {
				return nil, errors.New("executable file not found")
			}), Options{})

			err := failing.Run(context.Background(), handlerURL(media))

			var abortErr *AbortError
			So(errors.As(err, &abortErr), ShouldBeTrue)
			So(abortErr.State, ShouldEqual, Starting)
			So(abortErr.Diagnostic(), ShouldContainSubstring, "启动播放器失败")
			So(api.reports, ShouldBeEmpty)
		})

		Convey("Cancelling the context still sends the stop report", func() {
			handle.until = time.Now().Add(time.Hour)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
			defer cancel()

			So(coordinator.Run(ctx, handlerURL(media)), ShouldBeNil)
			So(api.last().Phase, ShouldEqual, emby.PhaseStop)
			So(handle.closed, ShouldEqual, 1)
		})
	})
}

func TestState(t *testing.T) {
	Convey("State names", t, func() {
		So(Playing.String(), ShouldEqual, "Playing")
		So(Done.Terminal(), ShouldBeTrue)
		So(Stopping.Terminal(), ShouldBeFalse)
	})
}
