package emby

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/mpv-handler/mpv-handler/log"
	"github.com/mpv-handler/mpv-handler/ticks"
	"github.com/mpv-handler/mpv-handler/util"
	"github.com/samber/mo"
	logrus "github.com/sirupsen/logrus"
)

// Phase is one of the three playback lifecycle reports.
type Phase int

const (
	PhasePlay Phase = iota
	PhaseProgress
	PhaseStop
)

func (p Phase) String() string {
	switch p {
	case PhasePlay:
		return "Play"
	case PhaseProgress:
		return "Progress"
	case PhaseStop:
		return "Stop"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Label is the bilingual form printed to the console.
func (p Phase) Label() string {
	switch p {
	case PhasePlay:
		return "Playback started / 开始播放"
	case PhaseProgress:
		return "Progress reported / 上传进度"
	case PhaseStop:
		return "Playback stopped / 结束播放"
	default:
		return p.String()
	}
}

func (p Phase) path() string {
	switch p {
	case PhaseProgress:
		return "/Sessions/Playing/Progress"
	case PhaseStop:
		return "/Sessions/Playing/Stopped"
	default:
		return "/Sessions/Playing"
	}
}

// Progress is the item and position carried by a status report.
type Progress struct {
	ItemID        string
	MediaSourceID string
	Position      ticks.Ticks
}

const maxStreamingBitrate = 1_000_000_000

// Report announces phase to the server. Reporting is best effort: the
// outcome is logged here and returned as a Result holding the HTTP status,
// which callers are free to drop. It never returns a Go error.
func (c *Client) Report(ctx context.Context, phase Phase, progress Progress) mo.Result[int] {
	entry := log.WithFields(logrus.Fields{
		"phase":    phase.String(),
		"item":     progress.ItemID,
		"position": progress.Position.String(),
	})

	status, err := c.report(ctx, phase, progress)
	if err != nil {
		entry.Warnf("status report failed: %v", err)
		return mo.Err[int](err)
	}

	entry.Infof("status report accepted: %d", status)
	return mo.Ok(status)
}

func (c *Client) report(ctx context.Context, phase Phase, progress Progress) (int, error) {
	id, err := c.ResolveIdentity(ctx)
	if err != nil {
		return 0, err
	}

	body := playbackInfo{
		RepeatMode:          "RepeatNone",
		PlaybackRate:        1,
		MaxStreamingBitrate: maxStreamingBitrate,
		BufferedRanges:      []string{},
		PlayMethod:          "DirectStream",
		PlaySessionID:       id.PlaySessionID,
		MediaSourceID:       progress.MediaSourceID,
		CanSeek:             true,
		ItemID:              progress.ItemID,
		PositionTicks:       uint64(progress.Position),
	}

	target := c.endpoint(phase.path(), url.Values{"reqformat": {"json"}})
	resp, err := c.do(ctx, "report "+phase.String(), http.MethodPost, target, body)
	if err != nil {
		return 0, err
	}
	defer util.Ignore(resp.Body.Close)
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
