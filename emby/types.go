package emby

import (
	"encoding/json"

	"github.com/mpv-handler/mpv-handler/ticks"
)

// Identity is resolved once per process from the access token.
type Identity struct {
	UserID        string
	PlaySessionID string
}

type sessionInfo struct {
	ID       string `json:"Id"`
	UserID   string `json:"UserId"`
	UserName string `json:"UserName"`
	DeviceID string `json:"DeviceId"`
	Client   string `json:"Client"`
}

type itemsResponse struct {
	Items []item `json:"Items"`
}

type item struct {
	ID                string    `json:"Id"`
	Name              string    `json:"Name"`
	Type              string    `json:"Type"`
	SeriesName        string    `json:"SeriesName"`
	ParentIndexNumber *int      `json:"ParentIndexNumber"`
	IndexNumber       *int      `json:"IndexNumber"`
	UserData          *userData `json:"UserData"`
}

type userData struct {
	PlaybackPositionTicks json.RawMessage `json:"PlaybackPositionTicks"`
	Played                bool            `json:"Played"`
}

// positionTicks is the saved position, 0 unless the server sent a non-negative integer.
func (d *userData) positionTicks() ticks.Ticks {
	if d == nil || len(d.PlaybackPositionTicks) == 0 {
		return 0
	}

	var n uint64
	if err := json.Unmarshal(d.PlaybackPositionTicks, &n); err != nil {
		return 0
	}
	return ticks.Ticks(n)
}

// playbackInfo is the body of every /Sessions/Playing* report.
type playbackInfo struct {
	IsMuted             bool     `json:"IsMuted"`
	IsPaused            bool     `json:"IsPaused"`
	RepeatMode          string   `json:"RepeatMode"`
	SubtitleOffset      int      `json:"SubtitleOffset"`
	PlaybackRate        int      `json:"PlaybackRate"`
	MaxStreamingBitrate uint64   `json:"MaxStreamingBitrate"`
	BufferedRanges      []string `json:"BufferedRanges"`
	PlayMethod          string   `json:"PlayMethod"`
	PlaySessionID       string   `json:"PlaySessionId"`
	MediaSourceID       string   `json:"MediaSourceId"`
	CanSeek             bool     `json:"CanSeek"`
	ItemID              string   `json:"ItemId"`
	PositionTicks       uint64   `json:"PositionTicks"`
}
