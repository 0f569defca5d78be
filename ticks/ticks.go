// Package ticks converts between player time representations and the media server's 100ns position units.
package ticks

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

// PerSecond is the number of ticks in one second.
const PerSecond = 10_000_000

// Ticks is a playback position in hundred-nanosecond units.
type Ticks uint64

// FromSeconds converts a floating-point seconds value, truncating sub-tick fractions.
// Negative and non-finite inputs clamp to zero.
func FromSeconds(seconds float64) Ticks {
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0
	}
	if math.IsInf(seconds, 1) {
		return Ticks(math.MaxUint64)
	}
	return Ticks(seconds * PerSecond)
}

// FromDuration converts a time.Duration.
func FromDuration(d time.Duration) Ticks {
	if d <= 0 {
		return 0
	}
	return Ticks(d / 100)
}

// Seconds returns the whole seconds contained in t, as passed to mpv's --start.
func (t Ticks) Seconds() uint64 {
	return uint64(t) / PerSecond
}

// Duration returns t as a time.Duration.
func (t Ticks) Duration() time.Duration {
	return time.Duration(t) * 100
}

func (t Ticks) String() string {
	return FormatTimestamp(t)
}

var timestampPattern = regexp.MustCompile(`(\d+):([0-5]\d):([0-5]\d)(?:\.(\d{1,3}))?`)

// ParseTimestamp extracts the first HH:MM:SS[.mmm] timestamp in s.
func ParseTimestamp(s string) (Ticks, error) {
	m := timestampPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("no timestamp in %q", s)
	}

	hours, _ := strconv.ParseUint(m[1], 10, 64)
	minutes, _ := strconv.ParseUint(m[2], 10, 64)
	seconds, _ := strconv.ParseUint(m[3], 10, 64)

	var millis uint64
	if frac := m[4]; frac != "" {
		// ".25" means 250ms, not 25ms
		for len(frac) < 3 {
			frac += "0"
		}
		millis, _ = strconv.ParseUint(frac, 10, 64)
	}

	total := ((hours*60+minutes)*60+seconds)*1000 + millis
	return Ticks(total * (PerSecond / 1000)), nil
}

// FormatTimestamp renders t as HH:MM:SS.mmm.
func FormatTimestamp(t Ticks) string {
	millis := uint64(t) / (PerSecond / 1000)
	return fmt.Sprintf("%02d:%02d:%02d.%03d",
		millis/3_600_000,
		millis/60_000%60,
		millis/1000%60,
		millis%1000,
	)
}
