package player

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mpv-handler/mpv-handler/ticks"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuildArgs(t *testing.T) {
	Convey("Given launch options", t, func() {
		opts := Options{
			Media:     "https://h/emby/videos/42/stream.mkv?api_key=ABC",
			Title:     "Show - S1E5 - Pilot",
			Start:     12345 * ticks.PerSecond,
			UserAgent: "UA/1.0",
			Volume:    85,
			MsgLevel:  "all=error",
			IPCPath:   "/run/mpvsocket",
		}

		Convey("The media URL comes first and the fixed flags follow", func() {
			So(BuildArgs(opts), ShouldResemble, []string{
				"https://h/emby/videos/42/stream.mkv?api_key=ABC",
				"--user-agent=UA/1.0",
				"--volume=85",
				"--input-ipc-server=/run/mpvsocket",
				"--msg-level=all=error",
				"--force-window=immediate",
				"--force-media-title=Show - S1E5 - Pilot",
				"--start=12345",
			})
		})

		Convey("A subtitle is passed right after the media", func() {
			opts.Subtitle = "https://h/sub.srt"
			args := BuildArgs(opts)
			So(args[1], ShouldEqual, "--sub-file=https://h/sub.srt")
		})

		Convey("A proxy is passed only when configured", func() {
			So(strings.Join(BuildArgs(opts), " "), ShouldNotContainSubstring, "--http-proxy")
			opts.Proxy = "http://127.0.0.1:8080"
			So(BuildArgs(opts), ShouldContain, "--http-proxy=http://127.0.0.1:8080")
		})

		Convey("Stdout mode asks for the status line", func() {
			opts.Source = SourceStdout
			args := BuildArgs(opts)
			So(args, ShouldContain, "--term-status-msg=${playback-time/full}")
			So(args, ShouldContain, "--msg-level=all=error,statusline=status")
		})

		Convey("An explicit statusline level is left alone", func() {
			opts.Source = SourceStdout
			opts.MsgLevel = "all=warn,statusline=v"
			So(BuildArgs(opts), ShouldContain, "--msg-level=all=warn,statusline=v")

			opts.MsgLevel = ""
			So(BuildArgs(opts), ShouldContain, "--msg-level=statusline=status")
		})

		Convey("The start position is truncated to whole seconds", func() {
			opts.Start = 67*ticks.PerSecond + 9_999_999
			So(BuildArgs(opts), ShouldContain, "--start=67")
		})

		Convey("The platform endpoint is used by default", func() {
			opts.IPCPath = ""
			So(BuildArgs(opts), ShouldContain, "--input-ipc-server="+DefaultIPCPath)
		})

		Convey("Titles are kept on one line", func() {
			opts.Title = "a\nb\tc"
			So(BuildArgs(opts), ShouldContain, "--force-media-title=a b c")
		})
	})
}

func TestParseSourceKind(t *testing.T) {
	Convey("Position source names", t, func() {
		kind, err := ParseSourceKind("STDOUT")
		So(err, ShouldBeNil)
		So(kind, ShouldEqual, SourceStdout)

		kind, err = ParseSourceKind("")
		So(err, ShouldBeNil)
		So(kind, ShouldEqual, SourceIPC)

		_, err = ParseSourceKind("socket")
		So(err, ShouldNotBeNil)
	})
}

func TestStdoutSource(t *testing.T) {
	Convey("Given a stdout source", t, func() {
		source := NewStdoutSource()

		Convey("Nothing is known before output arrives", func() {
			_, err := source.Position(context.Background())
			So(errors.Is(err, ErrNoPosition), ShouldBeTrue)
		})

		Convey("The last printed timestamp wins", func() {
			source.Consume(strings.NewReader("00:01:05.250\n00:01:07.000\n"))
			<-source.Drained()

			position, err := source.Position(context.Background())
			So(err, ShouldBeNil)
			So(position, ShouldEqual, ticks.Ticks(67*ticks.PerSecond))
		})

		Convey("Carriage return redraws count as lines", func() {
			source.Consume(strings.NewReader("AV: 00:00:01.000\r(Paused) 00:00:02.500\r\n[ffmpeg] noise\n"))

			position, err := source.Position(context.Background())
			So(err, ShouldBeNil)
			So(position, ShouldEqual, ticks.Ticks(25_000_000))
		})

		Convey("An oversized line is skipped and later timestamps still count", func() {
			noise := strings.Repeat("x", 3*maxStatusLine)
			source.Consume(strings.NewReader("00:00:01.000\n" + noise + "\n00:00:09.000\n"))

			position, err := source.Position(context.Background())
			So(err, ShouldBeNil)
			So(position, ShouldEqual, ticks.Ticks(9*ticks.PerSecond))
		})

		Convey("A final line without terminator is read", func() {
			source.Consume(strings.NewReader("00:00:03.000\r00:00:04.000"))

			position, _ := source.Position(context.Background())
			So(position, ShouldEqual, ticks.Ticks(4*ticks.PerSecond))
		})
	})
}

func TestScanStatusLines(t *testing.T) {
	Convey("scanStatusLines", t, func() {
		advance, token, err := scanStatusLines([]byte("ab\rcd"), false)
		So(err, ShouldBeNil)
		So(advance, ShouldEqual, 3)
		So(string(token), ShouldEqual, "ab")

		advance, token, _ = scanStatusLines([]byte("cd"), false)
		So(advance, ShouldEqual, 0)
		So(token, ShouldBeNil)

		advance, token, _ = scanStatusLines([]byte("cd"), true)
		So(advance, ShouldEqual, 2)
		So(string(token), ShouldEqual, "cd")
	})
}
