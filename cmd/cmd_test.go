package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/mpv-handler/mpv-handler/config"
	"github.com/mpv-handler/mpv-handler/icon"
	"github.com/mpv-handler/mpv-handler/key"
	"github.com/mpv-handler/mpv-handler/link"
	"github.com/mpv-handler/mpv-handler/player"
	"github.com/mpv-handler/mpv-handler/session"
	"github.com/mpv-handler/mpv-handler/where"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func withExit(t *testing.T) *int {
	code := -1
	original := exit
	exit = func(c int) { code = c }
	t.Cleanup(func() { exit = original })
	return &code
}

func TestHandleErr(t *testing.T) {
	Convey("Given a captured exit", t, func() {
		code := withExit(t)
		abort := &session.AbortError{State: session.Starting, Err: errors.New("executable file not found")}

		Convey("Aborts exit non-zero by default", func() {
			viper.Set(key.CliErrorExit, true)
			handleErr(abort)
			So(*code, ShouldEqual, 1)
		})

		Convey("Quiet mode exits zero on abort", func() {
			viper.Set(key.CliErrorExit, false)
			handleErr(abort)
			So(*code, ShouldEqual, 0)
		})

		Convey("Other errors always exit non-zero", func() {
			viper.Set(key.CliErrorExit, false)
			handleErr(errors.New("bad flag"))
			So(*code, ShouldEqual, 1)
		})

		Convey("nil is ignored", func() {
			handleErr(nil)
			So(*code, ShouldEqual, -1)
		})

		Reset(func() {
			viper.Set(key.CliErrorExit, true)
		})
	})
}

func TestRenderError(t *testing.T) {
	Convey("Plain output carries the bilingual diagnostic", t, func() {
		viper.Set(key.IconsVariant, "plain")
		err := &session.AbortError{State: session.Decoding, Err: link.ErrInvalidScheme}

		out := renderError(err, false)
		So(out, ShouldStartWith, icon.Get(icon.Fail)+" ")
		So(out, ShouldContainSubstring, "不是有效的 mpv://play/ 链接")
		So(out, ShouldContainSubstring, "invalid URL scheme")
	})
}

func TestParseValue(t *testing.T) {
	Convey("Values are parsed by the type of their default", t, func() {
		v, err := parseValue(key.PlayerVolume, "70")
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 70)

		v, err = parseValue(key.NetworkTLSFingerprint, "true")
		So(err, ShouldBeNil)
		So(v, ShouldEqual, true)

		v, err = parseValue(key.PlayerPositionSource, "stdout")
		So(err, ShouldBeNil)
		So(v, ShouldEqual, "stdout")

		_, err = parseValue(key.PlayerVolume, "loud")
		So(err, ShouldNotBeNil)

		_, err = parseValue("player.volum", "1")
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, key.PlayerVolume)
	})
}

func TestEnvNames(t *testing.T) {
	Convey("Every registered key has a prefixed variable", t, func() {
		names := envNames()
		So(names, ShouldContain, "MPV_HANDLER_PLAYER_PATH")
		So(names, ShouldContain, "MPV_HANDLER_CLI_ERROR_EXIT_CODE")
		So(names, ShouldContain, where.EnvConfigPath)
		So(len(names), ShouldEqual, len(config.Default)+1)
	})
}

func TestPlayerOptions(t *testing.T) {
	Convey("Player options follow the configuration", t, func() {
		viper.Set(key.PlayerPositionSource, "stdout")
		viper.Set(key.PlayerVolume, 60)
		viper.Set(key.NetworkProxy, "http://127.0.0.1:7890")

		opts, err := playerOptions()
		So(err, ShouldBeNil)
		So(opts.Source, ShouldEqual, player.SourceStdout)
		So(opts.Volume, ShouldEqual, 60)
		So(opts.Proxy, ShouldEqual, "http://127.0.0.1:7890")

		viper.Set(key.PlayerPositionSource, "pipe")
		_, err = playerOptions()
		So(err, ShouldNotBeNil)

		Reset(func() {
			viper.Set(key.PlayerPositionSource, "ipc")
			viper.Set(key.NetworkProxy, "")
		})
	})
}

func TestRunHandlerSettings(t *testing.T) {
	Convey("Configuration failures abort like any other session", t, func() {
		code := withExit(t)
		viper.Set(key.CliErrorExit, false)

		Convey("An unknown position source", func() {
			viper.Set(key.PlayerPositionSource, "pipe")

			err := runHandler(context.Background(), "mpv://play/x")
			var abortErr *session.AbortError
			So(errors.As(err, &abortErr), ShouldBeTrue)
			So(abortErr.State, ShouldEqual, session.Decoding)
			So(errors.Is(err, session.ErrSettings), ShouldBeTrue)
			So(abortErr.Diagnostic(), ShouldContainSubstring, "配置无效")

			handleErr(err)
			So(*code, ShouldEqual, 0)
		})

		Convey("An unparseable proxy", func() {
			viper.Set(key.NetworkProxy, "http://%zz")

			err := runHandler(context.Background(), "mpv://play/x")
			So(errors.Is(err, session.ErrSettings), ShouldBeTrue)

			handleErr(err)
			So(*code, ShouldEqual, 0)
		})

		Reset(func() {
			viper.Set(key.CliErrorExit, true)
			viper.Set(key.PlayerPositionSource, "ipc")
			viper.Set(key.NetworkProxy, "")
		})
	})
}

func TestEncodeCommand(t *testing.T) {
	Convey("encode prints a link that decodes back", t, func() {
		var out bytes.Buffer
		encodeCmd.SetOut(&out)
		defer encodeCmd.SetOut(os.Stdout)

		media := "https://h/emby/videos/42/stream.mkv?api_key=ABC&MediaSourceId=XYZ"
		encodeCmd.Run(encodeCmd, []string{media})

		request, err := link.Decode(out.String())
		So(err, ShouldBeNil)
		So(request.Media, ShouldEqual, media)
	})
}
