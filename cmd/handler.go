package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mpv-handler/mpv-handler/color"
	"github.com/mpv-handler/mpv-handler/config"
	"github.com/mpv-handler/mpv-handler/emby"
	"github.com/mpv-handler/mpv-handler/icon"
	"github.com/mpv-handler/mpv-handler/key"
	"github.com/mpv-handler/mpv-handler/link"
	"github.com/mpv-handler/mpv-handler/log"
	"github.com/mpv-handler/mpv-handler/network"
	"github.com/mpv-handler/mpv-handler/player"
	"github.com/mpv-handler/mpv-handler/session"
	"github.com/mpv-handler/mpv-handler/style"
	"github.com/spf13/viper"
)

func seconds(k string) time.Duration {
	return time.Duration(viper.GetInt(k)) * time.Second
}

// deviceName is announced to the server; the hostname when not configured.
func deviceName() string {
	if name := strings.TrimSpace(viper.GetString(key.EmbyDeviceName)); name != "" {
		return name
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "Unknown"
}

func networkOptions() network.Options {
	return network.Options{
		Proxy:       viper.GetString(key.NetworkProxy),
		UserAgent:   config.UserAgent(),
		Timeout:     seconds(key.NetworkTimeout),
		Fingerprint: viper.GetBool(key.NetworkTLSFingerprint),
	}
}

func playerOptions() (player.Options, error) {
	source, err := player.ParseSourceKind(viper.GetString(key.PlayerPositionSource))
	if err != nil {
		return player.Options{}, err
	}

	return player.Options{
		UserAgent: config.UserAgent(),
		Proxy:     viper.GetString(key.NetworkProxy),
		Volume:    viper.GetInt(key.PlayerVolume),
		MsgLevel:  viper.GetString(key.PlayerMsgLevel),
		IPCPath:   viper.GetString(key.PlayerIPCPath),
		Source:    source,
	}, nil
}

// settingsErr reports a configuration failure as an abort, so the quiet exit covers it too.
func settingsErr(err error) error {
	return &session.AbortError{State: session.Decoding, Err: fmt.Errorf("%w: %w", session.ErrSettings, err)}
}

// runHandler wires one session from configuration and plays handlerURL.
func runHandler(ctx context.Context, handlerURL string) error {
	playerOpts, err := playerOptions()
	if err != nil {
		return settingsErr(err)
	}

	httpClient, err := network.New(networkOptions())
	if err != nil {
		return settingsErr(err)
	}

	device := emby.Device{
		ID:     uuid.NewString(),
		Name:   deviceName(),
		Client: viper.GetString(key.EmbyClient),
	}

	embyOpts := emby.Options{
		BasePath: viper.GetString(key.EmbyBasePath),
		Device:   device,
	}

	connect := func(params link.Params) session.API {
		return emby.New(httpClient, params, embyOpts)
	}

	playerPath := config.PlayerPath()
	fmt.Printf("%s Player / 当前使用的MPV路径为: %s\n", icon.Get(icon.Play), style.Fg(color.Yellow)(playerPath))
	if playerOpts.Proxy != "" {
		fmt.Printf("%s Proxy / 正在使用代理访问: %s\n", icon.Get(icon.Progress), style.Fg(color.Yellow)(playerOpts.Proxy))
	}

	log.WithField("device", device.ID).Info("handling link")

	coordinator := session.New(connect, session.PlayerLauncher(player.NewMPV(playerPath)), session.Options{
		ProgressInterval: seconds(key.SessionProgressInterval),
		LivenessInterval: seconds(key.SessionLivenessInterval),
		Player:           playerOpts,
		Out:              os.Stdout,
	})

	return coordinator.Run(ctx, handlerURL)
}
