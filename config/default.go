// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"text/template"

	"github.com/mpv-handler/mpv-handler/color"
	"github.com/mpv-handler/mpv-handler/constant"
	"github.com/mpv-handler/mpv-handler/key"
	"github.com/mpv-handler/mpv-handler/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	return EnvName(f.Key)
}

// EnvName maps a configuration key to its MPV_HANDLER_ prefixed environment variable.
func EnvName(k string) string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(k))
	prefix := strings.ToUpper(EnvKeyReplacer.Replace(constant.App) + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

// DefaultPlayer is the bare executable name resolved through PATH when no player path is configured.
func DefaultPlayer() string {
	if runtime.GOOS == constant.Windows {
		return "mpv.exe"
	}
	return "mpv"
}

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.PlayerPath, DefaultPlayer(), "Path to the mpv executable.\nA bare name is resolved through PATH")
	register(key.PlayerVolume, 85, "Initial player volume. From 0 to 100")
	register(key.PlayerPositionSource, "ipc", "How playback position is read from the player.\nAvailable options are: ipc, stdout")
	register(key.PlayerIPCPath, "", "IPC endpoint passed to --input-ipc-server.\nEmpty selects a named pipe on Windows and /tmp/mpvsocket elsewhere")
	register(key.PlayerMsgLevel, "all=error", "Value for the player --msg-level flag. In stdout mode statusline=status is appended unless set here")
	register(key.NetworkProxy, "", "Proxy URL used for server calls and passed to the player.\nEmpty disables the proxy")
	register(key.NetworkUserAgent, constant.UserAgent, "User-Agent sent to the media server and the player")
	register(key.NetworkTimeout, 30, "Timeout in seconds for a single server request")
	register(key.NetworkTLSFingerprint, false, "Present a browser TLS fingerprint to the media server")
	register(key.EmbyBasePath, "/emby", "Path prefix of the media server API")
	register(key.EmbyClient, "Emby", "Client name announced in the X-Emby-Client header")
	register(key.EmbyDeviceName, "", "Device name announced to the server.\nEmpty uses the hostname")
	register(key.SessionProgressInterval, 10, "Seconds between progress reports")
	register(key.SessionLivenessInterval, 2, "Seconds between player liveness checks")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, nerd, plain, kaomoji, squares")
	register(key.LogsWrite, true, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Check for a newer release when printing the version")
	register(key.CliErrorExit, true, "Exit with a non-zero code on failure.\nDisable if the OS shows an error dialog for the protocol handler")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"blue":     style.Fg(color.Blue),
	"purple":   style.Fg(color.Purple),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
