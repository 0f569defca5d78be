// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"errors"
	"strings"

	"github.com/mpv-handler/mpv-handler/constant"
	"github.com/mpv-handler/mpv-handler/filesystem"
	"github.com/mpv-handler/mpv-handler/key"
	"github.com/mpv-handler/mpv-handler/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer is a strings.Replacer used to normalize configuration keys into environment variable naming conventions.
var EnvKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// legacyKeys maps the flat keys of older mpv-handler.toml files onto their sectioned replacements.
var legacyKeys = map[string]string{
	key.LegacyPlayer:    key.PlayerPath,
	key.LegacyProxy:     key.NetworkProxy,
	key.LegacyUserAgent: key.NetworkUserAgent,
}

// Setup initializes the global configuration state, including defaults, environment bindings, and localized file resolution.
// A missing config file is not an error; defaults apply.
func Setup() error {
	viper.SetConfigName(constant.App)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.Fs())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(EnvKeyReplacer.Replace(constant.App))
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	// Aliases must be registered after reading so viper moves the legacy values over.
	for legacy, current := range legacyKeys {
		viper.RegisterAlias(legacy, current)
	}

	return nil
}

// PlayerPath returns the configured player executable, falling back to the platform default when empty.
func PlayerPath() string {
	if p := strings.TrimSpace(viper.GetString(key.PlayerPath)); p != "" {
		return p
	}
	return DefaultPlayer()
}

// UserAgent returns the configured user agent, falling back to the built-in one when empty.
func UserAgent() string {
	if ua := strings.TrimSpace(viper.GetString(key.NetworkUserAgent)); ua != "" {
		return ua
	}
	return constant.UserAgent
}
