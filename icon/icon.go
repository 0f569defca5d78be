// Package icon renders the status symbols printed next to console messages.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII, kaomoji
// or Unicode squares depending on the icons.variant setting.
package icon

import (
	"github.com/mpv-handler/mpv-handler/key"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants returns every accepted icons.variant value.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// Icon identifies a symbol in the registry.
type Icon int

const (
	Fail Icon = iota + 1
	Success
	Warn
	Play
	Progress
	Stop
	Question
)

// iconDef holds one symbol in every variant.
type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

var icons = map[Icon]*iconDef{
	Fail:     {emoji: "❌", nerd: "", plain: "x", kaomoji: "(×_×)", squares: "🟥"},
	Success:  {emoji: "✅", nerd: "", plain: "v", kaomoji: "(^_^)", squares: "🟩"},
	Warn:     {emoji: "⚠️", nerd: "", plain: "!", kaomoji: "(>_<)", squares: "🟨"},
	Play:     {emoji: "▶️", nerd: "", plain: ">", kaomoji: "(•̀ᴗ•́)", squares: "🟦"},
	Progress: {emoji: "⏳", nerd: "", plain: "~", kaomoji: "(・_・)", squares: "🟪"},
	Stop:     {emoji: "⏹️", nerd: "", plain: "#", kaomoji: "(-_-)", squares: "⬛"},
	Question: {emoji: "❓", nerd: "", plain: "?", kaomoji: "(・・?)", squares: "🟧"},
}

// Get picks the representation matching the configured variant.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

// Get returns the rendered symbol for i, empty for unknown icons.
func Get(i Icon) string {
	def, ok := icons[i]
	if !ok {
		return ""
	}
	return def.Get()
}
