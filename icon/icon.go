// Package icon renders UI symbols in the variant chosen by icons.variant.
package icon

import (
	"github.com/spf13/viper"
	"github.com/watchroom/watchroom/key"
)

const (
	emoji = "emoji"
	nerd  = "nerd"
	plain = "plain"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain}
}

type iconDef struct {
	emoji string
	nerd  string
	plain string
}

func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	default:
		return ""
	}
}

// Icon identifies a symbol in the registry.
type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Playing
	Paused
	NowPlaying
	Users
	Queue
	Connected
	Disconnected
)

var icons = map[Icon]*iconDef{
	Success:      {emoji: "✅", nerd: "", plain: "+"},
	Fail:         {emoji: "❌", nerd: "", plain: "x"},
	Progress:     {emoji: "⏳", nerd: "", plain: "~"},
	Playing:      {emoji: "▶️", nerd: "", plain: ">"},
	Paused:       {emoji: "⏸️", nerd: "", plain: "||"},
	NowPlaying:   {emoji: "🎬", nerd: "", plain: "*"},
	Users:        {emoji: "👥", nerd: "", plain: "@"},
	Queue:        {emoji: "📜", nerd: "", plain: "#"},
	Connected:    {emoji: "🟢", nerd: "", plain: "on"},
	Disconnected: {emoji: "🔴", nerd: "", plain: "off"},
}

// Get returns the rendered string for an Icon under the configured variant.
func Get(i Icon) string {
	return icons[i].Get()
}
