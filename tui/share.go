package tui

import (
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/watchroom/watchroom/constant"
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// shareLine is the command another participant runs to join the same room.
func shareLine(options *Options) string {
	return fmt.Sprintf("%s join %s -r %s", constant.Watchroom, options.Room, options.Relay)
}

func copyShareLine(options *Options) tea.Cmd {
	line := shareLine(options)
	return func() tea.Msg {
		if err := writeClipboard(line); err != nil {
			return "could not copy: " + err.Error()
		}
		return "copied: " + line
	}
}
