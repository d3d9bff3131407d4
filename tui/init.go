package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (b *statefulBubble) Init() tea.Cmd {
	b.setState(offlineState)
	return b.spinnerC.Tick
}
