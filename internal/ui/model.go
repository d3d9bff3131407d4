// Package ui shows short-lived notifications at the bottom of a bubbletea view.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/watchroom/watchroom/style"
)

// Lifetime is how long a notification stays visible.
const Lifetime = 3 * time.Second

// Model holds the current notification. Any string message replaces it.
type Model struct {
	notification string
	generation   int
}

// ClearNotificationMsg clears the notification it was scheduled for.
type ClearNotificationMsg struct {
	generation int
}

func clearAfter(generation int) tea.Cmd {
	return tea.Tick(Lifetime, func(time.Time) tea.Msg {
		return ClearNotificationMsg{generation: generation}
	})
}

// Update handles string and ClearNotificationMsg messages and ignores the rest.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case string:
		m.notification = msg
		m.generation++
		return clearAfter(m.generation)
	case ClearNotificationMsg:
		// a newer notification keeps its own timer
		if msg.generation == m.generation {
			m.notification = ""
		}
	}
	return nil
}

// Notification returns the visible notification, if any.
func (m *Model) Notification() string {
	return m.notification
}

// View appends the notification to the last line of mainContent.
func (m *Model) View(mainContent string) string {
	if m.notification == "" {
		return mainContent
	}

	lines := strings.Split(mainContent, "\n")
	lines[len(lines)-1] += "  " + style.Faint(m.notification)
	return strings.Join(lines, "\n")
}
