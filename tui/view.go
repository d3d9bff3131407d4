package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/watchroom/watchroom/color"
	"github.com/watchroom/watchroom/icon"
	"github.com/watchroom/watchroom/protocol"
	"github.com/watchroom/watchroom/session"
	"github.com/watchroom/watchroom/style"
	"github.com/watchroom/watchroom/util"
)

var (
	paddingStyle = lipgloss.NewStyle().Padding(1, 2)
	usersStyle   = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(style.FaintColor).
			Padding(0, 1)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case offlineState:
		output = b.viewOffline()
	case roomState:
		output = b.viewRoom()
	case addState:
		output = b.viewAdd()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) header() string {
	parts := []string{style.Title(b.options.Room), b.viewStatus(), b.viewPlayState()}
	return style.Truncate(util.Max(b.width, 0))(strings.Join(parts, "  "))
}

func (b *statefulBubble) viewStatus() string {
	switch b.status {
	case session.Connected:
		return icon.Get(icon.Connected) + " " + style.Fg(color.Green)(b.options.Relay)
	case session.Disconnected:
		return icon.Get(icon.Disconnected) + " " + style.Fg(color.Red)("reconnecting")
	default:
		return b.spinnerC.View() + " " + style.Faint("connecting to "+b.options.Relay)
	}
}

func (b *statefulBubble) viewPlayState() string {
	if b.nowPlaying == protocol.NoSelection {
		return style.Faint("nothing playing")
	}

	title := b.queue[b.nowPlaying].Title
	if b.playState == protocol.Playing {
		return icon.Get(icon.Playing) + " " + style.Fg(color.Purple)(title)
	}
	return icon.Get(icon.Paused) + " " + style.Faint(title)
}

func (b *statefulBubble) viewUsers() string {
	lines := []string{
		style.Bold(fmt.Sprintf("%s %s", icon.Get(icon.Users), util.Quantify(len(b.users), "watcher", "watchers"))),
		"",
	}
	for _, user := range b.users {
		name := user
		if user == b.options.Username {
			name = style.Fg(color.Orange)(user)
		}
		lines = append(lines, style.Truncate(usersWidth-2)(name))
	}
	return usersStyle.Render(strings.Join(lines, "\n"))
}

func (b *statefulBubble) viewRoom() string {
	body := lipgloss.JoinHorizontal(lipgloss.Top, b.queueC.View(), b.viewUsers())
	return b.renderLines(true, []string{b.header(), "", body})
}

func (b *statefulBubble) viewOffline() string {
	return b.renderLines(true, []string{b.header(), "", style.Faint("The room comes back once the relay is reachable.")})
}

func (b *statefulBubble) viewAdd() string {
	return b.renderLines(true, []string{
		style.Title("Add to queue"),
		"",
		b.inputC.View(),
	})
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	errorBody := errorStyle.Render(b.lastError.Error())
	return b.renderLines(true, []string{
		style.ErrorTitle("Error"),
		"",
		icon.Get(icon.Fail) + " The session ended:",
		"",
		wrap.String(errorBody, util.Max(b.width, 1)),
	})
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	l := strings.Join(lines, "\n")
	if addHelp {
		if h := lipgloss.Height(l); b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
