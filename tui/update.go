package tui

import (
	"strings"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/watchroom/watchroom/open"
	"github.com/watchroom/watchroom/protocol"
	"github.com/watchroom/watchroom/session"
	"github.com/watchroom/watchroom/youtube"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// transient notifications arrive as plain strings
	cmd := b.notifier.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, cmd
	case spinner.TickMsg:
		var tick tea.Cmd
		b.spinnerC, tick = b.spinnerC.Update(msg)
		return b, tea.Batch(cmd, tick)
	case queueMsg:
		return b, tea.Batch(cmd, b.setQueue(msg.queue, msg.nowPlaying))
	case usersMsg:
		b.users = msg
		return b, cmd
	case playStateMsg:
		b.playState = protocol.PlayState(msg)
		return b, cmd
	case statusMsg:
		b.setStatus(session.Status(msg))
		return b, cmd
	case sessionEndedMsg:
		if msg.err == nil {
			return b, tea.Quit
		}
		b.raiseError(msg.err)
		return b, cmd
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
	}

	switch b.state {
	case offlineState:
		return b.updateOffline(msg, cmd)
	case roomState:
		return b.updateRoom(msg, cmd)
	case addState:
		return b.updateAdd(msg, cmd)
	case errorState:
		return b.updateError(msg, cmd)
	}

	return b, cmd
}

// setStatus hides the room while disconnected and brings it back on reconnect.
func (b *statefulBubble) setStatus(status session.Status) {
	b.status = status

	switch {
	case status == session.Connected && b.state == offlineState:
		b.setState(roomState)
	case status != session.Connected && b.state == addState:
		b.closeInput()
		b.setState(offlineState)
	case status != session.Connected && b.state == roomState:
		b.setState(offlineState)
	}
}

func (b *statefulBubble) updateOffline(msg tea.Msg, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		case bubblesKey.Matches(msg, b.keymap.share):
			return b, tea.Batch(cmd, copyShareLine(b.options))
		}
	}
	return b, cmd
}

func (b *statefulBubble) setQueue(queue []protocol.QueueEntry, nowPlaying int) tea.Cmd {
	b.queue = queue
	b.nowPlaying = nowPlaying

	items := lo.Map(queue, func(entry protocol.QueueEntry, i int) list.Item {
		return &queueItem{entry: entry, index: i, playing: i == nowPlaying}
	})
	return b.queueC.SetItems(items)
}

func (b *statefulBubble) updateRoom(msg tea.Msg, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		case bubblesKey.Matches(msg, b.keymap.add):
			b.setState(addState)
			b.inputC.SetValue("")
			return b, tea.Batch(cmd, b.inputC.Focus(), textinput.Blink)
		case bubblesKey.Matches(msg, b.keymap.play):
			item, ok := b.queueC.SelectedItem().(*queueItem)
			if ok && !item.playing && b.requester != nil {
				b.requester.PlaySpecific(item.index)
			}
			return b, cmd
		case bubblesKey.Matches(msg, b.keymap.share):
			return b, tea.Batch(cmd, copyShareLine(b.options))
		case bubblesKey.Matches(msg, b.keymap.openURL):
			if item, ok := b.queueC.SelectedItem().(*queueItem); ok {
				return b, tea.Batch(cmd, openInBrowser(item.entry.VideoID))
			}
			return b, cmd
		}
	}

	var listCmd tea.Cmd
	b.queueC, listCmd = b.queueC.Update(msg)
	return b, tea.Batch(cmd, listCmd)
}

func openInBrowser(videoID string) tea.Cmd {
	return func() tea.Msg {
		if err := open.Start(youtube.WatchURL(videoID)); err != nil {
			return err.Error()
		}
		return nil
	}
}

func (b *statefulBubble) updateAdd(msg tea.Msg, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.closeInput()
			return b, cmd
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if link := strings.TrimSpace(b.inputC.Value()); link != "" && b.requester != nil {
				b.requester.AddToQueue(link)
			}
			b.closeInput()
			return b, cmd
		}
	}

	var inputCmd tea.Cmd
	b.inputC, inputCmd = b.inputC.Update(msg)
	return b, tea.Batch(cmd, inputCmd)
}

func (b *statefulBubble) closeInput() {
	b.inputC.Blur()
	b.inputC.SetValue("")
	b.setState(roomState)
}

func (b *statefulBubble) updateError(msg tea.Msg, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if bubblesKey.Matches(msg, b.keymap.quit) || bubblesKey.Matches(msg, b.keymap.back) {
			return b, tea.Quit
		}
	}
	return b, cmd
}
