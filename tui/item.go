package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/watchroom/watchroom/icon"
	"github.com/watchroom/watchroom/protocol"
	"github.com/watchroom/watchroom/style"
	"github.com/watchroom/watchroom/youtube"
)

// queueItem is one queue entry in the list.
type queueItem struct {
	entry   protocol.QueueEntry
	index   int
	playing bool
}

func (q *queueItem) Title() string {
	title := fmt.Sprintf("%d. %s", q.index+1, q.entry.Title)
	if q.playing {
		mark := lipgloss.NewStyle().Bold(true).Foreground(style.AccentColor).Render(icon.Get(icon.NowPlaying))
		title = fmt.Sprintf("%s %s", title, mark)
	}
	return title
}

func (q *queueItem) Description() string {
	return style.Faint(youtube.WatchURL(q.entry.VideoID))
}

func (q *queueItem) FilterValue() string {
	return q.entry.Title
}
