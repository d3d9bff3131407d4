package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/watchroom/watchroom/color"
	"github.com/watchroom/watchroom/icon"
	"github.com/watchroom/watchroom/protocol"
	"github.com/watchroom/watchroom/session"
	"github.com/watchroom/watchroom/style"
	"github.com/watchroom/watchroom/util"
)

// Printer renders a session as plain lines, for terminals without a TUI.
type Printer struct {
	mu    sync.Mutex
	out   io.Writer
	width int
}

var _ session.View = (*Printer)(nil)

// NewPrinter writes to out, truncating lines to the terminal width when stdout is a terminal.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, width: util.TerminalWidth(120)}
}

func (p *Printer) println(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintln(p.out, style.Truncate(p.width)(line))
}

func (p *Printer) RenderQueue(queue []protocol.QueueEntry, nowPlaying int) {
	if len(queue) == 0 {
		p.println(icon.Get(icon.Queue) + " queue is empty")
		return
	}

	p.println(fmt.Sprintf("%s %s", icon.Get(icon.Queue), util.Quantify(len(queue), "video", "videos")))
	for i, entry := range queue {
		marker := " "
		if i == nowPlaying {
			marker = icon.Get(icon.NowPlaying)
		}
		p.println(fmt.Sprintf("  %s %d. %s %s", marker, i+1, entry.Title, style.Faint(entry.VideoID)))
	}
}

func (p *Printer) RenderUsers(users []string) {
	p.println(fmt.Sprintf("%s %s", icon.Get(icon.Users), strings.Join(users, ", ")))
}

func (p *Printer) RenderPlayState(playState protocol.PlayState) {
	glyph := lo.Ternary(playState == protocol.Playing, icon.Get(icon.Playing), icon.Get(icon.Paused))
	p.println(fmt.Sprintf("%s %s", glyph, strings.ToLower(string(playState))))
}

func (p *Printer) RenderStatus(status session.Status) {
	switch status {
	case session.Connected:
		p.println(icon.Get(icon.Connected) + " " + style.Fg(color.Green)(status.String()))
	case session.Disconnected:
		p.println(icon.Get(icon.Disconnected) + " " + style.Fg(color.Red)(status.String()))
	default:
		p.println(icon.Get(icon.Progress) + " " + status.String())
	}
}

func (p *Printer) Notify(message string) {
	p.println(icon.Get(icon.Fail) + " " + message)
}
