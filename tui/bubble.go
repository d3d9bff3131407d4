package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/watchroom/watchroom/internal/ui"
	"github.com/watchroom/watchroom/protocol"
	"github.com/watchroom/watchroom/session"
	"github.com/watchroom/watchroom/style"
	"github.com/watchroom/watchroom/util"
)

const usersWidth = 24

type statefulBubble struct {
	state  state
	keymap *statefulKeymap

	// components
	spinnerC spinner.Model
	inputC   textinput.Model
	queueC   list.Model
	helpC    help.Model

	status     session.Status
	playState  protocol.PlayState
	users      []string
	queue      []protocol.QueueEntry
	nowPlaying int

	requester Requester
	lastError error

	width, height int
	notifier      *ui.Model

	options *Options
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.setState(errorState)
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y

	// header, blank line and help
	listHeight := b.height - 4
	b.queueC.SetSize(util.Max(b.width-usersWidth, 0), util.Max(listHeight, 0))
	b.inputC.Width = b.width
	b.helpC.Width = b.width
}

func newBubble(options *Options) *statefulBubble {
	bubble := statefulBubble{
		keymap:     newStatefulKeymap(),
		status:     session.Connecting,
		playState:  protocol.Paused,
		nowPlaying: protocol.NoSelection,
		notifier:   &ui.Model{},
		options:    options,
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.AccentColor).
		Foreground(style.AccentColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	bubble.queueC = list.New([]list.Item{}, delegate, 0, 0)
	bubble.queueC.KeyMap = bubble.keymap.forList()
	bubble.queueC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
	bubble.queueC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
		return bubble.keymap.FullHelp()[0]
	}
	bubble.queueC.Title = "Queue"
	bubble.queueC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(style.Lavender).Padding(0, 1)
	bubble.queueC.Styles.NoItems = paddingStyle
	bubble.queueC.StatusMessageLifetime = time.Hour * 999
	bubble.queueC.SetStatusBarItemName("video", "videos")
	bubble.queueC.SetFilteringEnabled(false)
	bubble.queueC.SetShowHelp(false)
	bubble.queueC.SetShowPagination(false)

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bubble.inputC = textinput.New()
	bubble.inputC.Placeholder = "https://www.youtube.com/watch?v=..."
	bubble.inputC.CharLimit = 200
	bubble.inputC.Prompt = "Video URL: "

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return &bubble
}
