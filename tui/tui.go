// Package tui provides the room's terminal user interface and a line-oriented renderer for
// headless sessions.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/watchroom/watchroom/protocol"
	"github.com/watchroom/watchroom/session"
)

// Requester receives what the user asks for. session.Session implements it.
type Requester interface {
	AddToQueue(link string)
	PlaySpecific(index int)
}

// Options describe the room shown by the interface.
type Options struct {
	Room     string
	Relay    string
	Username string
}

// UI is a bubbletea program that doubles as a session.View.
// Render calls are forwarded into the program as messages, so they are safe from any goroutine.
type UI struct {
	bubble  *statefulBubble
	program *tea.Program
}

var _ session.View = (*UI)(nil)

func New(options *Options) *UI {
	bubble := newBubble(options)
	return &UI{
		bubble:  bubble,
		program: tea.NewProgram(bubble, tea.WithAltScreen()),
	}
}

// Bind sets where user requests go. It must be called before Run.
func (u *UI) Bind(r Requester) {
	u.bubble.requester = r
}

// Run blocks until the user quits.
func (u *UI) Run() error {
	_, err := u.program.Run()
	return err
}

// Finish ends the program after the session stopped on its own; err, if any, is shown first.
func (u *UI) Finish(err error) {
	u.program.Send(sessionEndedMsg{err: err})
}

func (u *UI) RenderQueue(queue []protocol.QueueEntry, nowPlaying int) {
	u.program.Send(queueMsg{queue: append([]protocol.QueueEntry(nil), queue...), nowPlaying: nowPlaying})
}

func (u *UI) RenderUsers(users []string) {
	u.program.Send(usersMsg(append([]string(nil), users...)))
}

func (u *UI) RenderPlayState(playState protocol.PlayState) {
	u.program.Send(playStateMsg(playState))
}

func (u *UI) RenderStatus(status session.Status) {
	u.program.Send(statusMsg(status))
}

// Notify shows message briefly in the status line.
func (u *UI) Notify(message string) {
	u.program.Send(message)
}

type (
	queueMsg struct {
		queue      []protocol.QueueEntry
		nowPlaying int
	}
	usersMsg        []string
	playStateMsg    protocol.PlayState
	statusMsg       session.Status
	sessionEndedMsg struct{ err error }
)
