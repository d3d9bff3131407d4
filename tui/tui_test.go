package tui

import (
	"bytes"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/watchroom/watchroom/key"
	"github.com/watchroom/watchroom/protocol"
	"github.com/watchroom/watchroom/session"
)

type recordingRequester struct {
	added  []string
	played []int
}

func (r *recordingRequester) AddToQueue(link string) { r.added = append(r.added, link) }
func (r *recordingRequester) PlaySpecific(index int) { r.played = append(r.played, index) }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// messages runs cmd and flattens batches into the messages they produce.
func messages(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, messages(c)...)
	}
	return out
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

var queue = []protocol.QueueEntry{
	{VideoID: "abc12345678", Title: "Opening night"},
	{VideoID: "xyz98765432", Title: "Second feature"},
}

func TestBubble(t *testing.T) {
	viper.Set(key.IconsVariant, "plain")

	Convey("Given a room view", t, func() {
		requester := &recordingRequester{}
		b := newBubble(&Options{Room: "lounge", Relay: "ws://relay/ws", Username: "ana"})
		b.requester = requester
		b.Init()
		b.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

		update := func(msg tea.Msg) tea.Cmd {
			_, cmd := b.Update(msg)
			return cmd
		}

		Convey("It starts out connecting with the room hidden", func() {
			So(b.state, ShouldEqual, offlineState)
			So(b.View(), ShouldContainSubstring, "connecting to ws://relay/ws")
			So(b.View(), ShouldContainSubstring, "nothing playing")

			update(runes("a"))
			So(b.state, ShouldEqual, offlineState)
		})

		update(statusMsg(session.Connected))
		So(b.state, ShouldEqual, roomState)

		Convey("Losing the relay hides the room again", func() {
			update(runes("a"))
			update(statusMsg(session.Disconnected))

			So(b.state, ShouldEqual, offlineState)
			So(b.View(), ShouldContainSubstring, "reconnecting")

			update(statusMsg(session.Connected))
			So(b.state, ShouldEqual, roomState)
		})

		Convey("When the queue arrives", func() {
			update(usersMsg{"ana", "bo"})
			update(queueMsg{queue: queue, nowPlaying: 0})
			update(playStateMsg(protocol.Playing))

			Convey("The now playing entry is marked", func() {
				So(len(b.queueC.Items()), ShouldEqual, 2)
				So(b.queueC.Items()[0].(*queueItem).playing, ShouldBeTrue)
				So(b.queueC.Items()[1].(*queueItem).playing, ShouldBeFalse)

				view := b.View()
				So(view, ShouldContainSubstring, "> Opening night")
				So(view, ShouldContainSubstring, "2 watchers")
			})

			Convey("Enter on another entry asks to play it", func() {
				update(tea.KeyMsg{Type: tea.KeyDown})
				update(tea.KeyMsg{Type: tea.KeyEnter})
				So(requester.played, ShouldResemble, []int{1})
			})

			Convey("Enter on the current entry does nothing", func() {
				update(tea.KeyMsg{Type: tea.KeyEnter})
				So(requester.played, ShouldBeEmpty)
			})

			Convey("A queue without a valid selection marks nothing", func() {
				update(queueMsg{queue: queue, nowPlaying: protocol.NoSelection})
				So(b.queueC.Items()[0].(*queueItem).playing, ShouldBeFalse)
				So(b.View(), ShouldContainSubstring, "nothing playing")
			})
		})

		Convey("Adding a link", func() {
			update(runes("a"))
			So(b.state, ShouldEqual, addState)

			update(runes("https://youtu.be/dQw4w9WgXcQ?q=1"))
			So(isQuit(update(runes("q"))), ShouldBeFalse)
			update(tea.KeyMsg{Type: tea.KeyEnter})

			So(b.state, ShouldEqual, roomState)
			So(requester.added, ShouldResemble, []string{"https://youtu.be/dQw4w9WgXcQ?q=1q"})

			Convey("can be cancelled", func() {
				update(runes("a"))
				update(runes("nope"))
				update(tea.KeyMsg{Type: tea.KeyEsc})

				So(b.state, ShouldEqual, roomState)
				So(len(requester.added), ShouldEqual, 1)
			})
		})

		Convey("s copies the command that joins this room", func() {
			original := writeClipboard
			Reset(func() { writeClipboard = original })

			var copied string
			writeClipboard = func(text string) error {
				copied = text
				return nil
			}

			msgs := messages(update(runes("s")))
			So(copied, ShouldEqual, "watchroom join lounge -r ws://relay/ws")
			So(msgs, ShouldContain, "copied: watchroom join lounge -r ws://relay/ws")

			update(msgs[len(msgs)-1])
			So(b.View(), ShouldContainSubstring, "copied: watchroom join lounge")

			Convey("and reports a missing clipboard", func() {
				writeClipboard = func(string) error { return errors.New("no clipboard utility") }
				So(messages(update(runes("y"))), ShouldContain, "could not copy: no clipboard utility")
			})
		})

		Convey("Notifications are shown", func() {
			update("not a video link")
			So(b.View(), ShouldContainSubstring, "not a video link")
		})

		Convey("A session that ends with an error shows it", func() {
			update(sessionEndedMsg{err: errors.New("player closed")})
			So(b.state, ShouldEqual, errorState)
			So(b.View(), ShouldContainSubstring, "player closed")
			So(isQuit(update(runes("q"))), ShouldBeTrue)
		})

		Convey("A session that ends cleanly quits", func() {
			So(isQuit(update(sessionEndedMsg{})), ShouldBeTrue)
		})

		Convey("q quits", func() {
			So(isQuit(update(runes("q"))), ShouldBeTrue)
		})
	})
}

func TestPrinter(t *testing.T) {
	viper.Set(key.IconsVariant, "plain")

	Convey("Given a printer", t, func() {
		var out bytes.Buffer
		p := NewPrinter(&out)

		Convey("It lists the queue with the current entry marked", func() {
			p.RenderQueue(queue, 1)
			So(out.String(), ShouldContainSubstring, "2 videos")
			So(out.String(), ShouldContainSubstring, "* 2. Second feature")
			So(out.String(), ShouldNotContainSubstring, "* 1.")
		})

		Convey("It reports an empty queue", func() {
			p.RenderQueue(nil, protocol.NoSelection)
			So(out.String(), ShouldContainSubstring, "queue is empty")
		})

		Convey("It prints users, play state and status", func() {
			p.RenderUsers([]string{"ana", "bo"})
			p.RenderPlayState(protocol.Playing)
			p.RenderStatus(session.Disconnected)

			So(out.String(), ShouldContainSubstring, "ana, bo")
			So(out.String(), ShouldContainSubstring, "> playing")
			So(out.String(), ShouldContainSubstring, "disconnected")
		})
	})
}
