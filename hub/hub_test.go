package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/watchroom/watchroom/protocol"
	"github.com/watchroom/watchroom/relay"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func dial(server *httptest.Server) *relay.Conn {
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, err := relay.Dial(context.Background(), url)
	So(err, ShouldBeNil)
	return conn
}

func next(conn *relay.Conn) protocol.Envelope {
	select {
	case env, ok := <-conn.Messages():
		So(ok, ShouldBeTrue)
		return env
	case <-time.After(2 * time.Second):
		So("no message", ShouldBeEmpty)
		return protocol.Envelope{}
	}
}

func send(conn *relay.Conn, event string, payload any) {
	So(conn.Send(protocol.MustEnvelope(event, payload)), ShouldBeNil)
}

func users(env protocol.Envelope) []string {
	So(env.Event, ShouldEqual, protocol.EventUserListUpdate)
	msg, err := env.UserListUpdate()
	So(err, ShouldBeNil)
	return msg.Users
}

func stateChange(env protocol.Envelope) protocol.StateChange {
	So(env.Event, ShouldEqual, protocol.EventStateChange)
	msg, err := env.StateChange()
	So(err, ShouldBeNil)
	return msg
}

// join connects name to the lounge and consumes the greeting.
func join(server *httptest.Server, name string) (*relay.Conn, protocol.SyncState) {
	conn := dial(server)
	send(conn, protocol.EventJoin, protocol.Join{Room: "lounge", Username: name})

	So(users(next(conn)), ShouldContain, name)

	env := next(conn)
	So(env.Event, ShouldEqual, protocol.EventSyncState)
	snapshot, err := env.SyncState()
	So(err, ShouldBeNil)
	return conn, snapshot
}

func TestHub(t *testing.T) {
	Convey("Given a relay", t, func() {
		clk := &clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
		h := New()
		h.now = clk.Now

		server := httptest.NewServer(h.Handler())
		Reset(server.Close)

		Convey("The first participant gets an empty room", func() {
			ana, snapshot := join(server, "ana")
			defer ana.Close()

			So(snapshot.Queue, ShouldBeEmpty)
			So(snapshot.CurrentVideoIndex, ShouldEqual, protocol.NoSelection)
			So(snapshot.State, ShouldEqual, protocol.Paused)
			So(snapshot.Users, ShouldResemble, []string{"ana"})
			So(h.Rooms(), ShouldResemble, []string{"lounge"})

			Convey("and is listed by the overview", func() {
				resp, err := http.Get(server.URL + "/rooms")
				So(err, ShouldBeNil)
				defer resp.Body.Close()
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var rooms []RoomStatus
				So(json.NewDecoder(resp.Body).Decode(&rooms), ShouldBeNil)
				So(rooms, ShouldResemble, []RoomStatus{{
					Room:              "lounge",
					Users:             []string{"ana"},
					Queued:            0,
					CurrentVideoIndex: protocol.NoSelection,
					State:             protocol.Paused,
				}})

				post, err := http.Post(server.URL+"/rooms", "application/json", nil)
				So(err, ShouldBeNil)
				defer post.Body.Close()
				So(post.StatusCode, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})

		Convey("Given two participants", func() {
			ana, _ := join(server, "ana")
			defer ana.Close()
			bo, snapshot := join(server, "bo")
			defer bo.Close()

			So(snapshot.Users, ShouldResemble, []string{"ana", "bo"})
			So(users(next(ana)), ShouldResemble, []string{"ana", "bo"})

			Convey("Adding to an idle room starts the video, then updates the queue", func() {
				send(ana, protocol.EventAddToQueue, protocol.AddToQueue{Room: "lounge", VideoID: "abc12345678", VideoTitle: "Video: abc12345678"})

				for _, conn := range []*relay.Conn{ana, bo} {
					load := stateChange(next(conn))
					So(load.Event, ShouldEqual, protocol.ActionLoadVideo)
					So(load.VideoID, ShouldEqual, "abc12345678")
					So(*load.CurrentVideoIndex, ShouldEqual, 0)
					So(load.State, ShouldEqual, protocol.Playing)

					env := next(conn)
					So(env.Event, ShouldEqual, protocol.EventQueueUpdate)
					update, err := env.QueueUpdate()
					So(err, ShouldBeNil)
					So(update.Queue, ShouldResemble, []protocol.QueueEntry{{VideoID: "abc12345678", Title: "Video: abc12345678"}})
				}

				Convey("A player event reaches everyone but its sender", func() {
					send(ana, protocol.EventPlayerEvent, protocol.PlayerEvent{Room: "lounge", Event: protocol.ActionPause, Time: protocol.Seconds(12)})

					pause := stateChange(next(bo))
					So(pause.Event, ShouldEqual, protocol.ActionPause)
					So(*pause.Time, ShouldEqual, 12.0)
					So(pause.State, ShouldEqual, protocol.Paused)

					send(bo, protocol.EventPlayerEvent, protocol.PlayerEvent{Room: "lounge", Event: protocol.ActionSeek, Time: protocol.Seconds(30)})

					seek := stateChange(next(ana))
					So(seek.Event, ShouldEqual, protocol.ActionSeek)
					So(*seek.Time, ShouldEqual, 30.0)
					So(seek.State, ShouldEqual, protocol.Paused)

					snapshot, ok := h.Snapshot("lounge")
					So(ok, ShouldBeTrue)
					So(snapshot.Time, ShouldEqual, 30.0)
				})

				Convey("A playing room extrapolates the time for late joiners", func() {
					send(ana, protocol.EventPlayerEvent, protocol.PlayerEvent{Room: "lounge", Event: protocol.ActionPlay, Time: protocol.Seconds(10)})
					So(stateChange(next(bo)).Event, ShouldEqual, protocol.ActionPlay)

					clk.Advance(4 * time.Second)
					snapshot, _ := h.Snapshot("lounge")
					So(snapshot.Time, ShouldAlmostEqual, 14.0, 0.001)
				})

				Convey("Reports of the video ending advance once", func() {
					send(ana, protocol.EventAddToQueue, protocol.AddToQueue{Room: "lounge", VideoID: "xyz98765432"})
					for _, conn := range []*relay.Conn{ana, bo} {
						update, err := next(conn).QueueUpdate()
						So(err, ShouldBeNil)
						So(update.Queue[1].Title, ShouldEqual, "Untitled")
					}

					ended := func(conn *relay.Conn, index int) {
						send(conn, protocol.EventPlayerEvent, protocol.PlayerEvent{
							Room: "lounge", Event: protocol.ActionVideoEnded, CurrentVideoIndex: protocol.Index(index),
						})
					}

					clk.Advance(time.Minute)
					ended(ana, 0)
					So(*stateChange(next(bo)).CurrentVideoIndex, ShouldEqual, 1)
					So(*stateChange(next(ana)).CurrentVideoIndex, ShouldEqual, 1)

					ended(bo, 0)
					snapshot, _ := h.Snapshot("lounge")
					So(snapshot.CurrentVideoIndex, ShouldEqual, 1)

					Convey("and the end of the last one ends the queue", func() {
						clk.Advance(time.Minute)
						ended(bo, 1)

						So(stateChange(next(ana)).Event, ShouldEqual, protocol.ActionQueueEnded)
						snapshot, _ := h.Snapshot("lounge")
						So(snapshot.State, ShouldEqual, protocol.Paused)
					})
				})

				Convey("Selecting an entry loads it for everyone", func() {
					send(bo, protocol.EventPlaySpecificVideo, protocol.PlaySpecificVideo{Room: "lounge", Index: 0})
					So(stateChange(next(ana)).Event, ShouldEqual, protocol.ActionLoadVideo)
					So(stateChange(next(bo)).Event, ShouldEqual, protocol.ActionLoadVideo)
				})

				Convey("Selecting outside the queue is ignored", func() {
					send(bo, protocol.EventPlaySpecificVideo, protocol.PlaySpecificVideo{Room: "lounge", Index: 9})
					send(bo, protocol.EventPlayerEvent, protocol.PlayerEvent{Room: "lounge", Event: protocol.ActionPlay, Time: protocol.Seconds(1)})
					So(stateChange(next(ana)).Event, ShouldEqual, protocol.ActionPlay)
				})
			})

			Convey("Messages for unknown rooms are ignored", func() {
				send(bo, protocol.EventAddToQueue, protocol.AddToQueue{Room: "elsewhere", VideoID: "abc12345678"})
				_, ok := h.Snapshot("elsewhere")
				So(ok, ShouldBeFalse)
			})

			Convey("A leaving participant is removed from the list", func() {
				So(bo.Close(), ShouldBeNil)
				So(users(next(ana)), ShouldResemble, []string{"ana"})
			})

			Convey("A second connection under the same name keeps it listed", func() {
				again, _ := join(server, "bo")
				So(users(next(ana)), ShouldResemble, []string{"ana", "bo"})

				So(again.Close(), ShouldBeNil)
				send(bo, protocol.EventPlayerEvent, protocol.PlayerEvent{Room: "lounge", Event: protocol.ActionPlay, Time: protocol.Seconds(1)})
				So(stateChange(next(ana)).Event, ShouldEqual, protocol.ActionPlay)
			})
		})
	})
}

func TestEnded(t *testing.T) {
	Convey("Given a room playing the first of two entries", t, func() {
		start := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
		r := newRoom("lounge")
		r.queue = []protocol.QueueEntry{
			{VideoID: "abc12345678", Title: "Teaser"},
			{VideoID: "xyz98765432", Title: "Feature"},
		}
		So(r.playAt(0, start), ShouldBeNil)

		Convey("A video of a few seconds still advances", func() {
			So(r.ended(protocol.Index(0), start.Add(3*time.Second)), ShouldBeNil)
			So(r.index, ShouldEqual, 1)
			So(r.state, ShouldEqual, protocol.Playing)

			Convey("and late reports for it are ignored", func() {
				So(r.ended(protocol.Index(0), start.Add(4*time.Second)), ShouldBeNil)
				So(r.index, ShouldEqual, 1)
			})
		})

		Convey("A report without an index ends the current entry", func() {
			So(r.ended(nil, start.Add(time.Second)), ShouldBeNil)
			So(r.index, ShouldEqual, 1)
		})

		Convey("The end of the last entry pauses the room once", func() {
			So(r.playAt(1, start), ShouldBeNil)
			So(r.ended(protocol.Index(1), start.Add(time.Second)), ShouldBeNil)
			So(r.index, ShouldEqual, 1)
			So(r.state, ShouldEqual, protocol.Paused)
		})
	})
}
