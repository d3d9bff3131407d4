package lockstep

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/watchroom/watchroom/player"
	"github.com/watchroom/watchroom/protocol"
)

// withBaseline leaves the controller with LastKnownPosition at p and no open window.
func withBaseline(f *fixture, p float64) {
	So(f.apply(protocol.EventSyncState, protocol.SyncState{
		CurrentVideoIndex: protocol.NoSelection, State: protocol.Playing, Time: p,
	}), ShouldBeNil)
	f.afterGrace()
	f.reset()
}

func seeks(f *fixture) []float64 {
	var times []float64
	for _, ev := range f.sender.playerEvents() {
		if ev.Event == protocol.ActionSeek {
			times = append(times, *ev.Time)
		}
	}
	return times
}

func TestPoll(t *testing.T) {
	Convey("Given a poller baseline of 10s", t, func() {
		f := newFixture()
		withBaseline(f, 10)

		Convey("A 1s drift is not a seek, a 10s jump is exactly one", func() {
			f.adapter.position = 9
			So(f.controller.Poll(), ShouldBeNil)
			So(seeks(f), ShouldBeEmpty)

			f.adapter.position = 20
			So(f.controller.Poll(), ShouldBeNil)
			So(seeks(f), ShouldResemble, []float64{20})

			Convey("A stable position after the jump does not fire again", func() {
				So(f.controller.Poll(), ShouldBeNil)
				f.adapter.position = 20.25
				So(f.controller.Poll(), ShouldBeNil)
				So(seeks(f), ShouldResemble, []float64{20})
			})
		})

		Convey("A jump of exactly the threshold is not a seek", func() {
			f.adapter.position = 11.5
			So(f.controller.Poll(), ShouldBeNil)
			So(seeks(f), ShouldBeEmpty)
			So(f.controller.State().Position, ShouldEqual, 11.5)
		})

		Convey("Backward jumps count too", func() {
			f.adapter.position = 2
			So(f.controller.Poll(), ShouldBeNil)
			So(seeks(f), ShouldResemble, []float64{2})
		})

		Convey("Ticks while the player is not ready leave the baseline alone", func() {
			f.adapter.ready = false
			f.adapter.position = 20
			So(f.controller.Poll(), ShouldBeNil)
			So(f.sender.sent, ShouldBeEmpty)

			f.adapter.ready = true
			So(f.controller.Poll(), ShouldBeNil)
			So(seeks(f), ShouldResemble, []float64{20})
		})

		Convey("Ticks whose position read fails are skipped", func() {
			f.adapter.position = 40
			f.adapter.posErr = errors.New("property unavailable")
			So(f.controller.Poll(), ShouldBeNil)
			So(f.sender.sent, ShouldBeEmpty)
		})

		Convey("A remote seek does not come back as a local one", func() {
			So(f.apply(protocol.EventStateChange, protocol.StateChange{
				Event: protocol.ActionSeek, Time: protocol.Seconds(60), State: protocol.Playing,
			}), ShouldBeNil)

			So(f.controller.Poll(), ShouldBeNil)
			So(f.sender.sent, ShouldBeEmpty)

			f.afterGrace()
			f.adapter.position = 60.3
			So(f.controller.Poll(), ShouldBeNil)
			So(f.sender.sent, ShouldBeEmpty)
		})

		Convey("Ticks inside the window do not move the baseline", func() {
			So(f.apply(protocol.EventStateChange, protocol.StateChange{
				Event: protocol.ActionSeek, Time: protocol.Seconds(30), State: protocol.Playing,
			}), ShouldBeNil)
			f.reset()

			f.adapter.position = 50
			So(f.controller.Poll(), ShouldBeNil)
			So(f.sender.sent, ShouldBeEmpty)

			f.afterGrace()
			So(f.controller.Poll(), ShouldBeNil)
			So(seeks(f), ShouldResemble, []float64{50})
		})

		Convey("Buffering after an unsuppressed seek emits nothing itself", func() {
			f.adapter.position = 10
			So(f.controller.OnPlayerNotification(player.Buffering), ShouldBeNil)
			So(f.sender.sent, ShouldBeEmpty)

			Convey("and the poller still reports the jump exactly once", func() {
				f.adapter.position = 45
				So(f.controller.Poll(), ShouldBeNil)
				So(f.controller.Poll(), ShouldBeNil)
				So(seeks(f), ShouldResemble, []float64{45})
			})
		})
	})
}

func TestPoller(t *testing.T) {
	Convey("Given a poller", t, func() {
		p := NewPoller(5 * time.Millisecond)
		Reset(p.Stop)

		Convey("It ticks", func() {
			select {
			case <-p.C:
			case <-time.After(time.Second):
				So("no tick", ShouldBeEmpty)
			}
		})

		Convey("Stop can be called twice", func() {
			p.Stop()
			So(p.Stop, ShouldNotPanic)
		})
	})
}

func TestSuppressor(t *testing.T) {
	Convey("Given a suppressor with a 500ms grace", t, func() {
		clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
		s := newSuppressor(testGrace, 4*testGrace, clock.Now)

		Convey("It starts closed", func() {
			So(s.active(), ShouldBeFalse)
		})

		Convey("begin opens it for the grace period and counts generations", func() {
			So(s.begin(), ShouldEqual, uint64(1))
			So(s.active(), ShouldBeTrue)

			clock.Advance(testGrace - time.Millisecond)
			So(s.active(), ShouldBeTrue)

			clock.Advance(time.Millisecond)
			So(s.active(), ShouldBeFalse)

			So(s.begin(), ShouldEqual, uint64(2))
		})

		Convey("extend restarts the period from now", func() {
			s.begin()
			clock.Advance(400 * time.Millisecond)
			s.extend()

			clock.Advance(400 * time.Millisecond)
			So(s.active(), ShouldBeTrue)
		})

		Convey("settle stretches the window but stops at the limit", func() {
			s.begin()
			clock.Advance(400 * time.Millisecond)
			s.settle()
			So(s.until.Equal(clock.now.Add(testGrace)), ShouldBeTrue)

			clock.Advance(1500 * time.Millisecond)
			s.settle()
			clock.Advance(100 * time.Millisecond)
			So(s.active(), ShouldBeFalse)
		})

		Convey("extend never shortens the window", func() {
			s.begin()
			s.until = s.until.Add(time.Hour)
			until := s.until
			s.extend()
			So(s.until.Equal(until), ShouldBeTrue)
		})
	})
}
