package cmd

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/watchroom/watchroom/filesystem"
	"github.com/watchroom/watchroom/history"
	"github.com/watchroom/watchroom/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestParseValue(t *testing.T) {
	Convey("Values are parsed by the type of their default", t, func() {
		v, err := parseValue(key.SyncSeekThreshold, []string{"2.5"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 2.5)

		v, err = parseValue(key.HistorySaveOnJoin, []string{"false"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, false)

		v, err = parseValue(key.RelayURL, []string{"wss://relay.example.com/ws"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, "wss://relay.example.com/ws")

		Convey("Durations must parse", func() {
			v, err := parseValue(key.SyncGrace, []string{"750ms"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "750ms")

			_, err = parseValue(key.SyncGrace, []string{"soon"})
			So(err, ShouldNotBeNil)
		})

		Convey("Malformed values are rejected", func() {
			_, err := parseValue(key.SyncSeekThreshold, []string{"far"})
			So(err, ShouldNotBeNil)

			_, err = parseValue(key.LogsWrite, []string{"maybe"})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestUnknownKey(t *testing.T) {
	Convey("An unknown key suggests the closest one", t, func() {
		err := errUnknownKey("sync.grase")
		So(err.Error(), ShouldContainSubstring, key.SyncGrace)
	})
}

func TestNewRoomName(t *testing.T) {
	Convey("Generated room names are short and distinct", t, func() {
		a, b := newRoomName(), newRoomName()
		So(strings.HasPrefix(a, "room-"), ShouldBeTrue)
		So(len(a), ShouldEqual, len("room-")+5)
		So(a, ShouldNotEqual, b)
	})
}

func TestPayloads(t *testing.T) {
	Convey("Every event has a payload type", t, func() {
		So(len(payloads), ShouldEqual, 8)
	})
}

func TestForgetRoom(t *testing.T) {
	Convey("Given a room remembered on two relays", t, func() {
		So(history.Clear(), ShouldBeNil)
		So(history.Save("movie-night", "ws://relay/ws", "ana"), ShouldBeNil)
		So(history.Save("movie-night", "ws://other/ws", "ana"), ShouldBeNil)
		So(history.Save("lounge", "ws://relay/ws", "ana"), ShouldBeNil)

		Convey("Forgetting it drops both entries and keeps the rest", func() {
			removed, err := forgetRoom("movie-night")
			So(err, ShouldBeNil)
			So(removed, ShouldEqual, 2)

			rooms, err := history.Sorted()
			So(err, ShouldBeNil)
			So(rooms, ShouldHaveLength, 1)
			So(rooms[0].Room, ShouldEqual, "lounge")
		})

		Convey("Forgetting an unknown room fails", func() {
			_, err := forgetRoom("attic")
			So(err, ShouldNotBeNil)
		})
	})
}
