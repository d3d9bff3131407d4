package util

import (
	"regexp"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/watchroom/watchroom/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "viewer", "viewers"), ShouldEqual, "1 viewer")
		So(Quantify(3, "viewer", "viewers"), ShouldEqual, "3 viewers")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("paused"), ShouldEqual, "Paused")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestReGroups(t *testing.T) {
	Convey("ReGroups", t, func() {
		re := regexp.MustCompile(`(?P<room>\w+)@(?P<host>\w+)`)
		groups := ReGroups(re, "movies@relay")
		So(groups["room"], ShouldEqual, "movies")
		So(groups["host"], ShouldEqual, "relay")
		So(ReGroups(re, "nothing"), ShouldBeEmpty)
	})
}

func TestMaxMinClamp(t *testing.T) {
	Convey("Max/Min/Clamp", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Min(1, 5, 2), ShouldEqual, 1)
		So(Clamp(7, 0, 3), ShouldEqual, 3)
		So(Clamp(-2, 0, 3), ShouldEqual, 0)
		So(Clamp(2.5, 0.0, 3.0), ShouldEqual, 2.5)
	})
}

func TestDelete(t *testing.T) {
	Convey("Given a directory with a file", t, func() {
		fs := filesystem.API()
		So(fs.MkdirAll("/tmp/watchroom/sockets", 0o755), ShouldBeNil)
		So(fs.WriteFile("/tmp/watchroom/sockets/a.sock", []byte{}, 0o644), ShouldBeNil)

		Convey("Delete removes the tree", func() {
			So(Delete("/tmp/watchroom"), ShouldBeNil)
			So(lo.Must(fs.Exists("/tmp/watchroom")), ShouldBeFalse)
		})
	})
}
