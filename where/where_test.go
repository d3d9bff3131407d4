package where

import (
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/watchroom/watchroom/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Logs() lives under Config()", func() {
			path := Logs()
			So(filepath.Dir(path), ShouldEqual, Config())
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("History() is a file inside Config()", func() {
			So(filepath.Base(History()), ShouldEqual, "rooms.json")
			So(filepath.Dir(History()), ShouldEqual, Config())
		})

		Convey("Temp()", func() {
			So(lo.Must(filesystem.API().IsDir(Temp())), ShouldBeTrue)
		})
	})

	Convey("Given WATCHROOM_CONFIG_PATH", t, func() {
		t.Setenv(EnvConfigPath, "/custom/watchroom")

		Convey("Config() uses it verbatim", func() {
			So(Config(), ShouldEqual, "/custom/watchroom")
			So(lo.Must(filesystem.API().IsDir("/custom/watchroom")), ShouldBeTrue)
		})
	})
}
