package log

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/watchroom/watchroom/filesystem"
	"github.com/watchroom/watchroom/key"
	"github.com/watchroom/watchroom/where"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given logs.write is disabled", t, func() {
		viper.Set(key.LogsWrite, false)

		Convey("Setup leaves logging off", func() {
			So(Setup(), ShouldBeNil)
			So(Enabled(), ShouldBeFalse)
		})
	})

	Convey("Given logs.write is enabled", t, func() {
		viper.Set(key.LogsWrite, true)
		viper.Set(key.LogsLevel, "debug")
		defer viper.Set(key.LogsWrite, false)

		Convey("Setup creates today's log file", func() {
			So(Setup(), ShouldBeNil)
			So(Enabled(), ShouldBeTrue)

			path := filepath.Join(where.Logs(), time.Now().Format("2006-01-02")+".log")
			So(lo.Must(filesystem.API().Exists(path)), ShouldBeTrue)

			Infof("room=%s joined", "movies")
			content := lo.Must(filesystem.API().ReadFile(path))
			So(string(content), ShouldContainSubstring, "room=movies joined")
		})
	})
}
