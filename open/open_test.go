package open

import (
	"runtime"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/watchroom/watchroom/constant"
)

func TestCommand(t *testing.T) {
	Convey("Given a URL", t, func() {
		url := "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
		cmd, ok := command(url)

		switch runtime.GOOS {
		case constant.Linux, constant.Darwin, constant.Windows, constant.Android:
			Convey("The platform opener receives it as the last argument", func() {
				So(ok, ShouldBeTrue)
				So(cmd.Args[len(cmd.Args)-1], ShouldEqual, url)
			})
		default:
			Convey("Unknown platforms are refused", func() {
				So(ok, ShouldBeFalse)
			})
		}
	})
}
