package version

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Comparing versions", t, func() {
		cases := []struct {
			a, b string
			want int
		}{
			{"0.3.0", "0.3.0", 0},
			{"v0.4.0", "0.3.9", 1},
			{"0.3.0", "1.0.0", -1},
			{"1.2.10", "1.2.9", 1},
		}

		for _, c := range cases {
			got, err := Compare(c.a, c.b)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, c.want)
		}

		Convey("Malformed versions are rejected", func() {
			_, err := Compare("latest", "0.3.0")
			So(err, ShouldNotBeNil)
		})
	})
}
