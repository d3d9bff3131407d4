// Package youtube turns pasted links into the 11-character video identifiers the relay
// queues, and identifiers back into URLs the player can open.
package youtube

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/watchroom/watchroom/util"
)

// ErrNoVideoID is returned when a link carries no recognisable identifier.
var ErrNoVideoID = errors.New("no video id found")

var (
	linkPattern = regexp.MustCompile(
		`(?:youtube(?:-nocookie)?\.com/(?:(?:v|e|embed|shorts|live)/|[^/]+/.+/|.*[?&]v=)|youtu\.be/)(?P<id>[A-Za-z0-9_-]{11})(?:[^A-Za-z0-9_-]|$)`,
	)
	bareID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// ExtractID returns the video identifier of a watch, short, embed or youtu.be link. A bare
// identifier is accepted as is.
func ExtractID(link string) (string, error) {
	link = strings.TrimSpace(link)
	if bareID.MatchString(link) {
		return link, nil
	}

	if id, ok := util.ReGroups(linkPattern, link)["id"]; ok {
		return id, nil
	}

	return "", fmt.Errorf("%w in %q", ErrNoVideoID, link)
}

// WatchURL is the canonical page for id, which mpv resolves through its ytdl hook.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// PlaceholderTitle is the title queued with a freshly added video.
func PlaceholderTitle(id string) string {
	return "Video: " + id
}
