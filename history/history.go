// Package history remembers the rooms this user joined, so they can be rejoined later.
package history

import (
	"sort"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/watchroom/watchroom/filesystem"
	"github.com/watchroom/watchroom/where"
)

var cacher = gache.New[map[string]*SavedRoom](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// now is replaced in tests.
var now = time.Now

// Get returns every remembered room, keyed by room and relay.
func Get() (map[string]*SavedRoom, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*SavedRoom), nil
	}
	return cached, nil
}

// Save remembers that username joined room on relay, refreshing the join time of a known room.
func Save(room, relay, username string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	record := &SavedRoom{
		Room:     room,
		Relay:    relay,
		Username: username,
		JoinedAt: now(),
	}

	saved[record.encode()] = record
	return cacher.Set(saved)
}

// Remove forgets a room.
func Remove(room *SavedRoom) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, room.encode())
	return cacher.Set(saved)
}

// Clear forgets every room.
func Clear() error {
	return cacher.Set(make(map[string]*SavedRoom))
}

// Sorted returns the remembered rooms, most recently joined first.
func Sorted() ([]*SavedRoom, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	rooms := lo.Values(saved)
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].JoinedAt.After(rooms[j].JoinedAt)
	})
	return rooms, nil
}

// Last returns the most recently joined room, if any.
func Last() (mo.Option[*SavedRoom], error) {
	rooms, err := Sorted()
	if err != nil {
		return mo.None[*SavedRoom](), err
	}

	if len(rooms) == 0 {
		return mo.None[*SavedRoom](), nil
	}
	return mo.Some(rooms[0]), nil
}

// Filter returns the remembered rooms whose name fuzzily matches query, best match first.
// An empty query matches everything, most recent first.
func Filter(query string) ([]*SavedRoom, error) {
	rooms, err := Sorted()
	if err != nil || query == "" {
		return rooms, err
	}

	names := lo.Map(rooms, func(r *SavedRoom, _ int) string { return r.Room })
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Stable(ranks)

	return lo.Map(ranks, func(rank fuzzy.Rank, _ int) *SavedRoom {
		return rooms[rank.OriginalIndex]
	}), nil
}
