package protocol

// PlayState is the room-wide play/pause flag.
type PlayState string

const (
	Playing PlayState = "PLAYING"
	Paused  PlayState = "PAUSED"
)

// NoSelection is the current index of a room with nothing selected.
const NoSelection = -1

// QueueEntry is one video in the shared queue. VideoID is an opaque 11-character
// identifier; repeats are allowed.
type QueueEntry struct {
	VideoID string `json:"id" jsonschema:"description=11-character external video identifier."`
	Title   string `json:"title" jsonschema:"description=Display title."`
}

// PlaybackState is a participant's cached view of the room. The relay owns the
// authoritative copy; the cache is overwritten by the next relay message.
type PlaybackState struct {
	Queue        []QueueEntry
	CurrentIndex int
	PlayState    PlayState
	Position     float64
}

// NewPlaybackState returns the state of an empty room.
func NewPlaybackState() PlaybackState {
	return PlaybackState{CurrentIndex: NoSelection, PlayState: Paused}
}

// ValidIndex reports whether i addresses an entry of the queue.
func (s PlaybackState) ValidIndex(i int) bool {
	return i >= 0 && i < len(s.Queue)
}

// NowPlaying is CurrentIndex when it addresses a queue entry and NoSelection otherwise.
func (s PlaybackState) NowPlaying() int {
	if s.ValidIndex(s.CurrentIndex) {
		return s.CurrentIndex
	}
	return NoSelection
}

// Current returns the selected entry, if any.
func (s PlaybackState) Current() (QueueEntry, bool) {
	if i := s.NowPlaying(); i != NoSelection {
		return s.Queue[i], true
	}
	return QueueEntry{}, false
}

// Clone copies the queue so the result can be handed to another goroutine.
func (s PlaybackState) Clone() PlaybackState {
	c := s
	c.Queue = append([]QueueEntry(nil), s.Queue...)
	return c
}
