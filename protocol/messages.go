package protocol

// Join announces a participant. Username is optional.
type Join struct {
	Room     string `json:"room"`
	Username string `json:"username,omitempty"`
}

// AddToQueue asks the relay to append a video.
type AddToQueue struct {
	Room       string `json:"room"`
	VideoID    string `json:"video_id"`
	VideoTitle string `json:"video_title"`
}

// PlaySpecificVideo asks the relay to switch to a queue entry.
type PlaySpecificVideo struct {
	Room  string `json:"room"`
	Index int    `json:"index"`
}

// PlayerEvent reports a local player change. Time is absent for video_ended.
type PlayerEvent struct {
	Room  string   `json:"room"`
	Event Action   `json:"event" jsonschema:"enum=play,enum=pause,enum=seek,enum=video_ended"`
	Time  *float64 `json:"time,omitempty"`

	// CurrentVideoIndex is the entry that ended. Only set on video_ended.
	CurrentVideoIndex *int `json:"current_video_index,omitempty"`
}

// SyncState is the full room snapshot sent on join and reconnect.
type SyncState struct {
	Queue             []QueueEntry `json:"queue"`
	CurrentVideoIndex int          `json:"current_video_index"`
	State             PlayState    `json:"state" jsonschema:"enum=PLAYING,enum=PAUSED"`
	Time              float64      `json:"time"`
	Users             []string     `json:"users,omitempty"`
}

// StateChange is an incremental playback event. Optional fields are pointers or empty
// strings so a receiver can tell absence from a zero value.
type StateChange struct {
	Event             Action    `json:"event" jsonschema:"enum=load_video,enum=play,enum=pause,enum=seek,enum=video_ended,enum=queue_ended"`
	Time              *float64  `json:"time,omitempty"`
	State             PlayState `json:"state,omitempty"`
	CurrentVideoIndex *int      `json:"current_video_index,omitempty"`
	VideoID           string    `json:"video_id,omitempty"`
}

// QueueUpdate carries the whole queue after a mutation.
type QueueUpdate struct {
	Queue []QueueEntry `json:"queue"`
}

// UserListUpdate carries the participant names of a room.
type UserListUpdate struct {
	Users []string `json:"users"`
}

// Seconds returns a pointer to t for optional time fields.
func Seconds(t float64) *float64 {
	return &t
}

// Index returns a pointer to i for optional index fields.
func Index(i int) *int {
	return &i
}

// SyncState decodes a sync_state payload; a missing index means nothing is selected.
func (e Envelope) SyncState() (SyncState, error) {
	msg := SyncState{CurrentVideoIndex: NoSelection, State: Paused}
	err := e.Decode(&msg)
	return msg, err
}

// StateChange decodes a state_change payload.
func (e Envelope) StateChange() (StateChange, error) {
	var msg StateChange
	err := e.Decode(&msg)
	return msg, err
}

// QueueUpdate decodes a queue_update payload.
func (e Envelope) QueueUpdate() (QueueUpdate, error) {
	var msg QueueUpdate
	err := e.Decode(&msg)
	return msg, err
}

// UserListUpdate decodes a user_list_update payload.
func (e Envelope) UserListUpdate() (UserListUpdate, error) {
	var msg UserListUpdate
	err := e.Decode(&msg)
	return msg, err
}
