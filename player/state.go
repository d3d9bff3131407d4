package player

// tracker folds mpv's observed properties into a single coarse State.
type tracker struct {
	idle    bool
	eof     bool
	paused  bool
	seeking bool
	caching bool
	loading bool

	last State
}

func newTracker() *tracker {
	return &tracker{idle: true, last: Unstarted}
}

// observe applies one property change or event and returns the resulting state,
// with changed set only when it differs from the last state returned.
func (t *tracker) observe(name string, data any) (state State, changed bool) {
	flag, _ := data.(bool)

	switch name {
	case "idle-active":
		t.idle = flag
	case "eof-reached":
		t.eof = flag
	case "pause":
		t.paused = flag
	case "seeking":
		t.seeking = flag
	case "paused-for-cache":
		t.caching = flag
	case "start-file":
		t.loading = true
		t.eof = false
	case "playback-restart", "end-file":
		t.loading = false
	default:
		return t.last, false
	}

	state = t.state()
	if state == t.last {
		return state, false
	}

	t.last = state
	return state, true
}

func (t *tracker) state() State {
	switch {
	case t.idle:
		return Unstarted
	// keep-open pauses on the last frame, so the end wins over pause
	case t.eof:
		return Ended
	case t.loading, t.seeking, t.caching:
		return Buffering
	case t.paused:
		return Paused
	default:
		return Playing
	}
}
