package lockstep

import "time"

// suppressor is the window during which player notifications are presumed to be the
// effect of a remote change. It is open while now < until.
type suppressor struct {
	grace time.Duration
	limit time.Duration
	now   func() time.Time

	started time.Time
	until   time.Time

	// generation counts applied remote changes and tags suppressed notifications in logs.
	generation uint64
}

func newSuppressor(grace, limit time.Duration, now func() time.Time) *suppressor {
	return &suppressor{grace: grace, limit: limit, now: now}
}

// begin opens the window for a new remote change and returns its generation.
func (s *suppressor) begin() uint64 {
	s.generation++
	s.started = s.now()
	s.extend()
	return s.generation
}

// extend restarts the grace period from now. Called once the player commands of a
// remote change have been issued, so slow commands do not eat into the window.
func (s *suppressor) extend() {
	s.push(s.now().Add(s.grace))
}

// settle restarts the grace period like extend, but never past limit after begin.
func (s *suppressor) settle() {
	until := s.now().Add(s.grace)
	if ceiling := s.started.Add(s.limit); until.After(ceiling) {
		until = ceiling
	}
	s.push(until)
}

func (s *suppressor) push(until time.Time) {
	if until.After(s.until) {
		s.until = until
	}
}

func (s *suppressor) active() bool {
	return s.now().Before(s.until)
}
