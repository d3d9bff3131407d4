package history

import (
	"fmt"
	"time"
)

// SavedRoom is a room this user joined.
type SavedRoom struct {
	Room     string    `json:"room"`
	Relay    string    `json:"relay"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joined_at"`
}

// encode keys a room by relay so the same name on two relays is kept twice.
func (s *SavedRoom) encode() string {
	return fmt.Sprintf("%s (%s)", s.Room, s.Relay)
}

func (s *SavedRoom) String() string {
	if s.Username == "" {
		return s.encode()
	}
	return fmt.Sprintf("%s as %s", s.encode(), s.Username)
}
