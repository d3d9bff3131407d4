package hub

import (
	"encoding/json"
	"net/http"

	"github.com/samber/lo"
	"github.com/watchroom/watchroom/log"
	"github.com/watchroom/watchroom/protocol"
)

// RoomStatus is one room as listed by /rooms.
type RoomStatus struct {
	Room              string             `json:"room"`
	Users             []string           `json:"users"`
	Queued            int                `json:"queued"`
	CurrentVideoIndex int                `json:"current_video_index"`
	State             protocol.PlayState `json:"state"`
	Time              float64            `json:"time"`
}

// Status lists every known room with its current playback state.
func (h *Hub) Status() []RoomStatus {
	return lo.FilterMap(h.Rooms(), func(name string, _ int) (RoomStatus, bool) {
		snapshot, ok := h.Snapshot(name)
		if !ok {
			return RoomStatus{}, false
		}
		return RoomStatus{
			Room:              name,
			Users:             snapshot.Users,
			Queued:            len(snapshot.Queue),
			CurrentVideoIndex: snapshot.CurrentVideoIndex,
			State:             snapshot.State,
			Time:              snapshot.Time,
		}, true
	})
}

func (h *Hub) serveRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.Status()); err != nil {
		log.Warnf("encode room status: %v", err)
	}
}
