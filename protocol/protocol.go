// Package protocol defines the relay message contract shared by room participants and
// the relay: event names, payloads, and the playback state they describe.
//
// Every websocket frame is a JSON Envelope {"event": "...", "data": {...}}.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Outbound events, client to relay.
const (
	EventJoin              = "join"
	EventAddToQueue        = "add_to_queue"
	EventPlaySpecificVideo = "play_specific_video"
	EventPlayerEvent       = "player_event"
)

// Inbound events, relay to client.
const (
	EventSyncState      = "sync_state"
	EventStateChange    = "state_change"
	EventQueueUpdate    = "queue_update"
	EventUserListUpdate = "user_list_update"
)

// Action is the kind carried by player_event and state_change.
type Action string

const (
	ActionLoadVideo  Action = "load_video"
	ActionPlay       Action = "play"
	ActionPause      Action = "pause"
	ActionSeek       Action = "seek"
	ActionVideoEnded Action = "video_ended"
	ActionQueueEnded Action = "queue_ended"
)

// Envelope is one relay frame.
type Envelope struct {
	Event string          `json:"event" jsonschema:"description=Event name such as sync_state or player_event."`
	Data  json.RawMessage `json:"data,omitempty" jsonschema:"description=Event payload; its shape depends on event."`
}

// NewEnvelope marshals payload into an envelope for event.
func NewEnvelope(event string, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s: %w", event, err)
	}
	return Envelope{Event: event, Data: data}, nil
}

// MustEnvelope is NewEnvelope for payloads that cannot fail to marshal.
func MustEnvelope(event string, payload any) Envelope {
	env, err := NewEnvelope(event, payload)
	if err != nil {
		panic(err)
	}
	return env
}

// Decode unmarshals the payload into v. Fields absent from the payload keep the values
// v already holds, which is how callers express defaults.
func (e Envelope) Decode(v any) error {
	if len(e.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode %s: %w", e.Event, err)
	}
	return nil
}

func (e Envelope) String() string {
	return fmt.Sprintf("%s %s", e.Event, e.Data)
}
