package ws

import (
	"encoding/json"
	"time"

	"solar_tracker/internal/model"
	"solar_tracker/internal/simulator"
)

// Envelope wraps all WebSocket messages with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message type constants
const (
	// Client -> Server
	TypeSimStart    = "sim:start"
	TypeSimPause    = "sim:pause"
	TypeSimSetSpeed = "sim:set_speed"
	TypeSimSeek     = "sim:seek"

	// Server -> Client
	TypeSimState      = "sim:state"
	TypeRowUpdate     = "row:update"
	TypeSummaryUpdate = "summary:update"
	TypeDataLoaded    = "data:loaded"
)

// Client -> Server messages

type SetSpeedPayload struct {
	Speed float64 `json:"speed"`
}

type SeekPayload struct {
	Timestamp string `json:"timestamp"`
}

// Server -> Client messages

type SimStatePayload struct {
	Time    string  `json:"time"`
	Speed   float64 `json:"speed"`
	Running bool    `json:"running"`
}

type TimeRangeInfo struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DataLoadedPayload announces the simulated timeline to a fresh client,
// including any data-quality warnings the pipeline accumulated.
type DataLoadedPayload struct {
	TimeRange TimeRangeInfo   `json:"time_range"`
	Rows      int             `json:"rows"`
	Warnings  []model.Warning `json:"warnings,omitempty"`
}

func NewEnvelope(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}

func SimStateFromPlayer(s simulator.State) SimStatePayload {
	return SimStatePayload{
		Time:    s.Time.Format(time.RFC3339),
		Speed:   s.Speed,
		Running: s.Running,
	}
}
