package ws

import (
	"solar_tracker/internal/logging"
	"solar_tracker/internal/model"
	"solar_tracker/internal/simulator"
)

// Bridge implements simulator.Callback and broadcasts playback events to the
// WebSocket hub.
type Bridge struct {
	hub *Hub
	log logging.Logger
}

func NewBridge(hub *Hub, log logging.Logger) *Bridge {
	return &Bridge{hub: hub, log: log}
}

func (b *Bridge) OnState(s simulator.State) {
	msg, err := NewEnvelope(TypeSimState, SimStateFromPlayer(s))
	if err != nil {
		b.log.Errorf("marshaling sim state: %v", err)
		return
	}
	b.hub.Broadcast(msg)
}

func (b *Bridge) OnRow(r model.SimulationRow) {
	msg, err := NewEnvelope(TypeRowUpdate, r)
	if err != nil {
		b.log.Errorf("marshaling row: %v", err)
		return
	}
	b.hub.Broadcast(msg)
}

func (b *Bridge) OnSummary(s simulator.Summary) {
	msg, err := NewEnvelope(TypeSummaryUpdate, s)
	if err != nil {
		b.log.Errorf("marshaling summary: %v", err)
		return
	}
	b.hub.Broadcast(msg)
}
