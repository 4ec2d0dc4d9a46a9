package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"solar_tracker/internal/logging"
	"solar_tracker/internal/simulator"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler manages WebSocket connections and routes messages to the player.
type Handler struct {
	hub    *Hub
	player *simulator.Player
	log    logging.Logger
}

func NewHandler(hub *Hub, player *simulator.Player, log logging.Logger) *Handler {
	return &Handler{hub: hub, player: player, log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Errorf("WebSocket upgrade: %v", err)
		return
	}

	client := &Client{
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	h.hub.Register(client)
	go client.writePump()

	h.sendDataLoaded(client)
	h.sendSimState(client)

	h.readPump(client)
}

func (h *Handler) readPump(c *Client) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Errorf("WebSocket read: %v", err)
			}
			return
		}

		h.handleMessage(msg)
	}
}

func (h *Handler) handleMessage(msg []byte) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		h.log.Warnf("invalid message: %v", err)
		return
	}

	switch env.Type {
	case TypeSimStart:
		h.player.Start()

	case TypeSimPause:
		h.player.Pause()

	case TypeSimSetSpeed:
		var p SetSpeedPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			h.log.Warnf("invalid set_speed payload: %v", err)
			return
		}
		h.player.SetSpeed(p.Speed)

	case TypeSimSeek:
		var p SeekPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			h.log.Warnf("invalid seek payload: %v", err)
			return
		}
		t, err := time.Parse(time.RFC3339, p.Timestamp)
		if err != nil {
			h.log.Warnf("invalid seek timestamp: %v", err)
			return
		}
		h.player.Seek(t)

	default:
		h.log.Warnf("unknown message type: %s", env.Type)
	}
}

func (h *Handler) dataLoadedMessage() ([]byte, error) {
	tr := h.player.TimeRange()
	payload := DataLoadedPayload{
		TimeRange: TimeRangeInfo{
			Start: tr.Start.Format(time.RFC3339),
			End:   tr.End.Format(time.RFC3339),
		},
		Rows:     h.player.Len(),
		Warnings: h.player.Warnings(),
	}
	return NewEnvelope(TypeDataLoaded, payload)
}

func (h *Handler) sendDataLoaded(c *Client) {
	msg, err := h.dataLoadedMessage()
	if err != nil {
		h.log.Errorf("creating data:loaded message: %v", err)
		return
	}

	select {
	case c.send <- msg:
	default:
	}
}

func (h *Handler) sendSimState(c *Client) {
	msg, err := NewEnvelope(TypeSimState, SimStateFromPlayer(h.player.State()))
	if err != nil {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}
