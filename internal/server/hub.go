package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/heliodyne/orrery-simulator/internal/logging"
	"github.com/heliodyne/orrery-simulator/internal/observability"
	"github.com/heliodyne/orrery-simulator/state"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The simulation feed is same-origin agnostic; it carries no
	// credentials or persisted state.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Controls is the command surface the hub drives on behalf of connected
// clients. SimulationEngine satisfies it.
type Controls interface {
	FocusOn(bodyID string, durationMs, nowMs float64) (bool, error)
	ResetView(durationMs, nowMs float64) bool
	SetPaused(paused bool)
	TogglePause() bool
	SetTimeSpeed(speed float64)
}

// command is the inbound client message shape.
type command struct {
	Type   string  `json:"type"`
	BodyID string  `json:"body_id,omitempty"`
	Value  float64 `json:"value,omitempty"`
}

type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex // serializes writes; gorilla allows one writer at a time
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub upgrades WebSocket clients, streams every published frame snapshot
// to them, and dispatches their camera/time commands to the engine.
type Hub struct {
	store    *state.Store
	controls Controls
	log      logging.Logger
	metrics  *observability.SimCollector

	focusDurationMs float64
	unsubscribeFn   func()

	mu      sync.Mutex
	clients map[string]*client
}

// NewHub wires a hub against the frame store and the engine's control
// surface. It subscribes to the store immediately; the returned hub
// broadcasts every published frame until the store subscription is torn
// down with Close.
func NewHub(store *state.Store, controls Controls, focusDurationMs float64, log logging.Logger, metrics *observability.SimCollector) *Hub {
	if log == nil {
		log = logging.Noop()
	}
	h := &Hub{
		store:           store,
		controls:        controls,
		log:             log,
		metrics:         metrics,
		focusDurationMs: focusDurationMs,
		clients:         make(map[string]*client),
	}
	h.unsubscribeFn = store.Subscribe(h.broadcast)
	return h
}

// Close stops broadcasting and disconnects all clients.
func (h *Hub) Close() {
	if h.unsubscribeFn != nil {
		h.unsubscribeFn()
	}
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[string]*client)
	h.mu.Unlock()

	for _, c := range clients {
		_ = c.conn.Close()
	}
}

// HandleWS is the /ws endpoint: upgrade, send the latest frame right away
// so clients can draw before the next tick, then consume commands until
// the connection drops.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn(r.Context(), "websocket upgrade failed", logging.String("error", err.Error()))
		return
	}

	c := &client{id: uuid.NewString(), conn: conn}
	h.addClient(c)
	h.log.Info(r.Context(), "client connected",
		logging.String("session_id", c.id),
		logging.String("remote", conn.RemoteAddr().String()),
	)

	if err := c.writeJSON(h.store.Latest()); err != nil {
		h.removeClient(c)
		return
	}

	go h.readLoop(r.Context(), c)
}

func (h *Hub) addClient(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	n := len(h.clients)
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.Clients.Set(float64(n))
	}
}

func (h *Hub) removeClient(c *client) {
	h.mu.Lock()
	_, present := h.clients[c.id]
	delete(h.clients, c.id)
	n := len(h.clients)
	h.mu.Unlock()
	if present {
		_ = c.conn.Close()
		if h.metrics != nil {
			h.metrics.Clients.Set(float64(n))
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) broadcast(frame state.FrameSnapshot) {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if err := c.writeJSON(frame); err != nil {
			h.log.Debug(context.Background(), "dropping client on write failure",
				logging.String("session_id", c.id),
				logging.String("error", err.Error()),
			)
			h.removeClient(c)
		}
	}
}

func (h *Hub) readLoop(ctx context.Context, c *client) {
	defer h.removeClient(c)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			h.log.Info(ctx, "client disconnected", logging.String("session_id", c.id))
			return
		}

		var cmd command
		if err := json.Unmarshal(data, &cmd); err != nil {
			h.log.Warn(ctx, "malformed command",
				logging.String("session_id", c.id),
				logging.String("error", err.Error()),
			)
			continue
		}
		h.dispatch(ctx, c, cmd)
	}
}

// dispatch applies one client command. Focus/reset rejections while an
// animation runs are counted, not errored: the animator's drop-the-request
// debounce is the defined behaviour.
func (h *Hub) dispatch(ctx context.Context, c *client, cmd command) {
	nowMs := float64(time.Now().UnixNano()) / 1e6

	switch cmd.Type {
	case "focus":
		started, err := h.controls.FocusOn(cmd.BodyID, h.focusDurationMs, nowMs)
		switch {
		case err != nil:
			h.log.Warn(ctx, "focus request for unknown body",
				logging.String("session_id", c.id),
				logging.String("body_id", cmd.BodyID),
			)
			h.recordFocus(observability.FocusUnknownBody)
		case started:
			h.recordFocus(observability.FocusStarted)
		default:
			h.recordFocus(observability.FocusRejected)
		}
	case "reset":
		if h.controls.ResetView(h.focusDurationMs, nowMs) {
			h.recordFocus(observability.FocusStarted)
		} else {
			h.recordFocus(observability.FocusRejected)
		}
	case "pause":
		h.controls.SetPaused(true)
	case "resume":
		h.controls.SetPaused(false)
	case "toggle_pause":
		h.controls.TogglePause()
	case "speed":
		h.controls.SetTimeSpeed(cmd.Value)
	default:
		h.log.Warn(ctx, "unknown command type",
			logging.String("session_id", c.id),
			logging.String("type", cmd.Type),
		)
	}
}

func (h *Hub) recordFocus(outcome string) {
	if h.metrics != nil {
		h.metrics.RecordFocus(outcome)
	}
}
