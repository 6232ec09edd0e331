package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/av2bridge/internal/device"
	"github.com/muurk/av2bridge/internal/logging"
	"github.com/muurk/av2bridge/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Maximum command message size allowed from peer
	maxMessageSize = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The monitor API is LAN-only and unauthenticated; origin checks
	// would only break the TUI.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event is a message pushed to WebSocket clients.
type Event struct {
	Type  string    `json:"type"`
	State stateView `json:"state"`
}

// Command is a control message received from a WebSocket client.
type Command struct {
	Op    string `json:"op"`
	On    bool   `json:"on,omitempty"`
	Level int    `json:"level,omitempty"`
	Input string `json:"input,omitempty"`
}

// hub fans state-change events out to connected WebSocket clients in the
// order they were produced.
type hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan Event
	events  chan Event
	done    chan struct{}
}

func newHub() *hub {
	return &hub{
		clients: make(map[*websocket.Conn]chan Event),
		events:  make(chan Event, 64),
		done:    make(chan struct{}),
	}
}

func (h *hub) run() {
	for {
		select {
		case <-h.done:
			return
		case ev := <-h.events:
			h.mu.Lock()
			for conn, ch := range h.clients {
				select {
				case ch <- ev:
				default:
					// Slow client: drop the event rather than stall
					// everyone else. The next event resyncs it.
					logging.Warn("Dropping event for slow client",
						zap.String("remote_addr", conn.RemoteAddr().String()),
					)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *hub) stop() {
	close(h.done)
}

func (h *hub) broadcastState(st device.State) {
	select {
	case h.events <- Event{Type: "state", State: viewOf(st)}:
	case <-h.done:
	}
}

func (h *hub) add(conn *websocket.Conn) chan Event {
	ch := make(chan Event, 16)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()
	return ch
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}
	remoteAddr := conn.RemoteAddr().String()
	logging.Info("Monitor client connected", zap.String("remote_addr", remoteAddr))

	events := s.hub.add(conn)
	defer func() {
		s.hub.remove(conn)
		_ = conn.Close()
		logging.Info("Monitor client disconnected", zap.String("remote_addr", remoteAddr))
	}()

	// Initial snapshot so clients render immediately.
	snapshot := Event{Type: "state", State: viewOf(s.facade.State())}
	if err := writeEvent(conn, snapshot); err != nil {
		return
	}

	go s.readCommands(conn, remoteAddr)

	for ev := range events {
		if err := writeEvent(conn, ev); err != nil {
			return
		}
	}
}

func writeEvent(conn *websocket.Conn, ev Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(ev)
}

// readCommands pumps control messages from one client into the facade.
func (s *Server) readCommands(conn *websocket.Conn, remoteAddr string) {
	conn.SetReadLimit(maxMessageSize)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			logging.Warn("Ignoring malformed command",
				zap.String("remote_addr", remoteAddr),
				zap.Error(err),
			)
			continue
		}

		s.dispatchCommand(cmd, remoteAddr)
	}
}

func (s *Server) dispatchCommand(cmd Command, remoteAddr string) {
	logging.Debug("Monitor command",
		zap.String("remote_addr", remoteAddr),
		zap.String("op", cmd.Op),
	)

	var err error
	switch cmd.Op {
	case "set_power":
		s.facade.SetPower(cmd.On)
	case "set_mute":
		s.facade.SetMute(cmd.On)
	case "set_volume":
		err = s.facade.SetVolume(cmd.Level)
	case "volume_up":
		s.facade.VolumeUp()
	case "volume_down":
		s.facade.VolumeDown()
	case "select_input":
		err = s.facade.SelectInput(protocol.InputSource(cmd.Input))
	default:
		logging.Warn("Unknown monitor command",
			zap.String("remote_addr", remoteAddr),
			zap.String("op", cmd.Op),
		)
	}

	if err != nil {
		logging.Warn("Monitor command rejected",
			zap.String("remote_addr", remoteAddr),
			zap.String("op", cmd.Op),
			zap.Error(err),
		)
	}
}
