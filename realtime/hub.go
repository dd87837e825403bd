package realtime

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// Event types pushed to dashboards watching a tournament.
const (
	EventScheduleGenerated       = "SCHEDULE_GENERATED"
	EventPhaseGenerated          = "PHASE_GENERATED"
	EventEliminationsReorganized = "ELIMINATIONS_REORGANIZED"
	EventEliminationsReset       = "ELIMINATIONS_RESET"
)

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

// Broadcaster is what services need from the hub.
type Broadcaster interface {
	BroadcastToTournament(tournamentID int, eventType string, payload interface{})
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	room   string
	closed bool
	mu     sync.Mutex
}

func NewClient(hub *Hub, conn *websocket.Conn, room string) *Client {
	return &Client{hub: hub, conn: conn, send: make(chan []byte, sendBuffer), room: room}
}

// Hub keeps one room per tournament. Registration goes through channels so
// room bookkeeping happens on the Run goroutine only.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
}

var _ Broadcaster = (*Hub)(nil)

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func TournamentRoom(tournamentID int) string {
	return "tournament:" + strconv.Itoa(tournamentID)
}

func (h *Hub) Register(c *Client) {
	h.register <- c
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.logger.Debug("websocket client registered", slog.String("room", client.room), slog.Int("clients", len(h.rooms[client.room])))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.room]; ok && clients[client] {
				client.close()
				delete(clients, client)
				if len(clients) == 0 {
					delete(h.rooms, client.room)
				}
				h.logger.Debug("websocket client unregistered", slog.String("room", client.room))
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToTournament sends an event to every client watching the
// tournament. Slow clients are skipped, never waited on.
func (h *Hub) BroadcastToTournament(tournamentID int, eventType string, payload interface{}) {
	room := TournamentRoom(tournamentID)
	msg, err := json.Marshal(Message{Type: eventType, Payload: payload, RoomID: room})
	if err != nil {
		h.logger.Error("failed to marshal websocket message", slog.String("room", room), slog.Any("error", err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[room] {
		client.mu.Lock()
		if !client.closed {
			select {
			case client.send <- msg:
			default:
				h.logger.Warn("websocket client buffer full, dropping message", slog.String("room", room), slog.String("type", eventType))
			}
		}
		client.mu.Unlock()
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		close(c.send)
		c.closed = true
	}
}

// ReadPump only drains control frames; clients do not send commands.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { return c.conn.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read error", slog.String("room", c.room), slog.Any("error", err))
			}
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.logger.Warn("websocket write failed", slog.String("room", c.room), slog.Any("error", err))
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ClientCount returns how many connections watch the tournament.
func (h *Hub) ClientCount(tournamentID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[TournamentRoom(tournamentID)])
}
