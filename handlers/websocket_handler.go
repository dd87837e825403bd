package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Dosada05/school-tournament/realtime"
)

type WebSocketHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

// NewWebSocketHandler accepts connections from allowedOrigins only; an empty
// list or "*" accepts any origin.
func NewWebSocketHandler(hub *realtime.Hub, allowedOrigins []string) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || allowed["*"] || origin == "" || allowed[origin]
			},
		},
	}
}

// ServeWs streams schedule events of one tournament.
// Clients connect to /ws/tournaments/{tournamentID}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the client.
		requestLogger(r).Warn("websocket upgrade failed", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return
	}

	client := realtime.NewClient(h.hub, conn, realtime.TournamentRoom(tournamentID))
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
