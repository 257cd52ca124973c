package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/infra/realtime"
)

type RealtimeHandler struct {
	Hub      *realtime.Hub
	Upgrader websocket.Upgrader
}

func NewRealtimeHandler(hub *realtime.Hub, origins []string) *RealtimeHandler {
	return &RealtimeHandler{Hub: hub, Upgrader: realtime.Upgrader(origins)}
}

// Pipeline (GET /ws/pipeline) upgrades to the board event feed.
func (h *RealtimeHandler) Pipeline(w http.ResponseWriter, r *http.Request) {
	realtime.Serve(h.Hub, &h.Upgrader, w, r, identity(r))
}
