package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anupam-Sing-h/leadflow-crm/internal/entity"
)

func boardServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	upgrader := Upgrader(nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := entity.Identity{UserID: r.URL.Query().Get("user"), Role: entity.Role(r.URL.Query().Get("role"))}
		Serve(hub, &upgrader, w, r, id)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_FansOutByOwner(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub()
	go hub.Run(ctx)
	srv := boardServer(t, hub)

	admin := dial(t, srv, "user=admin-1&role=Admin")
	rep := dial(t, srv, "user=rep-1&role=SalesRep")
	require.Eventually(t, func() bool { return hub.Clients() == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.PublishBoardEvent(ctx, entity.BoardEvent{Action: entity.BoardLeadMoved, LeadID: "l-2", OwnerID: "rep-2", Status: "Won"}))
	require.NoError(t, hub.PublishBoardEvent(ctx, entity.BoardEvent{Action: entity.BoardLeadCreated, LeadID: "l-1", OwnerID: "rep-1"}))

	var ev entity.BoardEvent
	admin.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, admin.ReadJSON(&ev))
	assert.Equal(t, "l-2", ev.LeadID)
	require.NoError(t, admin.ReadJSON(&ev))
	assert.Equal(t, "l-1", ev.LeadID)

	rep.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, rep.ReadJSON(&ev))
	assert.Equal(t, "l-1", ev.LeadID, "reps only see their own leads")
	assert.Equal(t, entity.BoardLeadCreated, ev.Action)
}

func TestHub_DisconnectAndShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)
	srv := boardServer(t, hub)

	conn := dial(t, srv, "user=rep-1&role=SalesRep")
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-hub.done
	assert.NoError(t, hub.PublishBoardEvent(context.Background(), entity.BoardEvent{LeadID: "l-1"}), "publishing after shutdown is a no-op")
}

func TestUpgrader_CheckOrigin(t *testing.T) {
	u := Upgrader([]string{"https://crm.test"})
	req := httptest.NewRequest(http.MethodGet, "/ws/pipeline", nil)

	req.Header.Set("Origin", "https://crm.test")
	assert.True(t, u.CheckOrigin(req))
	req.Header.Set("Origin", "https://evil.test")
	assert.False(t, u.CheckOrigin(req))
	req.Header.Del("Origin")
	assert.True(t, u.CheckOrigin(req))

	assert.True(t, Upgrader(nil).CheckOrigin(req))
}
