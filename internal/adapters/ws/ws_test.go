package ws_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	router "github.com/7cAT-0805/FastTransfer/internal/adapters/http"
	"github.com/7cAT-0805/FastTransfer/internal/app"
	"github.com/7cAT-0805/FastTransfer/internal/app/orch"
	"github.com/7cAT-0805/FastTransfer/internal/config"
	"github.com/7cAT-0805/FastTransfer/pkg/metrics"
)

func newTestServer(t *testing.T) (*orch.Orchestrator, *httptest.Server) {
	t.Helper()
	o := orch.New(
		app.NewRegistry(),
		app.NewFileStore(1<<20),
		app.NewBinder(),
		app.OpenUploads{},
		metrics.New(prometheus.NewRegistry()),
	)
	cfg := &config.Config{
		Mode:         "release",
		Secret:       "test-secret",
		PingPeriod:   54 * time.Second,
		WriteTimeout: 5 * time.Second,
		RateLimit:    1000,
		RateWindow:   time.Minute,
	}
	srv := httptest.NewServer(router.SetupRouter(context.Background(), cfg, o))
	t.Cleanup(srv.Close)
	return o, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	if err := conn.WriteJSON(v); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func recv(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(3 * time.Second)); err != nil {
		t.Fatalf("set deadline: %v", err)
	}
	var m map[string]any
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatalf("read: %v", err)
	}
	return m
}

// recvType skips events until one of the wanted type arrives.
func recvType(t *testing.T, conn *websocket.Conn, typ string) map[string]any {
	t.Helper()
	for i := 0; i < 10; i++ {
		m := recv(t, conn)
		if m["type"] == typ {
			return m
		}
	}
	t.Fatalf("never received %q", typ)
	return nil
}

func TestJoinOverWebsocket(t *testing.T) {
	o, srv := newTestServer(t)
	room, err := o.CreateRoom()
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	host := dial(t, srv)
	send(t, host, map[string]any{"type": "joinRoom", "room": string(room.Code), "hostId": string(room.HostToken)})

	joined := recv(t, host)
	if joined["type"] != "roomJoined" || joined["isHost"] != true {
		t.Fatalf("host roomJoined: %v", joined)
	}
	count := recv(t, host)
	if count["type"] != "participantCountUpdate" || count["count"] != float64(1) {
		t.Fatalf("host count: %v", count)
	}

	guest := dial(t, srv)
	// Lowercase code goes through normalization.
	send(t, guest, map[string]any{"type": "joinRoom", "room": strings.ToLower(string(room.Code))})
	joined = recv(t, guest)
	if joined["type"] != "roomJoined" || joined["isHost"] != false {
		t.Fatalf("guest roomJoined: %v", joined)
	}
	count = recvType(t, host, "participantCountUpdate")
	if count["count"] != float64(2) {
		t.Fatalf("host count after guest join: %v", count)
	}
}

func TestJoinUnknownRoomOverWebsocket(t *testing.T) {
	_, srv := newTestServer(t)
	conn := dial(t, srv)
	send(t, conn, map[string]any{"type": "joinRoom", "room": "ZZZZ9999"})
	ev := recv(t, conn)
	if ev["type"] != "error" {
		t.Fatalf("expected error event, got %v", ev)
	}
}

func TestHostLeaveClosesRoomOverWebsocket(t *testing.T) {
	o, srv := newTestServer(t)
	room, err := o.CreateRoom()
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	host := dial(t, srv)
	send(t, host, map[string]any{"type": "joinRoom", "room": string(room.Code), "hostId": string(room.HostToken)})
	recvType(t, host, "roomJoined")

	guest := dial(t, srv)
	send(t, guest, map[string]any{"type": "joinRoom", "room": string(room.Code)})
	recvType(t, guest, "roomJoined")

	if err := host.Close(); err != nil {
		t.Fatalf("close host: %v", err)
	}

	closed := recvType(t, guest, "roomClosed")
	if closed["reason"] != "host left" {
		t.Fatalf("roomClosed reason: %v", closed)
	}

	// The registry entry must be gone once the guest has been told.
	deadline := time.Now().Add(3 * time.Second)
	for o.Registry.Exists(room.Code) {
		if time.Now().After(deadline) {
			t.Fatalf("room still registered after host left")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestShareMessageOverWebsocket(t *testing.T) {
	o, srv := newTestServer(t)
	room, err := o.CreateRoom()
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	a := dial(t, srv)
	send(t, a, map[string]any{"type": "joinRoom", "room": string(room.Code), "hostId": string(room.HostToken)})
	recvType(t, a, "roomJoined")

	b := dial(t, srv)
	send(t, b, map[string]any{"type": "joinRoom", "room": string(room.Code)})
	recvType(t, b, "roomJoined")

	send(t, a, map[string]any{
		"type":    "shareMessage",
		"message": map[string]any{"type": "text", "content": "hello", "senderName": "alice"},
	})
	ev := recvType(t, b, "messageShared")
	raw, err := json.Marshal(ev["message"])
	if err != nil {
		t.Fatalf("remarshal: %v", err)
	}
	var msg struct {
		Kind    string `json:"type"`
		Content string `json:"content"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("unmarshal message: %v", err)
	}
	if msg.Kind != "text" || msg.Content != "hello" || msg.ID == "" {
		t.Fatalf("relayed message: %+v", msg)
	}
}

func TestPingPong(t *testing.T) {
	_, srv := newTestServer(t)
	conn := dial(t, srv)
	send(t, conn, map[string]any{"type": "ping"})
	if ev := recv(t, conn); ev["type"] != "pong" {
		t.Fatalf("expected pong, got %v", ev)
	}
}
