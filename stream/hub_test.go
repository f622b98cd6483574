package stream

import (
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Mefin-SR/FlowtrixGame/config"
	"github.com/Mefin-SR/FlowtrixGame/parameter"
	"github.com/Mefin-SR/FlowtrixGame/session"
	"github.com/Mefin-SR/FlowtrixGame/status"
)

func newTestHub(t *testing.T, cfg config.StreamConfig) (*Hub, *status.Registry, *httptest.Server) {
	t.Helper()
	reg := status.NewRegistry()
	hub := NewHub(cfg, reg, log.New(io.Discard, "", 0))
	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, reg, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	t.Cleanup(func() {
		conn.Close()
		if resp != nil {
			resp.Body.Close()
		}
	})
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if kind != websocket.BinaryMessage {
		t.Fatalf("message type = %d, want binary", kind)
	}
	f, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return f
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSubscriberReceivesHelloAndSnapshots(t *testing.T) {
	hub, reg, srv := newTestHub(t, config.StreamConfig{PublishEvery: 1, SendBuffer: 4})
	conn := dial(t, srv)

	hello := readFrame(t, conn)
	if hello.Kind != FrameHello {
		t.Fatalf("first frame kind = %q, want hello", hello.Kind)
	}
	if _, err := uuid.Parse(hello.ID); err != nil {
		t.Fatalf("hello id %q is not a uuid: %v", hello.ID, err)
	}
	if hub.Subscribers() != 1 {
		t.Fatalf("Subscribers() = %d, want 1", hub.Subscribers())
	}

	snap := session.Snapshot{
		Tick:   7,
		Score:  15,
		Runner: session.Body{Kind: "runner", X: 1, Z: 2, Yaw: 90},
		Coins:  []session.Body{{ID: 3, Kind: "coin", Z: 4}},
	}
	if err := hub.Publish(snap); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	f := readFrame(t, conn)
	if f.Kind != FrameSnapshot || f.Seq != 1 {
		t.Fatalf("frame = %s seq %d, want snapshot seq 1", f.Kind, f.Seq)
	}
	if f.Snapshot == nil || f.Snapshot.Score != 15 || f.Snapshot.Runner.Yaw != 90 || len(f.Snapshot.Coins) != 1 {
		t.Fatalf("snapshot payload = %+v", f.Snapshot)
	}
	if got := reg.Ints.Get("stream.published").Load(); got != 1 {
		t.Errorf("stream.published = %d, want 1", got)
	}
}

func TestOfferPublishesOnInterval(t *testing.T) {
	hub := NewHub(config.StreamConfig{PublishEvery: 6, SendBuffer: 1}, nil, log.New(io.Discard, "", 0))
	defer hub.Close()

	for _, tt := range []struct {
		tick uint64
		want bool
	}{
		{5, false},
		{6, true},
		{7, false},
		{12, true},
	} {
		got, err := hub.Offer(session.Snapshot{Tick: tt.tick})
		if err != nil {
			t.Fatalf("Offer(%d): %v", tt.tick, err)
		}
		if got != tt.want {
			t.Errorf("Offer(tick %d) = %v, want %v", tt.tick, got, tt.want)
		}
	}
}

func TestSlowSubscriberDropsFrames(t *testing.T) {
	reg := status.NewRegistry()
	hub := NewHub(config.StreamConfig{PublishEvery: 1, SendBuffer: 1}, reg, log.New(io.Discard, "", 0))
	sub := &subscriber{id: uuid.New(), send: make(chan []byte, 1)}
	if !hub.register(sub) {
		t.Fatal("register refused on open hub")
	}

	for i := 0; i < 3; i++ {
		if err := hub.Publish(session.Snapshot{Tick: uint64(i)}); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}
	if got := reg.Ints.Get("stream.dropped").Load(); got != 2 {
		t.Fatalf("stream.dropped = %d, want 2", got)
	}
	f, err := Decode(<-sub.send)
	if err != nil {
		t.Fatal(err)
	}
	if f.Seq != 1 {
		t.Fatalf("kept frame seq = %d, want the oldest (1)", f.Seq)
	}
}

func TestDisconnectUnregisters(t *testing.T) {
	hub, reg, srv := newTestHub(t, config.StreamConfig{PublishEvery: 1, SendBuffer: 4})
	conn := dial(t, srv)
	readFrame(t, conn)

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	waitFor(t, "unregister", func() bool {
		return hub.Subscribers() == 0
	})
	if got := reg.Ints.Get("stream.subscribers").Load(); got != 0 {
		t.Fatalf("stream.subscribers = %d, want 0", got)
	}
	if err := hub.Publish(session.Snapshot{}); err != nil {
		t.Fatalf("Publish with no subscribers: %v", err)
	}
}

func TestCloseEndsStreams(t *testing.T) {
	hub, _, srv := newTestHub(t, config.StreamConfig{PublishEvery: 1, SendBuffer: 4})
	conn := dial(t, srv)
	readFrame(t, conn)

	hub.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("read after Close = %v, want normal closure", err)
	}
	if err := hub.Publish(session.Snapshot{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("Publish after Close = %v, want ErrClosed", err)
	}

	// late clients are turned away
	late := dial(t, srv)
	late.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := late.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
				t.Fatalf("late client error = %v, want going away", err)
			}
			break
		}
	}
}

func TestServeHTTPRejectsPlainRequests(t *testing.T) {
	hub := NewHub(config.StreamConfig{}, nil, log.New(io.Discard, "", 0))
	defer hub.Close()
	rec := httptest.NewRecorder()
	hub.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stream", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if hub.Subscribers() != 0 {
		t.Fatal("plain request registered a subscriber")
	}
}

func TestServerServesStreamPath(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	hub := NewHub(config.StreamConfig{PublishEvery: 1, SendBuffer: 4}, nil, logger)
	srv := NewServer(hub, "127.0.0.1:0", logger)

	if err := srv.Start(); err == nil {
		t.Fatal("Start before Init accepted")
	}
	if err := srv.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer srv.Stop()

	url := "ws://" + srv.Addr().String() + parameter.StreamPath
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	defer conn.Close()
	if resp != nil {
		defer resp.Body.Close()
	}
	if f := readFrame(t, conn); f.Kind != FrameHello {
		t.Fatalf("first frame = %q", f.Kind)
	}

	if err := srv.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := srv.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	if err := hub.Publish(session.Snapshot{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("Publish after Stop = %v", err)
	}
}
