package stream

import (
	"errors"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Mefin-SR/FlowtrixGame/config"
	"github.com/Mefin-SR/FlowtrixGame/core"
	"github.com/Mefin-SR/FlowtrixGame/parameter"
	"github.com/Mefin-SR/FlowtrixGame/session"
	"github.com/Mefin-SR/FlowtrixGame/status"
)

const writeWait = 10 * time.Second

// ErrClosed is returned by Publish after Close
var ErrClosed = errors.New("stream: hub closed")

type subscriber struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() {
		close(s.send)
	})
}

// Hub fans encoded snapshots out to websocket subscribers
// Publishing never blocks the simulation: a subscriber whose backlog is full misses the frame
type Hub struct {
	logger   *log.Logger
	upgrader websocket.Upgrader
	every    uint64
	backlog  int

	mu     sync.Mutex
	subs   map[uuid.UUID]*subscriber
	seq    uint64
	closed bool

	statSubscribers *atomic.Int64
	statPublished   *atomic.Int64
	statDropped     *atomic.Int64
}

// NewHub creates a hub; reg and logger may be nil
func NewHub(cfg config.StreamConfig, reg *status.Registry, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	every := cfg.PublishEvery
	if every <= 0 {
		every = parameter.StreamPublishEvery
	}
	backlog := cfg.SendBuffer
	if backlog <= 0 {
		backlog = parameter.StreamSendBuffer
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		every:           uint64(every),
		backlog:         backlog,
		subs:            make(map[uuid.UUID]*subscriber),
		statSubscribers: reg.Ints.Get("stream.subscribers"),
		statPublished:   reg.Ints.Get("stream.published"),
		statDropped:     reg.Ints.Get("stream.dropped"),
	}
}

// ServeHTTP upgrades the request and streams frames until the client goes away
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("stream: upgrade failed from %s: %v", r.RemoteAddr, err)
		return
	}

	sub := &subscriber{
		id:   uuid.New(),
		conn: conn,
		send: make(chan []byte, h.backlog),
	}
	hello, err := Encode(Frame{Kind: FrameHello, ID: sub.id.String()})
	if err != nil {
		h.logger.Printf("stream: %v", err)
		conn.Close()
		return
	}
	sub.send <- hello

	if !h.register(sub) {
		message := websocket.FormatCloseMessage(websocket.CloseGoingAway, "hub closed")
		conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(writeWait))
		conn.Close()
		return
	}
	h.logger.Printf("stream: subscriber %s connected from %s", sub.id, r.RemoteAddr)

	core.Go(func() {
		h.writePump(sub)
	})
	h.readPump(sub)
}

func (h *Hub) register(sub *subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.subs[sub.id] = sub
	h.statSubscribers.Store(int64(len(h.subs)))
	return true
}

func (h *Hub) unregister(sub *subscriber) {
	h.mu.Lock()
	_, ok := h.subs[sub.id]
	if ok {
		delete(h.subs, sub.id)
		h.statSubscribers.Store(int64(len(h.subs)))
	}
	h.mu.Unlock()

	sub.close()
	if ok {
		h.logger.Printf("stream: subscriber %s disconnected", sub.id)
	}
}

// readPump discards client messages; it only exists to notice the close
func (h *Hub) readPump(sub *subscriber) {
	defer h.unregister(sub)
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(sub *subscriber) {
	defer sub.conn.Close()
	for data := range sub.send {
		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := sub.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			h.logger.Printf("stream: write to %s failed: %v", sub.id, err)
			h.unregister(sub)
			return
		}
	}
	message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	sub.conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(writeWait))
}

// Offer publishes snap when its tick falls on the publish interval and reports whether it did
func (h *Hub) Offer(snap session.Snapshot) (bool, error) {
	if snap.Tick%h.every != 0 {
		return false, nil
	}
	return true, h.Publish(snap)
}

// Publish encodes snap once and queues it to every subscriber
func (h *Hub) Publish(snap session.Snapshot) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}

	h.seq++
	data, err := Encode(Frame{Kind: FrameSnapshot, Seq: h.seq, Snapshot: &snap})
	if err != nil {
		return err
	}
	for _, sub := range h.subs {
		select {
		case sub.send <- data:
		default:
			h.statDropped.Add(1)
		}
	}
	h.statPublished.Add(1)
	return nil
}

// Subscribers returns the number of connected clients
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close disconnects every subscriber and rejects further publishes
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	subs := make([]*subscriber, 0, len(h.subs))
	for id, sub := range h.subs {
		subs = append(subs, sub)
		delete(h.subs, id)
	}
	h.statSubscribers.Store(0)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
}
