package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/RaLLy08/orbital-motion/internal/sim"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 16
)

// Frame results reported to the Monitor.
const (
	FrameSent      = "sent"
	FrameThrottled = "throttled"
	FrameDropped   = "dropped"
)

// Frame is one message on the feed.
type Frame struct {
	Tick     int               `json:"tick"`
	Alpha    float64           `json:"alpha"`
	Vehicles []flight.Snapshot `json:"vehicles"`
}

// NewFrame captures the scene after f was simulated.
func NewFrame(sc *sim.Context, f sim.Frame) Frame {
	return Frame{Tick: sc.Tick(), Alpha: f.Alpha, Vehicles: sc.Snapshots(f.Alpha)}
}

// Monitor receives feed statistics.
type Monitor interface {
	FeedClients(n int)
	RecordFrame(result string)
}

type nopMonitor struct{}

func (nopMonitor) FeedClients(int)    {}
func (nopMonitor) RecordFrame(string) {}

type client struct {
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
	once    sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
		c.conn.Close()
	})
}

// Hub fans frames out to every connected websocket client. Each client has
// its own rate limiter; frames over its budget are skipped rather than
// queued, and a client whose buffer is full loses the frame.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool

	limit    rate.Limit
	burst    int
	upgrader websocket.Upgrader
	logger   log.Logger
	monitor  Monitor
}

// NewHub allows each client frameRate frames per second with the given
// burst.
func NewHub(frameRate float64, burst int) *Hub {
	if burst < 1 {
		burst = 1
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		limit:   rate.Limit(frameRate),
		burst:   burst,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  log.NewNopLogger(),
		monitor: nopMonitor{},
	}
}

func (h *Hub) WithLogger(logger log.Logger) *Hub {
	h.logger = log.With(logger, "component", "feed")
	return h
}

func (h *Hub) WithMonitor(m Monitor) *Hub {
	if m == nil {
		m = nopMonitor{}
	}
	h.monitor = m
	return h
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		http.Error(w, "feed closed", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		level.Warn(h.logger).Log("msg", "upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	c := &client{
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		limiter: rate.NewLimiter(h.limit, h.burst),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.monitor.FeedClients(n)
	level.Info(h.logger).Log("msg", "client connected", "remote", r.RemoteAddr, "clients", n)

	go h.writePump(c)
	h.readPump(c)
}

// readPump discards client messages and unregisters the client once the
// connection fails.
func (h *Hub) readPump(c *client) {
	defer h.unregister(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			level.Debug(h.logger).Log("msg", "write failed", "err", err)
			h.unregister(c)
			return
		}
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	if ok {
		c.close()
	}
	h.mu.Unlock()
	if ok {
		h.monitor.FeedClients(n)
		level.Info(h.logger).Log("msg", "client disconnected", "clients", n)
	}
}

// Broadcast queues f for every client allowed to receive it.
func (h *Hub) Broadcast(f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if !c.limiter.Allow() {
			h.monitor.RecordFrame(FrameThrottled)
			continue
		}
		select {
		case c.send <- data:
			h.monitor.RecordFrame(FrameSent)
		default:
			h.monitor.RecordFrame(FrameDropped)
		}
	}
	return nil
}

// Clients is the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		c.close()
		delete(h.clients, c)
	}
	h.monitor.FeedClients(0)
}

// Run drives sc in real time and broadcasts a frame every interval until
// ctx is done.
func (h *Hub) Run(ctx context.Context, sc *sim.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			f := sc.Frame(now.Sub(last).Seconds())
			last = now
			if err := h.Broadcast(NewFrame(sc, f)); err != nil {
				return err
			}
		}
	}
}
