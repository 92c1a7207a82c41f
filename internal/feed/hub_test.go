package feed

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/RaLLy08/orbital-motion/internal/physics"
	"github.com/RaLLy08/orbital-motion/internal/sim"
	"github.com/gorilla/websocket"
	"gonum.org/v1/gonum/spatial/r3"
)

type countingMonitor struct {
	mu      sync.Mutex
	clients int
	frames  map[string]int
}

func (m *countingMonitor) FeedClients(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients = n
}

func (m *countingMonitor) RecordFrame(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.frames == nil {
		m.frames = make(map[string]int)
	}
	m.frames[result]++
}

func (m *countingMonitor) count(result string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames[result]
}

func serve(t *testing.T, h *Hub) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(h)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial failed: %v", err)
	}
	waitFor(t, func() bool { return h.Clients() == 1 })
	return conn, func() {
		conn.Close()
		h.Close()
		srv.Close()
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for condition")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return f
}

func TestHubBroadcast(t *testing.T) {
	mon := &countingMonitor{}
	h := NewHub(1000, 10).WithMonitor(mon)
	conn, cleanup := serve(t, h)
	defer cleanup()

	sent := Frame{Tick: 7, Alpha: 0.25, Vehicles: []flight.Snapshot{{ID: 3, Altitude: 12, Position: r3.Vec{X: 1}}}}
	if err := h.Broadcast(sent); err != nil {
		t.Fatalf("broadcast failed: %v", err)
	}

	got := readFrame(t, conn)
	if got.Tick != 7 || got.Alpha != 0.25 {
		t.Errorf("expected tick 7 alpha 0.25, got %d %f", got.Tick, got.Alpha)
	}
	if len(got.Vehicles) != 1 || got.Vehicles[0].ID != 3 || got.Vehicles[0].Position.X != 1 {
		t.Errorf("expected vehicle 3, got %+v", got.Vehicles)
	}
	if mon.count(FrameSent) != 1 {
		t.Errorf("expected 1 sent frame, got %d", mon.count(FrameSent))
	}
}

func TestHubThrottles(t *testing.T) {
	mon := &countingMonitor{}
	h := NewHub(0.001, 1).WithMonitor(mon)
	conn, cleanup := serve(t, h)
	defer cleanup()

	for i := 0; i < 3; i++ {
		if err := h.Broadcast(Frame{Tick: i}); err != nil {
			t.Fatal(err)
		}
	}
	if got := readFrame(t, conn); got.Tick != 0 {
		t.Errorf("expected the first frame, got tick %d", got.Tick)
	}
	if mon.count(FrameSent) != 1 || mon.count(FrameThrottled) != 2 {
		t.Errorf("expected 1 sent and 2 throttled, got %d and %d", mon.count(FrameSent), mon.count(FrameThrottled))
	}
}

func TestHubDisconnect(t *testing.T) {
	mon := &countingMonitor{}
	h := NewHub(10, 1).WithMonitor(mon)
	conn, cleanup := serve(t, h)
	defer cleanup()

	conn.Close()
	waitFor(t, func() bool { return h.Clients() == 0 })
	if err := h.Broadcast(Frame{}); err != nil {
		t.Errorf("expected broadcast without clients to succeed, got %v", err)
	}
}

func TestHubClose(t *testing.T) {
	h := NewHub(10, 1)
	srv := httptest.NewServer(h)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	waitFor(t, func() bool { return h.Clients() == 1 })

	h.Close()
	if h.Clients() != 0 {
		t.Errorf("expected no clients after close, got %d", h.Clients())
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected the connection to be closed")
	}
	if _, _, err := websocket.DefaultDialer.Dial(url, nil); err == nil {
		t.Error("expected a closed hub to refuse clients")
	}
}

func TestHubRun(t *testing.T) {
	h := NewHub(1000, 10)
	conn, cleanup := serve(t, h)
	defer cleanup()

	sc := sim.NewContext(sim.NewClock(1, 1000, 100))
	start := physics.Earth.PositionAt(physics.GeoCoordinate{}, 0)
	p := flight.DefaultLaunchParameters(r3.Vec{Y: 1})
	sc.Launch(flight.NewVehicle(physics.Earth, start, p))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx, sc, 5*time.Millisecond) }()

	var f Frame
	for f.Tick < 3 {
		f = readFrame(t, conn)
	}
	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(f.Vehicles) != 1 {
		t.Fatalf("expected 1 vehicle, got %d", len(f.Vehicles))
	}
	if f.Vehicles[0].FlightTime <= 0 {
		t.Errorf("expected the vehicle to be flying, got %+v", f.Vehicles[0])
	}
}
