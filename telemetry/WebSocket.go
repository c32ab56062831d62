package telemetry

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// event is the JSON payload broadcast to dashboard clients
type event struct {
	Kind    string   `json:"kind"` // "scalar" or "histogram"
	Tag     string   `json:"tag"`
	Step    int      `json:"step"`
	Value   float64  `json:"value,omitempty"`
	Summary *Summary `json:"summary,omitempty"`
}

// WebSocket is a Sink that broadcasts every write to all connected
// websocket clients as JSON events, for live dashboards. Writes to
// clients that have gone away unregister them; a broadcast never
// blocks training on a slow client beyond the socket write itself.
type WebSocket struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewWebSocket returns a new WebSocket sink. Serve its Handler on an
// http mux to accept dashboard connections.
func NewWebSocket() *WebSocket {
	return &WebSocket{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Handler returns the http handler that upgrades dashboard connections
func (w *WebSocket) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := w.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}

		w.mu.Lock()
		w.clients[conn] = struct{}{}
		w.mu.Unlock()

		// Discard client messages, unregister on close
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					w.drop(conn)
					return
				}
			}
		}()
	}
}

// Clients returns the number of connected dashboard clients
func (w *WebSocket) Clients() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.clients)
}

// Scalar implements the Sink interface
func (w *WebSocket) Scalar(tag string, value float64, step int) error {
	return w.broadcast(event{Kind: "scalar", Tag: tag, Step: step,
		Value: value})
}

// Histogram implements the Sink interface
func (w *WebSocket) Histogram(tag string, values []float64, step int) error {
	summary := Summarize(values)
	return w.broadcast(event{Kind: "histogram", Tag: tag, Step: step,
		Summary: &summary})
}

// broadcast sends an event to every connected client, dropping clients
// whose writes fail.
func (w *WebSocket) broadcast(e event) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var failed int
	for conn := range w.clients {
		if err := conn.WriteJSON(e); err != nil {
			conn.Close()
			delete(w.clients, conn)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("broadcast: dropped %v client(s)", failed)
	}
	return nil
}

// drop unregisters and closes a client connection
func (w *WebSocket) drop(conn *websocket.Conn) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.clients[conn]; ok {
		conn.Close()
		delete(w.clients, conn)
	}
}
