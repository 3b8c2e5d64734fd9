package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// EventProductsRefresh tells listeners that product or stock data changed and should be re-fetched.
const EventProductsRefresh = "products_need_refresh"

const broadcastBuffer = 64

// Publisher is the refresh signal as seen by services and checkout sessions.
type Publisher interface {
	Publish(reason string, productIDs ...string)
}

type Event struct {
	Type       string   `json:"type"`
	Reason     string   `json:"reason"`
	ProductIDs []string `json:"product_ids,omitempty"`
}

// Hub fans a refresh signal out to in-process subscribers and websocket clients.
// Delivery is best-effort: nothing is queued for listeners that are not attached.
type Hub struct {
	clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	broadcast  chan []byte
	mutex      sync.Mutex

	subMu       sync.Mutex
	subscribers map[uint64]func()
	nextID      uint64
}

func NewHub() *Hub {
	return &Hub{
		clients:     make(map[*websocket.Conn]bool),
		Register:    make(chan *websocket.Conn),
		Unregister:  make(chan *websocket.Conn),
		broadcast:   make(chan []byte, broadcastBuffer),
		subscribers: make(map[uint64]func()),
	}
}

// Subscribe registers fn and returns the function that removes it.
func (h *Hub) Subscribe(fn func()) (unsubscribe func()) {
	h.subMu.Lock()
	id := h.nextID
	h.nextID++
	h.subscribers[id] = fn
	h.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.subMu.Lock()
			delete(h.subscribers, id)
			h.subMu.Unlock()
		})
	}
}

// Publish never blocks on websocket clients; if the broadcast buffer is full the frame is dropped.
// Subscribers run synchronously on the caller's goroutine.
func (h *Hub) Publish(reason string, productIDs ...string) {
	msg, err := json.Marshal(Event{Type: EventProductsRefresh, Reason: reason, ProductIDs: productIDs})
	if err == nil {
		select {
		case h.broadcast <- msg:
		default:
			slog.Warn("refresh signal dropped, broadcast buffer full", "reason", reason)
		}
	}

	h.subMu.Lock()
	fns := make([]func(), 0, len(h.subscribers))
	for _, fn := range h.subscribers {
		fns = append(fns, fn)
	}
	h.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Attach hands conn to the Run loop. It gives up once ctx is done.
func (h *Hub) Attach(ctx context.Context, conn *websocket.Conn) bool {
	select {
	case h.Register <- conn:
		return true
	case <-ctx.Done():
		return false
	}
}

// Detach removes conn. After Run has stopped it returns as soon as ctx is done.
func (h *Hub) Detach(ctx context.Context, conn *websocket.Conn) {
	select {
	case h.Unregister <- conn:
	case <-ctx.Done():
	}
}

// Run owns the websocket client set until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.Register:
			h.mutex.Lock()
			h.clients[conn] = true
			h.mutex.Unlock()
			slog.Debug("websocket client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Nop discards every signal.
type Nop struct{}

func (Nop) Publish(string, ...string) {}
