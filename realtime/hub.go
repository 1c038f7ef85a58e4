// realtime/hub.go
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// changesChannel is the Redis pub/sub channel every instance publishes row
// changes to, so subscribers connected to any instance see every update.
const changesChannel = "realtime:changes"

// Event is an invalidate-and-re-read signal. It carries no row payload on
// purpose: delivery is at-least-once with no ordering guarantee, so clients
// treat it as "re-fetch this row", never as authoritative state.
type Event struct {
	Type  string `json:"type"`
	Table string `json:"table"`
	ID    string `json:"id"`
}

// Hub fans row-change events out to subscribed WebSocket clients.
type Hub struct {
	rdb      *redis.Client
	logger   *zap.Logger
	secret   []byte
	upgrader websocket.Upgrader

	mu          sync.RWMutex
	subscribers map[string]map[*Client]bool // key: "table:id"
}

func NewHub(rdb *redis.Client, secret []byte, logger *zap.Logger) *Hub {
	return &Hub{
		rdb:    rdb,
		logger: logger,
		secret: secret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		subscribers: make(map[string]map[*Client]bool),
	}
}

// NotifyChange publishes a row change. Implements services.Notifier.
// Publish failures are logged, not returned: the write already committed
// and clients recover by re-reading on their next signal or fetch.
func (h *Hub) NotifyChange(table, id string) {
	payload, _ := json.Marshal(Event{Type: "change", Table: table, ID: id})
	if err := h.rdb.Publish(context.Background(), changesChannel, payload).Err(); err != nil {
		h.logger.Error("failed to publish change event",
			zap.String("table", table), zap.String("id", id), zap.Error(err))
	}
}

// Run consumes the Redis channel and delivers events to local subscribers
// until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, changesChannel)
	defer pubsub.Close()

	h.logger.Info("realtime hub running", zap.String("channel", changesChannel))
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("realtime hub stopped")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				h.logger.Error("malformed change event", zap.Error(err))
				continue
			}
			h.deliver(event, []byte(msg.Payload))
		}
	}
}

func (h *Hub) deliver(event Event, raw []byte) {
	key := event.Table + ":" + event.ID
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.subscribers[key] {
		select {
		case client.send <- raw:
		default:
			// Slow consumer; it will re-sync on its next read anyway.
			h.logger.Warn("dropping event for slow client", zap.String("user", client.userID))
		}
	}
}

// ServeWS upgrades an authenticated connection and starts its pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, err := ParseToken(r.URL.Query().Get("token"), h.secret)
	if err != nil {
		http.Error(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(h, conn, userID)
	h.logger.Info("realtime client connected", zap.String("user", userID))
	go client.writePump()
	go client.readPump()
}

func (h *Hub) subscribe(client *Client, key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subscribers[key] == nil {
		h.subscribers[key] = make(map[*Client]bool)
	}
	h.subscribers[key][client] = true
}

func (h *Hub) unsubscribe(client *Client, key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs := h.subscribers[key]; subs != nil {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.subscribers, key)
		}
	}
}

func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for key, subs := range h.subscribers {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.subscribers, key)
		}
	}
}
