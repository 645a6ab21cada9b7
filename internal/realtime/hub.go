package realtime

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/restate/internal/cache"
	"github.com/Domenick1991/restate/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4 << 10
)

const (
	MessageNotification = "notification"
	MessageUnreadCount  = "unread_count"
)

// Envelope is what clients receive on the notifications socket.
type Envelope struct {
	Type         string               `json:"type"`
	Notification *domain.Notification `json:"notification,omitempty"`
	UnreadCount  *int                 `json:"unread_count,omitempty"`
}

type Subscription interface {
	Channel(opts ...redis.ChannelOption) <-chan *redis.Message
	Close() error
}

type SubscribeFunc func(ctx context.Context, channel string) Subscription

// Hub upgrades authenticated requests to websockets and relays the user's
// Redis notification channel to them.
type Hub struct {
	upgrader  websocket.Upgrader
	subscribe SubscribeFunc

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	hub    *Hub
	userID string
	conn   *websocket.Conn
	sub    Subscription
	cancel context.CancelFunc

	writeMu sync.Mutex
	once    sync.Once
}

func NewHub(subscribe SubscribeFunc) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		subscribe: subscribe,
		clients:   make(map[*client]struct{}),
	}
}

func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) {
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("notifications ws upgrade failed for %s: %v", userID, err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &client{
		hub:    h,
		userID: userID,
		conn:   conn,
		sub:    h.subscribe(ctx, cache.NotificationChannel(userID)),
		cancel: cancel,
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	log.Printf("notifications ws: %s connected", userID)

	go c.forward(ctx)
	go c.pingLoop(ctx)
	go c.readLoop()
}

// Connected returns the number of open sockets for userID.
func (h *Hub) Connected(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for c := range h.clients {
		if c.userID == userID {
			n++
		}
	}
	return n
}

func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}

func (c *client) forward(ctx context.Context) {
	ch := c.sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				c.close()
				return
			}
			if err := c.write(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				c.close()
				return
			}
		}
	}
}

func (c *client) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			c.writeMu.Unlock()
			if err != nil {
				c.close()
				return
			}
		}
	}
}

func (c *client) readLoop() {
	defer c.close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		mt, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		if mt == websocket.TextMessage && strings.EqualFold(strings.TrimSpace(string(message)), "ping") {
			if err := c.write(websocket.TextMessage, []byte("pong")); err != nil {
				return
			}
		}
	}
}

func (c *client) write(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

func (c *client) close() {
	c.once.Do(func() {
		c.cancel()
		_ = c.sub.Close()
		_ = c.conn.Close()

		c.hub.mu.Lock()
		delete(c.hub.clients, c)
		c.hub.mu.Unlock()

		log.Printf("notifications ws: %s disconnected", c.userID)
	})
}
