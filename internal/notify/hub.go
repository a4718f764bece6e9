package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/yourname/gdrive_lite/internal/models"
)

const (
	defaultQueue = 64
	writeWait    = 10 * time.Second
)

// Hub держит websocket-подключения; id подключения служит каналом для Emit.
type Hub struct {
	upgrader websocket.Upgrader
	queue    int
	log      *slog.Logger

	mu      sync.RWMutex
	clients map[string]*client
	closed  bool
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (c *client) stop() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// NewHub создаёт хаб; queue задаёт размер очереди исходящих сообщений на клиента.
func NewHub(queue int, log *slog.Logger) *Hub {
	if queue <= 0 {
		queue = defaultQueue
	}
	if log == nil {
		log = slog.Default()
	}

	return &Hub{
		upgrader: websocket.Upgrader{
			// CORS открыт для всех, как и у HTTP-ручек
			CheckOrigin: func(*http.Request) bool { return true },
		},
		queue:   queue,
		log:     log,
		clients: make(map[string]*client),
	}
}

// ServeHTTP апгрейдит соединение и держит его до разрыва клиентом или Close.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, h.queue),
		done: make(chan struct{}),
	}

	hello, _ := encode(EventConnect, map[string]string{"id": c.id})
	c.send <- hello

	if !h.register(c) {
		_ = conn.Close()
		return
	}
	h.log.Info("socket connected", "socket_id", c.id)

	go h.writeLoop(c)

	// читаем только чтобы заметить закрытие
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.unregister(c)
	h.log.Info("socket disconnected", "socket_id", c.id)
}

func (h *Hub) writeLoop(c *client) {
	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.unregister(c)
				return
			}
		case <-c.done:
			return
		}
	}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c.id] = c
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if cur, ok := h.clients[c.id]; ok && cur == c {
		delete(h.clients, c.id)
	}
	h.mu.Unlock()
	c.stop()
}

// Emit ставит событие в очередь клиента channel. Для неизвестного канала или полной очереди возвращается ошибка, событие теряется.
func (h *Hub) Emit(ctx context.Context, channel, event string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	h.mu.RLock()
	c, ok := h.clients[channel]
	h.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: unknown socket %q", models.ErrNotificationDelivery, channel)
	}

	msg, err := encode(event, payload)
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrNotificationDelivery, err)
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.done:
		return fmt.Errorf("%w: socket %q closed", models.ErrNotificationDelivery, channel)
	default:
		return fmt.Errorf("%w: socket %q queue full", models.ErrNotificationDelivery, channel)
	}
}

// Len: число активных подключений.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close отключает всех клиентов; новые подключения после этого отклоняются.
func (h *Hub) Close() error {
	h.mu.Lock()
	h.closed = true
	clients := h.clients
	h.clients = make(map[string]*client)
	h.mu.Unlock()

	for _, c := range clients {
		c.stop()
	}
	return nil
}
