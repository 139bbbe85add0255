package preview

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/conneroisu/prism/internal/logging"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Send pings to peer with this period.
	pingPeriod = 30 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Messages queued per client before it is dropped as too slow.
	sendBuffer = 16
)

// MessageReload tells connected pages to reload their stylesheets.
const MessageReload = "reload"

// Hub tracks live-reload connections and fans messages out to them.
type Hub struct {
	clients      map[*websocket.Conn]*client
	clientsMutex sync.RWMutex
	broadcast    chan []byte
	register     chan *client
	unregister   chan *websocket.Conn
	origins      []string
	logger       logging.Logger
	done         chan struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

// NewHub creates a hub. Websocket upgrades are accepted from the request's
// own host and from any host listed in origins.
func NewHub(logger logging.Logger, origins ...string) *Hub {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Hub{
		clients:    make(map[*websocket.Conn]*client),
		broadcast:  make(chan []byte, 8),
		register:   make(chan *client),
		unregister: make(chan *websocket.Conn),
		origins:    origins,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is cancelled, then
// closes every connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.clientsMutex.Lock()
			for conn, c := range h.clients {
				delete(h.clients, conn)
				close(c.send)
			}
			h.clientsMutex.Unlock()
			return

		case c := <-h.register:
			h.clientsMutex.Lock()
			h.clients[c.conn] = c
			count := len(h.clients)
			h.clientsMutex.Unlock()
			h.logger.Debug(ctx, "client connected", "clients", count)

		case conn := <-h.unregister:
			h.clientsMutex.Lock()
			if c, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				close(c.send)
			}
			count := len(h.clients)
			h.clientsMutex.Unlock()
			h.logger.Debug(ctx, "client disconnected", "clients", count)

		case message := <-h.broadcast:
			h.clientsMutex.Lock()
			for conn, c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Client's send channel is full, drop it
					delete(h.clients, conn)
					close(c.send)
				}
			}
			h.clientsMutex.Unlock()
		}
	}
}

// Broadcast queues message for every connected client. It never blocks; a
// message is discarded when the queue is full because a later reload
// supersedes it.
func (h *Hub) Broadcast(message string) {
	select {
	case h.broadcast <- []byte(message):
	default:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request to a websocket and registers it.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.checkOrigin(r) {
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		h.logger.Warn(r.Context(), err, "websocket upgrade failed")
		return
	}
	conn.SetReadLimit(maxMessageSize)

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		hub:  h,
	}

	ctx := context.WithoutCancel(r.Context())
	go c.writePump(ctx)
	go c.readPump(ctx)

	select {
	case h.register <- c:
	case <-h.done:
		close(c.send)
	case <-r.Context().Done():
		close(c.send)
	}
}

// checkOrigin accepts requests with no Origin header (non-browser
// clients), same-host origins, and configured origins.
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if originURL.Scheme != "http" && originURL.Scheme != "https" {
		return false
	}
	if originURL.Host == r.Host {
		return true
	}
	for _, allowed := range h.origins {
		if originURL.Host == allowed {
			return true
		}
	}
	return false
}

// readPump drains the connection so control frames are processed, and
// unregisters the client when the peer goes away.
func (c *client) readPump(ctx context.Context) {
	defer func() {
		select {
		case c.hub.unregister <- c.conn:
		case <-c.hub.done:
		}
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && status != -1 {
				c.hub.logger.Debug(ctx, "websocket closed", "status", status.String())
			}
			return
		}
	}
}

// writePump sends queued messages and periodic pings.
func (c *client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
