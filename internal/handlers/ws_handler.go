package handlers

import (
	"net/http"
	"sync"
	"time"

	"project-management-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 5 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
	wsReadLimit  = 1024
	wsQueueSize  = 32
)

// wsClient adapts a websocket connection to realtime.Client. Publishers only
// enqueue; writeLoop is the single writer on conn. A full queue drops the
// event for that subscriber.
type wsClient struct {
	conn  *websocket.Conn
	queue chan []byte
	done  chan struct{}
	once  sync.Once
}

func newWSClient(conn *websocket.Conn) *wsClient {
	return &wsClient{
		conn:  conn,
		queue: make(chan []byte, wsQueueSize),
		done:  make(chan struct{}),
	}
}

func (c *wsClient) Send(message []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.queue <- message:
		return true
	default:
		return false
	}
}

func (c *wsClient) Close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (c *wsClient) writeLoop() {
	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.queue:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.Close()
				return
			}
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				c.Close()
				return
			}
		}
	}
}

// readLoop discards inbound frames and returns once the peer is gone or
// stops answering pings.
func (c *wsClient) readLoop() {
	c.conn.SetReadLimit(wsReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Origins are enforced by the CORS middleware before the upgrade
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// WebSocket handles GET /ws/:topic
// Upgrades the connection and streams change events for one resource type.
func (h *Handlers) WebSocket(c *gin.Context) {
	topic := c.Param("topic")
	if !realtime.ValidTopic(topic) {
		respondFail(c, http.StatusNotFound, "Unknown topic.")
		return
	}
	if h.hub == nil {
		respondFail(c, http.StatusServiceUnavailable, "Realtime feed is disabled.")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := newWSClient(conn)
	h.hub.Register(topic, client)
	h.log.Debug("websocket subscribed", "topic", topic, "subscribers", h.hub.Subscribers(topic))
	defer func() {
		h.hub.Unregister(topic, client)
		client.Close()
		h.log.Debug("websocket closed", "topic", topic)
	}()

	go client.writeLoop()
	client.readLoop()
}
