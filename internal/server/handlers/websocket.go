// internal/server/handlers/websocket.go

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Subscriber delivers raw analysis events until the returned function is called
type Subscriber interface {
	Subscribe(fn func(data []byte)) (func() error, error)
}

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 4 * 1024,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// analysisClient follows analysis events over one WebSocket connection
type analysisClient struct {
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	config    WebSocketConfig
	logger    *slog.Logger
}

// AnalysisStreamHandler streams every completed analysis to the connected client
func AnalysisStreamHandler(events Subscriber, logger *slog.Logger) http.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "websocket")

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("failed to upgrade to WebSocket", "error", err)
			return
		}

		client := &analysisClient{
			conn:   conn,
			send:   make(chan []byte, 256),
			done:   make(chan struct{}),
			config: DefaultWebSocketConfig(),
			logger: logger.With("remote_addr", r.RemoteAddr),
		}

		unsubscribe, err := events.Subscribe(client.enqueue)
		if err != nil {
			logger.Error("failed to subscribe to analysis events", "error", err)
			conn.Close()
			return
		}

		welcome, _ := json.Marshal(map[string]interface{}{
			"type": "welcome",
			"time": time.Now().UTC(),
		})
		client.enqueue(welcome)

		go client.writePump()
		go func() {
			client.readPump()
			if err := unsubscribe(); err != nil {
				client.logger.Warn("failed to unsubscribe", "error", err)
			}
		}()

		client.logger.Info("analysis stream connected")
	}
}

// enqueue queues data for the client, dropping it when the client is slow
func (c *analysisClient) enqueue(data []byte) {
	select {
	case <-c.done:
	case c.send <- data:
	default:
		c.logger.Warn("dropping analysis event for slow client")
	}
}

// readPump keeps the read deadline fresh and discards client messages
func (c *analysisClient) readPump() {
	defer c.closeConnection()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("WebSocket error", "error", err)
			}
			return
		}
	}
}

// writePump pumps queued events to the WebSocket connection
func (c *analysisClient) writePump() {
	ticker := time.NewTicker(c.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for {
		select {
		case <-c.done:
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// closeConnection closes the WebSocket connection once
func (c *analysisClient) closeConnection() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
		c.logger.Info("analysis stream closed")
	})
}
