package sse

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/yahtzee-go/internal/model"
)

const (
	// Time allowed to read the next pong from the peer
	pongWait = 60 * time.Second

	// Watchers only send control frames
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS streams a game's events over a websocket. Each frame is the JSON
// event body; the event name is carried inside it. Messages from the peer
// are read and discarded so close and pong frames are handled.
func ServeWS(w http.ResponseWriter, r *http.Request, hub *Hub, playerID model.PlayerID, initial *Message, logger *slog.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an error response
		logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := NewClient(hub, playerID, TransportWebSocket)
	if initial != nil {
		client.send <- *initial
	}
	if !hub.Register(client) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "game stream closed"))
		_ = conn.Close()
		return
	}

	go client.writePump(conn)
	client.readPump(conn, logger)
}

// readPump blocks until the peer goes away, then unregisters the client
func (c *Client) readPump(conn *websocket.Conn, logger *slog.Logger) {
	defer func() {
		c.hub.Unregister(c)
		_ = conn.Close()
	}()
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read error",
					slog.String("player_id", string(c.playerID)),
					slog.Any("error", err))
			}
			return
		}
	}
}

// writePump forwards hub messages to the socket and keeps it alive
func (c *Client) writePump(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message.Data); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
