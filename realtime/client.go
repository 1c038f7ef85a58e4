// realtime/client.go
package realtime

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client is one connected subscriber. It sends subscribe/unsubscribe
// control frames and receives change events for the keys it watches.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

// controlFrame is the client -> server protocol.
type controlFrame struct {
	Type  string `json:"type"` // subscribe | unsubscribe
	Table string `json:"table"`
	ID    string `json:"id"`
}

func newClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.drop(c)
		close(c.send)
		c.conn.Close()
		c.hub.logger.Info("realtime client disconnected", zap.String("user", c.userID))
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Error("websocket read error", zap.Error(err))
			}
			return
		}

		var frame controlFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			c.hub.logger.Warn("malformed control frame", zap.String("user", c.userID))
			continue
		}
		if frame.Table == "" || frame.ID == "" {
			continue
		}
		key := frame.Table + ":" + frame.ID
		switch frame.Type {
		case "subscribe":
			c.hub.subscribe(c, key)
		case "unsubscribe":
			c.hub.unsubscribe(c, key)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
