package realtime

import (
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
)

// wsConn is the subset of *websocket.Conn the hub needs; it keeps clients
// constructible in tests.
type wsConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Client is one websocket connection attached to the hub.
type Client struct {
	hub  *Hub
	conn wsConn
	send chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func newClient(hub *Hub, conn wsConn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
}

// Serve attaches conn to the hub and blocks until the connection closes.
func (h *Hub) Serve(conn *websocket.Conn) {
	h.ServeConn(conn)
}

// ServeConn is Serve for any wsConn implementation.
func (h *Hub) ServeConn(conn wsConn) {
	client := newClient(h, conn)
	go client.writePump()
	client.readPump()
}

func (c *Client) enqueue(frame []byte) bool {
	select {
	case <-c.done:
		return true
	default:
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// readPump consumes subscription commands until the peer disconnects.
func (c *Client) readPump() {
	defer func() {
		c.hub.remove(c)
		c.close()
	}()

	c.conn.SetReadLimit(maxCommandSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var cmd command
		if err := sonic.Unmarshal(raw, &cmd); err != nil {
			c.hub.logger.Debug("ignoring malformed websocket command", "error", err)
			continue
		}
		c.apply(cmd)
	}
}

func (c *Client) apply(cmd command) {
	switch cmd.Type {
	case "subscribe_match":
		if cmd.MatchID > 0 {
			c.hub.subscribe(c, MatchTopic(cmd.MatchID))
		}
	case "unsubscribe_match":
		if cmd.MatchID > 0 {
			c.hub.unsubscribe(c, MatchTopic(cmd.MatchID))
		}
	case "subscribe_team":
		if cmd.TeamID > 0 {
			c.hub.subscribe(c, TeamTopic(cmd.TeamID))
		}
	case "unsubscribe_team":
		if cmd.TeamID > 0 {
			c.hub.unsubscribe(c, TeamTopic(cmd.TeamID))
		}
	default:
		c.hub.logger.Debug("ignoring unknown websocket command", "type", cmd.Type)
	}
}

// writePump drains the outbound queue and keeps the connection alive with
// pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
