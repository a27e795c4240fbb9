package transport

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	chaterrors "chat-relay/errors"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 4096
)

// client owns one websocket connection: the buffered outbound queue,
// the write pump, and the Sink handed to the session.
type client struct {
	conn *websocket.Conn
	send chan []byte
	log  *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

func newClient(log *slog.Logger, conn *websocket.Conn, sendBufferSize int) *client {
	return &client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		log:  log,
		done: make(chan struct{}),
	}
}

// Send implements contract.Sink. It never blocks: a full queue means
// the peer is not draining its connection, so the message is dropped
// and the caller told why. The session decides whether that matters.
func (c *client) Send(text string) error {
	select {
	case <-c.done:
		return chaterrors.ErrConnectionClosed
	default:
	}

	select {
	case c.send <- []byte(text):
		return nil
	case <-c.done:
		return chaterrors.ErrConnectionClosed
	default:
		return chaterrors.ErrSlowConsumer
	}
}

// writePump serializes all writes to the connection: queued messages,
// keepalive pings, and the final close frame.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Debug("Write failed, closing connection", "error", err)
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

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}
