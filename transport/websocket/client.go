package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 30 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 64 << 10
	sendBuffer     = 64
)

// client is one accepted connection. Only writePump writes to conn.
type client struct {
	playerID string
	conn     *websocket.Conn
	send     chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func newClient(playerID string, conn *websocket.Conn) *client {
	return &client{
		playerID: playerID,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
	}
}

func (that *client) enqueue(body []byte) bool {
	select {
	case <-that.done:
		return false
	default:
	}

	select {
	case that.send <- body:
		return true
	default:
		return false
	}
}

func (that *client) close() {
	that.closeOnce.Do(func() {
		close(that.done)
	})
}

// readPump - feeds every inbound text frame to handle until the connection drops.
func (that *client) readPump(ctx context.Context, handle func(ctx context.Context, raw []byte)) error {
	defer that.close()

	that.conn.SetReadLimit(maxMessageSize)
	_ = that.conn.SetReadDeadline(time.Now().Add(pongWait))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := that.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return err
			}

			return nil
		}

		handle(ctx, raw)
	}
}

func (that *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case body := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.TextMessage, body); err != nil {
				that.close()
				return
			}
		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				that.close()
				return
			}
		case <-that.done:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = that.conn.WriteMessage(websocket.CloseMessage, []byte{})

			return
		}
	}
}
