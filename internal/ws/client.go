package ws

import (
	"context"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/taggamecreator/tag-echobound-servers/internal/services/connection"
)

const (
	// writeWait is the deadline for a single websocket write
	writeWait = 10 * time.Second
	// pongWait is how long a connection may stay silent before the read
	// pump gives up on it
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize bounds inbound payloads
	maxMessageSize = 4096
)

// client pairs one websocket with its registry handle and pumps
// messages in both directions.
type client struct {
	ws         *websocket.Conn
	handle     *connection.Conn
	dispatcher *Dispatcher
	logger     *slog.Logger
}

// readPump delivers inbound messages to the dispatcher until the
// connection drops, then fires the disconnect hook.
func (c *client) readPump(ctx context.Context) {
	defer func() {
		c.dispatcher.HandleDisconnect(ctx, c.handle.ID())
		c.ws.Close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read error",
					slog.String("connection_id", string(c.handle.ID())),
					slog.String("error", err.Error()))
			}
			return
		}
		c.dispatcher.Dispatch(ctx, c.handle, data)
	}
}

// writePump drains the connection's outbound queue onto the websocket
// and keeps the connection alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case data := <-c.handle.Outgoing():
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-c.handle.Done():
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
