/*
Package tabs handles the WebSocket connections of same-origin browser tabs.

This file defines the Client struct, representing one connected tab. It manages the
connection lifecycle and the read/write pumps. Tabs only receive events; inbound
frames are used for the heartbeat and otherwise ignored.
*/
package tabs

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"friendhub/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the tab.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the tab.
	maxMessageSize = 512
)

// Client represents one connected tab.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	// send is the buffered channel of event payloads queued for this tab.
	send chan []byte

	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded WebSocket connection.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	clientLogger := logx.Logger().With().
		Str("component", "Tab").
		Str("remote_addr", conn.RemoteAddr().String()).
		Logger()

	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 64),
		logger: clientLogger,
	}
}

// ReadPump drains inbound frames to service the heartbeat and detect disconnects.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading frame (tab close/going away)")
			}
			return
		}
	}
}

// cleanupOnDisconnect unregisters the tab and closes the connection.
func (c *Client) cleanupOnDisconnect() {
	select {
	case c.hub.unregister <- c:
	default:
		c.logger.Warn().Msg("Hub unregister channel blocked. Connection cleanup still proceeding.")
	}

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Tab connection close error")
	}
}

// WritePump writes queued event payloads to the connection and maintains the heartbeat.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Tab connection close error in WritePump")
		}
	}()

	for {
		select {
		case payload, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}

			if !ok {
				if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.logger.Debug().Err(err).Msg("Error writing close message")
				}
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.logger.Error().Err(err).Msg("Error writing event")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Error().Err(err).Msg("Error writing ping")
				return
			}
		}
	}
}

// closeSend closes the client's send channel exactly once.
func (c *Client) closeSend() {
	select {
	case <-c.send:
	default:
		close(c.send)
	}
}
