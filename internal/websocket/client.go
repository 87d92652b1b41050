// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package websocket

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/tomtom215/geocrowd/internal/logging"
	"github.com/tomtom215/geocrowd/internal/metrics"
	"github.com/tomtom215/geocrowd/internal/models"
)

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	id         string
	remoteAddr string
	hub        *Hub
	conn       *websocket.Conn
	send       chan models.Outbound
	limiter    *rate.Limiter
}

// NewClient wraps conn with a fresh connection id, a bounded send queue and
// an inbound token bucket sized from the hub config.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	cfg := hub.cfg
	return &Client{
		id:         uuid.NewString(),
		remoteAddr: conn.RemoteAddr().String(),
		hub:        hub,
		conn:       conn,
		send:       make(chan models.Outbound, cfg.SendQueueSize),
		limiter:    rate.NewLimiter(rate.Limit(cfg.MessageRate), cfg.MessageBurst),
	}
}

// ID returns the connection id the engine knows this client by.
func (c *Client) ID() string {
	return c.id
}

// readPump forwards inbound frames to the handler until the connection
// fails, then unregisters the client.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	cfg := c.hub.cfg
	c.conn.SetReadLimit(cfg.MaxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait)); err != nil {
		logging.Err(err).Str("conn_id", c.id).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Warn().Err(err).Str("conn_id", c.id).Msg("unexpected websocket close error")
			}
			return
		}

		if !c.limiter.Allow() {
			metrics.RecordMessageDropped(metrics.ReasonRateLimited)
			logging.Warn().Str("conn_id", c.id).Msg("Dropping message over rate limit")
			continue
		}

		// Errors are already logged and counted by the handler.
		_ = c.hub.handler.HandleMessage(c.id, data)
	}
}

// writePump drains the send queue onto the connection and keeps it alive
// with pings. It exits when the hub closes the queue or a write fails.
func (c *Client) writePump() {
	cfg := c.hub.cfg
	ticker := time.NewTicker(pingPeriod(cfg.PongWait))
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout)); err != nil {
				logging.Err(err).Str("conn_id", c.id).Msg("failed to set write deadline")
				return
			}

			if !ok {
				// The hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}

			data, err := json.Marshal(message)
			if err != nil {
				metrics.RecordSendFailure(metrics.ReasonWriteFailed)
				logging.Err(err).Str("conn_id", c.id).Str("type", string(message.Type)).Msg("failed to encode message")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				metrics.RecordSendFailure(metrics.ReasonWriteFailed)
				logging.Warn().Err(err).Str("conn_id", c.id).Msg("failed to write message")
				return
			}
			metrics.WSMessagesSent.Inc()

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout)); err != nil {
				logging.Err(err).Str("conn_id", c.id).Msg("failed to set write deadline for ping")
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// pingPeriod must stay below pongWait so the peer's pong arrives before
// the read deadline.
func pingPeriod(pongWait time.Duration) time.Duration {
	return (pongWait * 9) / 10
}

// Start begins reading and writing for the client.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}
