// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package websocket

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/geocrowd/internal/logging"
	"github.com/tomtom215/geocrowd/internal/metrics"
	"github.com/tomtom215/geocrowd/internal/models"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled indicates the parent context was canceled.
	// This is the normal graceful shutdown path (e.g., SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was exceeded.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Send failures. The engine logs them and carries on with the broadcast.
var (
	ErrUnknownConnection = errors.New("unknown connection")
	ErrSendQueueFull     = errors.New("send queue full")
)

var (
	ErrNilHandler = errors.New("websocket hub has no handler")
	ErrHubStopped = errors.New("websocket hub stopped")
)

// Handler receives connection lifecycle events and inbound frames.
// *engine.Engine satisfies it.
type Handler interface {
	Connect(connID string)
	Disconnect(connIDs ...string)
	HandleMessage(connID string, data []byte) error
}

// Config tunes per-connection queues, deadlines and inbound limits.
type Config struct {
	SendQueueSize  int
	WriteTimeout   time.Duration
	PongWait       time.Duration
	MaxMessageSize int64
	MessageRate    float64
	MessageBurst   int
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		SendQueueSize:  64,
		WriteTimeout:   10 * time.Second,
		PongWait:       60 * time.Second,
		MaxMessageSize: 64 * 1024,
		MessageRate:    20,
		MessageBurst:   40,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SendQueueSize <= 0 {
		c.SendQueueSize = d.SendQueueSize
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.PongWait <= 0 {
		c.PongWait = d.PongWait
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = d.MaxMessageSize
	}
	if c.MessageRate <= 0 {
		c.MessageRate = d.MessageRate
	}
	if c.MessageBurst <= 0 {
		c.MessageBurst = d.MessageBurst
	}
	return c
}

// Hub tracks live connections by id, forwards lifecycle events to its
// Handler and delivers outbound messages onto per-connection queues.
//
// Lock order: callers of Send (the engine) may hold their own lock while
// taking h.mu. The hub therefore never calls the Handler while holding h.mu.
type Hub struct {
	clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex

	handler Handler
	cfg     Config

	done     chan struct{}
	doneOnce sync.Once
}

// NewHub creates a hub. SetHandler must be called before RunWithContext.
func NewHub(cfg Config) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		cfg:        cfg.withDefaults(),
		done:       make(chan struct{}),
	}
}

// SetHandler installs the receiver of lifecycle events and frames. The
// engine needs the hub as its transport, so the two are wired after
// construction.
func (h *Hub) SetHandler(handler Handler) {
	h.handler = handler
}

// Config returns the effective configuration.
func (h *Hub) Config() Config {
	return h.cfg
}

// Done is closed once the hub has stopped.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// RunWithContext processes registrations until ctx is canceled, then closes
// every connection and returns ctx.Err().
//
// Shutdown is checked first on every iteration, then pending lifecycle
// events, then a blocking wait on all of them.
func (h *Hub) RunWithContext(ctx context.Context) error {
	if h.handler == nil {
		return ErrNilHandler
	}
	defer h.doneOnce.Do(func() { close(h.done) })

	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Inc()
	h.handler.Connect(client.id)
	client.Start()

	logging.Info().
		Str("conn_id", client.id).
		Str("remote_addr", client.remoteAddr).
		Int("total_clients", total).
		Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	current, ok := h.clients[client.id]
	if ok && current == client {
		delete(h.clients, client.id)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if !ok || current != client {
		return
	}
	metrics.WSConnections.Dec()
	h.handler.Disconnect(client.id)

	logging.Info().
		Str("conn_id", client.id).
		Int("total_clients", total).
		Msg("websocket client disconnected")
}

// Accept wraps an upgraded connection in a Client and hands it to the run
// loop, which registers it with the handler and starts its pumps. The
// connection is closed if the hub has stopped or ctx ends first.
func (h *Hub) Accept(ctx context.Context, conn *websocket.Conn) (*Client, error) {
	client := NewClient(h, conn)
	select {
	case h.Register <- client:
		return client, nil
	case <-h.done:
		_ = conn.Close()
		return nil, ErrHubStopped
	case <-ctx.Done():
		_ = conn.Close()
		return nil, ctx.Err()
	}
}

// unregister hands the client to the run loop, or gives up once the hub has
// stopped.
func (h *Hub) unregister(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

// Send enqueues msg for connID without blocking. It fails when the
// connection is unknown or its queue is full; the caller decides what to log.
func (h *Hub) Send(connID string, msg models.Outbound) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[connID]
	if !ok {
		metrics.RecordSendFailure(metrics.ReasonUnknownConnection)
		return fmt.Errorf("%w: %s", ErrUnknownConnection, connID)
	}

	select {
	case client.send <- msg:
		return nil
	default:
		metrics.RecordSendFailure(metrics.ReasonQueueFull)
		return fmt.Errorf("%w: %s", ErrSendQueueFull, connID)
	}
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// logGracefulShutdown closes every client and logs the shutdown. ctx.Err()
// is not logged as an error since cancellation is the expected path.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	closed := h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", closed).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// closeAllClients closes every queue in id order and tells the handler about
// all of them in one call.
func (h *Hub) closeAllClients() int {
	h.mu.Lock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		close(h.clients[id].send)
		delete(h.clients, id)
	}
	h.mu.Unlock()

	if len(ids) > 0 {
		metrics.WSConnections.Sub(float64(len(ids)))
		h.handler.Disconnect(ids...)
	}
	return len(ids)
}
