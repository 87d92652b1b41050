// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/geocrowd/internal/websocket"
)

// stubHub returns err immediately, or blocks until ctx is done.
type stubHub struct {
	err  error
	runs atomic.Int32
}

func (s *stubHub) RunWithContext(ctx context.Context) error {
	s.runs.Add(1)
	if s.err != nil {
		return s.err
	}
	<-ctx.Done()
	return ctx.Err()
}

type noopHandler struct{}

func (noopHandler) Connect(string)                     {}
func (noopHandler) Disconnect(...string)               {}
func (noopHandler) HandleMessage(string, []byte) error { return nil }

var (
	_ suture.Service = (*WebSocketHubService)(nil)
	_ ContextHub     = (*websocket.Hub)(nil)
)

func TestWebSocketHubService_Serve(t *testing.T) {
	hubErr := errors.New("hub crashed")

	tests := []struct {
		name    string
		hub     *stubHub
		timeout time.Duration
		wantErr error
	}{
		{"deadline", &stubHub{}, 20 * time.Millisecond, context.DeadlineExceeded},
		{"hub error propagates", &stubHub{err: hubErr}, time.Second, hubErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), tt.timeout)
			defer cancel()

			err := NewWebSocketHubService(tt.hub).Serve(ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Serve() = %v, want %v", err, tt.wantErr)
			}
			if got := tt.hub.runs.Load(); got != 1 {
				t.Errorf("RunWithContext calls = %d, want 1", got)
			}
		})
	}
}

func TestWebSocketHubService_StopsRealHub(t *testing.T) {
	hub := websocket.NewHub(websocket.DefaultConfig())
	hub.SetHandler(noopHandler{})

	sup := suture.New("test-messaging", suture.Spec{Timeout: time.Second})
	sup.Add(NewWebSocketHubService(hub))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)

	time.Sleep(20 * time.Millisecond)
	cancel()
	<-errCh

	select {
	case <-hub.Done():
	case <-time.After(time.Second):
		t.Fatal("hub still running after supervisor stopped")
	}
}

func TestWebSocketHubService_String(t *testing.T) {
	if got := NewWebSocketHubService(&stubHub{}).String(); got != "websocket-hub" {
		t.Errorf("String() = %q, want websocket-hub", got)
	}
}
