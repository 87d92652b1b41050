// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package engine

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/geocrowd/internal/auth"
	"github.com/tomtom215/geocrowd/internal/logging"
	"github.com/tomtom215/geocrowd/internal/models"
)

func init() {
	logging.Init(logging.Config{Level: "error", Format: "console", Output: io.Discard})
}

const (
	testAdminEmail    = "admin@event.com"
	testAdminPassword = "admin"
)

var errConnectionGone = errors.New("connection gone")

// recordingTransport stores every message per connection and can be told
// to fail sends to specific connections.
type recordingTransport struct {
	mu   sync.Mutex
	sent map[string][]models.Outbound
	fail map[string]bool
}

func newRecordingTransport() *recordingTransport {
	return &recordingTransport{
		sent: make(map[string][]models.Outbound),
		fail: make(map[string]bool),
	}
}

func (r *recordingTransport) Send(connID string, msg models.Outbound) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail[connID] {
		return errConnectionGone
	}
	r.sent[connID] = append(r.sent[connID], msg)
	return nil
}

func (r *recordingTransport) failFor(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail[connID] = true
}

func (r *recordingTransport) messages(connID string) []models.Outbound {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Outbound, len(r.sent[connID]))
	copy(out, r.sent[connID])
	return out
}

func (r *recordingTransport) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, msgs := range r.sent {
		n += len(msgs)
	}
	return n
}

func (r *recordingTransport) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = make(map[string][]models.Outbound)
}

// lastSnapshot returns the most recent state_update sent to connID.
func (r *recordingTransport) lastSnapshot(t *testing.T, connID string) models.Snapshot {
	t.Helper()
	msgs := r.messages(connID)
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == models.TypeStateUpdate {
			s, ok := msgs[i].Payload.(models.Snapshot)
			if !ok {
				t.Fatalf("state_update payload is %T, want models.Snapshot", msgs[i].Payload)
			}
			return s
		}
	}
	t.Fatalf("no state_update sent to %s", connID)
	return models.Snapshot{}
}

func newTestEngine(t *testing.T) (*Engine, *recordingTransport) {
	t.Helper()

	authn, err := auth.NewAuthenticator(testAdminEmail, testAdminPassword, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewAuthenticator() error = %v", err)
	}
	authz, err := auth.NewEnforcer()
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}

	tr := newRecordingTransport()
	clock := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	e, err := New(Config{
		Transport:     tr,
		Authenticator: authn,
		Authorizer:    authz,
		Audit:         logging.NewSecurityLoggerWithLogger(logging.NewTestLogger(io.Discard)),
		Now:           func() time.Time { return clock },
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e, tr
}

// frame encodes an envelope the way a browser client would.
func frame(t *testing.T, msgType string, payload interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(map[string]interface{}{"type": msgType, "payload": payload})
	if err != nil {
		t.Fatalf("marshal frame: %v", err)
	}
	return data
}

func send(t *testing.T, e *Engine, connID, msgType string, payload interface{}) error {
	t.Helper()
	return e.HandleMessage(connID, frame(t, msgType, payload))
}

func loginAdmin(t *testing.T, e *Engine, connID string) {
	t.Helper()
	if err := send(t, e, connID, "login", map[string]string{
		"email":    testAdminEmail,
		"password": testAdminPassword,
	}); err != nil {
		t.Fatalf("admin login error = %v", err)
	}
}

func locate(t *testing.T, e *Engine, connID string, lat, lon float64) {
	t.Helper()
	if err := send(t, e, connID, "location_update", map[string]float64{"lat": lat, "lon": lon}); err != nil {
		t.Fatalf("location_update error = %v", err)
	}
}

// onlyZone returns the single zone in the engine.
func onlyZone(t *testing.T, e *Engine) models.Zone {
	t.Helper()
	zones := e.Zones()
	if len(zones) != 1 {
		t.Fatalf("zone count = %d, want 1", len(zones))
	}
	for _, z := range zones {
		return z
	}
	return models.Zone{}
}
