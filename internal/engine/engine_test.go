// Geocrowd - Real-time Zone Occupancy Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocrowd

package engine

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/geocrowd/internal/logging"
	"github.com/tomtom215/geocrowd/internal/models"
	"github.com/tomtom215/geocrowd/internal/validation"
)

func TestNew_RequiresCollaborators(t *testing.T) {
	t.Parallel()

	tr := newRecordingTransport()
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"no transport", Config{}, ErrNilTransport},
		{"no authenticator", Config{Transport: tr}, ErrNilAuthenticator},
	}
	for _, tt := range tests {
		if _, err := New(tt.cfg); !errors.Is(err, tt.want) {
			t.Errorf("%s: New() error = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestConnect_DoesNotBroadcast(t *testing.T) {
	t.Parallel()

	e, tr := newTestEngine(t)
	e.Connect("c1")
	e.Connect("c2")

	if tr.total() != 0 {
		t.Errorf("connect sent %d messages, want 0", tr.total())
	}
	if got := e.Stats(); got.Clients != 2 || got.Users != 2 {
		t.Errorf("Stats() = %+v, want 2 user clients", got)
	}
}

func TestLogin_AssignsRoleAndReplies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		want     models.Role
	}{
		{"correct credentials", testAdminPassword, models.RoleAdmin},
		{"wrong password", "nope", models.RoleUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e, tr := newTestEngine(t)
			e.Connect("c1")
			if err := send(t, e, "c1", "login", map[string]string{
				"email":    testAdminEmail,
				"password": tt.password,
			}); err != nil {
				t.Fatalf("login error = %v", err)
			}

			msgs := tr.messages("c1")
			if len(msgs) != 2 {
				t.Fatalf("sent %d messages, want login_success then state_update", len(msgs))
			}
			if msgs[0].Type != models.TypeLoginSuccess {
				t.Fatalf("first message = %s, want login_success", msgs[0].Type)
			}
			if got := msgs[0].Payload.(models.LoginSuccess).Role; got != tt.want {
				t.Errorf("login_success role = %s, want %s", got, tt.want)
			}
			if msgs[1].Type != models.TypeStateUpdate {
				t.Errorf("second message = %s, want state_update", msgs[1].Type)
			}
			if c, _ := e.Clients()["c1"]; c.Role != tt.want {
				t.Errorf("registry role = %s, want %s", c.Role, tt.want)
			}
		})
	}
}

func TestSnapshots_AreRoleScoped(t *testing.T) {
	t.Parallel()

	e, tr := newTestEngine(t)
	e.Connect("admin")
	e.Connect("u1")
	e.Connect("u2")
	loginAdmin(t, e, "admin")
	locate(t, e, "u1", 1, 1)

	userSnap := tr.lastSnapshot(t, "u1")
	if len(userSnap.Users) != 0 {
		t.Errorf("user snapshot exposes %d clients, want 0", len(userSnap.Users))
	}
	if userSnap.Users == nil {
		t.Error("user snapshot Users is nil, want empty map")
	}

	adminSnap := tr.lastSnapshot(t, "admin")
	if len(adminSnap.Users) != 3 {
		t.Fatalf("admin snapshot has %d clients, want 3", len(adminSnap.Users))
	}
	u1 := adminSnap.Users["u1"]
	if u1.Lat == nil || *u1.Lat != 1 {
		t.Errorf("admin snapshot u1 = %+v, want lat 1", u1)
	}
	if adminSnap.Users["admin"].Role != models.RoleAdmin {
		t.Errorf("admin snapshot shows admin role %s", adminSnap.Users["admin"].Role)
	}

	// The wire form of a user snapshot carries "users":{}.
	data, err := json.Marshal(models.NewStateUpdate(userSnap))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		Payload struct {
			Users map[string]interface{} `json:"users"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Payload.Users == nil || len(decoded.Payload.Users) != 0 {
		t.Errorf("encoded users = %v, want {}", decoded.Payload.Users)
	}
}

func TestScenarios_EndToEnd(t *testing.T) {
	t.Parallel()

	e, tr := newTestEngine(t)
	for _, id := range []string{"admin", "A", "B", "C"} {
		e.Connect(id)
	}
	loginAdmin(t, e, "admin")

	if err := send(t, e, "admin", "create_zone", map[string]float64{
		"lat": 0, "lon": 0, "radius": 100000, "threshold": 1,
	}); err != nil {
		t.Fatalf("create_zone error = %v", err)
	}
	zoneID := onlyZone(t, e).ID

	// Scenario A.
	locate(t, e, "A", 0, 0)
	locate(t, e, "B", 1, 0)
	z := tr.lastSnapshot(t, "A").Zones[zoneID]
	if z.Count != 1 || z.IsCrowded {
		t.Fatalf("scenario A snapshot: count=%d crowded=%v, want 1/false", z.Count, z.IsCrowded)
	}

	// Scenario B.
	locate(t, e, "C", 0, 0.0005)
	z = tr.lastSnapshot(t, "B").Zones[zoneID]
	if z.Count != 2 || !z.IsCrowded {
		t.Fatalf("scenario B snapshot: count=%d crowded=%v, want 2/true", z.Count, z.IsCrowded)
	}

	// Admins never count, even once located.
	locate(t, e, "admin", 0, 0)
	if z = tr.lastSnapshot(t, "admin").Zones[zoneID]; z.Count != 2 {
		t.Errorf("admin counted: count = %d, want 2", z.Count)
	}
}

func TestDeleteUnknownZone_BroadcastsUnchangedState(t *testing.T) {
	t.Parallel()

	e, tr := newTestEngine(t)
	e.Connect("admin")
	loginAdmin(t, e, "admin")
	if err := send(t, e, "admin", "create_zone", map[string]float64{"lat": 5, "lon": 5, "radius": 50}); err != nil {
		t.Fatalf("create_zone error = %v", err)
	}
	before := tr.lastSnapshot(t, "admin").Zones
	sentBefore := len(tr.messages("admin"))

	err := send(t, e, "admin", "delete_zone", map[string]string{"id": "does-not-exist"})
	if !errors.Is(err, ErrUnknownZone) {
		t.Errorf("delete_zone error = %v, want ErrUnknownZone", err)
	}

	if got := len(tr.messages("admin")); got != sentBefore+1 {
		t.Fatalf("delete_zone(unknown) sent %d messages, want 1 broadcast", got-sentBefore)
	}
	after := tr.lastSnapshot(t, "admin").Zones
	if !reflect.DeepEqual(before, after) {
		t.Errorf("zones changed:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestAdminCommands_RefusedForUsers(t *testing.T) {
	t.Parallel()

	e, tr := newTestEngine(t)
	e.Connect("admin")
	e.Connect("user")
	loginAdmin(t, e, "admin")
	if err := send(t, e, "admin", "create_zone", map[string]float64{"lat": 1, "lon": 1, "radius": 10, "threshold": 2}); err != nil {
		t.Fatalf("create_zone error = %v", err)
	}
	zone := onlyZone(t, e)

	attempts := []struct {
		msgType string
		payload interface{}
	}{
		{"create_zone", map[string]float64{"lat": 2, "lon": 2, "radius": 10}},
		{"update_zone", map[string]interface{}{"id": zone.ID, "threshold": 99}},
		{"delete_zone", map[string]string{"id": zone.ID}},
	}
	for _, a := range attempts {
		tr.reset()
		err := send(t, e, "user", a.msgType, a.payload)
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("%s by user: error = %v, want ErrUnauthorized", a.msgType, err)
		}
		if got := onlyZone(t, e); got != zone {
			t.Errorf("%s by user changed zone store: %+v", a.msgType, got)
		}
		// Indistinguishable from a no-op: everyone still gets a state_update
		// and the sender gets nothing else.
		msgs := tr.messages("user")
		if len(msgs) != 1 || msgs[0].Type != models.TypeStateUpdate {
			t.Errorf("%s by user: sender got %v, want a single state_update", a.msgType, msgs)
		}
		if len(tr.messages("admin")) != 1 {
			t.Errorf("%s by user: admin got %d messages, want 1", a.msgType, len(tr.messages("admin")))
		}
	}
}

func TestRoleChecksUseCurrentRole(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t)
	e.Connect("c1")
	loginAdmin(t, e, "c1")

	if err := send(t, e, "c1", "create_zone", map[string]float64{"lat": 0, "lon": 0, "radius": 1}); err != nil {
		t.Fatalf("create_zone as admin error = %v", err)
	}

	// A later failed login demotes the connection without reconnecting.
	if err := send(t, e, "c1", "login", map[string]string{"email": testAdminEmail, "password": "bad"}); err != nil {
		t.Fatalf("login error = %v", err)
	}
	err := send(t, e, "c1", "create_zone", map[string]float64{"lat": 0, "lon": 0, "radius": 1})
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("create_zone after demotion error = %v, want ErrUnauthorized", err)
	}
	if n := len(e.Zones()); n != 1 {
		t.Errorf("zone count = %d, want 1", n)
	}
}

func TestUpdateZone_PartialMerge(t *testing.T) {
	t.Parallel()

	e, tr := newTestEngine(t)
	e.Connect("admin")
	loginAdmin(t, e, "admin")
	if err := send(t, e, "admin", "create_zone", map[string]interface{}{
		"name": "Main stage", "lat": 51.5, "lon": -0.12, "radius": 250, "threshold": 1,
	}); err != nil {
		t.Fatalf("create_zone error = %v", err)
	}
	before := onlyZone(t, e)

	if err := send(t, e, "admin", "update_zone", map[string]interface{}{"id": before.ID, "threshold": 5}); err != nil {
		t.Fatalf("update_zone error = %v", err)
	}

	after := tr.lastSnapshot(t, "admin").Zones[before.ID]
	if after.Threshold != 5 {
		t.Errorf("threshold = %d, want 5", after.Threshold)
	}
	if after.Lat != before.Lat || after.Lon != before.Lon || after.Radius != before.Radius || after.Name != before.Name {
		t.Errorf("untouched fields changed: before %+v after %+v", before, after)
	}
}

func TestUpdateZone_CannotSetDerivedFields(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t)
	e.Connect("admin")
	loginAdmin(t, e, "admin")
	if err := send(t, e, "admin", "create_zone", map[string]float64{"lat": 0, "lon": 0, "radius": 10, "threshold": 3}); err != nil {
		t.Fatalf("create_zone error = %v", err)
	}
	id := onlyZone(t, e).ID

	if err := send(t, e, "admin", "update_zone", map[string]interface{}{
		"id": id, "count": 50, "is_crowded": true,
	}); err != nil {
		t.Fatalf("update_zone error = %v", err)
	}
	z := onlyZone(t, e)
	if z.ID != id || z.Count != 0 || z.IsCrowded {
		t.Errorf("derived fields overwritten: %+v", z)
	}
}

func TestRejectedPayloads(t *testing.T) {
	t.Parallel()

	e, tr := newTestEngine(t)
	e.Connect("admin")
	e.Connect("u1")
	loginAdmin(t, e, "admin")
	locate(t, e, "u1", 10, 10)
	if err := send(t, e, "admin", "create_zone", map[string]float64{"lat": 10, "lon": 10, "radius": 100}); err != nil {
		t.Fatalf("create_zone error = %v", err)
	}
	zone := onlyZone(t, e)

	tests := []struct {
		name    string
		conn    string
		msgType string
		payload interface{}
		wantErr error
	}{
		{"create without lon", "admin", "create_zone", map[string]float64{"lat": 1, "radius": 5}, ErrInvalidPayload},
		{"create with negative radius", "admin", "create_zone", map[string]float64{"lat": 1, "lon": 1, "radius": -5}, ErrInvalidPayload},
		{"create with negative threshold", "admin", "create_zone", map[string]float64{"lat": 1, "lon": 1, "radius": 5, "threshold": -1}, ErrInvalidPayload},
		{"update with bad latitude", "admin", "update_zone", map[string]interface{}{"id": zone.ID, "lat": 123}, ErrInvalidPayload},
		{"update without id", "admin", "update_zone", map[string]interface{}{"threshold": 4}, ErrUnknownZone},
		{"update unknown id", "admin", "update_zone", map[string]interface{}{"id": "nope", "threshold": 4}, ErrUnknownZone},
		{"location with lat only", "u1", "location_update", map[string]float64{"lat": 0}, ErrInvalidPayload},
		{"location with lon only", "u1", "location_update", map[string]float64{"lon": 0}, ErrInvalidPayload},
		{"location out of range", "u1", "location_update", map[string]float64{"lat": 0, "lon": 200}, ErrInvalidPayload},
		{"location negative accuracy", "u1", "location_update", map[string]float64{"lat": 0, "lon": 0, "accuracy": -1}, ErrInvalidPayload},
	}
	for _, tt := range tests {
		tr.reset()
		err := send(t, e, tt.conn, tt.msgType, tt.payload)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: error = %v, want %v", tt.name, err, tt.wantErr)
		}
		if got := onlyZone(t, e); got != zone {
			t.Errorf("%s: zone store changed: %+v", tt.name, got)
		}
		u1 := e.Clients()["u1"]
		if *u1.Lat != 10 || *u1.Lon != 10 {
			t.Errorf("%s: client position changed to (%v,%v)", tt.name, *u1.Lat, *u1.Lon)
		}
		if len(tr.messages("u1")) != 1 {
			t.Errorf("%s: rejected command should still broadcast once, got %d", tt.name, len(tr.messages("u1")))
		}
	}
}

func TestMalformedAndUnknown_NeverBroadcast(t *testing.T) {
	t.Parallel()

	e, tr := newTestEngine(t)
	e.Connect("c1")

	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"not json", `{{{`, models.ErrMalformedMessage},
		{"array", `[1,2]`, models.ErrMalformedMessage},
		{"missing type", `{"payload":{}}`, models.ErrMalformedMessage},
		{"payload not an object", `{"type":"login","payload":"admin"}`, models.ErrMalformedMessage},
		{"wrong field type", `{"type":"location_update","payload":{"lat":"north","lon":1}}`, models.ErrMalformedMessage},
		{"fractional threshold", `{"type":"create_zone","payload":{"lat":0,"lon":0,"radius":1,"threshold":1.5}}`, models.ErrMalformedMessage},
		{"threshold with decimal point", `{"type":"update_zone","payload":{"id":"z1","threshold":1.0}}`, models.ErrMalformedMessage},
		{"unknown type", `{"type":"self_destruct","payload":{}}`, ErrUnknownMessageType},
		{"outbound type sent inbound", `{"type":"state_update","payload":{}}`, ErrUnknownMessageType},
	}
	for _, tt := range tests {
		err := e.HandleMessage("c1", []byte(tt.data))
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: error = %v, want %v", tt.name, err, tt.wantErr)
		}
	}
	if tr.total() != 0 {
		t.Errorf("dropped frames caused %d sends, want 0", tr.total())
	}
}

func TestStringEncodedEnvelope(t *testing.T) {
	t.Parallel()

	e, tr := newTestEngine(t)
	e.Connect("c1")

	inner := fmt.Sprintf(`{"type":"login","payload":{"email":%q,"password":%q}}`, testAdminEmail, testAdminPassword)
	outer, err := json.Marshal(inner)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := e.HandleMessage("c1", outer); err != nil {
		t.Fatalf("HandleMessage(string envelope) error = %v", err)
	}
	msgs := tr.messages("c1")
	if len(msgs) == 0 || msgs[0].Payload.(models.LoginSuccess).Role != models.RoleAdmin {
		t.Errorf("string envelope login replies = %+v, want admin login_success", msgs)
	}
}

func TestDisconnect_RemovesClientEverywhere(t *testing.T) {
	t.Parallel()

	e, tr := newTestEngine(t)
	e.Connect("admin")
	e.Connect("u1")
	e.Connect("u2")
	loginAdmin(t, e, "admin")
	if err := send(t, e, "admin", "create_zone", map[string]float64{"lat": 0, "lon": 0, "radius": 1000, "threshold": 1}); err != nil {
		t.Fatalf("create_zone error = %v", err)
	}
	locate(t, e, "u1", 0, 0)
	locate(t, e, "u2", 0, 0)
	zoneID := onlyZone(t, e).ID

	if z := tr.lastSnapshot(t, "admin").Zones[zoneID]; !z.IsCrowded {
		t.Fatalf("precondition: zone should be crowded, got %+v", z)
	}

	tr.reset()
	e.Disconnect("u2")

	if len(tr.messages("u2")) != 0 {
		t.Error("disconnected client received the disconnect broadcast")
	}
	snap := tr.lastSnapshot(t, "admin")
	if _, present := snap.Users["u2"]; present {
		t.Error("disconnected client still in admin snapshot")
	}
	if z := snap.Zones[zoneID]; z.Count != 1 || z.IsCrowded {
		t.Errorf("after disconnect count=%d crowded=%v, want 1/false", z.Count, z.IsCrowded)
	}
	if len(tr.messages("u1")) != 1 {
		t.Errorf("remaining user got %d messages, want 1", len(tr.messages("u1")))
	}

	// Disconnecting twice is harmless.
	e.Disconnect("u2")
}

func TestDisconnect_BatchBroadcastsOnce(t *testing.T) {
	t.Parallel()

	e, tr := newTestEngine(t)
	for _, id := range []string{"a", "b", "c"} {
		e.Connect(id)
	}

	e.Disconnect("a", "b")

	if got := tr.total(); got != 1 {
		t.Errorf("batch disconnect sent %d messages, want 1", got)
	}
	if len(tr.messages("c")) != 1 {
		t.Errorf("survivor got %d messages, want 1", len(tr.messages("c")))
	}
	if got := e.Stats().Clients; got != 1 {
		t.Errorf("Stats().Clients = %d, want 1", got)
	}

	tr.reset()
	e.Disconnect()
	if tr.total() != 0 {
		t.Error("empty Disconnect should not broadcast")
	}
}

func TestBroadcast_SendFailureIsIsolated(t *testing.T) {
	t.Parallel()

	e, tr := newTestEngine(t)
	for _, id := range []string{"a", "b", "c"} {
		e.Connect(id)
	}
	tr.failFor("b")

	locate(t, e, "a", 1, 1)

	if len(tr.messages("a")) != 1 || len(tr.messages("c")) != 1 {
		t.Errorf("healthy connections got a=%d c=%d messages, want 1 each",
			len(tr.messages("a")), len(tr.messages("c")))
	}
}

func TestLocationUpdate_StoresAccuracy(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t)
	e.Connect("u")
	if err := send(t, e, "u", "location_update", map[string]float64{"lat": 1, "lon": 2, "accuracy": 12.5}); err != nil {
		t.Fatalf("location_update error = %v", err)
	}
	c := e.Clients()["u"]
	if c.Accuracy == nil || *c.Accuracy != 12.5 {
		t.Errorf("accuracy = %v, want 12.5", c.Accuracy)
	}
}

// Concurrent events must leave every snapshot consistent with the registry.
func TestConcurrentEvents(t *testing.T) {
	t.Parallel()

	e, tr := newTestEngine(t)
	e.Connect("admin")
	loginAdmin(t, e, "admin")
	if err := send(t, e, "admin", "create_zone", map[string]float64{"lat": 0, "lon": 0, "radius": 5000, "threshold": 10}); err != nil {
		t.Fatalf("create_zone error = %v", err)
	}
	zoneID := onlyZone(t, e).ID

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("u%d", i)
			e.Connect(id)
			for j := 0; j < 5; j++ {
				lat := 0.0
				if j%2 == 1 {
					lat = 1
				}
				_ = e.HandleMessage(id, []byte(fmt.Sprintf(`{"type":"location_update","payload":{"lat":%v,"lon":0}}`, lat)))
			}
			if i%4 == 0 {
				e.Disconnect(id)
			}
		}(i)
	}
	wg.Wait()

	// Last location of every worker is j=4, lat 0, inside; a quarter left.
	want := workers - workers/4
	snap := tr.lastSnapshot(t, "admin")
	if z := snap.Zones[zoneID]; z.Count != want || !z.IsCrowded {
		t.Errorf("final count=%d crowded=%v, want %d/true", z.Count, z.IsCrowded, want)
	}
	if len(snap.Users) != want+1 {
		t.Errorf("admin sees %d clients, want %d", len(snap.Users), want+1)
	}
}

// Swaps the global log level, so not parallel.
func TestRejectedPayload_LogsViolations(t *testing.T) {
	prev := logging.GetLevel()
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	e, _ := newTestEngine(t)
	var buf bytes.Buffer
	e.log = zerolog.New(&buf)

	e.Connect("admin")
	loginAdmin(t, e, "admin")

	err := send(t, e, "admin", "create_zone", map[string]float64{"lat": 1, "lon": 1, "radius": -5})
	var verr *validation.RequestValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want a wrapped *validation.RequestValidationError", err)
	}
	if got := verr.Fields(); len(got) != 1 || got[0] != "radius" {
		t.Errorf("Fields() = %v, want [radius]", got)
	}

	var line struct {
		Message    string   `json:"message"`
		Fields     []string `json:"fields"`
		Violations []struct {
			Field string `json:"field"`
			Tag   string `json:"tag"`
		} `json:"violations"`
	}
	if uerr := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); uerr != nil {
		t.Fatalf("decode log %q: %v", buf.String(), uerr)
	}
	if line.Message != "Rejected command payload" {
		t.Errorf("message = %q", line.Message)
	}
	if len(line.Fields) != 1 || line.Fields[0] != "radius" {
		t.Errorf("fields = %v, want [radius]", line.Fields)
	}
	if len(line.Violations) != 1 || line.Violations[0].Tag != "gte" {
		t.Errorf("violations = %+v, want one gte on radius", line.Violations)
	}
}
