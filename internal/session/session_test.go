package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bankpoc/banking-ui/shared/cqrs"
	"github.com/bankpoc/banking-ui/shared/events"
	"github.com/bankpoc/banking-ui/shared/models"
)

// ---- mock implementations ----

// mockMirror stores raw entries; a nil entry stands for a malformed record.
type mockMirror struct {
	mu      sync.Mutex
	entries map[string]*models.User
	setErr  error
}

func newMockMirror() *mockMirror {
	return &mockMirror{entries: make(map[string]*models.User)}
}

func (m *mockMirror) Get(_ context.Context, id string) (*models.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.entries[id]
	if !ok || u == nil {
		return nil, false
	}
	cp := *u
	return &cp, true
}

func (m *mockMirror) Set(_ context.Context, id string, user *models.User) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.entries[id] = &cp
	return nil
}

func (m *mockMirror) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

type recordedEvent struct {
	stream, eventType string
	data              any
}

type mockPublisher struct {
	events []recordedEvent
}

func (p *mockPublisher) Publish(_ context.Context, stream, eventType string, data any) error {
	p.events = append(p.events, recordedEvent{stream, eventType, data})
	return nil
}

var cust1 = models.User{Username: "cust1", Role: models.RoleCustomer, CardNumber: "4123456789012345"}

// ---- store ----

func TestStoreLoginMirrorsAndLogoutClears(t *testing.T) {
	ctx := context.Background()
	mirror := newMockMirror()
	store := NewStore(mirror)

	id := store.Login(ctx, cust1)
	if _, ok := mirror.entries[id]; !ok {
		t.Fatal("login should mirror the user")
	}
	if u, ok := store.Get(ctx, id); !ok || u.Username != "cust1" {
		t.Fatalf("expected session for cust1, got %+v %v", u, ok)
	}

	store.Logout(ctx, id)
	if _, ok := store.Get(ctx, id); ok {
		t.Error("session should be gone after logout")
	}
	if _, ok := mirror.entries[id]; ok {
		t.Error("mirror entry should be gone after logout")
	}
}

func TestStoreRestoresFromMirror(t *testing.T) {
	ctx := context.Background()
	mirror := newMockMirror()
	id := NewStore(mirror).Login(ctx, cust1)

	// A fresh store stands for a restarted process.
	restarted := NewStore(mirror)
	u, ok := restarted.Get(ctx, id)
	if !ok || u.CardNumber != cust1.CardNumber {
		t.Fatalf("expected restored session, got %+v %v", u, ok)
	}
}

func TestStoreTreatsBadMirrorEntriesAsAbsent(t *testing.T) {
	ctx := context.Background()
	mirror := newMockMirror()
	mirror.entries["sess-malformed"] = nil
	mirror.entries["sess-norole"] = &models.User{Username: "cust1"}
	mirror.entries["sess-nouser"] = &models.User{Role: models.RoleAdmin}
	store := NewStore(mirror)

	for _, id := range []string{"sess-malformed", "sess-norole", "sess-nouser", "sess-missing", ""} {
		if _, ok := store.Get(ctx, id); ok {
			t.Errorf("%q should yield no session", id)
		}
	}
}

func TestStoreSurvivesMirrorWriteFailure(t *testing.T) {
	ctx := context.Background()
	mirror := newMockMirror()
	mirror.setErr = fmt.Errorf("connection refused")
	store := NewStore(mirror)

	id := store.Login(ctx, cust1)
	if _, ok := store.Get(ctx, id); !ok {
		t.Error("session should still work in memory")
	}
}

func TestStoreMemoryOnly(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	id := store.Login(ctx, cust1)
	if _, ok := store.Get(ctx, id); !ok {
		t.Fatal("expected in-memory session")
	}
	store.Logout(ctx, id)
	if _, ok := store.Get(ctx, id); ok {
		t.Error("expected no session after logout")
	}
}

// ---- token ----

func TestTokenRoundTripAndRejection(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Hour)
	token, err := issuer.Issue("sess-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if id, err := issuer.Parse(token); err != nil || id != "sess-1" {
		t.Fatalf("parse = %q, %v", id, err)
	}

	if _, err := NewTokenIssuer("secret-b", time.Hour).Parse(token); err == nil {
		t.Error("token signed with another secret must be rejected")
	}
	if _, err := issuer.Parse("not-a-token"); err == nil {
		t.Error("garbage must be rejected")
	}

	expired := NewTokenIssuer("secret-a", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _ := expired.Issue("sess-2")
	if _, err := issuer.Parse(old); err == nil {
		t.Error("expired token must be rejected")
	}
}

// ---- manager ----

func TestManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	pub := &mockPublisher{}
	m := NewManager(NewStore(newMockMirror()), NewTokenIssuer("secret", time.Hour), pub, "node-a")

	token, err := m.Start(ctx, cust1)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	id, user, ok := m.Resolve(ctx, token)
	if !ok || user.Username != "cust1" {
		t.Fatalf("resolve failed: %+v %v", user, ok)
	}

	m.End(ctx, cqrs.LogoutCommand{SessionID: id, Username: user.Username})
	if _, _, ok := m.Resolve(ctx, token); ok {
		t.Error("token must not resolve after logout (revocable)")
	}

	if len(pub.events) != 2 || pub.events[0].eventType != events.SessionCreated || pub.events[1].eventType != events.SessionRevoked {
		t.Errorf("unexpected events %+v", pub.events)
	}
	if _, _, ok := m.Resolve(ctx, ""); ok {
		t.Error("empty token must not resolve")
	}
}

func TestManagerHandleSessionEvent(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	m := NewManager(store, NewTokenIssuer("secret", time.Hour), nil, "node-b")
	id := store.Login(ctx, cust1)

	own := events.Event{Type: events.SessionRevoked, Data: events.SessionRevokedEvent{SessionID: id, Origin: "node-b"}}
	if err := m.HandleSessionEvent(ctx, own); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if _, ok := store.Get(ctx, id); !ok {
		t.Fatal("own events are already applied locally and must be ignored")
	}

	other := events.Event{Type: events.SessionRevoked, Data: events.SessionRevokedEvent{SessionID: id, Origin: "node-a"}}
	if err := m.HandleSessionEvent(ctx, other); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if _, ok := store.Get(ctx, id); ok {
		t.Error("session revoked elsewhere must be evicted")
	}

	if err := m.HandleSessionEvent(ctx, events.Event{Type: events.SessionCreated}); err != nil {
		t.Errorf("unrelated events are ignored, got %v", err)
	}
}
