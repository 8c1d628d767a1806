package session

import (
	"context"
	"log"

	"github.com/bankpoc/banking-ui/shared/cqrs"
	"github.com/bankpoc/banking-ui/shared/events"
	"github.com/bankpoc/banking-ui/shared/models"
)

// Manager ties the store, the token contract and the session event stream.
type Manager struct {
	store      *Store
	tokens     *TokenIssuer
	publisher  events.Emitter
	instanceID string
}

func NewManager(store *Store, tokens *TokenIssuer, publisher events.Emitter, instanceID string) *Manager {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Manager{store: store, tokens: tokens, publisher: publisher, instanceID: instanceID}
}

// Start creates a session for user and returns the token for the browser.
func (m *Manager) Start(ctx context.Context, user models.User) (string, error) {
	id := m.store.Login(ctx, user)
	token, err := m.tokens.Issue(id)
	if err != nil {
		m.store.Logout(ctx, id)
		return "", err
	}
	if err := m.publisher.Publish(ctx, events.SessionEventsStream, events.SessionCreated, events.SessionCreatedEvent{
		SessionID: id,
		Username:  user.Username,
		Role:      string(user.Role),
	}); err != nil {
		log.Printf("Failed to publish session.created event: %v", err)
	}
	return token, nil
}

// Resolve maps a browser token to its session. Any problem means no session.
func (m *Manager) Resolve(ctx context.Context, token string) (string, *models.User, bool) {
	if token == "" {
		return "", nil, false
	}
	id, err := m.tokens.Parse(token)
	if err != nil {
		return "", nil, false
	}
	user, ok := m.store.Get(ctx, id)
	if !ok {
		return "", nil, false
	}
	return id, user, true
}

// End revokes the session everywhere.
func (m *Manager) End(ctx context.Context, cmd cqrs.LogoutCommand) {
	m.store.Logout(ctx, cmd.SessionID)
	if err := m.publisher.Publish(ctx, events.SessionEventsStream, events.SessionRevoked, events.SessionRevokedEvent{
		SessionID: cmd.SessionID,
		Username:  cmd.Username,
		Origin:    m.instanceID,
	}); err != nil {
		log.Printf("Failed to publish session.revoked event: %v", err)
	}
}

// HandleSessionEvent evicts sessions revoked on other instances.
func (m *Manager) HandleSessionEvent(ctx context.Context, event events.Event) error {
	if event.Type != events.SessionRevoked {
		return nil
	}
	var data events.SessionRevokedEvent
	if err := event.Decode(&data); err != nil {
		return err
	}
	if data.Origin == m.instanceID {
		return nil
	}
	m.store.Evict(data.SessionID)
	log.Printf("Session %s for %s revoked by %s", data.SessionID, data.Username, data.Origin)
	return nil
}

func (m *Manager) TokenTTL() int {
	return int(m.tokens.TTL().Seconds())
}
