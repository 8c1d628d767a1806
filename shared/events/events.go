package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types
const (
	SessionCreated = "session.created"
	SessionRevoked = "session.revoked"

	TransactionSubmitted = "transaction.submitted"
)

// Stream names
const (
	SessionEventsStream     = "session.events"
	TransactionEventsStream = "transaction.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Decode re-reads the loosely typed Data payload into out.
func (e Event) Decode(out any) error {
	raw, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", e.Type, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %w", e.Type, err)
	}
	return nil
}

// Session events
type SessionCreatedEvent struct {
	SessionID string `json:"sessionId"`
	Username  string `json:"username"`
	Role      string `json:"role"`
}

type SessionRevokedEvent struct {
	SessionID string `json:"sessionId"`
	Username  string `json:"username"`
	Origin    string `json:"origin"`
}

// Transaction events. The card number is masked and the PIN is never included.
type TransactionSubmittedEvent struct {
	Username         string  `json:"username"`
	MaskedCardNumber string  `json:"maskedCardNumber"`
	Type             string  `json:"type"`
	Amount           float64 `json:"amount"`
	Success          bool    `json:"success"`
	Message          string  `json:"message"`
}
