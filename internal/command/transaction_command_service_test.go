package command

import (
	"context"
	"sync"
	"testing"

	"github.com/bankpoc/banking-ui/shared/cqrs"
	"github.com/bankpoc/banking-ui/shared/events"
	"github.com/bankpoc/banking-ui/shared/models"
)

// ---- mock implementations ----

type mockGateway struct {
	mu       sync.Mutex
	cardFn   func(username string) *models.CardInfo
	submitFn func(models.TransactionRequest) models.TransactionResponse
	requests []models.TransactionRequest
}

// coreCards is what core banking holds when cardFn is not set.
var coreCards = map[string]string{
	"cust1": "4123456789012345",
	"cust2": "4987654321098765",
}

func (m *mockGateway) CardByUsername(_ context.Context, username string) *models.CardInfo {
	if m.cardFn != nil {
		return m.cardFn(username)
	}
	number, ok := coreCards[username]
	if !ok {
		return nil
	}
	return &models.CardInfo{CardNumber: number, Username: username}
}

func (m *mockGateway) SubmitTransaction(_ context.Context, req models.TransactionRequest) models.TransactionResponse {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.submitFn(req)
}

type mockPublisher struct {
	mu     sync.Mutex
	events []any
}

func (p *mockPublisher) Publish(_ context.Context, _, _ string, data any) error {
	p.mu.Lock()
	p.events = append(p.events, data)
	p.mu.Unlock()
	return nil
}

// ---- helpers ----

var cust1 = models.User{Username: "cust1", Role: models.RoleCustomer, CardNumber: "4123456789012345"}

func floatPtr(v float64) *float64 { return &v }

func submit(svc *TransactionCommandService, txType, amount, pin string) SubmitOutcome {
	return svc.SubmitTransaction(context.Background(), cqrs.SubmitTransactionCommand{
		SessionID: "sess-1", User: cust1, Type: txType, Amount: amount, PIN: pin,
	})
}

// ---- tests ----

func TestSubmitTransaction(t *testing.T) {
	tests := []struct {
		name        string
		txType      string
		amount      string
		response    models.TransactionResponse
		wantSuccess bool
		wantMessage string
	}{
		{
			name:   "success - withdrawal reports new balance",
			txType: "withdraw", amount: "50.00",
			response:    models.TransactionResponse{Success: true, Message: "Transaction successful", NewBalance: floatPtr(450)},
			wantSuccess: true,
			wantMessage: "Withdrawal successful! New balance: $450.00",
		},
		{
			name:   "success - top-up reports new balance",
			txType: "topup", amount: "25.5",
			response:    models.TransactionResponse{Success: true, NewBalance: floatPtr(525.5)},
			wantSuccess: true,
			wantMessage: "Top-up successful! New balance: $525.50",
		},
		{
			name:   "success - no balance in response",
			txType: "topup", amount: "1",
			response:    models.TransactionResponse{Success: true, Message: "Queued"},
			wantSuccess: true,
			wantMessage: "Top-up successful! Queued",
		},
		{
			name:   "failure - backend message shown verbatim",
			txType: "withdraw", amount: "5000",
			response:    models.TransactionResponse{Success: false, Message: "Insufficient balance"},
			wantMessage: "Insufficient balance",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &mockGateway{submitFn: func(models.TransactionRequest) models.TransactionResponse { return tt.response }}
			out := submit(NewTransactionCommandService(gw, nil), tt.txType, tt.amount, "1234")

			if out.Success != tt.wantSuccess || out.Message != tt.wantMessage {
				t.Fatalf("got success=%v message=%q", out.Success, out.Message)
			}
			if tt.wantSuccess {
				if out.DialogOpen || out.Form != (TransactionForm{}) {
					t.Errorf("success must close the dialog and clear fields, got %+v", out)
				}
			} else {
				want := TransactionForm{Type: tt.txType, Amount: tt.amount, PIN: "1234"}
				if !out.DialogOpen || out.Form != want {
					t.Errorf("failure must keep the dialog open with the entered values, got %+v", out)
				}
			}
		})
	}
}

func TestSubmitTransactionBuildsRequest(t *testing.T) {
	gw := &mockGateway{submitFn: func(models.TransactionRequest) models.TransactionResponse {
		return models.TransactionResponse{Success: true}
	}}
	submit(NewTransactionCommandService(gw, nil), "topup", "10.005", "9876")

	if len(gw.requests) != 1 {
		t.Fatalf("expected one request, got %d", len(gw.requests))
	}
	want := models.TransactionRequest{CardNumber: "4123456789012345", PIN: "9876", Amount: 10.01, Type: "topup"}
	if gw.requests[0] != want {
		t.Errorf("got %+v, want %+v", gw.requests[0], want)
	}
}

func TestSubmitTransactionRejectedBeforeGateway(t *testing.T) {
	gw := &mockGateway{submitFn: func(models.TransactionRequest) models.TransactionResponse {
		t.Fatal("gateway must not be called")
		return models.TransactionResponse{}
	}}
	svc := NewTransactionCommandService(gw, nil)

	out := submit(svc, "topup", "ten", "1234")
	if out.Success || !out.DialogOpen || out.Message != NoticeInvalidAmount || out.Form.Amount != "ten" {
		t.Errorf("unexpected outcome for bad amount %+v", out)
	}

	out = svc.SubmitTransaction(context.Background(), cqrs.SubmitTransactionCommand{
		SessionID: "sess-admin", User: models.User{Username: "admin", Role: models.RoleAdmin}, Type: "topup", Amount: "1", PIN: "1234",
	})
	if out.Success || out.Message != NoticeNoCard {
		t.Errorf("unexpected outcome without card %+v", out)
	}
}

func TestSubmitTransactionUsesCoreBankingCard(t *testing.T) {
	gw := &mockGateway{submitFn: func(models.TransactionRequest) models.TransactionResponse {
		return models.TransactionResponse{Success: true, NewBalance: floatPtr(10)}
	}}
	svc := NewTransactionCommandService(gw, nil)

	// No card in the credential table, but core banking has one.
	out := svc.SubmitTransaction(context.Background(), cqrs.SubmitTransactionCommand{
		SessionID: "sess-3", User: models.User{Username: "cust2", Role: models.RoleCustomer}, Type: "topup", Amount: "10", PIN: "5678",
	})
	if !out.Success {
		t.Fatalf("expected success, got %+v", out)
	}
	if len(gw.requests) != 1 || gw.requests[0].CardNumber != "4987654321098765" {
		t.Errorf("expected the core banking card, got %+v", gw.requests)
	}
}

func TestSubmitTransactionWithoutCoreBankingCard(t *testing.T) {
	gw := &mockGateway{
		cardFn: func(string) *models.CardInfo { return nil },
		submitFn: func(models.TransactionRequest) models.TransactionResponse {
			t.Fatal("gateway must not be called")
			return models.TransactionResponse{}
		},
	}
	svc := NewTransactionCommandService(gw, nil)

	// The credential table names a card, but core banking did not answer.
	out := submit(svc, "topup", "10", "1234")
	if out.Success || !out.DialogOpen || out.Message != NoticeNoCard {
		t.Errorf("expected no-card rejection, got %+v", out)
	}
	if out := submit(svc, "topup", "10", "1234"); out.Message == NoticeInFlight {
		t.Error("gate must be released after a no-card rejection")
	}
}

func TestSubmitTransactionOneInFlightPerSession(t *testing.T) {
	var once sync.Once
	entered := make(chan struct{})
	unblock := make(chan struct{})
	gw := &mockGateway{submitFn: func(req models.TransactionRequest) models.TransactionResponse {
		if req.CardNumber != cust1.CardNumber {
			return models.TransactionResponse{Success: true, NewBalance: floatPtr(2)}
		}
		once.Do(func() { close(entered) })
		<-unblock
		return models.TransactionResponse{Success: true, NewBalance: floatPtr(1)}
	}}
	svc := NewTransactionCommandService(gw, nil)

	first := make(chan SubmitOutcome, 1)
	go func() { first <- submit(svc, "topup", "1", "1234") }()
	<-entered

	second := submit(svc, "topup", "1", "1234")
	if second.Success || second.Message != NoticeInFlight || !second.DialogOpen {
		t.Errorf("concurrent submit must be rejected, got %+v", second)
	}

	other := svc.SubmitTransaction(context.Background(), cqrs.SubmitTransactionCommand{
		SessionID: "sess-2", User: models.User{Username: "cust2", CardNumber: "4987654321098765"}, Type: "topup", Amount: "1", PIN: "5678",
	})
	if !other.Success {
		t.Errorf("another session must not be blocked, got %+v", other)
	}

	close(unblock)
	if out := <-first; !out.Success {
		t.Errorf("first submit should succeed, got %+v", out)
	}

	if out := submit(svc, "topup", "1", "1234"); out.Message == NoticeInFlight {
		t.Error("gate must be released after the first submit completes")
	}
}

func TestSubmitTransactionPublishesMaskedEvent(t *testing.T) {
	gw := &mockGateway{submitFn: func(models.TransactionRequest) models.TransactionResponse {
		return models.TransactionResponse{Success: false, Message: "Invalid PIN"}
	}}
	pub := &mockPublisher{}
	submit(NewTransactionCommandService(gw, pub), "withdraw", "20", "0000")

	if len(pub.events) != 1 {
		t.Fatalf("expected one event, got %d", len(pub.events))
	}
	ev, ok := pub.events[0].(events.TransactionSubmittedEvent)
	if !ok {
		t.Fatalf("unexpected payload %T", pub.events[0])
	}
	if ev.MaskedCardNumber != "****2345" || ev.Success || ev.Message != "Invalid PIN" || ev.Amount != 20 {
		t.Errorf("unexpected event %+v", ev)
	}
}
