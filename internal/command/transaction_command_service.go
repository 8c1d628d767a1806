package command

import (
	"context"
	"log"
	"sync"

	"github.com/bankpoc/banking-ui/shared/cqrs"
	"github.com/bankpoc/banking-ui/shared/events"
	"github.com/bankpoc/banking-ui/shared/models"
	"github.com/bankpoc/banking-ui/shared/utils"
)

// Notices for submissions rejected before the gateway is called.
const (
	NoticeInFlight      = "A transaction is already being processed"
	NoticeNoCard        = "No card is linked to this account"
	NoticeInvalidAmount = "Amount must be a number"
)

// TransactionGateway is the slice of the bank client used for submissions.
// The card is looked up in core banking on every submit, as the dashboard does.
type TransactionGateway interface {
	CardByUsername(ctx context.Context, username string) *models.CardInfo
	SubmitTransaction(ctx context.Context, req models.TransactionRequest) models.TransactionResponse
}

// TransactionForm is the state of the transaction dialog.
type TransactionForm struct {
	Type   string
	Amount string
	PIN    string
}

// SubmitOutcome tells the caller how to redraw the dialog. On success the
// dialog closes and the form is empty; the caller must then re-fetch card
// info and history. On failure the dialog stays open with the form as entered.
type SubmitOutcome struct {
	Success    bool
	Message    string
	DialogOpen bool
	Form       TransactionForm
	NewBalance *float64
}

type TransactionCommandService struct {
	gateway   TransactionGateway
	publisher events.Emitter
	inFlight  *gate
}

func NewTransactionCommandService(gateway TransactionGateway, publisher events.Emitter) *TransactionCommandService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &TransactionCommandService{gateway: gateway, publisher: publisher, inFlight: newGate()}
}

// SubmitTransaction sends one dialog submission to the gateway. The card is
// the one core banking holds for the session user; balance and PIN rules are
// left to the backend.
func (s *TransactionCommandService) SubmitTransaction(ctx context.Context, cmd cqrs.SubmitTransactionCommand) SubmitOutcome {
	form := TransactionForm{Type: cmd.Type, Amount: cmd.Amount, PIN: cmd.PIN}

	amount, err := utils.ParseAmount(cmd.Amount)
	if err != nil {
		return failed(form, NoticeInvalidAmount)
	}

	if !s.inFlight.acquire(cmd.SessionID) {
		return failed(form, NoticeInFlight)
	}
	defer s.inFlight.release(cmd.SessionID)

	card := s.gateway.CardByUsername(ctx, cmd.User.Username)
	if card == nil || card.CardNumber == "" {
		return failed(form, NoticeNoCard)
	}

	req := models.TransactionRequest{
		CardNumber: card.CardNumber,
		PIN:        cmd.PIN,
		Amount:     amount.InexactFloat64(),
		Type:       cmd.Type,
	}

	// Navigating away must not abort a submitted transaction.
	resp := s.gateway.SubmitTransaction(context.WithoutCancel(ctx), req)

	log.Printf("Transaction %s of %s for card %s by %s: success=%v",
		req.Type, amount.StringFixed(2), utils.MaskCardNumber(req.CardNumber), cmd.User.Username, resp.Success)
	if err := s.publisher.Publish(context.WithoutCancel(ctx), events.TransactionEventsStream, events.TransactionSubmitted, events.TransactionSubmittedEvent{
		Username:         cmd.User.Username,
		MaskedCardNumber: utils.MaskCardNumber(req.CardNumber),
		Type:             req.Type,
		Amount:           req.Amount,
		Success:          resp.Success,
		Message:          resp.Message,
	}); err != nil {
		log.Printf("Failed to publish transaction.submitted event: %v", err)
	}

	if !resp.Success {
		return failed(form, resp.Message)
	}
	return SubmitOutcome{
		Success:    true,
		Message:    successMessage(cmd.Type, resp),
		DialogOpen: false,
		NewBalance: resp.NewBalance,
	}
}

// successMessage reads e.g. "Withdrawal successful! New balance: $450.00".
func successMessage(txType string, resp models.TransactionResponse) string {
	label := "Top-up"
	if txType == models.TransactionWithdraw {
		label = "Withdrawal"
	}
	if resp.NewBalance != nil {
		return label + " successful! New balance: " + utils.FormatMoney(*resp.NewBalance)
	}
	if resp.Message != "" {
		return label + " successful! " + resp.Message
	}
	return label + " successful!"
}

func failed(form TransactionForm, message string) SubmitOutcome {
	return SubmitOutcome{Success: false, Message: message, DialogOpen: true, Form: form}
}

// gate admits one holder per key at a time.
type gate struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func newGate() *gate {
	return &gate{active: make(map[string]struct{})}
}

func (g *gate) acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[key]; busy {
		return false
	}
	g.active[key] = struct{}{}
	return true
}

func (g *gate) release(key string) {
	g.mu.Lock()
	delete(g.active, key)
	g.mu.Unlock()
}
