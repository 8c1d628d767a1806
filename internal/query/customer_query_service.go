package query

import (
	"context"

	"github.com/bankpoc/banking-ui/shared/cqrs"
	"github.com/bankpoc/banking-ui/shared/models"
)

// CardReader is the slice of the bank client the customer view needs.
type CardReader interface {
	CardByUsername(ctx context.Context, username string) *models.CardInfo
	TransactionHistory(ctx context.Context, cardNumber string) []models.TransactionHistory
}

type CustomerDashboard struct {
	Card    *models.CardInfo
	History []models.TransactionHistory
}

type CustomerQueryService struct {
	bank CardReader
}

func NewCustomerQueryService(bank CardReader) *CustomerQueryService {
	return &CustomerQueryService{bank: bank}
}

// GetDashboard fetches the card first, then its history. No card, no history.
func (s *CustomerQueryService) GetDashboard(ctx context.Context, q cqrs.GetCustomerDashboardQuery) CustomerDashboard {
	card := s.bank.CardByUsername(ctx, q.Username)
	if card == nil {
		return CustomerDashboard{History: []models.TransactionHistory{}}
	}
	return CustomerDashboard{
		Card:    card,
		History: s.bank.TransactionHistory(ctx, card.CardNumber),
	}
}
