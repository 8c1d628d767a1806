package query

import (
	"context"
	"strings"

	"github.com/bankpoc/banking-ui/shared/cqrs"
	"github.com/bankpoc/banking-ui/shared/models"
	"github.com/shopspring/decimal"
)

// TransactionLister is the slice of the bank client the admin view needs.
type TransactionLister interface {
	AllTransactions(ctx context.Context) []models.TransactionHistory
}

// AdminDashboard holds statistics over every transaction and the rows that
// match Search.
type AdminDashboard struct {
	Stats        models.TransactionStats     `json:"stats"`
	Transactions []models.TransactionHistory `json:"transactions"`
	Search       string                      `json:"search"`
}

type AdminQueryService struct {
	bank TransactionLister
}

func NewAdminQueryService(bank TransactionLister) *AdminQueryService {
	return &AdminQueryService{bank: bank}
}

// GetDashboard fetches the whole list; it is not paginated upstream.
func (s *AdminQueryService) GetDashboard(ctx context.Context, q cqrs.GetAdminDashboardQuery) AdminDashboard {
	all := s.bank.AllTransactions(ctx)
	return AdminDashboard{
		Stats:        ComputeStats(all),
		Transactions: FilterTransactions(all, q.Search),
		Search:       q.Search,
	}
}

// ComputeStats aggregates the full list. Amounts are summed as decimals.
func ComputeStats(all []models.TransactionHistory) models.TransactionStats {
	stats := models.TransactionStats{Total: len(all)}
	topUpSum, withdrawSum := decimal.Zero, decimal.Zero

	for _, tx := range all {
		switch tx.Status {
		case models.StatusSuccess:
			stats.Successful++
		case models.StatusFailed:
			stats.Failed++
			continue
		default:
			continue
		}
		switch tx.Type {
		case models.TransactionTopUp:
			stats.TopUps++
			topUpSum = topUpSum.Add(decimal.NewFromFloat(tx.Amount))
		case models.TransactionWithdraw:
			stats.Withdrawals++
			withdrawSum = withdrawSum.Add(decimal.NewFromFloat(tx.Amount))
		}
	}

	stats.TotalTopUpAmount = topUpSum.InexactFloat64()
	stats.TotalWithdrawalAmount = withdrawSum.InexactFloat64()
	if stats.Total > 0 {
		stats.SuccessRate = float64(stats.Successful) / float64(stats.Total)
	}
	return stats
}

// FilterTransactions keeps rows whose card number or masked card number
// contains term as typed, or whose type, status or reason contains it in any
// case. An empty term keeps everything. The input is never modified.
func FilterTransactions(all []models.TransactionHistory, term string) []models.TransactionHistory {
	if term == "" {
		return all
	}
	lower := strings.ToLower(term)
	filtered := make([]models.TransactionHistory, 0, len(all))
	for _, tx := range all {
		if strings.Contains(tx.CardNumber, term) ||
			strings.Contains(tx.MaskedCardNumber, term) ||
			strings.Contains(strings.ToLower(tx.Type), lower) ||
			strings.Contains(strings.ToLower(tx.Status), lower) ||
			strings.Contains(strings.ToLower(tx.Reason), lower) {
			filtered = append(filtered, tx)
		}
	}
	return filtered
}
