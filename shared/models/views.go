package models

// CardInfo is the read-only card projection served by core banking.
// It is re-fetched after every transaction and never mutated locally.
type CardInfo struct {
	CardNumber       string  `json:"cardNumber"`
	MaskedCardNumber string  `json:"maskedCardNumber"`
	Balance          float64 `json:"balance"`
	CustomerName     string  `json:"customerName"`
	Username         string  `json:"username"`
}

// TransactionHistory is an immutable record owned and numbered by core banking.
// Timestamp is kept as sent; core banking emits zone-less local date-times.
type TransactionHistory struct {
	ID               int64   `json:"id"`
	CardNumber       string  `json:"cardNumber"`
	MaskedCardNumber string  `json:"maskedCardNumber"`
	Type             string  `json:"type"`
	Amount           float64 `json:"amount"`
	Timestamp        string  `json:"timestamp"`
	Status           string  `json:"status"`
	Reason           string  `json:"reason"`
}

// TransactionStats is the admin aggregate over the full transaction list.
type TransactionStats struct {
	Total                 int     `json:"total"`
	Successful            int     `json:"successful"`
	Failed                int     `json:"failed"`
	TopUps                int     `json:"topups"`
	Withdrawals           int     `json:"withdrawals"`
	TotalTopUpAmount      float64 `json:"totalTopupAmount"`
	TotalWithdrawalAmount float64 `json:"totalWithdrawalAmount"`
	SuccessRate           float64 `json:"successRate"`
}
