package models

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// Transaction types accepted by the gateway.
const (
	TransactionTopUp    = "topup"
	TransactionWithdraw = "withdraw"
)

// Transaction statuses recorded by core banking.
const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// User is the logged-in principal held by the session store.
// It never carries a balance; balances are always fetched from core banking.
type User struct {
	Username     string `json:"username"`
	Role         Role   `json:"role"`
	CardNumber   string `json:"cardNumber,omitempty"`
	CustomerName string `json:"customerName,omitempty"`
}

// Credential is one entry of the credential table.
type Credential struct {
	Username     string
	PasswordHash string
	Role         Role
	CardNumber   string
}

type TransactionRequest struct {
	CardNumber string  `json:"cardNumber"`
	PIN        string  `json:"pin"`
	Amount     float64 `json:"amount"`
	Type       string  `json:"type"`
}

type TransactionResponse struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
	NewBalance    *float64 `json:"newBalance,omitempty"`
	TransactionID *int64   `json:"transactionId,omitempty"`
}
