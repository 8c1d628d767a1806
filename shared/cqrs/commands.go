package cqrs

import "github.com/bankpoc/banking-ui/shared/models"

type LoginCommand struct {
	Username string
	Password string
}

// LogoutCommand ends one session; Username is carried for the revocation event.
type LogoutCommand struct {
	SessionID string
	Username  string
}

// SubmitTransactionCommand carries one dialog submission. Amount is the raw
// form value; it is parsed and rounded to cents by the command service.
type SubmitTransactionCommand struct {
	SessionID string
	User      models.User
	Type      string
	Amount    string
	PIN       string
}
