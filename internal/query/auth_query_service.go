package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/bankpoc/banking-ui/internal/repository"
	"github.com/bankpoc/banking-ui/shared/cqrs"
	"github.com/bankpoc/banking-ui/shared/models"
	"github.com/bankpoc/banking-ui/shared/utils"
)

// ErrInvalidCredentials is returned for an unknown user or a wrong password alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialVerifier is the identity capability login depends on.
// StaticCredentialRepository and PostgresCredentialRepository implement it.
type CredentialVerifier interface {
	GetByUsername(ctx context.Context, username string) (*models.Credential, error)
}

// AuthQueryService verifies credentials. It does not create sessions.
type AuthQueryService struct {
	credentials CredentialVerifier
}

func NewAuthQueryService(credentials CredentialVerifier) *AuthQueryService {
	return &AuthQueryService{credentials: credentials}
}

func (s *AuthQueryService) Login(ctx context.Context, cmd cqrs.LoginCommand) (*models.User, error) {
	cred, err := s.credentials.GetByUsername(ctx, cmd.Username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s: %w", cmd.Username, err)
	}
	if !utils.CheckPassword(cmd.Password, cred.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return &models.User{
		Username:   cred.Username,
		Role:       cred.Role,
		CardNumber: cred.CardNumber,
	}, nil
}
