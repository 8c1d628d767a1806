package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bankpoc/banking-ui/shared/models"
)

// PostgresCredentialRepository reads credentials from an external users
// table owned by an identity service:
//
//	users(username text primary key, password_hash text, role text,
//	      card_number text null, deleted_at timestamptz null)
type PostgresCredentialRepository struct {
	db *sql.DB
}

func NewPostgresCredentialRepository(db *sql.DB) *PostgresCredentialRepository {
	return &PostgresCredentialRepository{db: db}
}

func (r *PostgresCredentialRepository) GetByUsername(ctx context.Context, username string) (*models.Credential, error) {
	query := `
		SELECT username, password_hash, role, card_number
		FROM users
		WHERE username = $1 AND deleted_at IS NULL
	`

	var cred models.Credential
	var role string
	var cardNumber sql.NullString

	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&cred.Username, &cred.PasswordHash, &role, &cardNumber,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	switch models.Role(role) {
	case models.RoleCustomer, models.RoleAdmin:
		cred.Role = models.Role(role)
	default:
		return nil, fmt.Errorf("credential %s has unknown role %q", username, role)
	}
	if cardNumber.Valid {
		cred.CardNumber = cardNumber.String
	}

	return &cred, nil
}
