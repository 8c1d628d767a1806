package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bankpoc/banking-ui/shared/models"
	"github.com/bankpoc/banking-ui/shared/utils"
)

var ErrUserNotFound = errors.New("user not found")

// SeedUser is a plaintext credential used to build a StaticCredentialRepository.
type SeedUser struct {
	Username   string
	Password   string
	Role       models.Role
	CardNumber string
}

// DemoUsers is the built-in credential table of the demo deployment.
var DemoUsers = []SeedUser{
	{Username: "cust1", Password: "pass", Role: models.RoleCustomer, CardNumber: "4123456789012345"},
	{Username: "cust2", Password: "pass", Role: models.RoleCustomer, CardNumber: "4987654321098765"},
	{Username: "admin", Password: "admin", Role: models.RoleAdmin},
}

// StaticCredentialRepository serves a fixed credential table from memory.
// Passwords are bcrypt-hashed when the table is built.
type StaticCredentialRepository struct {
	users map[string]models.Credential
}

func NewStaticCredentialRepository(seed []SeedUser) (*StaticCredentialRepository, error) {
	users := make(map[string]models.Credential, len(seed))
	for _, u := range seed {
		hash, err := utils.HashPassword(u.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password for %s: %w", u.Username, err)
		}
		users[u.Username] = models.Credential{
			Username:     u.Username,
			PasswordHash: hash,
			Role:         u.Role,
			CardNumber:   u.CardNumber,
		}
	}
	return &StaticCredentialRepository{users: users}, nil
}

func (r *StaticCredentialRepository) GetByUsername(_ context.Context, username string) (*models.Credential, error) {
	cred, ok := r.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &cred, nil
}
