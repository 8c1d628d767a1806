// Package session keeps logged-in users in memory, mirrors them to a durable
// key-value store and hands the browser an opaque, revocable token.
package session

import (
	"context"
	"log"
	"sync"

	"github.com/bankpoc/banking-ui/shared/models"
	"github.com/bankpoc/banking-ui/shared/utils"
)

// KeyPrefix is the durable key namespace; one serialized User per session.
const KeyPrefix = "bankingUser:"

// Mirror is the durable side of the store. shared/redis.ViewCache[models.User]
// satisfies it.
type Mirror interface {
	Get(ctx context.Context, id string) (*models.User, bool)
	Set(ctx context.Context, id string, user *models.User) error
	Delete(ctx context.Context, id string) error
}

type Store struct {
	mu     sync.RWMutex
	users  map[string]models.User
	mirror Mirror
}

// NewStore builds a store; a nil mirror keeps sessions in memory only.
func NewStore(mirror Mirror) *Store {
	return &Store{users: make(map[string]models.User), mirror: mirror}
}

// Login stores user under a fresh session id. A mirror write failure is
// logged; the session still works on this instance.
func (s *Store) Login(ctx context.Context, user models.User) string {
	id := utils.GenerateID("sess")

	s.mu.Lock()
	s.users[id] = user
	s.mu.Unlock()

	if s.mirror != nil {
		if err := s.mirror.Set(ctx, id, &user); err != nil {
			log.Printf("Session %s: failed to mirror user %s: %v", id, user.Username, err)
		}
	}
	return id
}

// Get returns the user for id, restoring it from the mirror when this
// instance has not seen it. Absent or malformed entries mean no session.
func (s *Store) Get(ctx context.Context, id string) (*models.User, bool) {
	if id == "" {
		return nil, false
	}

	s.mu.RLock()
	user, ok := s.users[id]
	s.mu.RUnlock()
	if ok {
		return &user, true
	}

	if s.mirror == nil {
		return nil, false
	}
	restored, ok := s.mirror.Get(ctx, id)
	if !ok || !valid(restored) {
		return nil, false
	}

	s.mu.Lock()
	s.users[id] = *restored
	s.mu.Unlock()
	return restored, true
}

// Logout clears id from memory and the mirror.
func (s *Store) Logout(ctx context.Context, id string) {
	s.Evict(id)
	if s.mirror != nil {
		if err := s.mirror.Delete(ctx, id); err != nil {
			log.Printf("Session %s: failed to delete mirrored entry: %v", id, err)
		}
	}
}

// Evict drops the in-memory copy only. Used when another instance revoked id.
func (s *Store) Evict(id string) {
	s.mu.Lock()
	delete(s.users, id)
	s.mu.Unlock()
}

func valid(u *models.User) bool {
	if u == nil || u.Username == "" {
		return false
	}
	return u.Role == models.RoleCustomer || u.Role == models.RoleAdmin
}
