package testfixtures

import (
	"context"
	"sync"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/account"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// MemoryUsers implementa account.Repository em memória.
type MemoryUsers struct {
	mu    sync.Mutex
	users []models.User
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{}
}

func (r *MemoryUsers) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, account.ErrNotFound
}

func (r *MemoryUsers) CreateFirstUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.users) > 0 {
		return account.ErrRegistrationClosed
	}
	user.ID = 1
	r.users = append(r.users, *user)
	return nil
}

func (r *MemoryUsers) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

var _ account.Repository = (*MemoryUsers)(nil)
