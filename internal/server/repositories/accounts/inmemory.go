package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nuliana/getapet/internal/common"
	"github.com/nuliana/getapet/internal/server/models"
)

// InMemoryRepository keeps accounts in a map guarded by a mutex. It mirrors
// the PostgreSQL implementation's contract, including email uniqueness, and
// backs tests and tooling that run without a database.
type InMemoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]*models.Account
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{accounts: make(map[string]*models.Account)}
}

func (r *InMemoryRepository) Create(_ context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.Email == account.Email {
			return nil, common.ErrAlreadyExists
		}
	}

	stored := *account
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now()
	r.accounts[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *InMemoryRepository) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.Email == email {
			out := *a
			return &out, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *a
	return &out, nil
}

func (r *InMemoryRepository) UpdateFields(_ context.Context, id string, upd Update) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, common.ErrNotFound
	}

	if upd.Email != nil && *upd.Email != a.Email {
		for _, other := range r.accounts {
			if other.ID != id && other.Email == *upd.Email {
				return nil, common.ErrAlreadyExists
			}
		}
	}

	if upd.Name != nil {
		a.Name = *upd.Name
	}
	if upd.Email != nil {
		a.Email = *upd.Email
	}
	if upd.Phone != nil {
		a.Phone = *upd.Phone
	}
	if upd.PasswordHash != nil {
		a.PasswordHash = *upd.PasswordHash
	}
	if upd.Image != nil {
		a.Image = *upd.Image
	}

	out := *a
	return &out, nil
}
