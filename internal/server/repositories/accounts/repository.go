// Package accounts contains the account store consumed by the identity
// service: a Repository interface plus PostgreSQL and in-memory
// implementations.
package accounts

import (
	"context"

	"github.com/nuliana/getapet/internal/server/models"
)

// Update carries the fields a profile update writes. Nil pointers leave the
// stored value untouched; the id and unlisted fields never change.
type Update struct {
	Name         *string
	Email        *string
	Phone        *string
	PasswordHash *string
	Image        *string
}

// Repository is the durable account store. Implementations must report
// common.ErrNotFound for absent records and common.ErrAlreadyExists when an
// insert or update would violate email uniqueness.
type Repository interface {
	// Create inserts the account and assigns its id.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	// GetByEmail returns the account with the given email (case-sensitive).
	GetByEmail(ctx context.Context, email string) (*models.Account, error)

	// GetByID returns the account with the given id.
	GetByID(ctx context.Context, id string) (*models.Account, error)

	// UpdateFields writes only the fields set in upd and returns the
	// resulting account.
	UpdateFields(ctx context.Context, id string, upd Update) (*models.Account, error)
}
