// Package repository defines persistence interfaces for the domain entities.
// Implementations live under internal/infra/adapter/persistence.
package repository

import (
	"context"
	"time"

	"vidbrief/internal/domain/entity"
)

// AccountRepository provides persistence for accounts and their credit balance.
type AccountRepository interface {
	// Create inserts a new account. Returns entity.ErrDuplicate (wrapped)
	// if the email address is already registered.
	Create(ctx context.Context, account *entity.Account) error

	// GetByEmail returns the account registered under the given email.
	// Returns (nil, nil) if no such account exists.
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)

	// GetByID returns the account with the given ID, or (nil, nil) if absent.
	GetByID(ctx context.Context, id int64) (*entity.Account, error)

	// GetByRefreshToken returns the account currently holding the given
	// refresh token, or (nil, nil) if no account holds it. At most one
	// account can hold a token since tokens are rotated on issue.
	GetByRefreshToken(ctx context.Context, token string) (*entity.Account, error)

	// RotateRefreshToken stores a new refresh token on the account,
	// invalidating whatever token was stored before, and records the
	// login timestamp.
	RotateRefreshToken(ctx context.Context, id int64, token string, loginAt time.Time) error

	// Credits returns the current credit balance for the account.
	Credits(ctx context.Context, id int64) (int, error)

	// ReplenishBelow tops every account whose balance is below floor back
	// up to floor. Returns the number of accounts touched. Used by the
	// scheduled credit replenishment worker.
	ReplenishBelow(ctx context.Context, floor int) (int64, error)
}
