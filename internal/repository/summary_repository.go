package repository

import (
	"context"
	"errors"

	"vidbrief/internal/domain/entity"
)

// ErrInsufficientCredits is returned by CreateWithCreditDebit when the
// owning account has no credits left at commit time.
var ErrInsufficientCredits = errors.New("insufficient credits")

// SummaryRepository provides persistence for summary records.
//
// Summaries are unique per (account, video URL); the store enforces this
// with a uniqueness constraint, and the write primitives below are
// insert-or-fetch so a concurrent duplicate insert degrades to returning
// the existing record instead of failing or double-charging.
type SummaryRepository interface {
	// GetByAccountAndURL returns the record for (account, video URL),
	// or (nil, nil) if absent.
	GetByAccountAndURL(ctx context.Context, accountID int64, videoURL string) (*entity.Summary, error)

	// CreateWithCreditDebit inserts the record and debits one credit from
	// the owning account as a single transaction; both writes commit or
	// neither does. Returns the remaining balance after the debit.
	// Returns ErrInsufficientCredits if the balance guard fails, and
	// entity.ErrDuplicate if a record for (account, video URL) already
	// exists; in both cases nothing is written.
	CreateWithCreditDebit(ctx context.Context, summary *entity.Summary) (remaining int, err error)

	// CreateIfAbsent inserts the record unless one already exists for
	// (account, video URL). Returns the stored record and whether a new
	// row was created.
	CreateIfAbsent(ctx context.Context, summary *entity.Summary) (*entity.Summary, bool, error)

	// ListByAccountPaginated returns the account's records ordered by
	// created_at DESC with LIMIT/OFFSET pagination.
	ListByAccountPaginated(ctx context.Context, accountID int64, offset, limit int) ([]*entity.Summary, error)

	// CountByAccount returns the total number of records owned by the account.
	CountByAccount(ctx context.Context, accountID int64) (int64, error)

	// GetByIDAndAccount returns the record only if it is owned by the
	// account; (nil, nil) otherwise. Ownership checks never reveal
	// whether a foreign record exists.
	GetByIDAndAccount(ctx context.Context, id, accountID int64) (*entity.Summary, error)

	// DeleteByIDAndAccount removes the record if owned by the account.
	// Returns true if a row was deleted.
	DeleteByIDAndAccount(ctx context.Context, id, accountID int64) (bool, error)
}
