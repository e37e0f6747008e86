// Package postgres implements the repository interfaces on PostgreSQL
// using database/sql over the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"vidbrief/internal/domain/entity"
	"vidbrief/internal/repository"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) repository.AccountRepository {
	return &AccountRepo{db: db}
}

func (repo *AccountRepo) Create(ctx context.Context, account *entity.Account) error {
	// created_at is omitted so the DEFAULT now() applies; RETURNING
	// feeds the actual timestamp back to the caller.
	const query = `
INSERT INTO users (email, password_hash, name, credits)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`
	err := repo.db.QueryRowContext(ctx, query,
		account.Email, account.PasswordHash, account.Name,
		account.Credits).Scan(&account.ID, &account.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("Create: email %s: %w", account.Email, entity.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *AccountRepo) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return repo.getOne(ctx, `WHERE email = $1`, email)
}

func (repo *AccountRepo) GetByID(ctx context.Context, id int64) (*entity.Account, error) {
	return repo.getOne(ctx, `WHERE id = $1`, id)
}

func (repo *AccountRepo) GetByRefreshToken(ctx context.Context, token string) (*entity.Account, error) {
	return repo.getOne(ctx, `WHERE refresh_token = $1`, token)
}

func (repo *AccountRepo) getOne(ctx context.Context, where string, arg any) (*entity.Account, error) {
	query := `
SELECT id, email, password_hash, name, credits, COALESCE(refresh_token, ''), last_login_at, created_at
FROM users ` + where + `
LIMIT 1`
	var account entity.Account
	err := repo.db.QueryRowContext(ctx, query, arg).
		Scan(&account.ID, &account.Email, &account.PasswordHash, &account.Name,
			&account.Credits, &account.RefreshToken, &account.LastLoginAt, &account.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getOne: %w", err)
	}
	return &account, nil
}

func (repo *AccountRepo) RotateRefreshToken(ctx context.Context, id int64, token string, loginAt time.Time) error {
	const query = `
UPDATE users
SET refresh_token = $1, last_login_at = $2
WHERE id = $3`
	res, err := repo.db.ExecContext(ctx, query, token, loginAt, id)
	if err != nil {
		return fmt.Errorf("RotateRefreshToken: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("RotateRefreshToken: account %d: %w", id, entity.ErrNotFound)
	}
	return nil
}

func (repo *AccountRepo) Credits(ctx context.Context, id int64) (int, error) {
	const query = `SELECT credits FROM users WHERE id = $1`
	var credits int
	err := repo.db.QueryRowContext(ctx, query, id).Scan(&credits)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("Credits: account %d: %w", id, entity.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("Credits: %w", err)
	}
	return credits, nil
}

func (repo *AccountRepo) ReplenishBelow(ctx context.Context, floor int) (int64, error) {
	const query = `UPDATE users SET credits = $1 WHERE credits < $1`
	res, err := repo.db.ExecContext(ctx, query, floor)
	if err != nil {
		return 0, fmt.Errorf("ReplenishBelow: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("ReplenishBelow: rows affected: %w", err)
	}
	return n, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
