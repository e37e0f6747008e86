package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vidbrief/internal/domain/entity"
	"vidbrief/internal/repository"
)

type SummaryRepo struct {
	db *sql.DB
}

func NewSummaryRepo(db *sql.DB) repository.SummaryRepository {
	return &SummaryRepo{db: db}
}

const summaryColumns = `id, user_id, video_id, video_url, title, transcript, content, created_at`

func scanSummary(row interface{ Scan(...any) error }) (*entity.Summary, error) {
	var s entity.Summary
	err := row.Scan(&s.ID, &s.AccountID, &s.VideoID, &s.VideoURL,
		&s.Title, &s.Transcript, &s.Content, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (repo *SummaryRepo) GetByAccountAndURL(ctx context.Context, accountID int64, videoURL string) (*entity.Summary, error) {
	query := `
SELECT ` + summaryColumns + `
FROM summaries
WHERE user_id = $1 AND video_url = $2
LIMIT 1`
	s, err := scanSummary(repo.db.QueryRowContext(ctx, query, accountID, videoURL))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByAccountAndURL: %w", err)
	}
	return s, nil
}

// CreateWithCreditDebit debits one credit and inserts the record in a single
// transaction. The guarded UPDATE makes concurrent double-spend impossible:
// the decrement only commits if the balance was still positive, regardless
// of what the caller read beforehand.
func (repo *SummaryRepo) CreateWithCreditDebit(ctx context.Context, summary *entity.Summary) (int, error) {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("CreateWithCreditDebit: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var remaining int
	err = tx.QueryRowContext(ctx, `
UPDATE users
SET credits = credits - 1
WHERE id = $1 AND credits > 0
RETURNING credits`, summary.AccountID).Scan(&remaining)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, repository.ErrInsufficientCredits
	}
	if err != nil {
		return 0, fmt.Errorf("CreateWithCreditDebit: debit: %w", err)
	}

	// ON CONFLICT DO NOTHING: a concurrent insert for the same
	// (user, video) wins the race; this transaction rolls back and the
	// caller re-reads the existing record, so no credit is lost.
	// created_at is omitted so the DEFAULT now() applies; RETURNING
	// feeds the actual timestamp back to the caller.
	err = tx.QueryRowContext(ctx, `
INSERT INTO summaries (user_id, video_id, video_url, title, transcript, content)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id, video_url) DO NOTHING
RETURNING id, created_at`,
		summary.AccountID, summary.VideoID, summary.VideoURL,
		summary.Title, summary.Transcript, summary.Content).
		Scan(&summary.ID, &summary.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("CreateWithCreditDebit: %w", entity.ErrDuplicate)
	}
	if err != nil {
		return 0, fmt.Errorf("CreateWithCreditDebit: insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("CreateWithCreditDebit: commit: %w", err)
	}
	return remaining, nil
}

func (repo *SummaryRepo) CreateIfAbsent(ctx context.Context, summary *entity.Summary) (*entity.Summary, bool, error) {
	err := repo.db.QueryRowContext(ctx, `
INSERT INTO summaries (user_id, video_id, video_url, title, transcript, content)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id, video_url) DO NOTHING
RETURNING id, created_at`,
		summary.AccountID, summary.VideoID, summary.VideoURL,
		summary.Title, summary.Transcript, summary.Content).
		Scan(&summary.ID, &summary.CreatedAt)
	if err == nil {
		return summary, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("CreateIfAbsent: %w", err)
	}

	existing, err := repo.GetByAccountAndURL(ctx, summary.AccountID, summary.VideoURL)
	if err != nil {
		return nil, false, fmt.Errorf("CreateIfAbsent: fetch existing: %w", err)
	}
	if existing == nil {
		// Lost both the insert and the read; only possible if the
		// existing record was deleted in between. Treat as conflict.
		return nil, false, fmt.Errorf("CreateIfAbsent: %w", entity.ErrDuplicate)
	}
	return existing, false, nil
}

func (repo *SummaryRepo) ListByAccountPaginated(ctx context.Context, accountID int64, offset, limit int) ([]*entity.Summary, error) {
	query := `
SELECT ` + summaryColumns + `
FROM summaries
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := repo.db.QueryContext(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ListByAccountPaginated: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summaries := make([]*entity.Summary, 0, limit)
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByAccountPaginated: Scan: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (repo *SummaryRepo) CountByAccount(ctx context.Context, accountID int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM summaries WHERE user_id = $1`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query, accountID).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountByAccount: %w", err)
	}
	return count, nil
}

func (repo *SummaryRepo) GetByIDAndAccount(ctx context.Context, id, accountID int64) (*entity.Summary, error) {
	query := `
SELECT ` + summaryColumns + `
FROM summaries
WHERE id = $1 AND user_id = $2
LIMIT 1`
	s, err := scanSummary(repo.db.QueryRowContext(ctx, query, id, accountID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByIDAndAccount: %w", err)
	}
	return s, nil
}

func (repo *SummaryRepo) DeleteByIDAndAccount(ctx context.Context, id, accountID int64) (bool, error) {
	const query = `DELETE FROM summaries WHERE id = $1 AND user_id = $2`
	res, err := repo.db.ExecContext(ctx, query, id, accountID)
	if err != nil {
		return false, fmt.Errorf("DeleteByIDAndAccount: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("DeleteByIDAndAccount: rows affected: %w", err)
	}
	return n > 0, nil
}
