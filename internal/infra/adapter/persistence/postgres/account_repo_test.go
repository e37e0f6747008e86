package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgconn"

	"vidbrief/internal/domain/entity"
	pg "vidbrief/internal/infra/adapter/persistence/postgres"
)

func accountRow(a *entity.Account) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "name",
		"credits", "refresh_token", "last_login_at", "created_at",
	}).AddRow(
		a.ID, a.Email, a.PasswordHash, a.Name,
		a.Credits, a.RefreshToken, a.LastLoginAt, a.CreatedAt,
	)
}

func TestAccountRepo_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("user@example.com", "hash", "User", entity.StartingCredits).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))

	repo := pg.NewAccountRepo(db)
	account := &entity.Account{
		Email: "user@example.com", PasswordHash: "hash", Name: "User",
		Credits: entity.StartingCredits,
	}
	if err := repo.Create(context.Background(), account); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if account.ID != 1 {
		t.Fatalf("ID=%d, want 1", account.ID)
	}
	if account.CreatedAt.IsZero() || !account.CreatedAt.Equal(now) {
		t.Fatalf("CreatedAt=%v, want database timestamp %v", account.CreatedAt, now)
	}
}

func TestAccountRepo_Create_DuplicateEmail(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	repo := pg.NewAccountRepo(db)
	err := repo.Create(context.Background(), &entity.Account{Email: "dup@example.com"})
	if !errors.Is(err, entity.ErrDuplicate) {
		t.Fatalf("err=%v, want ErrDuplicate", err)
	}
}

func TestAccountRepo_GetByEmail(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	want := &entity.Account{
		ID: 1, Email: "user@example.com", PasswordHash: "hash",
		Name: "User", Credits: 10, RefreshToken: "tok", CreatedAt: now,
	}

	mock.ExpectQuery("FROM users").
		WithArgs("user@example.com").
		WillReturnRows(accountRow(want))

	repo := pg.NewAccountRepo(db)
	got, err := repo.GetByEmail(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("GetByEmail err=%v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestAccountRepo_GetByEmail_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM users").
		WithArgs("missing@example.com").
		WillReturnError(sql.ErrNoRows)

	repo := pg.NewAccountRepo(db)
	got, err := repo.GetByEmail(context.Background(), "missing@example.com")
	if err != nil || got != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", got, err)
	}
}

func TestAccountRepo_GetByRefreshToken(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now()
	want := &entity.Account{
		ID: 2, Email: "u@example.com", PasswordHash: "h",
		Credits: 3, RefreshToken: "refresh-uuid", CreatedAt: now,
	}

	mock.ExpectQuery("FROM users").
		WithArgs("refresh-uuid").
		WillReturnRows(accountRow(want))

	repo := pg.NewAccountRepo(db)
	got, err := repo.GetByRefreshToken(context.Background(), "refresh-uuid")
	if err != nil || got == nil || got.ID != 2 {
		t.Fatalf("GetByRefreshToken got=%v err=%v", got, err)
	}
}

func TestAccountRepo_RotateRefreshToken(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
		WithArgs("new-token", now, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := pg.NewAccountRepo(db)
	if err := repo.RotateRefreshToken(context.Background(), 1, "new-token", now); err != nil {
		t.Fatalf("RotateRefreshToken err=%v", err)
	}
}

func TestAccountRepo_RotateRefreshToken_UnknownAccount(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
		WithArgs("new-token", now, int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := pg.NewAccountRepo(db)
	err := repo.RotateRefreshToken(context.Background(), 99, "new-token", now)
	if !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

func TestAccountRepo_Credits(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT credits FROM users")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"credits"}).AddRow(4))

	repo := pg.NewAccountRepo(db)
	credits, err := repo.Credits(context.Background(), 1)
	if err != nil || credits != 4 {
		t.Fatalf("Credits err=%v credits=%d", err, credits)
	}
}

func TestAccountRepo_ReplenishBelow(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET credits")).
		WithArgs(entity.StartingCredits).
		WillReturnResult(sqlmock.NewResult(0, 8))

	repo := pg.NewAccountRepo(db)
	n, err := repo.ReplenishBelow(context.Background(), entity.StartingCredits)
	if err != nil || n != 8 {
		t.Fatalf("ReplenishBelow err=%v n=%d", err, n)
	}
}
