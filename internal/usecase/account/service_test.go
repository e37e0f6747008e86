package account

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidbrief/internal/domain/entity"
	"vidbrief/internal/service/auth"
)

/* ───────── ヘルパ ───────── */

// stubAccountRepo is an in-memory AccountRepository for use case tests.
type stubAccountRepo struct {
	accounts map[int64]*entity.Account
	nextID   int64

	createErr error
	getErr    error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: map[int64]*entity.Account{}, nextID: 1}
}

func (r *stubAccountRepo) Create(_ context.Context, account *entity.Account) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, a := range r.accounts {
		if a.Email == account.Email {
			return fmt.Errorf("insert account: %w", entity.ErrDuplicate)
		}
	}
	account.ID = r.nextID
	account.CreatedAt = time.Now()
	r.nextID++
	r.accounts[account.ID] = account
	return nil
}

func (r *stubAccountRepo) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	for _, a := range r.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, nil
}

func (r *stubAccountRepo) GetByID(_ context.Context, id int64) (*entity.Account, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.accounts[id], nil
}

func (r *stubAccountRepo) GetByRefreshToken(_ context.Context, token string) (*entity.Account, error) {
	for _, a := range r.accounts {
		if a.RefreshToken != "" && a.RefreshToken == token {
			return a, nil
		}
	}
	return nil, nil
}

func (r *stubAccountRepo) RotateRefreshToken(_ context.Context, id int64, token string, loginAt time.Time) error {
	a, ok := r.accounts[id]
	if !ok {
		return entity.ErrNotFound
	}
	a.RefreshToken = token
	a.LastLoginAt = &loginAt
	return nil
}

func (r *stubAccountRepo) Credits(_ context.Context, id int64) (int, error) {
	a, ok := r.accounts[id]
	if !ok {
		return 0, entity.ErrNotFound
	}
	return a.Credits, nil
}

func (r *stubAccountRepo) ReplenishBelow(_ context.Context, floor int) (int64, error) {
	var touched int64
	for _, a := range r.accounts {
		if a.Credits < floor {
			a.Credits = floor
			touched++
		}
	}
	return touched, nil
}

func newTestService(repo *stubAccountRepo) *Service {
	return &Service{
		Repo: repo,
		Auth: auth.NewService("unit-test-secret", time.Hour),
	}
}

/* ───────── テスト ───────── */

func TestRegister(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:    "New.User@Example.com",
		Password: "password123",
		Name:     "New User",
	})
	require.NoError(t, err)

	assert.Equal(t, "new.user@example.com", result.Account.Email)
	assert.Equal(t, entity.StartingCredits, result.Account.Credits)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.NotEqual(t, "password123", result.Account.PasswordHash)
	assert.NotNil(t, result.Account.LastLoginAt)
}

func TestRegister_EmailTaken(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "dup@example.com", Password: "password123", Name: "First",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{
		Email: "dup@example.com", Password: "password456", Name: "Second",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_InvalidInput(t *testing.T) {
	svc := newTestService(newStubAccountRepo())

	var verr *entity.ValidationError

	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "not-an-email", Password: "password123",
	})
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Register(context.Background(), RegisterInput{
		Email: "ok@example.com", Password: "short",
	})
	assert.ErrorAs(t, err, &verr)
}

func TestSignIn(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	registered, err := svc.Register(context.Background(), RegisterInput{
		Email: "user@example.com", Password: "password123", Name: "User",
	})
	require.NoError(t, err)

	result, err := svc.SignIn(context.Background(), "user@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.Account.ID, result.Account.ID)
	assert.NotEmpty(t, result.AccessToken)

	// Sign-in rotates the refresh token.
	assert.NotEqual(t, registered.RefreshToken, result.RefreshToken)
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "user@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.SignIn(context.Background(), "user@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.SignIn(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	registered, err := svc.Register(context.Background(), RegisterInput{
		Email: "user@example.com", Password: "password123",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), registered.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, registered.Account.ID, refreshed.Account.ID)
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

	// The presented token was rotated away and cannot be reused.
	_, err = svc.Refresh(context.Background(), registered.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefresh_Invalid(t *testing.T) {
	svc := newTestService(newStubAccountRepo())

	_, err := svc.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = svc.Refresh(context.Background(), "unknown-token")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestProfile(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestService(repo)

	registered, err := svc.Register(context.Background(), RegisterInput{
		Email: "user@example.com", Password: "password123", Name: "User",
	})
	require.NoError(t, err)

	account, err := svc.Profile(context.Background(), registered.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", account.Email)
	assert.Equal(t, entity.StartingCredits, account.Credits)

	_, err = svc.Profile(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = svc.Profile(context.Background(), 0)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestSignIn_RepositoryError(t *testing.T) {
	repo := newStubAccountRepo()
	repo.getErr = errors.New("connection refused")
	svc := newTestService(repo)

	_, err := svc.SignIn(context.Background(), "user@example.com", "password123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
