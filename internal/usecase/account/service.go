package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vidbrief/internal/domain/entity"
	"vidbrief/internal/repository"
	"vidbrief/internal/service/auth"
)

// RegisterInput represents the input parameters for creating a new account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// AuthResult bundles everything a successful authentication returns:
// the account, a signed access token, and a rotated refresh token.
type AuthResult struct {
	Account      *entity.Account
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Service provides account management use cases.
// It owns registration and sign-in flows and delegates credential
// mechanics to the auth service and persistence to the repository.
type Service struct {
	Repo repository.AccountRepository
	Auth *auth.Service
}

// Register creates a new account and signs it in immediately.
// Returns ErrEmailTaken if the email is already registered and
// entity.ValidationError for malformed input.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := entity.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := entity.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := s.Auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register account: %w", err)
	}

	account := &entity.Account{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Credits:      entity.StartingCredits,
	}
	if err := s.Repo.Create(ctx, account); err != nil {
		if errors.Is(err, entity.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	return s.issueTokens(ctx, account)
}

// SignIn authenticates an email/password pair.
// Returns ErrInvalidCredentials when either is wrong.
func (s *Service) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if account == nil || !s.Auth.CheckPassword(account.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, account)
}

// Refresh exchanges a refresh token for a fresh access token and a new
// refresh token. The presented token is invalidated by the rotation.
// Returns ErrInvalidRefreshToken when the token is unknown or empty.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, ErrInvalidRefreshToken
	}

	account, err := s.Repo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("refresh token lookup: %w", err)
	}
	if account == nil {
		return nil, ErrInvalidRefreshToken
	}

	return s.issueTokens(ctx, account)
}

// Profile returns the account with its current credit balance.
// Returns ErrAccountNotFound if the account does not exist.
func (s *Service) Profile(ctx context.Context, accountID int64) (*entity.Account, error) {
	if accountID <= 0 {
		return nil, ErrAccountNotFound
	}

	account, err := s.Repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// issueTokens signs an access token, rotates the refresh token, and
// records the login timestamp.
func (s *Service) issueTokens(ctx context.Context, account *entity.Account) (*AuthResult, error) {
	accessToken, expiresAt, err := s.Auth.IssueAccessToken(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken := s.Auth.NewRefreshToken()
	loginAt := time.Now()
	if err := s.Repo.RotateRefreshToken(ctx, account.ID, refreshToken, loginAt); err != nil {
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	account.RefreshToken = refreshToken
	account.LastLoginAt = &loginAt

	return &AuthResult{
		Account:      account,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}
