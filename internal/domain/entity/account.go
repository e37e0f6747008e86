// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Account and Summary, along with
// their validation rules and domain-specific errors.
package entity

import "time"

// StartingCredits is the credit allowance granted to every new account.
// One credit is debited per newly generated summary.
const StartingCredits = 10

// Account represents an authenticated end-user with a credit balance.
// The refresh token is single-use: issuing a new one replaces the prior
// one, so at most one refresh token is valid per account at any time.
type Account struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	Credits      int
	RefreshToken string
	LastLoginAt  *time.Time
	CreatedAt    time.Time
}
