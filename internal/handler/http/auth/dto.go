// Package auth provides HTTP handlers for account registration, sign-in,
// token refresh, and the JWT authorization middleware protecting the API.
package auth

import (
	"time"

	"vidbrief/internal/domain/entity"
	acctUC "vidbrief/internal/usecase/account"
)

type signupRequest struct {
	Email    string `json:"email" example:"viewer@example.com"`
	Password string `json:"password" example:"your_password"`
	Name     string `json:"name" example:"Viewer"`
}

type signinRequest struct {
	Email    string `json:"email" example:"viewer@example.com"`
	Password string `json:"password" example:"your_password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// userDTO is the public shape of an account. The password hash and the
// active refresh token never leave the server.
type userDTO struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Credits     int        `json:"credits"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type tokenResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	User         userDTO   `json:"user"`
}

func toUserDTO(a *entity.Account) userDTO {
	return userDTO{
		ID:          a.ID,
		Email:       a.Email,
		Name:        a.Name,
		Credits:     a.Credits,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
	}
}

func toTokenResponse(res *acctUC.AuthResult) tokenResponse {
	return tokenResponse{
		Token:        res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresAt:    res.ExpiresAt,
		User:         toUserDTO(res.Account),
	}
}
