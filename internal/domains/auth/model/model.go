package model

import (
	"time"

	"school-library-backend/internal/shared/apperr"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var ErrInvalidCredentials = apperr.New(apperr.ErrUnauthorized, "INVALID_CREDENTIALS", "invalid username or password")

// LoginRequest - POST /api/auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Username    string    `json:"username"`
}
