package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"school-library-backend/internal/domains/auth/model"
	"school-library-backend/internal/shared/apperr"
	"school-library-backend/pkg/clock"
	"school-library-backend/pkg/jwt"
	"school-library-backend/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

type ServiceInterface interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
}

// Service authenticates the single librarian account from config
type Service struct {
	username     string
	passwordHash []byte
	tokens       *jwt.Manager
	clock        clock.Clock
}

func NewService(username, passwordHash string, tokens *jwt.Manager, clk clock.Clock) ServiceInterface {
	return &Service{
		username:     username,
		passwordHash: []byte(passwordHash),
		tokens:       tokens,
		clock:        clk,
	}
}

func (s *Service) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation(err)
	}

	// 2. CHECK USERNAME + PASSWORD
	// Both checks always run so a wrong username costs the same as a wrong password
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password))
	if !userOK || passErr != nil {
		logger.Warn("Login failed", map[string]interface{}{"username": req.Username})
		return nil, model.ErrInvalidCredentials
	}

	// 3. ISSUE TOKEN
	now := s.clock.Now()
	token, err := s.tokens.GenerateAccessToken(s.username, now)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	return &model.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   now.Add(s.tokens.Expiry()),
		Username:    s.username,
	}, nil
}
