package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/leads-finder/internal/auth"
)

// ErrInvalidCredentials is returned for any login failure so callers cannot
// distinguish a wrong email from a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService validates the configured operator credentials and issues
// tokens. There is no user store; the single operator account comes from the
// environment.
type AuthService struct {
	operatorEmail string
	passwordHash  string
	jwt           *auth.JWTManager
}

// NewAuthService constructs a new AuthService.
func NewAuthService(operatorEmail, passwordHash string, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		operatorEmail: strings.ToLower(strings.TrimSpace(operatorEmail)),
		passwordHash:  passwordHash,
		jwt:           jwtManager,
	}
}

// Login validates credentials and returns a JWT.
func (s *AuthService) Login(_ context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", errors.New("email and password must not be empty")
	}
	if s.operatorEmail == "" || s.passwordHash == "" {
		return "", errors.New("operator credentials are not configured")
	}

	if strings.ToLower(strings.TrimSpace(email)) != s.operatorEmail {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken("operator", s.operatorEmail)
	if err != nil {
		return "", err
	}

	return token, nil
}
