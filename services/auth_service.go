package services

import (
	"context"
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// AuthService проверяет учётные данные администратора табло. Admin identity
// is provisioned through the environment; there is no user storage here —
// account management belongs to the external admin panel.
type AuthService interface {
	Login(ctx context.Context, email, password string) error
}

type authService struct {
	adminEmail        string
	adminPasswordHash string
}

func NewAuthService(adminEmail, adminPasswordHash string) AuthService {
	return &authService{
		adminEmail:        adminEmail,
		adminPasswordHash: adminPasswordHash,
	}
}

func (s *authService) Login(_ context.Context, email, password string) error {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.adminEmail)) == 1

	err := bcrypt.CompareHashAndPassword([]byte(s.adminPasswordHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) || !emailOK {
			return ErrAuthInvalidCredentials
		}
		return err
	}
	if !emailOK {
		return ErrAuthInvalidCredentials
	}
	return nil
}
