// Package admin exchanges the operator password for the bearer token that
// protects the newsletter send endpoint.
package admin

import (
	"fmt"

	"github.com/meadow/newsletter-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// TokenSigner issues a signed bearer token for the given subject.
type TokenSigner interface {
	Sign(subject string) (string, error)
}

type Service interface {
	Login(password string) (bearer string, err error)
}

type service struct {
	passwordHash []byte
	signer       TokenSigner
}

// NewService builds the admin login service around a bcrypt password hash.
// An empty hash disables login entirely.
func NewService(passwordHash string, signer TokenSigner) Service {
	return &service{passwordHash: []byte(passwordHash), signer: signer}
}

func (s *service) Login(password string) (string, error) {
	if len(s.passwordHash) == 0 {
		return "", fmt.Errorf("admin login disabled: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", fmt.Errorf("admin password mismatch: %w", domain.ErrUnauthorized)
	}
	bearer, err := s.signer.Sign("admin")
	if err != nil {
		return "", fmt.Errorf("sign admin token: %w", err)
	}
	return bearer, nil
}
