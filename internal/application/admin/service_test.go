package admin

import (
	"errors"
	"testing"

	"github.com/meadow/newsletter-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockSigner struct{ mock.Mock }

func (m *mockSigner) Sign(subject string) (string, error) {
	args := m.Called(subject)
	return args.String(0), args.Error(1)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin_CorrectPassword_IssuesBearer(t *testing.T) {
	signer := &mockSigner{}
	signer.On("Sign", "admin").Return("bearer-token", nil)

	svc := NewService(hashOf(t, "hunter2"), signer)
	bearer, err := svc.Login("hunter2")

	require.NoError(t, err)
	assert.Equal(t, "bearer-token", bearer)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := NewService(hashOf(t, "hunter2"), &mockSigner{})
	_, err := svc.Login("letmein")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestLogin_DisabledWithoutHash(t *testing.T) {
	svc := NewService("", &mockSigner{})
	_, err := svc.Login("anything")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}
