package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rentmarket-backend/internal/domain"
)

const testSecret = "unit-test-secret-0123456789abcdef-0123"

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	token, err := tm.GenerateAccessToken(42, "alice@example.com", domain.RoleCustomer)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, domain.RoleCustomer, claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)
	other := NewTokenManager("a-different-secret-9876543210fedcba-98", 60)

	token, err := tm.GenerateAccessToken(1, "x@example.com", domain.RoleVendor)
	assert.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	tm := &tokenManager{secret: []byte(testSecret), expiry: -time.Minute}

	token, err := tm.GenerateAccessToken(1, "x@example.com", domain.RoleCustomer)
	assert.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)
	_, err := tm.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
