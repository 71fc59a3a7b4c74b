package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc, err := NewJWTService("test-secret", "legal-identity", 1)
	require.NoError(t, err)

	token, err := svc.GenerateToken(42, "alice", AccountStudent, true)
	require.NoError(t, err)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, AccountStudent, claims.AccountType)
	assert.True(t, claims.IsStaff)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	issuer, _ := NewJWTService("secret-a", "", 1)
	verifier, _ := NewJWTService("secret-b", "", 1)

	token, err := issuer.GenerateToken(1, "bob", AccountLecturer, false)
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTService_RejectsExpired(t *testing.T) {
	svc, _ := NewJWTService("test-secret", "", 1)
	claims := &JWTCustomClaims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTService_RejectsForeignIssuer(t *testing.T) {
	foreign, _ := NewJWTService("shared", "someone-else", 1)
	svc, _ := NewJWTService("shared", "legal-identity", 1)

	token, err := foreign.GenerateToken(1, "eve", AccountProfessional, false)
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTService_RejectsMalformed(t *testing.T) {
	svc, _ := NewJWTService("test-secret", "", 1)

	_, err := svc.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService("", "", 1)
	assert.Error(t, err)
}
