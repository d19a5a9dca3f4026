package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lernfeld/semesterplan-api/internal/models"
	appErrors "github.com/lernfeld/semesterplan-api/pkg/errors"
)

func signToken(t *testing.T, secret string, claims models.JWTClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateToken(t *testing.T) {
	svc := NewTokenService(TokenServiceConfig{Secret: "test-secret", Issuer: "idp"})

	signed := signToken(t, "test-secret", models.JWTClaims{
		UserID: "teacher-7",
		Name:   "Doe",
		Role:   models.RoleTeacher,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "idp",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := svc.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "teacher-7", claims.UserID)
	assert.Equal(t, models.RoleTeacher, claims.Role)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := NewTokenService(TokenServiceConfig{Secret: "test-secret"})

	signed := signToken(t, "other-secret", models.JWTClaims{UserID: "teacher-7"})

	_, err := svc.ValidateToken(signed)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := NewTokenService(TokenServiceConfig{Secret: "test-secret"})

	signed := signToken(t, "test-secret", models.JWTClaims{
		UserID: "teacher-7",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	_, err := svc.ValidateToken(signed)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenIssuerMismatch(t *testing.T) {
	svc := NewTokenService(TokenServiceConfig{Secret: "test-secret", Issuer: "idp"})

	signed := signToken(t, "test-secret", models.JWTClaims{
		UserID: "teacher-7",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "somewhere-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := svc.ValidateToken(signed)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
