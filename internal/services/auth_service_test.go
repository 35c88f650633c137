package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ydadvisory/internal/authz"
	"ydadvisory/internal/config"
)

func hash(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthServiceLogin(t *testing.T) {
	cfg := config.AuthConfig{
		JWTSecret:         "test-secret",
		TokenTTL:          time.Hour,
		AdminEmail:        "Admin@YD.example",
		AdminPasswordHash: hash(t, "s3cret"),
		Accounts: []config.AccountConfig{
			{Email: "viewer@yd.example", PasswordHash: hash(t, "look"), Role: "viewer"},
		},
	}
	svc := NewAuthService(cfg)

	token, exp, err := svc.Login("admin@yd.example", "s3cret")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	var claims authz.Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) { return []byte("test-secret"), nil })
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, authz.RoleAdmin, claims.RoleID)
	assert.Equal(t, "admin@yd.example", claims.Email)

	_, _, err = svc.Login("viewer@yd.example", "look")
	require.NoError(t, err)

	_, _, err = svc.Login("admin@yd.example", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login("nobody@yd.example", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceHashPassword(t *testing.T) {
	svc := NewAuthService(config.AuthConfig{JWTSecret: "x"})
	h, err := svc.HashPassword("pw")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("pw")))
}
