package services

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"ydadvisory/internal/authz"
	"ydadvisory/internal/config"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService interface {
	HashPassword(password string) (string, error)
	Login(email, password string) (token string, expiresAt time.Time, err error)
}

type account struct {
	hash   []byte
	roleID int
}

type authService struct {
	secret   []byte
	ttl      time.Duration
	accounts map[string]account
	now      func() time.Time
}

// NewAuthService indexes the configured back-office accounts by lower-cased
// email.
func NewAuthService(cfg config.AuthConfig) AuthService {
	s := &authService{
		secret:   []byte(cfg.JWTSecret),
		ttl:      cfg.TokenTTL,
		accounts: map[string]account{},
		now:      time.Now,
	}
	for _, acc := range cfg.AllAccounts() {
		email := strings.ToLower(strings.TrimSpace(acc.Email))
		if email == "" || acc.PasswordHash == "" {
			continue
		}
		if _, dup := s.accounts[email]; dup {
			continue
		}
		s.accounts[email] = account{hash: []byte(acc.PasswordHash), roleID: authz.ParseRole(acc.Role)}
	}
	return s
}

func (s *authService) HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (s *authService) Login(email, password string) (string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	acc, ok := s.accounts[email]
	if !ok || acc.roleID == 0 {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := s.now()
	exp := now.Add(s.ttl)
	claims := authz.Claims{
		Email:  email,
		RoleID: acc.roleID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}
