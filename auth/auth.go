/*
Package auth implements dashboard login: bcrypt-hashed users and JWT
bearer tokens, plus the HTTP middleware that guards the API.

PURPOSE:
  Every operator logs in with username/password; subsequent requests
  carry "Authorization: Bearer <token>". Tokens are HS256-signed and
  expire after 12 hours (one shift with margin).

SECURITY NOTE:
  The signing secret comes from configuration (JWT_SECRET). There is no
  role model: every authenticated operator sees the whole dashboard.
*/
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const TokenTTL = 12 * time.Hour

var (
	ErrInvalidCredentials = errors.New("usuário ou senha inválidos")
	ErrInvalidToken       = errors.New("token inválido")
)

// User is one dashboard operator.
type User struct {
	Username     string
	DisplayName  string
	PasswordHash string // bcrypt
}

// UserStore looks up operators. Returns (nil, nil) when unknown.
type UserStore interface {
	GetUser(ctx context.Context, username string) (*User, error)
}

// Service issues and validates tokens.
type Service struct {
	users  UserStore
	secret []byte
	now    func() time.Time
}

func NewService(users UserStore, secret string) *Service {
	return &Service{users: users, secret: []byte(secret), now: time.Now}
}

// HashPassword produces a bcrypt hash for seeding users.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Login verifies credentials and returns a signed token plus the user.
// Unknown user and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, *User, error) {
	user, err := s.users.GetUser(ctx, username)
	if err != nil {
		return "", nil, fmt.Errorf("consultando usuário: %w", err)
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := s.now()
	claims := jwt.MapClaims{
		"sub":  user.Username,
		"name": user.DisplayName,
		"iat":  now.Unix(),
		"exp":  now.Add(TokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("assinando token: %w", err)
	}
	return token, user, nil
}

// Verify parses a bearer token and returns the username it was issued to.
func (s *Service) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

// =============================================================================
// HTTP MIDDLEWARE
// =============================================================================

type ctxKey struct{}

// Username extracts the authenticated operator from a request context.
func Username(ctx context.Context) string {
	u, _ := ctx.Value(ctxKey{}).(string)
	return u
}

// Middleware rejects requests without a valid bearer token and stashes the
// username in the request context.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, `{"error":"credenciais ausentes"}`, http.StatusUnauthorized)
			return
		}
		username, err := s.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			http.Error(w, `{"error":"token inválido ou expirado"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, username)))
	})
}
