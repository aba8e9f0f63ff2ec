package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeStore map[string]*User

func (f fakeStore) GetUser(_ context.Context, username string) (*User, error) {
	return f[username], nil
}

func newTestService(t *testing.T) (*Service, fakeStore) {
	t.Helper()
	hash, err := HashPassword("s3nha")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	store := fakeStore{
		"maria": {Username: "maria", DisplayName: "Maria Souza", PasswordHash: hash},
	}
	return NewService(store, "test-secret"), store
}

func TestLoginAndVerify(t *testing.T) {
	s, _ := newTestService(t)

	token, user, err := s.Login(context.Background(), "maria", "s3nha")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.DisplayName != "Maria Souza" {
		t.Errorf("user = %+v", user)
	}

	username, err := s.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if username != "maria" {
		t.Errorf("subject = %q, want maria", username)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s, _ := newTestService(t)

	// Unknown user and wrong password yield the same error.
	if _, _, err := s.Login(context.Background(), "ghost", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: err = %v", err)
	}
	if _, _, err := s.Login(context.Background(), "maria", "errada"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	s, _ := newTestService(t)

	issued := time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issued }
	token, _, err := s.Login(context.Background(), "maria", "s3nha")
	if err != nil {
		t.Fatal(err)
	}

	s.now = func() time.Time { return issued.Add(TokenTTL + time.Minute) }
	if _, err := s.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token: err = %v", err)
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	s, _ := newTestService(t)
	other := NewService(fakeStore{}, "other-secret")

	token, _, err := s.Login(context.Background(), "maria", "s3nha")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign signature: err = %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	s, _ := newTestService(t)
	token, _, err := s.Login(context.Background(), "maria", "s3nha")
	if err != nil {
		t.Fatal(err)
	}

	var gotUser string
	handler := s.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = Username(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/employees", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if gotUser != "maria" {
			t.Errorf("context user = %q", gotUser)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/employees", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/employees", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}
