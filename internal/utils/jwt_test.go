package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestTokenExpiry_Success(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, &jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})

	got, err := TokenExpiry(token)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !got.Equal(exp) {
		t.Errorf("expected expiry %v, got %v", exp, got)
	}
}

func TestTokenExpiry_AlreadyExpired(t *testing.T) {
	exp := time.Now().Add(-time.Minute).Truncate(time.Second)
	token := signedToken(t, &jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})

	// expired tokens are still parsed; the caller decides
	got, err := TokenExpiry(token)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !got.Before(time.Now()) {
		t.Errorf("expected expiry in the past, got %v", got)
	}
}

func TestTokenExpiry_NoClaim(t *testing.T) {
	token := signedToken(t, &jwt.RegisteredClaims{Subject: "device-1"})

	_, err := TokenExpiry(token)

	if !errors.Is(err, ErrNoExpiry) {
		t.Errorf("expected ErrNoExpiry, got %v", err)
	}
}

func TestTokenExpiry_Malformed(t *testing.T) {
	_, err := TokenExpiry("not.a.token")
	if err == nil {
		t.Error("expected error for malformed token string, got nil")
	}
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"surrounding spaces", "  Bearer tok  ", "tok", false},
		{"missing token", "Bearer ", "", true},
		{"no scheme", "tok", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBearerToken(tt.header)
			if (err != nil) != tt.wantErr {
				t.Fatalf("wantErr=%v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
