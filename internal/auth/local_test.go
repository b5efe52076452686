package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "super-secret-signing-key-for-tests"

func signToken(t *testing.T, secret, subject string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("assinatura do token de teste: %v", err)
	}
	return signed
}

func TestLocalVerify(t *testing.T) {
	verifier := NewLocalVerifier(testSecret)
	token := signToken(t, testSecret, "user-1", time.Now().Add(time.Hour))

	userID, err := verifier.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("userID = %s", userID)
	}
}

func TestLocalVerifyRejections(t *testing.T) {
	verifier := NewLocalVerifier(testSecret)

	tests := []struct {
		name  string
		token string
	}{
		{"expirado", signToken(t, testSecret, "user-1", time.Now().Add(-time.Minute))},
		{"segredo errado", signToken(t, "other-secret-with-enough-length", "user-1", time.Now().Add(time.Hour))},
		{"sem subject", signToken(t, testSecret, "", time.Now().Add(time.Hour))},
		{"lixo", "not-a-jwt"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := verifier.Verify(context.Background(), tc.token); !errors.Is(err, ErrUnauthenticated) {
				t.Fatalf("esperava ErrUnauthenticated, veio %v", err)
			}
		})
	}
}
