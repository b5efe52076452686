package auth

import (
	"context"
	"errors"
)

// ErrUnauthenticated indica token ausente, inválido ou expirado.
var ErrUnauthenticated = errors.New("invalid or expired token")

// Verifier resolve um bearer token em uma identidade estável de usuário.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}
