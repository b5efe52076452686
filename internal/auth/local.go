package auth

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// LocalVerifier valida o token do provedor localmente via HS256,
// sem ida à rede. O segredo é o mesmo usado pelo provedor para
// assinar tokens de acesso.
type LocalVerifier struct {
	secret []byte
}

// NewLocalVerifier cria o verificador local com o segredo configurado.
func NewLocalVerifier(secret string) *LocalVerifier {
	return &LocalVerifier{secret: []byte(secret)}
}

// Verify confere assinatura e expiração e devolve o subject do token.
func (v *LocalVerifier) Verify(ctx context.Context, token string) (string, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	parsed, err := parser.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return "", ErrUnauthenticated
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return "", ErrUnauthenticated
	}
	return claims.Subject, nil
}
