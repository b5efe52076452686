package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/highwoods/media-gateway/internal/auth"
)

type contextKey string

// ContextKeyUserID guarda a identidade verificada da requisição.
const ContextKeyUserID contextKey = "user_id"

// Auth exige bearer token e resolve a identidade no verificador.
// Sem header, nenhuma chamada externa é feita.
func Auth(verifier auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				writeError(w, http.StatusUnauthorized, "Missing authorization header")
				return
			}

			userID, err := verifier.Verify(r.Context(), parts[1])
			if err != nil {
				if errors.Is(err, auth.ErrUnauthenticated) {
					writeError(w, http.StatusUnauthorized, "Invalid or expired token")
					return
				}
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID recupera a identidade verificada do contexto.
func GetUserID(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeyUserID).(string)
	return val
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
