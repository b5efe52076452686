package middleware

import "net/http"

// CORS libera todas as origens; o controle de acesso é inteiramente do
// token. Preflight é respondido sem corpo.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, X-Client-Info, Apikey, Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "POST,OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
