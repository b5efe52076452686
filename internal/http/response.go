package http

import (
	"encoding/json"
	"net/http"
)

// writeJSON escreve o corpo plano esperado pelo frontend.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError escreve {"error": mensagem} com o status correspondente.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
