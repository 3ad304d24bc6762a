package middleware

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse — тело ответа с ошибкой: {"error": "..."}.
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSONError пишет ошибку в формате ErrorResponse с нужным статусом.
func JSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: msg})
}
