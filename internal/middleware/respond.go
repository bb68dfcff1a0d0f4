package middleware

import (
	"encoding/json"
	"net/http"
)

// jsonError writes the same {message, code} envelope the handlers use.
func jsonError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"message": message,
		"code":    code,
	})
}
