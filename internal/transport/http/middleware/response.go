package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError writes the auth and rate-limit rejections in the same
// {"error": ...} envelope shape the handlers use, so clients parse one
// format regardless of which layer refused the request.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
