package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/avlukashin/pikgrab/internal/config"
)

// RequireToken gates a route behind the optional API_TOKEN. When no token is
// configured the check is a no-op; the Telegram webhook is never gated since
// Telegram can't attach headers.
func RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if config.APIToken == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token != config.APIToken {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(401)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid API token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
