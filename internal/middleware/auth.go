package middleware

import (
	"net/http"

	"freightops/harbormaster/internal/db/repositories"
)

// AuthMiddleware gates the management API on a valid X-API-Key header.
// Keys are stored hashed; the lookup hashes the presented key.
func AuthMiddleware(keysRepo *repositories.KeysRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				http.Error(w, "Unauthorized. Missing API Key", http.StatusUnauthorized)
				return
			}

			key, err := keysRepo.GetStatus(r.Context(), apiKey)
			if err != nil || key == nil {
				http.Error(w, "Unauthorized. Invalid API Key", http.StatusUnauthorized)
				return
			}
			if !key.Active {
				http.Error(w, "Unauthorized. Inactive API Key", http.StatusUnauthorized)
				return
			}

			keysRepo.TouchLastUsed(r.Context(), key.ID)
			next.ServeHTTP(w, r)
		})
	}
}
