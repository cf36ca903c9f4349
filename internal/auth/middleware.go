package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type ctxKey struct{}

// FromContext returns the verified claims, or nil outside the middleware.
func FromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(ctxKey{}).(*Claims)
	return c
}

func deny(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}

// Require verifies the bearer token and puts the claims on the request context.
func (t *Tokens) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			deny(w, http.StatusUnauthorized, "tidak ada token, otorisasi ditolak")
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")
		claims, err := t.Verify(raw)
		if err != nil {
			deny(w, http.StatusUnauthorized, "token tidak valid")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims)))
	})
}

// RequireAdmin layers the admin role check on top of Require.
func (t *Tokens) RequireAdmin(next http.Handler) http.Handler {
	return t.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c := FromContext(r.Context()); c == nil || !c.IsAdmin() {
			deny(w, http.StatusForbidden, "akses ditolak, hanya untuk admin")
			return
		}
		next.ServeHTTP(w, r)
	}))
}
