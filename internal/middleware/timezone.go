package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"
)

const locationKey ctxKey = "location"

// Timezone resuelve la zona horaria del usuario: header X-Timezone, luego query ?tz=,
// luego fallback. Una zona inválida se ignora (no es error del request).
func Timezone(fallback *time.Location) func(http.Handler) http.Handler {
	if fallback == nil {
		fallback = time.UTC
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			loc := fallback

			name := strings.TrimSpace(r.Header.Get("X-Timezone"))
			if name == "" {
				name = strings.TrimSpace(r.URL.Query().Get("tz"))
			}
			if name != "" {
				if l, err := time.LoadLocation(name); err == nil {
					loc = l
				}
			}

			ctx := context.WithValue(r.Context(), locationKey, loc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Location devuelve la zona resuelta por Timezone, o UTC si el middleware no corrió.
func Location(ctx context.Context) *time.Location {
	if loc, ok := ctx.Value(locationKey).(*time.Location); ok && loc != nil {
		return loc
	}
	return time.UTC
}
