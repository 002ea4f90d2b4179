package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/maxi-cmyk/poop-tracker/internal/platform/logger"
	"github.com/maxi-cmyk/poop-tracker/internal/ports/auth"
)

// DebugUserHeader identifica al usuario solo cuando no hay verifier configurado.
const DebugUserHeader = "X-Debug-User-ID"

type ctxKey string

const claimsKey ctxKey = "claims"

// AuthContext resuelve la identidad del request y la deja en el contexto.
//
// Sin verifier (modo dev) se confía en DebugUserHeader. Con verifier solo cuenta
// el token Bearer; DebugUserHeader se ignora y queda registrado en debug.
// Un request sin identidad válida sigue de largo: cada handler responde 401.
func AuthContext(verifier auth.AuthVerifier, log logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := resolveClaims(r, verifier, log)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
		})
	}
}

func resolveClaims(r *http.Request, verifier auth.AuthVerifier, log logger.Logger) (auth.Claims, bool) {
	debugUser := strings.TrimSpace(r.Header.Get(DebugUserHeader))

	if verifier == nil {
		if debugUser == "" {
			return auth.Claims{}, false
		}
		return auth.Claims{UserID: debugUser}, true
	}

	if debugUser != "" {
		log.Debug("debug user header ignored", map[string]any{"path": r.URL.Path})
	}

	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return auth.Claims{}, false
	}

	claims, err := verifier.Verify(r.Context(), token)
	if err != nil {
		log.Debug("token rejected", map[string]any{"path": r.URL.Path, "error": err})
		return auth.Claims{}, false
	}
	if strings.TrimSpace(claims.UserID) == "" {
		log.Warn("verifier returned claims without user id", map[string]any{"path": r.URL.Path})
		return auth.Claims{}, false
	}
	return claims, true
}

// GetClaims devuelve la identidad resuelta por AuthContext, si la hay.
func GetClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(auth.Claims)
	return c, ok
}

// bearerToken extrae el token de "Bearer <token>" (esquema sin distinguir mayúsculas).
func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
