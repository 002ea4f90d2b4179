package streaks

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/maxi-cmyk/poop-tracker/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/me/streak", getMyStreakHandler(svc))
}

// streakResponse representa la racha de registros del usuario.
type streakResponse struct {
	Current     int    `json:"current"`
	Longest     int    `json:"longest"`
	LastLogDate string `json:"last_log_date,omitempty"` // YYYY-MM-DD
}

// getMyStreakHandler godoc
// @Summary Ver mi racha
// @Description Devuelve la racha actual y la más larga. Si el último registro es anterior a ayer (en la zona del usuario) la racha actual es 0.
// @Tags streaks
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param X-Timezone header string false "Zona IANA del usuario (ej: Europe/Rome)"
// @Success 200 {object} streakResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /me/streak [get]
func getMyStreakHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		st, err := svc.Get(r.Context(), claims.UserID, middleware.Location(r.Context()))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := streakResponse{Current: st.Current, Longest: st.Longest}
		if !st.LastLogDate.IsZero() {
			out.LastLogDate = st.LastLogDate.Format("2006-01-02")
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
