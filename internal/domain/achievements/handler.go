package achievements

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/insights"
	"github.com/maxi-cmyk/poop-tracker/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/me/achievements", func(ar chi.Router) {
		ar.Get("/", listAchievementsHandler(svc))
		ar.Post("/check", checkAchievementsHandler(svc))
	})
}

// achievementResponse es una entrada del catálogo con el estado del usuario.
type achievementResponse struct {
	ID          insights.AchievementID `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Emoji       string                 `json:"emoji"`
	Unlocked    bool                   `json:"unlocked"`
	UnlockedAt  *time.Time             `json:"unlocked_at,omitempty"`
}

type achievementsResponse struct {
	Unlocked  int                   `json:"unlocked"`
	Total     int                   `json:"total"`
	ShareText string                `json:"share_text"`
	Items     []achievementResponse `json:"items"`
}

// UnlockResponse se reutiliza en la respuesta de creación de registros.
type UnlockResponse struct {
	ID         insights.AchievementID `json:"id"`
	Name       string                 `json:"name"`
	Emoji      string                 `json:"emoji"`
	UnlockedAt time.Time              `json:"unlocked_at"`
}

// listAchievementsHandler godoc
// @Summary Listar mis logros
// @Description Devuelve los 11 logros del catálogo en orden, con estado desbloqueado, fecha y progreso.
// @Tags achievements
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} achievementsResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /me/achievements [get]
func listAchievementsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		ov, err := svc.List(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := achievementsResponse{
			Unlocked:  ov.Unlocked,
			Total:     ov.Total,
			ShareText: insights.AchievementsShareText(ov.Unlocked, ov.Total),
			Items:     make([]achievementResponse, 0, len(ov.Items)),
		}
		for _, p := range ov.Items {
			out.Items = append(out.Items, achievementResponse{
				ID:          p.Achievement.ID,
				Name:        p.Achievement.Name,
				Description: p.Achievement.Description,
				Emoji:       p.Achievement.Emoji,
				Unlocked:    p.Unlocked,
				UnlockedAt:  p.UnlockedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// checkAchievementsHandler godoc
// @Summary Evaluar logros
// @Description Evalúa el catálogo contra todo el historial y devuelve solo los logros recién desbloqueados (lista vacía si no hay nuevos).
// @Tags achievements
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param X-Timezone header string false "Zona IANA del usuario"
// @Success 200 {array} UnlockResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /me/achievements/check [post]
func checkAchievementsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		unlocks, err := svc.Check(r.Context(), claims.UserID, middleware.Location(r.Context()))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, ToUnlockResponses(unlocks))
	}
}

func ToUnlockResponses(items []Unlock) []UnlockResponse {
	out := make([]UnlockResponse, 0, len(items))
	for _, u := range items {
		a, _ := insights.LookupAchievement(u.Achievement)
		out = append(out, UnlockResponse{
			ID:         u.Achievement,
			Name:       a.Name,
			Emoji:      a.Emoji,
			UnlockedAt: u.UnlockedAt,
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
