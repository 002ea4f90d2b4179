package reports

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/insights"
	"github.com/maxi-cmyk/poop-tracker/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/me/stats", statsHandler(svc))
	r.Get("/me/health", healthHandler(svc))
	r.Get("/me/reports/monthly", monthlyHandler(svc))
	r.Get("/me/leaderboards", leaderboardsHandler(svc))
}

type quickStatsResponse struct {
	TodayLogs            int     `json:"today_logs"`
	TotalLogs            int     `json:"total_logs"`
	TotalDurationSeconds int     `json:"total_duration_seconds"`
	TotalDuration        string  `json:"total_duration"`
	AvgConsistency       float64 `json:"avg_consistency"`
	CurrentStreak        int     `json:"current_streak"`
	LongestStreak        int     `json:"longest_streak"`
	Achievements         int     `json:"achievements"`
	VenuesRated          int     `json:"venues_rated"`
}

type timeOfDayResponse struct {
	Label string `json:"label"`
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

type bristolCountResponse struct {
	Type  int `json:"type"`
	Count int `json:"count"`
}

type statsResponse struct {
	Quick         quickStatsResponse     `json:"quick"`
	TimeOfDay     []timeOfDayResponse    `json:"time_of_day"`
	Bristol       []bristolCountResponse `json:"bristol"`
	ThisMonthLogs int                    `json:"this_month_logs"`
	LastMonthLogs int                    `json:"last_month_logs"`
}

type alertResponse struct {
	Severity       string `json:"severity" enums:"info,caution,warning"`
	Message        string `json:"message"`
	Recommendation string `json:"recommendation"`
}

type healthResponse struct {
	Score  int             `json:"score"`
	Alerts []alertResponse `json:"alerts"`
}

type favoriteVenueResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Visits int    `json:"visits"`
}

type monthlyResponse struct {
	Month                string                 `json:"month"` // YYYY-MM
	TotalLogs            int                    `json:"total_logs"`
	TotalDurationSeconds int                    `json:"total_duration_seconds"`
	AvgDurationSeconds   int                    `json:"avg_duration_seconds"`
	AvgConsistency       float64                `json:"avg_consistency"`
	MostCommonHour       int                    `json:"most_common_hour"`
	MostCommonTime       string                 `json:"most_common_time"`
	AchievementsUnlocked int                    `json:"achievements_unlocked"`
	HealthScore          int                    `json:"health_score"`
	HealthAlerts         []alertResponse        `json:"health_alerts"`
	FavoriteVenue        *favoriteVenueResponse `json:"favorite_venue,omitempty"`
	ShareText            string                 `json:"share_text"`
}

type leaderboardEntryResponse struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Value  int    `json:"value"`
	IsMe   bool   `json:"is_me"`
}

type leaderboardsResponse struct {
	Sprinter    []leaderboardEntryResponse `json:"sprinter"`
	Marathoner  []leaderboardEntryResponse `json:"marathoner"`
	Heavyweight []leaderboardEntryResponse `json:"heavyweight"`
}

// statsHandler godoc
// @Summary Mis estadísticas
// @Description Registros de hoy, totales, promedio Bristol, rachas, logros, venues calificados y distribuciones (franja horaria, tipo Bristol, este mes vs el anterior).
// @Tags reports
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param X-Timezone header string false "Zona IANA del usuario"
// @Success 200 {object} statsResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me/stats [get]
func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		st, err := svc.Stats(r.Context(), claims.UserID, middleware.Location(r.Context()))
		if err != nil {
			writeReportError(w, err)
			return
		}

		out := statsResponse{
			Quick: quickStatsResponse{
				TodayLogs:            st.Quick.TodayLogs,
				TotalLogs:            st.Quick.TotalLogs,
				TotalDurationSeconds: st.Quick.TotalDurationSeconds,
				TotalDuration:        insights.FormatDuration(st.Quick.TotalDurationSeconds),
				AvgConsistency:       st.Quick.AvgConsistency,
				CurrentStreak:        st.CurrentStreak,
				LongestStreak:        st.LongestStreak,
				Achievements:         st.Achievements,
				VenuesRated:          st.VenuesRated,
			},
			TimeOfDay:     make([]timeOfDayResponse, 0, len(st.Distribution.TimeOfDay)),
			Bristol:       make([]bristolCountResponse, 0, len(st.Distribution.Bristol)),
			ThisMonthLogs: st.Distribution.ThisMonthLogs,
			LastMonthLogs: st.Distribution.LastMonthLogs,
		}
		for _, c := range st.Distribution.TimeOfDay {
			out.TimeOfDay = append(out.TimeOfDay, timeOfDayResponse{Label: string(c.Label), Emoji: c.Emoji, Count: c.Count})
		}
		for _, c := range st.Distribution.Bristol {
			out.Bristol = append(out.Bristol, bristolCountResponse{Type: int(c.Type), Count: c.Count})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// healthHandler godoc
// @Summary Mi salud intestinal
// @Description Puntaje 0-100 sobre los últimos 30 registros y alertas de la última semana.
// @Tags reports
// @Produce json
// @Success 200 {object} healthResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me/health [get]
func healthHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		h, err := svc.Health(r.Context(), claims.UserID)
		if err != nil {
			writeReportError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, healthResponse{Score: h.Score, Alerts: toAlertResponses(h.Alerts)})
	}
}

// monthlyHandler godoc
// @Summary Reporte mensual
// @Description Resumen ("wrapped") del mes calendario en la zona del usuario. Las alertas se calculan sobre los 7 días previos a la consulta, no al fin del mes.
// @Tags reports
// @Produce json
// @Param month query string false "YYYY-MM (default mes actual)"
// @Param X-Timezone header string false "Zona IANA del usuario"
// @Success 200 {object} monthlyResponse
// @Failure 400 {string} string "month inválido"
// @Failure 401 {string} string "unauthorized"
// @Router /me/reports/monthly [get]
func monthlyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		ref, err := svc.ParseMonth(r.URL.Query().Get("month"), middleware.Location(r.Context()))
		if err != nil {
			http.Error(w, "month must be YYYY-MM", http.StatusBadRequest)
			return
		}

		m, err := svc.Monthly(r.Context(), claims.UserID, ref)
		if err != nil {
			writeReportError(w, err)
			return
		}

		s := m.Summary
		out := monthlyResponse{
			Month:                s.Month.Format("2006-01"),
			TotalLogs:            s.TotalLogs,
			TotalDurationSeconds: s.TotalDurationSeconds,
			AvgDurationSeconds:   s.AvgDurationSeconds,
			AvgConsistency:       s.AvgConsistency,
			MostCommonHour:       s.MostCommonHour,
			MostCommonTime:       s.MostCommonTime,
			AchievementsUnlocked: s.AchievementsUnlocked,
			HealthScore:          s.HealthScore,
			HealthAlerts:         toAlertResponses(s.HealthAlerts),
			ShareText:            m.ShareText,
		}
		if m.FavoriteVenue != nil {
			out.FavoriteVenue = &favoriteVenueResponse{
				ID:     m.FavoriteVenue.ID,
				Name:   m.FavoriteVenue.Name,
				Visits: m.FavoriteVenue.Visits,
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// leaderboardsHandler godoc
// @Summary Rankings del círculo
// @Description Sprinter (sesión más corta), Marathoner (sesión más larga) y Heavyweight (registros large/massive) entre el usuario y sus amigos. De los amigos solo cuentan los registros públicos.
// @Tags reports
// @Produce json
// @Param limit query int false "Tamaño de cada ranking (default 10)"
// @Success 200 {object} leaderboardsResponse
// @Failure 400 {string} string "limit inválido"
// @Failure 401 {string} string "unauthorized"
// @Router /me/leaderboards [get]
func leaderboardsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		limit := 0
		if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
		}

		lb, err := svc.Leaderboards(r.Context(), claims.UserID, limit)
		if err != nil {
			writeReportError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, leaderboardsResponse{
			Sprinter:    toEntries(lb.Sprinter, claims.UserID),
			Marathoner:  toEntries(lb.Marathoner, claims.UserID),
			Heavyweight: toEntries(lb.Heavyweight, claims.UserID),
		})
	}
}

func toAlertResponses(in []insights.HealthAlert) []alertResponse {
	out := make([]alertResponse, 0, len(in))
	for _, a := range in {
		out = append(out, alertResponse{
			Severity:       string(a.Severity),
			Message:        a.Message,
			Recommendation: a.Recommendation,
		})
	}
	return out
}

func toEntries(in []insights.LeaderboardEntry, me string) []leaderboardEntryResponse {
	out := make([]leaderboardEntryResponse, 0, len(in))
	for _, e := range in {
		out = append(out, leaderboardEntryResponse{Rank: e.Rank, UserID: e.UserID, Value: e.Value, IsMe: e.UserID == me})
	}
	return out
}

func writeReportError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrInvalidInput) {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
