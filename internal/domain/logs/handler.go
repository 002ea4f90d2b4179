package logs

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/achievements"
	"github.com/maxi-cmyk/poop-tracker/internal/domain/stool"
	"github.com/maxi-cmyk/poop-tracker/internal/domain/streaks"
	"github.com/maxi-cmyk/poop-tracker/internal/middleware"
	"github.com/maxi-cmyk/poop-tracker/internal/platform/logger"
	"github.com/maxi-cmyk/poop-tracker/internal/ports/activity"
)

// Deps son los colaboradores que corren después de crear un registro.
type Deps struct {
	Streaks      *streaks.Service
	Achievements *achievements.Service
	Activity     activity.Publisher
	Log          logger.Logger
}

func RegisterRoutes(r chi.Router, svc *Service, deps Deps) {
	if deps.Activity == nil {
		deps.Activity = activity.Discard{}
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}

	r.Get("/stool/scale", stoolScaleHandler())

	r.Route("/logs", func(lr chi.Router) {
		lr.Post("/", createLogHandler(svc, deps))
		lr.Get("/", listLogsHandler(svc))
		lr.Get("/{logID}", getLogHandler(svc))
		lr.Delete("/{logID}", deleteLogHandler(svc))
	})
}

// createLogRequest es el cuerpo para registrar una visita al baño.
type createLogRequest struct {
	BristolType     int      `json:"bristol_type" minimum:"1" maximum:"7"`
	Volume          string   `json:"volume" enums:"small,medium,large,massive"`
	Color           string   `json:"color" enums:"brown,dark-brown,light-brown,green,yellow,black,red,white"`
	DurationSeconds int      `json:"duration_seconds"`
	LoggedAt        string   `json:"logged_at"` // RFC3339, opcional (default ahora)
	Notes           string   `json:"notes"`
	IsPublic        bool     `json:"is_public"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	VenueID         string   `json:"venue_id"`
	PoopPhotoURL    string   `json:"poop_photo_url"`
	ToiletPhotoURL  string   `json:"toilet_photo_url"`
}

// logResponse representa un registro devuelto por la API.
type logResponse struct {
	ID              string       `json:"id"`
	UserID          string       `json:"user_id"`
	BristolType     int          `json:"bristol_type"`
	Volume          stool.Volume `json:"volume"`
	Color           stool.Color  `json:"color,omitempty"`
	DurationSeconds int          `json:"duration_seconds"`
	LoggedAt        time.Time    `json:"logged_at"`
	RecordedAt      time.Time    `json:"recorded_at"`
	Notes           string       `json:"notes,omitempty"`
	IsPublic        bool         `json:"is_public"`
	Latitude        *float64     `json:"latitude,omitempty"`
	Longitude       *float64     `json:"longitude,omitempty"`
	VenueID         string       `json:"venue_id,omitempty"`
	PoopPhotoURL    string       `json:"poop_photo_url,omitempty"`
	ToiletPhotoURL  string       `json:"toilet_photo_url,omitempty"`
}

type createLogResponse struct {
	logResponse
	NewAchievements []achievements.UnlockResponse `json:"new_achievements"`
}

type stoolScaleResponse struct {
	Bristol map[string]stool.BristolInfo `json:"bristol"`
	Volumes map[string]stool.VolumeInfo  `json:"volumes"`
	Colors  map[string]stool.ColorInfo   `json:"colors"`
}

// createLogHandler godoc
// @Summary Registrar una visita
// @Description Registra una visita (tipo Bristol 1-7, volumen, color, duración). Después actualiza la racha y evalúa los logros; los recién desbloqueados vienen en `new_achievements`. Si el registro es público se publica en la actividad del círculo (sin notas, fotos ni coordenadas).
// @Tags logs
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param X-Timezone header string false "Zona IANA del usuario"
// @Param payload body createLogRequest true "Datos del registro"
// @Success 201 {object} createLogResponse
// @Failure 400 {string} string "invalid json / logged_at inválido / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Router /logs [post]
func createLogHandler(svc *Service, deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createLogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var loggedAt time.Time
		if v := strings.TrimSpace(req.LoggedAt); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				http.Error(w, "logged_at must be RFC3339", http.StatusBadRequest)
				return
			}
			loggedAt = t
		}

		l, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			LoggedAt:        loggedAt,
			Consistency:     req.BristolType,
			Volume:          req.Volume,
			Color:           req.Color,
			DurationSeconds: req.DurationSeconds,
			Notes:           req.Notes,
			IsPublic:        req.IsPublic,
			Latitude:        req.Latitude,
			Longitude:       req.Longitude,
			VenueID:         req.VenueID,
			PoopPhotoURL:    req.PoopPhotoURL,
			ToiletPhotoURL:  req.ToiletPhotoURL,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		loc := middleware.Location(r.Context())
		log := deps.Log.With(map[string]any{"user_id": l.UserID, "log_id": l.ID})

		// El registro ya quedó guardado: fallas de aquí en adelante solo se loguean.
		if deps.Streaks != nil {
			if _, err := deps.Streaks.Record(r.Context(), l.UserID, l.LoggedAt.In(loc)); err != nil {
				log.Warn("streak update failed", map[string]any{"err": err})
			}
		}

		out := createLogResponse{
			logResponse:     toLogResponse(l),
			NewAchievements: []achievements.UnlockResponse{},
		}
		if deps.Achievements != nil {
			unlocks, err := deps.Achievements.Check(r.Context(), l.UserID, loc)
			if err != nil {
				log.Warn("achievement check failed", map[string]any{"err": err})
			}
			out.NewAchievements = achievements.ToUnlockResponses(unlocks)
		}

		if l.IsPublic {
			err := deps.Activity.Publish(r.Context(), activity.Event{
				Kind:       activity.KindLogRecorded,
				UserID:     l.UserID,
				OccurredAt: l.LoggedAt,
				Attributes: map[string]string{
					"bristol_type":     strconv.Itoa(int(l.Consistency)),
					"volume":           string(l.Volume),
					"duration_seconds": strconv.Itoa(l.DurationSeconds),
				},
			})
			if err != nil {
				log.Warn("activity publish failed", map[string]any{"err": err})
			}
		}

		writeJSON(w, http.StatusCreated, out)
	}
}

// listLogsHandler godoc
// @Summary Listar mis registros
// @Description Lista los registros propios en orden cronológico ascendente. Con `limit` se conservan los más recientes.
// @Tags logs
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param limit query int false "Máximo de registros (1-500). Por defecto 200"
// @Param types query string false "Lista CSV de tipos Bristol (ej: 3,4)"
// @Param from query string false "logged_at mínimo (RFC3339)"
// @Param to query string false "logged_at máximo (RFC3339)"
// @Success 200 {array} logResponse
// @Failure 400 {string} string "Parámetros de filtro inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /logs [get]
func listLogsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		filter, err := parseListFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.List(r.Context(), claims.UserID, filter)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]logResponse, 0, len(items))
		for _, l := range items {
			out = append(out, toLogResponse(l))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getLogHandler godoc
// @Summary Ver un registro
// @Description Devuelve un registro propio. Los registros de otros usuarios responden 404.
// @Tags logs
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param logID path string true "ID del registro"
// @Success 200 {object} logResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "log not found"
// @Router /logs/{logID} [get]
func getLogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		l, err := svc.GetByID(r.Context(), chi.URLParam(r, "logID"))
		if err != nil || l.UserID != claims.UserID {
			http.Error(w, "log not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toLogResponse(l))
	}
}

// deleteLogHandler godoc
// @Summary Borrar un registro
// @Description Borra un registro propio. La racha y los logros ya desbloqueados no se recalculan.
// @Tags logs
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param logID path string true "ID del registro"
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "log not found"
// @Failure 500 {string} string "internal error"
// @Router /logs/{logID} [delete]
func deleteLogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		err := svc.Delete(r.Context(), claims.UserID, chi.URLParam(r, "logID"))
		switch {
		case err == nil:
			w.WriteHeader(http.StatusNoContent)
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrForbidden), errors.Is(err, ErrInvalidInput):
			// no revelamos si el registro existe para otro usuario
			http.Error(w, "log not found", http.StatusNotFound)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}

// stoolScaleHandler godoc
// @Summary Escalas de referencia
// @Description Devuelve las descripciones de la escala Bristol, los volúmenes y los colores (con advertencias médicas).
// @Tags logs
// @Produce json
// @Success 200 {object} stoolScaleResponse
// @Router /stool/scale [get]
func stoolScaleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		out := stoolScaleResponse{
			Bristol: map[string]stool.BristolInfo{},
			Volumes: map[string]stool.VolumeInfo{},
			Colors:  map[string]stool.ColorInfo{},
		}
		for b := stool.BristolMin; b <= stool.BristolMax; b++ {
			if info, ok := stool.DescribeBristol(b); ok {
				out.Bristol[strconv.Itoa(int(b))] = info
			}
		}
		for _, v := range stool.Volumes() {
			if info, ok := stool.DescribeVolume(v); ok {
				out.Volumes[string(v)] = info
			}
		}
		for _, c := range stool.Colors() {
			if info, ok := stool.DescribeColor(c); ok {
				out.Colors[string(c)] = info
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	filter := ListFilter{Limit: DefaultListLimit}

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= MaxListLimit {
			filter.Limit = n
		}
	}

	// types=3,4
	if v := strings.TrimSpace(r.URL.Query().Get("types")); v != "" {
		for _, p := range strings.Split(v, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			n, err := strconv.Atoi(p)
			if err != nil || !stool.BristolType(n).Valid() {
				return ListFilter{}, errors.New("types must be bristol types 1-7")
			}
			filter.Types = append(filter.Types, stool.BristolType(n))
		}
	}

	if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("from must be RFC3339")
		}
		filter.From = &t
	}
	if v := strings.TrimSpace(r.URL.Query().Get("to")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("to must be RFC3339")
		}
		filter.To = &t
	}

	return filter, nil
}

func toLogResponse(l Log) logResponse {
	return logResponse{
		ID:              l.ID,
		UserID:          l.UserID,
		BristolType:     int(l.Consistency),
		Volume:          l.Volume,
		Color:           l.Color,
		DurationSeconds: l.DurationSeconds,
		LoggedAt:        l.LoggedAt,
		RecordedAt:      l.RecordedAt,
		Notes:           l.Notes,
		IsPublic:        l.IsPublic,
		Latitude:        l.Latitude,
		Longitude:       l.Longitude,
		VenueID:         l.VenueID,
		PoopPhotoURL:    l.PoopPhotoURL,
		ToiletPhotoURL:  l.ToiletPhotoURL,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
