package venues

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/achievements"
	"github.com/maxi-cmyk/poop-tracker/internal/middleware"
)

// AchievementChecker reevalúa logros después de una reseña (bidet_master).
type AchievementChecker interface {
	Check(ctx context.Context, userID string, loc *time.Location) ([]achievements.Unlock, error)
}

func RegisterRoutes(r chi.Router, svc *Service, checker AchievementChecker) {
	r.Route("/venues", func(vr chi.Router) {
		vr.Post("/", createVenueHandler(svc))
		vr.Get("/nearby", nearbyVenuesHandler(svc))
		vr.Get("/{venueID}", getVenueHandler(svc))
		vr.Put("/{venueID}/review", reviewVenueHandler(svc, checker))
	})
}

type createVenueRequest struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	HasBidet  bool    `json:"has_bidet"`
}

type ratingsResponse struct {
	Overall     float64 `json:"avg_rating"`
	TPQuality   float64 `json:"avg_tp_quality"`
	Cleanliness float64 `json:"avg_cleanliness"`
	Privacy     float64 `json:"avg_privacy"`
	ReviewCount int     `json:"review_count"`
}

type venueResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Address    string          `json:"address,omitempty"`
	Latitude   float64         `json:"latitude"`
	Longitude  float64         `json:"longitude"`
	HasBidet   bool            `json:"has_bidet"`
	CreatedBy  string          `json:"created_by"`
	CreatedAt  time.Time       `json:"created_at"`
	Ratings    ratingsResponse `json:"ratings"`
	DistanceKm *float64        `json:"distance_km,omitempty"`
}

type venueDetailResponse struct {
	venueResponse
	Reviews []reviewResponse `json:"reviews"`
}

type reviewRequest struct {
	OverallRating int    `json:"overall_rating" minimum:"1" maximum:"5"`
	TPQuality     int    `json:"tp_quality" minimum:"1" maximum:"5"`
	Cleanliness   int    `json:"cleanliness" minimum:"1" maximum:"5"`
	Privacy       int    `json:"privacy" minimum:"1" maximum:"5"`
	Comment       string `json:"comment"`
}

type reviewResponse struct {
	ID            string    `json:"id"`
	VenueID       string    `json:"venue_id"`
	UserID        string    `json:"user_id"`
	OverallRating int       `json:"overall_rating"`
	TPQuality     int       `json:"tp_quality"`
	Cleanliness   int       `json:"cleanliness"`
	Privacy       int       `json:"privacy"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type reviewResultResponse struct {
	Review          reviewResponse                `json:"review"`
	NewAchievements []achievements.UnlockResponse `json:"new_achievements"`
}

// createVenueHandler godoc
// @Summary Crear venue
// @Description Registra un baño con su ubicación y si tiene bidet.
// @Tags venues
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createVenueRequest true "Datos del venue"
// @Success 201 {object} venueResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Router /venues [post]
func createVenueHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createVenueRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		v, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:      req.Name,
			Address:   req.Address,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			HasBidet:  req.HasBidet,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "invalid input", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toVenueResponse(Summary{Venue: v}, false))
	}
}

// nearbyVenuesHandler godoc
// @Summary Venues cercanos
// @Description Lista venues dentro del radio (km, default 2, máx 50), ordenados por distancia.
// @Tags venues
// @Produce json
// @Param lat query number true "Latitud"
// @Param lon query number true "Longitud"
// @Param radius_km query number false "Radio en km"
// @Success 200 {array} venueResponse
// @Failure 400 {string} string "lat/lon inválidos"
// @Failure 401 {string} string "unauthorized"
// @Router /venues/nearby [get]
func nearbyVenuesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()
		lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
		lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
		if errLat != nil || errLon != nil {
			http.Error(w, "lat and lon are required", http.StatusBadRequest)
			return
		}

		radius := 0.0
		if v := strings.TrimSpace(q.Get("radius_km")); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				http.Error(w, "invalid radius_km", http.StatusBadRequest)
				return
			}
			radius = f
		}

		items, err := svc.Nearby(r.Context(), lat, lon, radius, 0)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "invalid input", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]venueResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toVenueResponse(it, true))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getVenueHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		venueID := strings.TrimSpace(chi.URLParam(r, "venueID"))
		v, err := svc.Get(r.Context(), venueID)
		if err != nil {
			writeVenueError(w, err)
			return
		}
		reviews, err := svc.Reviews(r.Context(), venueID)
		if err != nil {
			writeVenueError(w, err)
			return
		}

		out := venueDetailResponse{
			venueResponse: toVenueResponse(v, false),
			Reviews:       make([]reviewResponse, 0, len(reviews)),
		}
		for _, rv := range reviews {
			out.Reviews = append(out.Reviews, toReviewResponse(rv))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// reviewVenueHandler godoc
// @Summary Reseñar venue
// @Description Crea o reemplaza la reseña del usuario (1-5 en cada categoría). Reseñar venues con bidet cuenta para el logro bidet_master.
// @Tags venues
// @Accept json
// @Produce json
// @Param venueID path string true "Venue ID"
// @Param payload body reviewRequest true "Calificaciones"
// @Success 200 {object} reviewResultResponse
// @Failure 400 {string} string "invalid json / calificación fuera de rango"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "not found"
// @Router /venues/{venueID}/review [put]
func reviewVenueHandler(svc *Service, checker AchievementChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req reviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rv, err := svc.Review(r.Context(), claims.UserID, chi.URLParam(r, "venueID"), ReviewInput{
			OverallRating: req.OverallRating,
			TPQuality:     req.TPQuality,
			Cleanliness:   req.Cleanliness,
			Privacy:       req.Privacy,
			Comment:       req.Comment,
		})
		if err != nil {
			writeVenueError(w, err)
			return
		}

		out := reviewResultResponse{
			Review:          toReviewResponse(rv),
			NewAchievements: make([]achievements.UnlockResponse, 0),
		}
		if checker != nil {
			// la reseña ya quedó guardada; un fallo acá no la invalida
			if unlocked, err := checker.Check(r.Context(), claims.UserID, middleware.Location(r.Context())); err == nil {
				out.NewAchievements = achievements.ToUnlockResponses(unlocked)
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeVenueError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, "invalid input", http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toVenueResponse(s Summary, withDistance bool) venueResponse {
	out := venueResponse{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		HasBidet:  s.HasBidet,
		CreatedBy: s.CreatedBy,
		CreatedAt: s.CreatedAt,
		Ratings: ratingsResponse{
			Overall:     s.Ratings.Overall,
			TPQuality:   s.Ratings.TPQuality,
			Cleanliness: s.Ratings.Cleanliness,
			Privacy:     s.Ratings.Privacy,
			ReviewCount: s.Ratings.ReviewCount,
		},
	}
	if withDistance {
		d := math.Round(s.DistanceKm*100) / 100
		out.DistanceKm = &d
	}
	return out
}

func toReviewResponse(rv Review) reviewResponse {
	return reviewResponse{
		ID:            rv.ID,
		VenueID:       rv.VenueID,
		UserID:        rv.UserID,
		OverallRating: rv.OverallRating,
		TPQuality:     rv.TPQuality,
		Cleanliness:   rv.Cleanliness,
		Privacy:       rv.Privacy,
		Comment:       rv.Comment,
		CreatedAt:     rv.CreatedAt,
		UpdatedAt:     rv.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
