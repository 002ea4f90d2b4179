package circle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/logs"
	"github.com/maxi-cmyk/poop-tracker/internal/domain/stool"
	"github.com/maxi-cmyk/poop-tracker/internal/middleware"
)

// StreakLookup evita importar el paquete streaks.
type StreakLookup interface {
	CurrentByUsers(ctx context.Context, userIDs []string, loc *time.Location) (map[string]int, error)
}

func RegisterRoutes(r chi.Router, svc *Service, streaks StreakLookup) {
	r.Post("/friends/requests", requestFriendHandler(svc))

	r.Route("/friends/{friendshipID}", func(fr chi.Router) {
		fr.Post("/accept", acceptFriendHandler(svc))
		fr.Post("/reject", rejectFriendHandler(svc))
		fr.Delete("/", removeFriendHandler(svc))
	})

	r.Get("/me/friends", listMyFriendsHandler(svc, streaks))
	r.Get("/me/feed", feedHandler(svc))
}

type friendRequest struct {
	FriendID string `json:"friend_id"`
}

type friendshipResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FriendID  string    `json:"friend_id"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type friendResponse struct {
	FriendshipID  string    `json:"friendship_id"`
	UserID        string    `json:"user_id"`
	Since         time.Time `json:"since"`
	CurrentStreak int       `json:"current_streak"`
}

type circleResponse struct {
	Friends  []friendResponse     `json:"friends"`
	Incoming []friendshipResponse `json:"incoming"`
	Outgoing []friendshipResponse `json:"outgoing"`
}

// feedItemResponse es un registro de un amigo. En modo privacidad solo
// vienen tipo, volumen, duración y hora.
type feedItemResponse struct {
	LogID           string       `json:"log_id"`
	UserID          string       `json:"user_id"`
	LoggedAt        time.Time    `json:"logged_at"`
	BristolType     int          `json:"bristol_type"`
	Volume          stool.Volume `json:"volume"`
	DurationSeconds int          `json:"duration_seconds"`
	Color           stool.Color  `json:"color,omitempty"`
	Notes           string       `json:"notes,omitempty"`
	VenueID         string       `json:"venue_id,omitempty"`
	Latitude        *float64     `json:"latitude,omitempty"`
	Longitude       *float64     `json:"longitude,omitempty"`
	PoopPhotoURL    string       `json:"poop_photo_url,omitempty"`
	ToiletPhotoURL  string       `json:"toilet_photo_url,omitempty"`
}

// requestFriendHandler godoc
// @Summary Enviar solicitud de amistad
// @Description Crea una solicitud pendiente hacia friend_id. Si ya existe una relación entre ambos se devuelve la existente; una rechazada se reabre.
// @Tags circle
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body friendRequest true "Usuario destino"
// @Success 201 {object} friendshipResponse
// @Failure 400 {string} string "invalid json / friend_id inválido"
// @Failure 401 {string} string "unauthorized"
// @Router /friends/requests [post]
func requestFriendHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req friendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.FriendID) == "" {
			http.Error(w, "friend_id required", http.StatusBadRequest)
			return
		}

		f, err := svc.Request(r.Context(), claims.UserID, req.FriendID)
		if err != nil {
			writeCircleError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toFriendshipResponse(f))
	}
}

func acceptFriendHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		f, err := svc.Accept(r.Context(), chi.URLParam(r, "friendshipID"), claims.UserID)
		if err != nil {
			writeCircleError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toFriendshipResponse(f))
	}
}

func rejectFriendHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		f, err := svc.Reject(r.Context(), chi.URLParam(r, "friendshipID"), claims.UserID)
		if err != nil {
			writeCircleError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toFriendshipResponse(f))
	}
}

func removeFriendHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Remove(r.Context(), chi.URLParam(r, "friendshipID"), claims.UserID); err != nil {
			writeCircleError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// listMyFriendsHandler godoc
// @Summary Ver mi círculo
// @Description Devuelve los amigos aceptados (con su racha actual) y las solicitudes pendientes entrantes y salientes.
// @Tags circle
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} circleResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /me/friends [get]
func listMyFriendsHandler(svc *Service, streaks StreakLookup) http.HandlerFunc {
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

		current := map[string]int{}
		if streaks != nil && len(ov.Friends) > 0 {
			ids := make([]string, 0, len(ov.Friends))
			for _, f := range ov.Friends {
				ids = append(ids, f.Other(claims.UserID))
			}
			current, err = streaks.CurrentByUsers(r.Context(), ids, middleware.Location(r.Context()))
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
		}

		out := circleResponse{
			Friends:  make([]friendResponse, 0, len(ov.Friends)),
			Incoming: make([]friendshipResponse, 0, len(ov.Incoming)),
			Outgoing: make([]friendshipResponse, 0, len(ov.Outgoing)),
		}
		for _, f := range ov.Friends {
			other := f.Other(claims.UserID)
			out.Friends = append(out.Friends, friendResponse{
				FriendshipID:  f.ID,
				UserID:        other,
				Since:         f.UpdatedAt,
				CurrentStreak: current[other],
			})
		}
		for _, f := range ov.Incoming {
			out.Incoming = append(out.Incoming, toFriendshipResponse(f))
		}
		for _, f := range ov.Outgoing {
			out.Outgoing = append(out.Outgoing, toFriendshipResponse(f))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// feedHandler godoc
// @Summary Feed del círculo
// @Description Registros públicos recientes de amigos aceptados, más recientes primero. El modo privacidad (por defecto activado) quita notas, fotos, coordenadas, venue y color.
// @Tags circle
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param privacy query bool false "Modo privacidad (default true)"
// @Param limit query int false "Máximo de registros (1-200). Por defecto 50"
// @Success 200 {array} feedItemResponse
// @Failure 400 {string} string "privacy inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /me/feed [get]
func feedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		privacy := true
		if v := strings.TrimSpace(r.URL.Query().Get("privacy")); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				http.Error(w, "privacy must be true or false", http.StatusBadRequest)
				return
			}
			privacy = b
		}

		limit := DefaultFeedLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
				limit = n
			}
		}

		items, err := svc.Feed(r.Context(), claims.UserID, privacy, limit)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]feedItemResponse, 0, len(items))
		for _, l := range items {
			out = append(out, toFeedItemResponse(l))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeCircleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "friendship not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrBadState):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toFriendshipResponse(f Friendship) friendshipResponse {
	return friendshipResponse{
		ID:        f.ID,
		UserID:    f.UserID,
		FriendID:  f.FriendID,
		Status:    f.Status,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func toFeedItemResponse(l logs.Log) feedItemResponse {
	return feedItemResponse{
		LogID:           l.ID,
		UserID:          l.UserID,
		LoggedAt:        l.LoggedAt,
		BristolType:     int(l.Consistency),
		Volume:          l.Volume,
		DurationSeconds: l.DurationSeconds,
		Color:           l.Color,
		Notes:           l.Notes,
		VenueID:         l.VenueID,
		Latitude:        l.Latitude,
		Longitude:       l.Longitude,
		PoopPhotoURL:    l.PoopPhotoURL,
		ToiletPhotoURL:  l.ToiletPhotoURL,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
