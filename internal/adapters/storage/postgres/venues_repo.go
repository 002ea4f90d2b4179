package postgres

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/venues"
)

type VenuesRepo struct {
	db *sql.DB
}

func NewVenuesRepo(db *sql.DB) *VenuesRepo {
	return &VenuesRepo{db: db}
}

const venueColumns = `id, name, address, latitude, longitude, has_bidet, created_by, created_at`

func (r *VenuesRepo) Create(ctx context.Context, v venues.Venue) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO venues (`+venueColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		v.ID,
		v.Name,
		v.Address,
		v.Latitude,
		v.Longitude,
		v.HasBidet,
		v.CreatedBy,
		v.CreatedAt,
	)
	return err
}

func (r *VenuesRepo) GetByID(ctx context.Context, id string) (venues.Venue, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return venues.Venue{}, venues.ErrNotFound
	}

	v, err := scanVenue(r.db.QueryRowContext(ctx, `SELECT `+venueColumns+` FROM venues WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return venues.Venue{}, venues.ErrNotFound
		}
		return venues.Venue{}, err
	}
	return v, nil
}

func (r *VenuesRepo) ListInBox(ctx context.Context, box venues.Box) ([]venues.Venue, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+venueColumns+`
		FROM venues
		WHERE latitude BETWEEN $1 AND $2
		  AND longitude BETWEEN $3 AND $4
		ORDER BY id
	`, box.MinLat, box.MaxLat, box.MinLon, box.MaxLon)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]venues.Venue, 0)
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// UpsertReview conserva id y created_at de la reseña existente.
func (r *VenuesRepo) UpsertReview(ctx context.Context, rv venues.Review) (venues.Review, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO venue_reviews (
			id, venue_id, user_id,
			overall_rating, tp_quality, cleanliness, privacy,
			comment, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (venue_id, user_id) DO UPDATE SET
			overall_rating = EXCLUDED.overall_rating,
			tp_quality = EXCLUDED.tp_quality,
			cleanliness = EXCLUDED.cleanliness,
			privacy = EXCLUDED.privacy,
			comment = EXCLUDED.comment,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`,
		rv.ID,
		rv.VenueID,
		rv.UserID,
		rv.OverallRating,
		rv.TPQuality,
		rv.Cleanliness,
		rv.Privacy,
		rv.Comment,
		rv.CreatedAt,
		rv.UpdatedAt,
	)
	if err := row.Scan(&rv.ID, &rv.CreatedAt); err != nil {
		return venues.Review{}, err
	}
	rv.CreatedAt = rv.CreatedAt.UTC()
	return rv, nil
}

func (r *VenuesRepo) ListReviews(ctx context.Context, venueID string) ([]venues.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, venue_id, user_id,
			overall_rating, tp_quality, cleanliness, privacy,
			comment, created_at, updated_at
		FROM venue_reviews
		WHERE venue_id = $1
		ORDER BY updated_at DESC
	`, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]venues.Review, 0)
	for rows.Next() {
		var rv venues.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.VenueID,
			&rv.UserID,
			&rv.OverallRating,
			&rv.TPQuality,
			&rv.Cleanliness,
			&rv.Privacy,
			&rv.Comment,
			&rv.CreatedAt,
			&rv.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *VenuesRepo) RatingsFor(ctx context.Context, venueIDs []string) (map[string]venues.Ratings, error) {
	out := make(map[string]venues.Ratings, len(venueIDs))
	if len(venueIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			venue_id,
			AVG(overall_rating)::float8,
			AVG(tp_quality)::float8,
			AVG(cleanliness)::float8,
			AVG(privacy)::float8,
			COUNT(*)
		FROM venue_reviews
		WHERE venue_id = ANY($1)
		GROUP BY venue_id
	`, venueIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var rt venues.Ratings
		if err := rows.Scan(&id, &rt.Overall, &rt.TPQuality, &rt.Cleanliness, &rt.Privacy, &rt.ReviewCount); err != nil {
			return nil, err
		}
		rt.Overall = round1(rt.Overall)
		rt.TPQuality = round1(rt.TPQuality)
		rt.Cleanliness = round1(rt.Cleanliness)
		rt.Privacy = round1(rt.Privacy)
		out[id] = rt
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, id := range venueIDs {
		if _, ok := out[id]; !ok {
			out[id] = venues.Ratings{}
		}
	}
	return out, nil
}

func (r *VenuesRepo) CountReviewsBy(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM venue_reviews WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *VenuesRepo) CountBidetVenuesReviewedBy(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT rv.venue_id)
		FROM venue_reviews rv
		JOIN venues v ON v.id = rv.venue_id
		WHERE rv.user_id = $1 AND v.has_bidet
	`, userID).Scan(&n)
	return n, err
}

func scanVenue(row rowScanner) (venues.Venue, error) {
	var v venues.Venue
	if err := row.Scan(
		&v.ID,
		&v.Name,
		&v.Address,
		&v.Latitude,
		&v.Longitude,
		&v.HasBidet,
		&v.CreatedBy,
		&v.CreatedAt,
	); err != nil {
		return venues.Venue{}, err
	}
	v.CreatedAt = v.CreatedAt.UTC()
	return v, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
