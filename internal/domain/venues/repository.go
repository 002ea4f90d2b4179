package venues

import "context"

type Repository interface {
	Create(ctx context.Context, v Venue) error
	GetByID(ctx context.Context, id string) (Venue, error)
	ListInBox(ctx context.Context, box Box) ([]Venue, error)

	// UpsertReview crea o reemplaza la reseña de (VenueID, UserID) y devuelve
	// la versión guardada (ID y CreatedAt de la original si ya existía).
	UpsertReview(ctx context.Context, r Review) (Review, error)
	ListReviews(ctx context.Context, venueID string) ([]Review, error)
	RatingsFor(ctx context.Context, venueIDs []string) (map[string]Ratings, error)

	// CountReviewsBy cuenta las reseñas del usuario (una por venue).
	CountReviewsBy(ctx context.Context, userID string) (int, error)
	// CountBidetVenuesReviewedBy cuenta venues distintos con bidet reseñados por el usuario.
	CountBidetVenuesReviewedBy(ctx context.Context, userID string) (int, error)
}
