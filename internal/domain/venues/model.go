package venues

import "time"

// Venue es un baño (público o no) que la comunidad puede calificar.
type Venue struct {
	ID string

	Name    string
	Address string

	Latitude  float64
	Longitude float64

	HasBidet bool

	CreatedBy string
	CreatedAt time.Time
}

// Review es la calificación de un usuario sobre un venue. Una por (VenueID, UserID).
type Review struct {
	ID      string
	VenueID string
	UserID  string

	OverallRating int
	TPQuality     int
	Cleanliness   int
	Privacy       int

	Comment string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Ratings son los promedios de las reseñas de un venue; ceros si no hay reseñas.
type Ratings struct {
	Overall     float64
	TPQuality   float64
	Cleanliness float64
	Privacy     float64
	ReviewCount int
}

type Summary struct {
	Venue
	Ratings    Ratings
	DistanceKm float64
}
