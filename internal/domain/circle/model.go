package circle

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Friendship es una relación entre dos usuarios. UserID envía la solicitud,
// FriendID la recibe y es el único que puede aceptarla o rechazarla.
type Friendship struct {
	ID string

	UserID   string
	FriendID string

	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (f Friendship) Involves(userID string) bool {
	return f.UserID == userID || f.FriendID == userID
}

// Other devuelve el otro extremo de la relación.
func (f Friendship) Other(userID string) string {
	if f.UserID == userID {
		return f.FriendID
	}
	return f.UserID
}
