package circle

import "context"

type Repository interface {
	Create(ctx context.Context, f Friendship) error
	Update(ctx context.Context, f Friendship) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Friendship, error)

	// FindByPair busca en ambas direcciones.
	FindByPair(ctx context.Context, a, b string) (Friendship, error)

	// ListByUser devuelve las relaciones donde el usuario es cualquiera de los extremos.
	ListByUser(ctx context.Context, userID string) ([]Friendship, error)
}
