package logs

import (
	"context"
	"time"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/stool"
)

type Repository interface {
	Create(ctx context.Context, l Log) error
	GetByID(ctx context.Context, id string) (Log, error)
	ListByUser(ctx context.Context, userID string, filter ListFilter) ([]Log, error)
	Delete(ctx context.Context, id string) error

	// ListPublicByUsers devuelve los registros públicos más recientes primero.
	ListPublicByUsers(ctx context.Context, userIDs []string, limit int) ([]Log, error)
}

// ListFilter: el resultado siempre va en orden cronológico ascendente.
// Con Limit > 0 se conservan los Limit más recientes; Limit <= 0 no limita.
type ListFilter struct {
	Types []stool.BristolType
	From  *time.Time
	To    *time.Time
	Limit int

	// PublicOnly deja solo los registros con is_public.
	PublicOnly bool
}
