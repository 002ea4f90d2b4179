package achievements

import (
	"time"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/insights"
)

// Unlock registra que un usuario desbloqueó un logro. Único por (UserID, Achievement).
type Unlock struct {
	ID          string
	UserID      string
	Achievement insights.AchievementID
	UnlockedAt  time.Time
}

type Progress struct {
	Achievement insights.Achievement
	Unlocked    bool
	UnlockedAt  *time.Time
}

// Overview es el catálogo completo con el estado del usuario.
type Overview struct {
	Items    []Progress
	Unlocked int
	Total    int
}
