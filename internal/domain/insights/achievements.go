package insights

import (
	"sort"
	"strings"
	"time"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/stool"
)

type AchievementID string

const (
	AchievementFirstFlush       AchievementID = "first_flush"
	AchievementEarlyBird        AchievementID = "early_bird"
	AchievementNightOwl         AchievementID = "night_owl"
	AchievementSpeedDemon       AchievementID = "speed_demon"
	AchievementPhilosopher      AchievementID = "the_philosopher"
	AchievementGlobetrotter     AchievementID = "globetrotter"
	AchievementIronGut          AchievementID = "iron_gut"
	AchievementTheVoid          AchievementID = "the_void"
	AchievementBidetConnoisseur AchievementID = "bidet_connoisseur"
	AchievementStreakMaster     AchievementID = "streak_master"
	AchievementSocialButterfly  AchievementID = "social_butterfly"
)

const (
	speedDemonMaxSeconds  = 60
	philosopherMinSeconds = 1800
	globetrotterVenues    = 5
	ironGutDays           = 5
	bidetVenuesRequired   = 10
	streakMasterDays      = 30
	socialButterflyFriend = 10
)

// Achievement es una entrada del catálogo. El estado "desbloqueado" vive afuera.
type Achievement struct {
	ID          AchievementID
	Name        string
	Description string
	Emoji       string

	check func(events []LoggedEvent, aux AuxStats) bool
}

// Satisfied evalúa el predicado del logro.
func (a Achievement) Satisfied(events []LoggedEvent, aux AuxStats) bool {
	if a.check == nil {
		return false
	}
	return a.check(events, aux)
}

// catalog está en orden de declaración; NewlyUnlocked respeta este orden.
var catalog = []Achievement{
	{
		ID:          AchievementFirstFlush,
		Name:        "First Flush",
		Description: "Log your first poop!",
		Emoji:       "🎉",
		check: func(events []LoggedEvent, _ AuxStats) bool {
			return len(events) >= 1
		},
	},
	{
		ID:          AchievementEarlyBird,
		Name:        "Early Bird",
		Description: "Log a poop before 6 AM",
		Emoji:       "🌅",
		check: anyEvent(func(e LoggedEvent) bool {
			return e.Timestamp.Hour() < 6
		}),
	},
	{
		ID:          AchievementNightOwl,
		Name:        "Night Owl",
		Description: "Log a poop after midnight",
		Emoji:       "🦉",
		check: anyEvent(func(e LoggedEvent) bool {
			h := e.Timestamp.Hour()
			return h >= 0 && h < 4
		}),
	},
	{
		ID:          AchievementSpeedDemon,
		Name:        "Speed Demon",
		Description: "Complete a session in under 1 minute",
		Emoji:       "⚡",
		check: anyEvent(func(e LoggedEvent) bool {
			return e.DurationSeconds < speedDemonMaxSeconds
		}),
	},
	{
		ID:          AchievementPhilosopher,
		Name:        "The Philosopher",
		Description: "Spend over 30 minutes on the throne",
		Emoji:       "🤔",
		check: anyEvent(func(e LoggedEvent) bool {
			return e.DurationSeconds > philosopherMinSeconds
		}),
	},
	{
		ID:          AchievementGlobetrotter,
		Name:        "Globetrotter",
		Description: "Poop at 5 different venues",
		Emoji:       "🌍",
		check: func(events []LoggedEvent, _ AuxStats) bool {
			venues := make(map[string]struct{})
			for _, e := range events {
				if e.VenueID == "" {
					continue
				}
				venues[e.VenueID] = struct{}{}
			}
			return len(venues) >= globetrotterVenues
		},
	},
	{
		ID:          AchievementIronGut,
		Name:        "Iron Gut",
		Description: "Log Bristol Type 4 for 5 days straight",
		Emoji:       "💪",
		check:       ironGut,
	},
	{
		ID:          AchievementTheVoid,
		Name:        "The Void",
		Description: `Log a "Massive" volume poop`,
		Emoji:       "🕳️",
		check: anyEvent(func(e LoggedEvent) bool {
			return e.Volume == stool.VolumeMassive
		}),
	},
	{
		ID:          AchievementBidetConnoisseur,
		Name:        "Bidet Connoisseur",
		Description: "Rate 10 venues with bidets",
		Emoji:       "💦",
		check: func(_ []LoggedEvent, aux AuxStats) bool {
			return aux.BidetVenuesRated >= bidetVenuesRequired
		},
	},
	{
		ID:          AchievementStreakMaster,
		Name:        "Streak Master",
		Description: "Maintain a 30-day logging streak",
		Emoji:       "🔥",
		check: func(_ []LoggedEvent, aux AuxStats) bool {
			return aux.LongestStreak >= streakMasterDays
		},
	},
	{
		ID:          AchievementSocialButterfly,
		Name:        "Social Butterfly",
		Description: "Add 10 friends to your circle",
		Emoji:       "🦋",
		check: func(_ []LoggedEvent, aux AuxStats) bool {
			return aux.FriendCount >= socialButterflyFriend
		},
	},
}

var catalogIndex = func() map[AchievementID]int {
	m := make(map[AchievementID]int, len(catalog))
	for i, a := range catalog {
		m[a.ID] = i
	}
	return m
}()

// Catalog devuelve una copia del catálogo en orden de declaración.
func Catalog() []Achievement {
	out := make([]Achievement, len(catalog))
	copy(out, catalog)
	return out
}

func LookupAchievement(id AchievementID) (Achievement, bool) {
	i, ok := catalogIndex[id]
	if !ok {
		return Achievement{}, false
	}
	return catalog[i], true
}

func ParseAchievementID(s string) (AchievementID, bool) {
	id := AchievementID(strings.ToLower(strings.TrimSpace(s)))
	_, ok := catalogIndex[id]
	return id, ok
}

// NewlyUnlocked devuelve los logros cuyo predicado se cumple y que no están en unlocked,
// en orden de catálogo.
func NewlyUnlocked(events []LoggedEvent, unlocked []AchievementID, aux AuxStats) []AchievementID {
	have := make(map[AchievementID]struct{}, len(unlocked))
	for _, id := range unlocked {
		have[id] = struct{}{}
	}

	out := make([]AchievementID, 0)
	for _, a := range catalog {
		if _, ok := have[a.ID]; ok {
			continue
		}
		if a.Satisfied(events, aux) {
			out = append(out, a.ID)
		}
	}
	return out
}

func anyEvent(pred func(LoggedEvent) bool) func([]LoggedEvent, AuxStats) bool {
	return func(events []LoggedEvent, _ AuxStats) bool {
		for _, e := range events {
			if pred(e) {
				return true
			}
		}
		return false
	}
}

// ironGut busca 5 días seguidos con al menos un tipo 4.
// Regla literal: un evento cuenta como "día siguiente" si está a <= 24h del evento
// tipo 4 anterior y cae en otra fecha de calendario; dos eventos del mismo día no
// cortan ni suman la racha.
func ironGut(events []LoggedEvent, _ AuxStats) bool {
	ideal := make([]LoggedEvent, 0, len(events))
	for _, e := range events {
		if e.Consistency == stool.BristolIdeal {
			ideal = append(ideal, e)
		}
	}
	sort.SliceStable(ideal, func(i, j int) bool {
		return ideal[i].Timestamp.Before(ideal[j].Timestamp)
	})

	consecutive := 1
	for i := 1; i < len(ideal); i++ {
		prev := ideal[i-1].Timestamp
		curr := ideal[i].Timestamp
		sameDay := sameCalendarDate(prev, curr)

		if curr.Sub(prev) <= 24*time.Hour && !sameDay {
			consecutive++
			if consecutive >= ironGutDays {
				return true
			}
		} else if !sameDay {
			consecutive = 1
		}
	}
	return false
}

func sameCalendarDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
