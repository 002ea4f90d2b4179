package insights

import (
	"sort"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/stool"
)

const DefaultLeaderboardSize = 10

// Participant es un miembro del círculo con sus eventos compartibles.
type Participant struct {
	UserID string
	Events []LoggedEvent
}

type LeaderboardEntry struct {
	Rank   int
	UserID string
	Value  int
}

// Leaderboards agrupa los tres rankings del círculo.
type Leaderboards struct {
	Sprinter    []LeaderboardEntry // sesión más corta (segundos), ascendente
	Marathoner  []LeaderboardEntry // sesión más larga (segundos), descendente
	Heavyweight []LeaderboardEntry // cantidad de registros large/massive, descendente
}

// BuildLeaderboards arma los rankings. Los empates conservan el orden de
// participants. limit <= 0 usa DefaultLeaderboardSize.
func BuildLeaderboards(participants []Participant, limit int) Leaderboards {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}

	var sprint, marathon, heavy []LeaderboardEntry
	for _, p := range participants {
		if len(p.Events) == 0 {
			continue
		}
		fastest := p.Events[0].DurationSeconds
		longest := p.Events[0].DurationSeconds
		big := 0
		for _, e := range p.Events {
			if e.DurationSeconds < fastest {
				fastest = e.DurationSeconds
			}
			if e.DurationSeconds > longest {
				longest = e.DurationSeconds
			}
			if e.Volume == stool.VolumeLarge || e.Volume == stool.VolumeMassive {
				big++
			}
		}
		sprint = append(sprint, LeaderboardEntry{UserID: p.UserID, Value: fastest})
		marathon = append(marathon, LeaderboardEntry{UserID: p.UserID, Value: longest})
		if big > 0 {
			heavy = append(heavy, LeaderboardEntry{UserID: p.UserID, Value: big})
		}
	}

	return Leaderboards{
		Sprinter:    rank(sprint, limit, func(a, b int) bool { return a < b }),
		Marathoner:  rank(marathon, limit, func(a, b int) bool { return a > b }),
		Heavyweight: rank(heavy, limit, func(a, b int) bool { return a > b }),
	}
}

func rank(entries []LeaderboardEntry, limit int, better func(a, b int) bool) []LeaderboardEntry {
	out := append([]LeaderboardEntry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return better(out[i].Value, out[j].Value)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	if out == nil {
		out = []LeaderboardEntry{}
	}
	return out
}
