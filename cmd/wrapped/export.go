package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/maxi-cmyk/poop-tracker/internal/domain/insights"
	"github.com/maxi-cmyk/poop-tracker/internal/domain/stool"
)

// exportedLog es una entrada del export, con los mismos nombres que GET /logs.
type exportedLog struct {
	ID              string `json:"id"`
	LoggedAt        string `json:"logged_at"`
	BristolType     int    `json:"bristol_type"`
	Volume          string `json:"volume"`
	Color           string `json:"color"`
	DurationSeconds int    `json:"duration_seconds"`
	VenueID         string `json:"venue_id"`
	IsPublic        bool   `json:"is_public"`
}

func loadEvents(path string, stdin io.Reader, loc *time.Location) ([]insights.LoggedEvent, error) {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open export: %w", err)
		}
		defer f.Close()
		r = f
	}

	var items []exportedLog
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}

	events := make([]insights.LoggedEvent, 0, len(items))
	for i, it := range items {
		e, err := it.event()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		events = append(events, e.In(loc))
	}

	// el motor espera orden cronológico
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
	return events, nil
}

func (it exportedLog) event() (insights.LoggedEvent, error) {
	at, err := time.Parse(time.RFC3339, strings.TrimSpace(it.LoggedAt))
	if err != nil {
		return insights.LoggedEvent{}, errors.New("logged_at must be RFC3339")
	}

	b := stool.BristolType(it.BristolType)
	if !b.Valid() {
		return insights.LoggedEvent{}, fmt.Errorf("bristol_type must be 1-7, got %d", it.BristolType)
	}

	vol, ok := stool.ParseVolume(it.Volume)
	if !ok {
		return insights.LoggedEvent{}, fmt.Errorf("unknown volume %q", it.Volume)
	}

	var color stool.Color
	if strings.TrimSpace(it.Color) != "" {
		if color, ok = stool.ParseColor(it.Color); !ok {
			return insights.LoggedEvent{}, fmt.Errorf("unknown color %q", it.Color)
		}
	}

	if it.DurationSeconds < 0 {
		return insights.LoggedEvent{}, errors.New("duration_seconds must be >= 0")
	}

	return insights.LoggedEvent{
		ID:              it.ID,
		Timestamp:       at,
		Consistency:     b,
		Volume:          vol,
		Color:           color,
		DurationSeconds: it.DurationSeconds,
		VenueID:         strings.TrimSpace(it.VenueID),
		IsPublic:        it.IsPublic,
	}, nil
}
