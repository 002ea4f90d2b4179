package postgres

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_DeclaresAllTables(t *testing.T) {
	for _, table := range []string{
		"venues",
		"venue_reviews",
		"poop_logs",
		"streaks",
		"achievement_unlocks",
		"friendships",
	} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table+" ", "missing table %s", table)
	}
	// Migrate corre en cada arranque
	assert.NotContains(t, strings.ToUpper(schema), "DROP ")
}

func TestNullHelpers(t *testing.T) {
	assert.False(t, toNullFloat(nil).Valid)
	v := 41.9
	nf := toNullFloat(&v)
	require.True(t, nf.Valid)
	assert.Equal(t, 41.9, nf.Float64)

	assert.Nil(t, fromNullFloat(sql.NullFloat64{}))
	got := fromNullFloat(nf)
	require.NotNil(t, got)
	assert.Equal(t, 41.9, *got)

	assert.False(t, toNullString("").Valid)
	assert.Equal(t, sql.NullString{String: "v1", Valid: true}, toNullString("v1"))

	assert.False(t, toNullDate(time.Time{}).Valid)
	d := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, sql.NullTime{Time: d, Valid: true}, toNullDate(d))
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 4.3, round1(4.333))
	assert.Equal(t, 4.3, round1(4.25))
	assert.Equal(t, 0.0, round1(0))
}
