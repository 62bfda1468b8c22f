package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePoint(t *testing.T) {
	p, err := ParsePoint("3.14,101.69")
	require.NoError(t, err)
	assert.Equal(t, Point{Lat: 3.14, Lng: 101.69}, p)

	_, err = ParsePoint("3.14")
	assert.Error(t, err)
	_, err = ParsePoint("x,1")
	assert.Error(t, err)
}

func TestBoundingBox(t *testing.T) {
	box := BoundingBox(Point{Lat: 3.14, Lng: 101.69}, 300)
	assert.InDelta(t, 2.698, box.MaxLat-3.14, 0.01)
	assert.True(t, box.Contains(Location{Lat: 5.41, Lng: 100.33}))
	assert.False(t, box.Contains(Location{Lat: 1.35, Lng: 103.82 + 3}))
}

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"KLCC Park", ScoreFirstWord},
		{"klcc", ScoreFirstWord},
		{"KLCCX Mall", ScoreNamePrefix},
		{"Suria KLCC", ScoreContains},
		{"Pavilion", ScoreWeak},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.name, "klcc"))
		})
	}
	assert.Equal(t, ScoreNamePrefix, Score("Kuala Lumpur Tower", "kuala l"))
}

func TestRank(t *testing.T) {
	ranked := Rank([]Location{
		{Name: "Suria KLCC"},
		{Name: "KLCC Park"},
		{Name: "KLCC"},
		{Name: "Pavilion"},
	}, "KLCC")

	names := make([]string, len(ranked))
	for i, r := range ranked {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"KLCC", "KLCC Park", "Suria KLCC", "Pavilion"}, names)
	assert.Equal(t, ScoreFirstWord, ranked[0].Score)
}

func TestDedupe(t *testing.T) {
	out := Dedupe([]Location{
		{ID: "1", Name: "KLCC", Address: "Jalan Ampang"},
		{ID: "2", Name: "klcc", Address: "JALAN AMPANG"},
		{ID: "3", Name: "KLCC", Address: "Other"},
	})
	assert.Len(t, out, 2)
	assert.Equal(t, "1", out[0].ID)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Klcc", Capitalize("klcc"))
	assert.Equal(t, "", Capitalize(""))
	assert.Equal(t, "Éclair", Capitalize("éclair"))
}
