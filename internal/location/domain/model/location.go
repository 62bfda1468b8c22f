package model

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

const earthRadiusKm = 6371.0

// Location is a named place. Locations found through the places API are
// cached with a LOC id.
type Location struct {
	ID       string  `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string  `bson:"name" json:"name"`
	Address  string  `bson:"address" json:"address"`
	Lat      float64 `bson:"lat" json:"lat"`
	Lng      float64 `bson:"lng" json:"lng"`
	CreateAt int64   `bson:"createAt,omitempty" json:"createAt,omitempty"`
}

// Key identifies a location by case-folded name and address.
func (l Location) Key() string {
	return strings.ToLower(l.Name) + "|" + strings.ToLower(l.Address)
}

// Point is a coordinate pair in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// ParsePoint reads "lat,lng".
func ParsePoint(s string) (Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("location must be lat,lng")
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid longitude: %w", err)
	}
	return Point{Lat: lat, Lng: lng}, nil
}

// Box is a lat/lng rectangle.
type Box struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// BoundingBox returns the rectangle radiusKm around p.
func BoundingBox(p Point, radiusKm float64) Box {
	latDelta := radiusKm / earthRadiusKm * (180 / math.Pi)
	lngDelta := radiusKm / (earthRadiusKm * math.Cos(p.Lat*math.Pi/180)) * (180 / math.Pi)
	return Box{
		MinLat: p.Lat - latDelta,
		MaxLat: p.Lat + latDelta,
		MinLng: p.Lng - lngDelta,
		MaxLng: p.Lng + lngDelta,
	}
}

// Contains reports whether l lies inside b, edges included.
func (b Box) Contains(l Location) bool {
	return l.Lat >= b.MinLat && l.Lat <= b.MaxLat && l.Lng >= b.MinLng && l.Lng <= b.MaxLng
}

// Match scores.
const (
	ScoreFirstWord       = 3
	ScoreNamePrefix      = 2
	ScoreFirstWordPrefix = 1
	ScoreContains        = 0
	ScoreWeak            = -1
)

// Score rates how well name matches the lower-cased query q.
func Score(name, q string) int {
	n := strings.ToLower(strings.TrimSpace(name))
	first := ""
	if fields := strings.Fields(n); len(fields) > 0 {
		first = fields[0]
	}
	switch {
	case first == q:
		return ScoreFirstWord
	case strings.HasPrefix(n, q):
		return ScoreNamePrefix
	case strings.HasPrefix(first, q):
		return ScoreFirstWordPrefix
	case strings.Contains(n, q):
		return ScoreContains
	}
	return ScoreWeak
}

// Scored is a location ranked against a query.
type Scored struct {
	Location `bson:",inline"`
	Score    int `json:"_score"`
}

// Rank scores locs against query and sorts by score, then shorter name,
// then name.
func Rank(locs []Location, query string) []Scored {
	q := strings.ToLower(query)
	out := make([]Scored, 0, len(locs))
	for _, l := range locs {
		out = append(out, Scored{Location: l, Score: Score(l.Name, q)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if len(a.Name) != len(b.Name) {
			return len(a.Name) < len(b.Name)
		}
		return a.Name < b.Name
	})
	return out
}

// Dedupe keeps the first location for each Key.
func Dedupe(locs []Location) []Location {
	seen := make(map[string]struct{}, len(locs))
	out := locs[:0:0]
	for _, l := range locs {
		if _, ok := seen[l.Key()]; ok {
			continue
		}
		seen[l.Key()] = struct{}{}
		out = append(out, l)
	}
	return out
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
