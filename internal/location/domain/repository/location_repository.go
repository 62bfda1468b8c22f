package repository

import (
	"context"

	"aura-backend/internal/location/domain/model"
)

// LocationRepository is the cache of known locations.
type LocationRepository interface {
	// PrefixScan returns locations whose name starts with prefix, by name.
	PrefixScan(ctx context.Context, prefix string) ([]model.Location, error)
	// Sample returns the first limit locations by name.
	Sample(ctx context.Context, limit int64) ([]model.Location, error)
	Exists(ctx context.Context, name, address string) (bool, error)
	Create(ctx context.Context, loc *model.Location) error
}

// PlacesClient queries an upstream places API.
type PlacesClient interface {
	TextSearch(ctx context.Context, query string, near model.Point) ([]model.Location, error)
}
