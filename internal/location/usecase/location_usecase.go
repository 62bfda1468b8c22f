package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	idmodel "aura-backend/internal/idgen/domain/model"
	idusecase "aura-backend/internal/idgen/usecase"
	"aura-backend/internal/location/config"
	"aura-backend/internal/location/domain/model"
	"aura-backend/internal/location/domain/repository"
	apperrors "aura-backend/internal/shared/errors"
	"aura-backend/internal/shared/logger"

	"golang.org/x/sync/errgroup"
)

// Response messages.
const (
	MsgFoundInDB = "Location found in db"
	MsgSynced    = "Location synced from google map"
)

// persistTimeout bounds one background cache write batch.
const persistTimeout = 30 * time.Second

// SearchQuery is GET /location/search.
type SearchQuery struct {
	Location string `query:"location" validate:"required,latlng"`
	Query    string `query:"query" validate:"required"`
}

// SearchResult is what Search returns.
type SearchResult struct {
	Message   string         `json:"message"`
	Locations []model.Scored `json:"locations"`
}

// LocationUsecaseInterface lists the location operations exposed over HTTP.
type LocationUsecaseInterface interface {
	Search(ctx context.Context, q SearchQuery) (*SearchResult, error)
}

// LocationUsecase answers searches from the location cache and falls back
// to the places API when the cache has too few good matches.
type LocationUsecase struct {
	locations repository.LocationRepository
	places    repository.PlacesClient
	ids       idusecase.Allocator
	config    *config.Config
	log       logger.Logger
	now       func() time.Time
	pending   sync.WaitGroup
}

// NewLocationUsecase creates the usecase. places may be nil to search the
// cache only.
func NewLocationUsecase(
	locations repository.LocationRepository,
	places repository.PlacesClient,
	ids idusecase.Allocator,
	cfg *config.Config,
	log logger.Logger,
) *LocationUsecase {
	if log == nil {
		log = logger.Nop()
	}
	return &LocationUsecase{
		locations: locations,
		places:    places,
		ids:       ids,
		config:    cfg,
		log:       log.WithComponent("location"),
		now:       time.Now,
	}
}

// Search finds places matching q.Query near q.Location.
func (uc *LocationUsecase) Search(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	near, err := model.ParsePoint(q.Location)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	query := strings.TrimSpace(q.Query)

	cached, err := uc.fromCache(ctx, query, near)
	if err != nil {
		return nil, err
	}
	ranked := model.Rank(cached, query)

	enough := len(ranked) > 0 && len(ranked) >= uc.config.MinResults && ranked[0].Score > model.ScoreContains
	if enough || uc.places == nil {
		return &SearchResult{Message: MsgFoundInDB, Locations: ranked}, nil
	}

	found, err := uc.places.TextSearch(ctx, query, near)
	if err != nil {
		uc.log.WithContext(ctx).WithFields(map[string]interface{}{"query": query}).Warnf("places search failed: %v", err)
		return nil, err
	}
	uc.persist(ctx, found)

	out := make([]model.Scored, 0, len(found))
	for _, l := range found {
		out = append(out, model.Scored{Location: l, Score: model.Score(l.Name, strings.ToLower(query))})
	}
	return &SearchResult{Message: MsgSynced, Locations: out}, nil
}

// fromCache scans names starting with the query and with its capitalised
// form, then falls back to a substring match over a small sample.
func (uc *LocationUsecase) fromCache(ctx context.Context, query string, near model.Point) ([]model.Location, error) {
	prefixes := []string{query}
	if alt := model.Capitalize(query); alt != query {
		prefixes = append(prefixes, alt)
	}

	results := make([][]model.Location, len(prefixes))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range prefixes {
		i, p := i, p
		g.Go(func() error {
			locs, err := uc.locations.PrefixScan(gctx, p)
			results[i] = locs
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var locs []model.Location
	for _, r := range results {
		locs = append(locs, r...)
	}
	locs = model.Dedupe(locs)

	if len(locs) == 0 {
		sample, err := uc.locations.Sample(ctx, uc.config.SampleSize)
		if err != nil {
			return nil, err
		}
		needle := strings.ToLower(query)
		for _, l := range sample {
			if strings.Contains(strings.ToLower(l.Name), needle) || strings.Contains(strings.ToLower(l.Address), needle) {
				locs = append(locs, l)
			}
		}
	}

	box := model.BoundingBox(near, uc.config.SearchRadiusKm)
	inside := locs[:0]
	for _, l := range locs {
		if box.Contains(l) {
			inside = append(inside, l)
		}
	}
	return inside, nil
}

// persist caches places not seen before. It runs after the response is
// built; Wait blocks until outstanding writes finish.
func (uc *LocationUsecase) persist(ctx context.Context, found []model.Location) {
	if len(found) == 0 {
		return
	}
	batch := append([]model.Location(nil), found...)
	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)

	uc.pending.Add(1)
	go func() {
		defer uc.pending.Done()
		defer cancel()

		saved := 0
		for _, l := range model.Dedupe(batch) {
			exists, err := uc.locations.Exists(bg, l.Name, l.Address)
			if err != nil {
				uc.log.WithContext(bg).Warnf("failed to check cached location %q: %v", l.Name, err)
				continue
			}
			if exists {
				continue
			}
			id, err := uc.ids.Allocate(bg, idmodel.LocationID)
			if err != nil {
				uc.log.WithContext(bg).Warnf("failed to allocate location id: %v", err)
				return
			}
			l.ID = id
			l.CreateAt = uc.now().UnixMilli()
			if err := uc.locations.Create(bg, &l); err != nil && !apperrors.IsConflict(err) {
				uc.log.WithContext(bg).Warnf("failed to cache location %q: %v", l.Name, err)
				continue
			}
			saved++
		}
		uc.log.WithContext(bg).WithFields(map[string]interface{}{"saved": saved, "found": len(batch)}).Debug("cached places results")
	}()
}

// Wait blocks until background cache writes have finished.
func (uc *LocationUsecase) Wait() {
	uc.pending.Wait()
}
