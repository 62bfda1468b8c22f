// Package places queries a Google Places style text-search API.
package places

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"aura-backend/internal/location/config"
	"aura-backend/internal/location/domain/model"
	apperrors "aura-backend/internal/shared/errors"
	"aura-backend/internal/shared/logger"
	"aura-backend/internal/shared/metrics"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// maxBody caps how much of an upstream response is read.
const maxBody = 4 << 20

// Client implements repository.PlacesClient.
type Client struct {
	baseURL string
	apiKey  string
	radiusM int
	http    *http.Client
	limiter *rate.Limiter
	log     logger.Logger
}

// NewClient creates a client limited to cfg.PlacesRPS requests per second.
func NewClient(cfg *config.Config, log logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	burst := int(cfg.PlacesRPS)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		baseURL: cfg.PlacesBaseURL,
		apiKey:  cfg.PlacesAPIKey,
		radiusM: cfg.PlacesRadiusM,
		http:    &http.Client{Timeout: cfg.PlacesTimeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.PlacesRPS), burst),
		log:     log.WithComponent("places"),
	}
}

func (c *Client) TextSearch(ctx context.Context, query string, near model.Point) ([]model.Location, error) {
	locs, err := c.search(ctx, query, near)
	if err != nil {
		metrics.PlacesRequests.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.PlacesRequests.WithLabelValues("ok").Inc()
	return locs, nil
}

func (c *Client) search(ctx context.Context, query string, near model.Point) ([]model.Location, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperrors.NewStorageUnavailableError("places API rate limit", err)
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, apperrors.NewInternalError("invalid places base URL").WithCause(err)
	}
	q := u.Query()
	q.Set("query", query)
	q.Set("radius", strconv.Itoa(c.radiusM))
	q.Set("location", fmt.Sprintf("%g,%g", near.Lat, near.Lng))
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build places request").WithCause(err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.NewStorageUnavailableError("places API unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, apperrors.NewStorageUnavailableError("failed to read places response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewStorageUnavailableError("places API error",
			fmt.Errorf("status %d: %s", resp.StatusCode, gjson.GetBytes(body, "error_message").String()))
	}
	if !gjson.ValidBytes(body) {
		return nil, apperrors.NewInternalError("places API returned invalid JSON")
	}

	switch status := gjson.GetBytes(body, "status").String(); status {
	case "", "OK", "ZERO_RESULTS":
	default:
		return nil, apperrors.NewStorageUnavailableError("places API error",
			fmt.Errorf("%s: %s", status, gjson.GetBytes(body, "error_message").String()))
	}

	results := gjson.GetBytes(body, "results").Array()
	locs := make([]model.Location, 0, len(results))
	for _, r := range results {
		locs = append(locs, model.Location{
			Name:    r.Get("name").String(),
			Address: r.Get("formatted_address").String(),
			Lat:     r.Get("geometry.location.lat").Float(),
			Lng:     r.Get("geometry.location.lng").Float(),
		})
	}

	c.log.WithContext(ctx).WithFields(map[string]interface{}{
		"query":    query,
		"results":  len(locs),
		"duration": time.Since(start).String(),
	}).Debug("places text search")
	return locs, nil
}
