package geocoder

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gatehouse/config"
	"gatehouse/internal/apperrors"
	"gatehouse/internal/database"
	"gatehouse/internal/logger"
)

// Result is one candidate returned by the geocoding service.
type Result struct {
	DisplayName string     `json:"display_name"`
	Address     Components `json:"address"`
}

type Components struct {
	HouseNumber string `json:"house_number"`
	Road        string `json:"road"`
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	State       string `json:"state"`
	Postcode    string `json:"postcode"`
}

// CityLike returns the first present settlement-level component.
func (c Components) CityLike() string {
	if c.City != "" {
		return c.City
	}
	if c.Town != "" {
		return c.Town
	}
	return c.Village
}

// Normalized returns the lowercased structural components joined with
// spaces, the form the matcher scores against.
func (r Result) Normalized() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{
		r.Address.HouseNumber,
		r.Address.Road,
		r.Address.CityLike(),
		r.Address.State,
	} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

type Client interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// HTTPClient talks to a Nominatim-style search endpoint. One attempt per
// lookup, no retries; results are cached in the Geocode cache keyed by the
// normalized query.
type HTTPClient struct {
	baseURL  string
	http     *http.Client
	cache    database.CacheClient
	cacheTTL time.Duration
	log      logger.Logger
}

func New(config config.Config, cache database.CacheClient) *HTTPClient {
	return &HTTPClient{
		baseURL:  strings.TrimRight(config.GeocoderBaseURL, "/"),
		http:     &http.Client{Timeout: config.GeocoderTimeout},
		cache:    cache,
		cacheTTL: config.GeocoderCacheTTL,
		log:      logger.New("geocoder"),
	}
}

func (c *HTTPClient) Search(ctx context.Context, query string) ([]Result, error) {
	log := c.log.Function("Search")

	cacheKey := "geocode:" + strings.ToLower(strings.Join(strings.Fields(query), " "))

	var cached []Result
	if c.cache != nil {
		found, err := database.NewCacheBuilder(c.cache, cacheKey).WithContext(ctx).Get(&cached)
		if err != nil {
			log.Warn("geocode cache lookup failed", "query", query, "error", err)
		} else if found {
			return cached, nil
		}
	}

	results, err := c.search(ctx, query)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := database.NewCacheBuilder(c.cache, cacheKey).
			WithStruct(results).
			WithTTL(c.cacheTTL).
			WithContext(ctx).
			Set(); err != nil {
			log.Warn("failed to cache geocode results", "query", query, "error", err)
		}
	}

	return results, nil
}

func (c *HTTPClient) search(ctx context.Context, query string) ([]Result, error) {
	log := c.log.Function("search")

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", "10")

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+"/search?"+params.Encode(),
		nil,
	)
	if err != nil {
		return nil, log.Err("failed to build geocoder request", err, "query", query)
	}
	req.Header.Set("User-Agent", "gatehouse/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Er("geocoder request failed", err, "query", query)
		return nil, apperrors.Upstream("geocoder unreachable: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.ErMsg("geocoder returned non-200", "status", resp.StatusCode, "query", query)
		return nil, apperrors.Upstream("geocoder returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Upstream("failed to read geocoder response: %v", err)
	}

	var results []Result
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, apperrors.Upstream("failed to decode geocoder response: %v", err)
	}

	return results, nil
}
