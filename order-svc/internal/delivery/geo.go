package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"smartmenu/order-svc/internal/domain"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	earthRadiusKM   = 6371.0
	roadFactor      = 1.3
	averageSpeedKMH = 35.0
	minDurationMins = 5
)

var ErrAddressNotFound = errors.New("address not found")

// Haversine is the great-circle distance in kilometres.
func Haversine(a, b domain.Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKM * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// RoadDistance scales a straight-line distance to an estimated road
// distance.
func RoadDistance(straightKM float64) float64 {
	return roundTo(straightKM*roadFactor, 2)
}

func EstimateDuration(distanceKM float64) int {
	minutes := int(math.Round(distanceKM / averageSpeedKMH * 60))
	if minutes < minDurationMins {
		return minDurationMins
	}
	return minutes
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

type Location struct {
	domain.Coordinates
	FormattedAddress string `json:"formatted_address"`
}

// GeocodeCache stores resolved addresses. Get returns nil on a miss.
type GeocodeCache interface {
	GetLocation(ctx context.Context, key string) (*Location, error)
	SetLocation(ctx context.Context, key string, loc Location) error
}

type GeoConfig struct {
	BaseURL     string
	UserAgent   string
	CountryCode string
	// Requests per second allowed against the geocoder.
	RateLimit float64
}

// GeoDistanceService geocodes addresses with a Nominatim compatible API and
// estimates road distance from the restaurant.
type GeoDistanceService struct {
	cfg     GeoConfig
	client  *http.Client
	limiter *rate.Limiter
	cache   GeocodeCache
	group   singleflight.Group
}

func NewGeoDistanceService(cfg GeoConfig, client *http.Client, cache GeocodeCache) *GeoDistanceService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "smartmenu-delivery/1.0"
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 1
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &GeoDistanceService{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		cache:   cache,
	}
}

func (s *GeoDistanceService) ResolveDistance(ctx context.Context, origin domain.Coordinates, address string) (DistanceResult, error) {
	loc, err := s.Geocode(ctx, address)
	if err != nil {
		return DistanceResult{}, err
	}
	km := RoadDistance(Haversine(origin, loc.Coordinates))
	return DistanceResult{
		DistanceKM:       km,
		DurationMinutes:  EstimateDuration(km),
		FormattedAddress: loc.FormattedAddress,
	}, nil
}

func normalizeAddress(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}

// Geocode resolves an address. Concurrent lookups of the same address
// share one upstream request.
func (s *GeoDistanceService) Geocode(ctx context.Context, address string) (Location, error) {
	key := normalizeAddress(address)
	if key == "" {
		return Location{}, ErrAddressNotFound
	}

	if s.cache != nil {
		if loc, err := s.cache.GetLocation(ctx, key); err == nil && loc != nil {
			return *loc, nil
		}
	}

	ch := s.group.DoChan(key, func() (interface{}, error) {
		// Detached so one caller giving up does not fail the others
		// waiting on the same key.
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultTimeout)
		defer cancel()

		loc, err := s.lookup(lookupCtx, address)
		if err != nil {
			return Location{}, err
		}
		if s.cache != nil {
			_ = s.cache.SetLocation(lookupCtx, key, loc)
		}
		return loc, nil
	})

	select {
	case <-ctx.Done():
		return Location{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Location{}, res.Err
		}
		return res.Val.(Location), nil
	}
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (s *GeoDistanceService) lookup(ctx context.Context, address string) (Location, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return Location{}, err
	}

	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("addressdetails", "1")
	if s.cfg.CountryCode != "" {
		params.Set("countrycodes", s.cfg.CountryCode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(s.cfg.BaseURL, "/")+"/search?"+params.Encode(), nil)
	if err != nil {
		return Location{}, err
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("geocode request: unexpected status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return Location{}, fmt.Errorf("geocode response: %w", err)
	}
	if len(places) == 0 {
		return Location{}, ErrAddressNotFound
	}

	lat, errLat := strconv.ParseFloat(places[0].Lat, 64)
	lng, errLng := strconv.ParseFloat(places[0].Lon, 64)
	if errLat != nil || errLng != nil {
		return Location{}, fmt.Errorf("geocode response: invalid coordinates %q,%q", places[0].Lat, places[0].Lon)
	}

	return Location{
		Coordinates:      domain.Coordinates{Latitude: lat, Longitude: lng},
		FormattedAddress: places[0].DisplayName,
	}, nil
}
