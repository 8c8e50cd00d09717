package delivery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"smartmenu/order-svc/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryGeocodeCache struct {
	mu    sync.Mutex
	items map[string]Location
}

func (c *memoryGeocodeCache) GetLocation(ctx context.Context, key string) (*Location, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if loc, ok := c.items[key]; ok {
		return &loc, nil
	}
	return nil, nil
}

func (c *memoryGeocodeCache) SetLocation(ctx context.Context, key string, loc Location) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = loc
	return nil
}

func TestHaversine(t *testing.T) {
	a := domain.Coordinates{Latitude: 0, Longitude: 0}
	b := domain.Coordinates{Latitude: 1, Longitude: 0}

	assert.InDelta(t, 111.19, Haversine(a, b), 0.01)
	assert.InDelta(t, Haversine(a, b), Haversine(b, a), 1e-9)
	assert.Zero(t, Haversine(a, a))
}

func TestRoadDistanceAndDuration(t *testing.T) {
	assert.Equal(t, 13.0, RoadDistance(10))
	assert.Equal(t, 1.3, RoadDistance(1))
	assert.Equal(t, 17, EstimateDuration(10))
	assert.Equal(t, 5, EstimateDuration(1))
	assert.Equal(t, 5, EstimateDuration(0))
}

func TestGeoDistanceService_ResolveDistance(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "nz", r.URL.Query().Get("countrycodes"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"0.1","lon":"0","display_name":"10 Test Street, Auckland"}]`))
	}))
	defer server.Close()

	cache := &memoryGeocodeCache{items: map[string]Location{}}
	svc := NewGeoDistanceService(GeoConfig{BaseURL: server.URL, CountryCode: "nz", RateLimit: 100}, server.Client(), cache)

	res, err := svc.ResolveDistance(context.Background(), domain.Coordinates{}, "10 Test  Street")
	require.NoError(t, err)
	assert.InDelta(t, 14.46, res.DistanceKM, 0.01)
	assert.Equal(t, 25, res.DurationMinutes)
	assert.Equal(t, "10 Test Street, Auckland", res.FormattedAddress)

	_, err = svc.ResolveDistance(context.Background(), domain.Coordinates{}, "10 test street")
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "second lookup should be served from cache")
}

func TestGeoDistanceService_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	svc := NewGeoDistanceService(GeoConfig{BaseURL: server.URL, RateLimit: 100}, server.Client(), nil)

	_, err := svc.ResolveDistance(context.Background(), domain.Coordinates{}, "nowhere")
	assert.ErrorIs(t, err, ErrAddressNotFound)

	_, err = svc.ResolveDistance(context.Background(), domain.Coordinates{}, "   ")
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestGeoDistanceService_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc := NewGeoDistanceService(GeoConfig{BaseURL: server.URL, RateLimit: 100}, server.Client(), nil)

	_, err := svc.Geocode(context.Background(), "1 Queen Street")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestGeoDistanceService_CollapsesConcurrentLookups(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		<-release
		w.Write([]byte(`[{"lat":"1","lon":"1","display_name":"Somewhere"}]`))
	}))
	defer server.Close()

	svc := NewGeoDistanceService(GeoConfig{BaseURL: server.URL, RateLimit: 100}, server.Client(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Geocode(context.Background(), "5 Same Street")
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestGeoDistanceService_CallerCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	svc := NewGeoDistanceService(GeoConfig{BaseURL: server.URL, RateLimit: 100}, server.Client(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := svc.Geocode(ctx, "slow road")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
