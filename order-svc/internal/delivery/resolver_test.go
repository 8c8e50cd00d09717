package delivery

import (
	"context"
	"errors"
	"testing"
	"time"

	"smartmenu/order-svc/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDistance struct {
	mock.Mock
}

func (m *mockDistance) ResolveDistance(ctx context.Context, origin domain.Coordinates, address string) (DistanceResult, error) {
	args := m.Called(ctx, origin, address)
	return args.Get(0).(DistanceResult), args.Error(1)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func tierConfig() domain.DeliveryConfig {
	return domain.DeliveryConfig{
		PricingMode: domain.PricingTier,
		Tiers: []domain.DeliveryTier{
			{DistanceKM: 10, Price: dec("6.00")},
			{DistanceKM: 5, Price: dec("3.50")},
		},
	}
}

func perKMConfig() domain.DeliveryConfig {
	return domain.DeliveryConfig{
		PricingMode:   domain.PricingPerKM,
		BaseFee:       dec("3"),
		PricePerKM:    dec("1.5"),
		MaxDistanceKM: 15,
	}
}

func TestFeeForDistance(t *testing.T) {
	withFree := perKMConfig()
	withFree.FreeDeliveryAbove = dec("50")

	tests := []struct {
		name     string
		cfg      domain.DeliveryConfig
		distance float64
		subtotal string
		wantFee  string
		inRange  bool
	}{
		{name: "tier match second tier", cfg: tierConfig(), distance: 7, subtotal: "20", wantFee: "6.00", inRange: true},
		{name: "tier boundary is inclusive", cfg: tierConfig(), distance: 5, subtotal: "20", wantFee: "3.50", inRange: true},
		{name: "beyond largest tier", cfg: tierConfig(), distance: 10.01, subtotal: "20", inRange: false},
		{name: "empty tier list", cfg: domain.DeliveryConfig{PricingMode: domain.PricingTier}, distance: 1, subtotal: "20", inRange: false},
		{name: "per km formula", cfg: perKMConfig(), distance: 4.2, subtotal: "20", wantFee: "9.30", inRange: true},
		{name: "per km beyond max", cfg: perKMConfig(), distance: 20, subtotal: "20", inRange: false},
		{name: "per km at max", cfg: perKMConfig(), distance: 15, subtotal: "20", wantFee: "25.50", inRange: true},
		{name: "free delivery threshold", cfg: withFree, distance: 10, subtotal: "60", wantFee: "0", inRange: true},
		{name: "below free threshold", cfg: withFree, distance: 10, subtotal: "49.99", wantFee: "18", inRange: true},
		{name: "free threshold does not extend range", cfg: withFree, distance: 16, subtotal: "60", inRange: false},
		{name: "fee rounded to cents", cfg: perKMConfig(), distance: 1.333, subtotal: "0", wantFee: "5.00", inRange: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got := FeeForDistance(testCase.cfg, testCase.distance, dec(testCase.subtotal))

			assert.Equal(t, testCase.inRange, got.InRange)
			if !testCase.inRange {
				assert.Nil(t, got.Fee)
				assert.NotEmpty(t, got.Message)
				return
			}
			require.NotNil(t, got.Fee)
			assert.True(t, dec(testCase.wantFee).Equal(*got.Fee), "got %s", got.Fee)
		})
	}
}

func TestFeeForDistance_TierMonotonic(t *testing.T) {
	cfg := domain.DeliveryConfig{
		PricingMode: domain.PricingTier,
		Tiers: []domain.DeliveryTier{
			{DistanceKM: 3, Price: dec("2")},
			{DistanceKM: 6, Price: dec("4")},
			{DistanceKM: 12, Price: dec("7.5")},
		},
	}

	prev := decimal.Zero
	for d := 0.0; d <= 12; d += 0.25 {
		got := FeeForDistance(cfg, d, decimal.Zero)
		require.True(t, got.InRange, "distance %v", d)
		require.True(t, got.Fee.GreaterThanOrEqual(prev), "fee decreased at %v", d)
		prev = *got.Fee
	}
	assert.False(t, FeeForDistance(cfg, 12.25, decimal.Zero).InRange)
}

func TestFeeForDistance_MessageNamesLimit(t *testing.T) {
	got := FeeForDistance(perKMConfig(), 20, decimal.Zero)
	assert.Equal(t, "Sorry, we only deliver within 15 km", got.Message)
}

func TestResolver_ManualFallback(t *testing.T) {
	distance := new(mockDistance)
	resolver := NewResolver(distance, time.Second)

	quote := resolver.Quote(context.Background(), QuoteRequest{
		Restaurant: domain.Restaurant{Delivery: tierConfig()},
		Address:    "1 Queen Street",
	})

	assert.True(t, quote.ManualSelection)
	assert.False(t, quote.Finalizable())
	require.Len(t, quote.Tiers, 2)
	assert.Equal(t, 5.0, quote.Tiers[0].DistanceKM)
	distance.AssertNotCalled(t, "ResolveDistance", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolver_Quote(t *testing.T) {
	origin := domain.Coordinates{Latitude: -36.8485, Longitude: 174.7633}
	restaurant := domain.Restaurant{ID: "r1", Location: &origin, Delivery: tierConfig()}

	tests := []struct {
		name         string
		prepareMocks func(m *mockDistance)
		wantSuccess  bool
		wantInRange  bool
		wantFee      string
		wantCode     string
	}{
		{
			name: "in range",
			prepareMocks: func(m *mockDistance) {
				m.On("ResolveDistance", mock.Anything, origin, "12 Ponsonby Rd").
					Return(DistanceResult{DistanceKM: 7, DurationMinutes: 12, FormattedAddress: "12 Ponsonby Road"}, nil).Once()
			},
			wantSuccess: true,
			wantInRange: true,
			wantFee:     "6",
		},
		{
			name: "out of range",
			prepareMocks: func(m *mockDistance) {
				m.On("ResolveDistance", mock.Anything, origin, "12 Ponsonby Rd").
					Return(DistanceResult{DistanceKM: 25, DurationMinutes: 43}, nil).Once()
			},
			wantSuccess: true,
			wantInRange: false,
		},
		{
			name: "geocode failure",
			prepareMocks: func(m *mockDistance) {
				m.On("ResolveDistance", mock.Anything, origin, "12 Ponsonby Rd").
					Return(DistanceResult{}, ErrAddressNotFound).Once()
			},
			wantSuccess: false,
			wantCode:    ErrorCodeGeocodeFailed,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			distance := new(mockDistance)
			testCase.prepareMocks(distance)
			resolver := NewResolver(distance, time.Second)

			quote := resolver.Quote(context.Background(), QuoteRequest{Restaurant: restaurant, Address: "12 Ponsonby Rd", Subtotal: dec("30")})

			assert.Equal(t, testCase.wantSuccess, quote.Success)
			assert.Equal(t, testCase.wantInRange, quote.IsWithinRange)
			assert.Equal(t, testCase.wantCode, quote.ErrorCode)
			if testCase.wantFee != "" {
				require.NotNil(t, quote.DeliveryFee)
				assert.True(t, dec(testCase.wantFee).Equal(*quote.DeliveryFee))
				assert.True(t, quote.Finalizable())
			} else {
				assert.Nil(t, quote.DeliveryFee)
				assert.False(t, quote.Finalizable())
			}
			distance.AssertExpectations(t)
		})
	}
}

func TestResolver_QuoteTimeout(t *testing.T) {
	origin := domain.Coordinates{Latitude: -36.85, Longitude: 174.76}
	distance := new(mockDistance)
	distance.On("ResolveDistance", mock.Anything, origin, "slow street").
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(DistanceResult{}, context.DeadlineExceeded).Once()

	resolver := NewResolver(distance, 20*time.Millisecond)
	start := time.Now()
	quote := resolver.Quote(context.Background(), QuoteRequest{
		Restaurant: domain.Restaurant{Location: &origin, Delivery: perKMConfig()},
		Address:    "slow street",
	})

	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, quote.Success)
	assert.Equal(t, ErrorCodeTimeout, quote.ErrorCode)
}

func TestResolver_QuoteWithCoordinates(t *testing.T) {
	origin := domain.Coordinates{Latitude: 0, Longitude: 0}
	customer := domain.Coordinates{Latitude: 0.05, Longitude: 0}
	distance := new(mockDistance)
	resolver := NewResolver(distance, time.Second)

	quote := resolver.Quote(context.Background(), QuoteRequest{
		Restaurant:  domain.Restaurant{Location: &origin, Delivery: perKMConfig()},
		Coordinates: &customer,
	})

	require.True(t, quote.Success)
	assert.True(t, quote.IsWithinRange)
	assert.InDelta(t, 7.2, quote.DistanceKM, 0.05)
	assert.Equal(t, "7.2 km", quote.DistanceText)
	assert.Equal(t, 12, quote.DurationMinutes)
	distance.AssertNotCalled(t, "ResolveDistance", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolver_SelectTier(t *testing.T) {
	resolver := NewResolver(nil, 0)

	quote, err := resolver.SelectTier(tierConfig(), 1, dec("10"))
	require.NoError(t, err)
	assert.True(t, quote.Finalizable())
	assert.True(t, dec("6").Equal(*quote.DeliveryFee))

	_, err = resolver.SelectTier(tierConfig(), 2, dec("10"))
	assert.True(t, errors.Is(err, ErrTierNotFound))

	_, err = resolver.SelectTier(perKMConfig(), 0, dec("10"))
	assert.ErrorIs(t, err, ErrTierNotFound)
}

func TestResolver_SelectTier_UsesChosenTierPrice(t *testing.T) {
	resolver := NewResolver(nil, 0)
	cfg := domain.DeliveryConfig{
		PricingMode: domain.PricingTier,
		Tiers: []domain.DeliveryTier{
			{DistanceKM: 5, Price: dec("4.00")},
			{DistanceKM: 5, Price: dec("7.50")},
		},
		FreeDeliveryAbove: dec("80"),
	}

	quote, err := resolver.SelectTier(cfg, 1, dec("20"))
	require.NoError(t, err)
	assert.Equal(t, "7.50", quote.DeliveryFee.StringFixed(2))
	assert.Equal(t, "Delivery fee calculated", quote.Message)

	quote, err = resolver.SelectTier(cfg, 1, dec("80"))
	require.NoError(t, err)
	assert.True(t, quote.DeliveryFee.IsZero())
	assert.Equal(t, "Free delivery on orders over $80.00", quote.Message)
}
