// Package delivery turns a restaurant's delivery settings and a customer
// destination into a fee and an in/out-of-range decision.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"smartmenu/order-svc/internal/domain"
	"smartmenu/order-svc/internal/pricing"
	"smartmenu/telem"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

const (
	ErrorCodeGeocodeFailed = "GEOCODE_FAILED"
	ErrorCodeTimeout       = "DISTANCE_TIMEOUT"

	DefaultTimeout = 10 * time.Second
)

var ErrTierNotFound = errors.New("delivery tier not found")

type DistanceResult struct {
	DistanceKM       float64
	DurationMinutes  int
	FormattedAddress string
}

type DistanceService interface {
	ResolveDistance(ctx context.Context, origin domain.Coordinates, address string) (DistanceResult, error)
}

// Quote is the JSON shape returned to the ordering page.
type Quote struct {
	Success          bool                  `json:"success"`
	Error            string                `json:"error,omitempty"`
	ErrorCode        string                `json:"error_code,omitempty"`
	DistanceKM       float64               `json:"distance_km"`
	DistanceText     string                `json:"distance_text,omitempty"`
	DurationMinutes  int                   `json:"duration_minutes,omitempty"`
	DurationText     string                `json:"duration_text,omitempty"`
	DeliveryFee      *decimal.Decimal      `json:"delivery_fee"`
	IsWithinRange    bool                  `json:"is_within_range"`
	FormattedAddress string                `json:"formatted_address,omitempty"`
	ManualSelection  bool                  `json:"manual_selection,omitempty"`
	Tiers            []domain.DeliveryTier `json:"tiers,omitempty"`
	Message          string                `json:"message,omitempty"`
}

// Finalizable reports whether a delivery order may be submitted with this
// quote.
func (q Quote) Finalizable() bool {
	return q.Success && q.IsWithinRange && q.DeliveryFee != nil
}

type FeeResult struct {
	Fee     *decimal.Decimal
	InRange bool
	Message string
}

// FeeForDistance applies the restaurant's pricing mode to a known road
// distance. subtotal is the cart subtotal, used for the free delivery
// threshold.
func FeeForDistance(cfg domain.DeliveryConfig, distanceKM float64, subtotal decimal.Decimal) FeeResult {
	var fee decimal.Decimal

	switch cfg.PricingMode {
	case domain.PricingTier:
		tiers := cfg.SortedTiers()
		if len(tiers) == 0 {
			return FeeResult{Message: "No delivery rates configured"}
		}
		matched := false
		for _, t := range tiers {
			if distanceKM <= t.DistanceKM {
				fee = t.Price
				matched = true
				break
			}
		}
		if !matched {
			return FeeResult{Message: outOfRangeMessage(tiers[len(tiers)-1].DistanceKM)}
		}
	default:
		if distanceKM > cfg.MaxDistanceKM {
			return FeeResult{Message: outOfRangeMessage(cfg.MaxDistanceKM)}
		}
		fee = cfg.BaseFee.Add(decimal.NewFromFloat(distanceKM).Mul(cfg.PricePerKM))
	}

	return applyFreeDelivery(cfg, fee, subtotal)
}

// applyFreeDelivery zeroes an in-range fee once the subtotal reaches the
// restaurant's free delivery threshold.
func applyFreeDelivery(cfg domain.DeliveryConfig, fee, subtotal decimal.Decimal) FeeResult {
	message := "Delivery fee calculated"
	if cfg.FreeDeliveryAbove.IsPositive() && subtotal.GreaterThanOrEqual(cfg.FreeDeliveryAbove) {
		fee = decimal.Zero
		message = "Free delivery on orders over $" + cfg.FreeDeliveryAbove.StringFixed(2)
	}

	fee = pricing.Round(fee)
	return FeeResult{Fee: &fee, InRange: true, Message: message}
}

func outOfRangeMessage(maxKM float64) string {
	return "Sorry, we only deliver within " + strconv.FormatFloat(maxKM, 'f', -1, 64) + " km"
}

type QuoteRequest struct {
	Restaurant  domain.Restaurant
	Address     string
	Coordinates *domain.Coordinates
	Subtotal    decimal.Decimal
}

type Resolver struct {
	distance DistanceService
	timeout  time.Duration
}

func NewResolver(distance DistanceService, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Resolver{distance: distance, timeout: timeout}
}

func (r *Resolver) Quote(ctx context.Context, req QuoteRequest) Quote {
	ctx, span := telem.Tracer("delivery").Start(ctx, "delivery.Quote")
	defer span.End()

	cfg := req.Restaurant.Delivery
	origin := req.Restaurant.Location

	if origin == nil {
		span.SetAttributes(attribute.String("delivery.outcome", "manual"))
		telem.DeliveryQuotes.WithLabelValues("manual").Inc()
		return manualQuote(cfg)
	}

	var result DistanceResult
	switch {
	case req.Coordinates != nil:
		km := RoadDistance(Haversine(*origin, *req.Coordinates))
		result = DistanceResult{DistanceKM: km, DurationMinutes: EstimateDuration(km), FormattedAddress: req.Address}
	case req.Address != "":
		lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		start := time.Now()
		res, err := r.distance.ResolveDistance(lookupCtx, *origin, req.Address)
		telem.ExternalCallDuration.WithLabelValues("distance").Observe(time.Since(start).Seconds())
		if err != nil {
			span.RecordError(err)
			telem.DeliveryQuotes.WithLabelValues("error").Inc()
			if errors.Is(err, context.DeadlineExceeded) {
				return Quote{Error: "The address lookup took too long. Please try again.", ErrorCode: ErrorCodeTimeout}
			}
			return Quote{Error: "Could not find the address. Please check and try again.", ErrorCode: ErrorCodeGeocodeFailed}
		}
		result = res
	default:
		return Quote{Error: "Please enter a delivery address.", ErrorCode: ErrorCodeGeocodeFailed}
	}

	fee := FeeForDistance(cfg, result.DistanceKM, req.Subtotal)
	quote := Quote{
		Success:          true,
		DistanceKM:       roundTo(result.DistanceKM, 1),
		DistanceText:     fmt.Sprintf("%.1f km", result.DistanceKM),
		DurationMinutes:  result.DurationMinutes,
		DurationText:     fmt.Sprintf("%d mins", result.DurationMinutes),
		DeliveryFee:      fee.Fee,
		IsWithinRange:    fee.InRange,
		FormattedAddress: result.FormattedAddress,
		Message:          fee.Message,
	}

	outcome := "in_range"
	if !fee.InRange {
		outcome = "out_of_range"
	}
	span.SetAttributes(
		attribute.String("delivery.outcome", outcome),
		attribute.Float64("delivery.distance_km", quote.DistanceKM),
	)
	telem.DeliveryQuotes.WithLabelValues(outcome).Inc()
	return quote
}

func manualQuote(cfg domain.DeliveryConfig) Quote {
	q := Quote{ManualSelection: true}
	if cfg.PricingMode == domain.PricingTier {
		q.Tiers = cfg.SortedTiers()
		q.Message = "Please choose your delivery distance"
	} else {
		q.Message = "Delivery fee cannot be calculated for this restaurant"
	}
	return q
}

// SelectTier builds the quote for a tier the customer picked by hand when
// the restaurant has no location. index refers to the sorted tier list.
func (r *Resolver) SelectTier(cfg domain.DeliveryConfig, index int, subtotal decimal.Decimal) (Quote, error) {
	if cfg.PricingMode != domain.PricingTier {
		return Quote{}, ErrTierNotFound
	}
	tiers := cfg.SortedTiers()
	if index < 0 || index >= len(tiers) {
		return Quote{}, ErrTierNotFound
	}
	tier := tiers[index]
	fee := applyFreeDelivery(cfg, tier.Price, subtotal)
	telem.DeliveryQuotes.WithLabelValues("manual_tier").Inc()
	return Quote{
		Success:         true,
		DistanceKM:      tier.DistanceKM,
		DistanceText:    fmt.Sprintf("up to %s km", strconv.FormatFloat(tier.DistanceKM, 'f', -1, 64)),
		DeliveryFee:     fee.Fee,
		IsWithinRange:   fee.InRange,
		ManualSelection: true,
		Message:         fee.Message,
	}, nil
}
