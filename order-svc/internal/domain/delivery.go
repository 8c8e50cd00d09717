package domain

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

type PricingMode string

const (
	PricingTier  PricingMode = "tier"
	PricingPerKM PricingMode = "per_km"
)

type DeliveryTier struct {
	DistanceKM float64         `json:"distance_km"`
	Price      decimal.Decimal `json:"price"`
}

type DeliveryConfig struct {
	PricingMode       PricingMode     `json:"pricing_mode"`
	Tiers             []DeliveryTier  `json:"rates,omitempty"`
	BaseFee           decimal.Decimal `json:"base_fee"`
	PricePerKM        decimal.Decimal `json:"price_per_km"`
	MaxDistanceKM     float64         `json:"max_distance_km"`
	FreeDeliveryAbove decimal.Decimal `json:"free_delivery_above"`
}

// DefaultDeliveryConfig is applied to restaurants that never saved
// delivery settings.
func DefaultDeliveryConfig() DeliveryConfig {
	return DeliveryConfig{
		PricingMode:   PricingPerKM,
		BaseFee:       decimal.RequireFromString("3.00"),
		PricePerKM:    decimal.RequireFromString("1.50"),
		MaxDistanceKM: 15,
	}
}

var ErrInvalidDeliveryConfig = errors.New("invalid delivery settings")

// SortedTiers returns a copy of the tiers ordered by distance ascending.
func (c DeliveryConfig) SortedTiers() []DeliveryTier {
	tiers := make([]DeliveryTier, len(c.Tiers))
	copy(tiers, c.Tiers)
	sort.SliceStable(tiers, func(i, j int) bool { return tiers[i].DistanceKM < tiers[j].DistanceKM })
	return tiers
}

func (c DeliveryConfig) Validate() error {
	switch c.PricingMode {
	case PricingTier:
		for i, t := range c.Tiers {
			if t.DistanceKM <= 0 {
				return fmt.Errorf("%w: rate %d distance must be positive", ErrInvalidDeliveryConfig, i+1)
			}
			if t.Price.IsNegative() {
				return fmt.Errorf("%w: rate %d price must not be negative", ErrInvalidDeliveryConfig, i+1)
			}
		}
	case PricingPerKM:
		if c.MaxDistanceKM <= 0 {
			return fmt.Errorf("%w: max_distance_km must be positive", ErrInvalidDeliveryConfig)
		}
		if c.BaseFee.IsNegative() || c.PricePerKM.IsNegative() || c.FreeDeliveryAbove.IsNegative() {
			return fmt.Errorf("%w: fees must not be negative", ErrInvalidDeliveryConfig)
		}
	default:
		return fmt.Errorf("%w: unknown pricing_mode %q", ErrInvalidDeliveryConfig, c.PricingMode)
	}
	return nil
}
