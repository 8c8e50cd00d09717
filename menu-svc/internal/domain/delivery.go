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

func DefaultDeliveryConfig() DeliveryConfig {
	return DeliveryConfig{
		PricingMode:   PricingPerKM,
		BaseFee:       decimal.RequireFromString("3.00"),
		PricePerKM:    decimal.RequireFromString("1.50"),
		MaxDistanceKM: 15,
	}
}

var ErrInvalidDeliveryConfig = errors.New("invalid delivery settings")

// Normalize validates the settings and sorts the tiers ascending by
// distance so they are stored in resolution order.
func (c *DeliveryConfig) Normalize() error {
	if c.PricingMode == "" {
		c.PricingMode = PricingPerKM
	}
	if c.FreeDeliveryAbove.IsNegative() {
		return fmt.Errorf("%w: free_delivery_above must not be negative", ErrInvalidDeliveryConfig)
	}
	switch c.PricingMode {
	case PricingTier:
		for _, t := range c.Tiers {
			if t.DistanceKM <= 0 || t.Price.IsNegative() {
				return fmt.Errorf("%w: every rate needs a positive distance and a price of at least 0", ErrInvalidDeliveryConfig)
			}
		}
		sort.SliceStable(c.Tiers, func(i, j int) bool { return c.Tiers[i].DistanceKM < c.Tiers[j].DistanceKM })
	case PricingPerKM:
		if c.BaseFee.IsNegative() || c.PricePerKM.IsNegative() {
			return fmt.Errorf("%w: fees must not be negative", ErrInvalidDeliveryConfig)
		}
		if c.MaxDistanceKM <= 0 {
			return fmt.Errorf("%w: max_distance_km must be positive", ErrInvalidDeliveryConfig)
		}
	default:
		return fmt.Errorf("%w: unknown pricing mode %q", ErrInvalidDeliveryConfig, c.PricingMode)
	}
	return nil
}
