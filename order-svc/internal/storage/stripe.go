package storage

import (
	"context"

	"smartmenu/order-svc/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/paymentintent"
)

type StripeGateway struct {
	client paymentintent.Client
}

func NewStripeGateway(secretKey string) *StripeGateway {
	return &StripeGateway{
		client: paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey},
	}
}

// CreateIntent opens a card PaymentIntent for the chargeable amount in
// the currency's minor unit.
func (g *StripeGateway) CreateIntent(ctx context.Context, req service.PaymentIntentRequest) (service.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(minorUnits(req.Amount)),
		Currency:           stripe.String(req.Currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	params.AddMetadata("order_id", req.OrderID)
	params.AddMetadata("restaurant_id", req.RestaurantID)
	if req.IdempotencyKey != "" {
		params.IdempotencyKey = stripe.String(req.IdempotencyKey)
	}

	pi, err := g.client.New(params)
	if err != nil {
		return service.PaymentIntent{}, err
	}
	return service.PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func minorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
