package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"smartmenu/logger"
	"smartmenu/order-svc/internal/domain"
	"smartmenu/order-svc/internal/pricing"
	"smartmenu/telem"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotPayable = errors.New("order is not awaiting payment")
	ErrPaymentFailed   = errors.New("payment provider error")
)

// PaymentService computes what the customer is charged once a payment
// method is chosen. The card surcharge is only ever added here.
type PaymentService struct {
	orders      OrderRepository
	restaurants RestaurantReader
	payments    PaymentRepository
	gateway     PaymentGateway
	currency    string
	log         *logger.Logger
}

func NewPaymentService(orders OrderRepository, restaurants RestaurantReader, payments PaymentRepository, gateway PaymentGateway, currency string, log *logger.Logger) *PaymentService {
	if log == nil {
		log = logger.Discard()
	}
	return &PaymentService{
		orders:      orders,
		restaurants: restaurants,
		payments:    payments,
		gateway:     gateway,
		currency:    strings.ToLower(currency),
		log:         log,
	}
}

func (s *PaymentService) Prepare(ctx context.Context, orderID, method string) (*domain.Payment, error) {
	requestID := logger.RequestID(ctx)

	if method != domain.PaymentCard && method != domain.PaymentCash {
		return nil, domain.ValidationError{Field: "payment_method", Message: "payment method must be card or cash"}
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		s.log.Error("payment_prepare", requestID, "failed to load order", err, slog.String("order_id", orderID))
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order.Status != domain.StatusPendingPayment {
		return nil, ErrOrderNotPayable
	}

	rest, err := s.restaurants.GetRestaurant(ctx, order.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load restaurant: %w", err)
	}

	rate := decimal.Zero
	if method == domain.PaymentCard && rest.Surcharge.Enabled {
		rate = rest.Surcharge.Rate
	}
	surcharge := pricing.CardSurchargeAmount(order.Total, rate)

	payment := &domain.Payment{
		ID:              uuid.NewString(),
		OrderID:         order.ID,
		Method:          method,
		OrderTotal:      order.Total,
		SurchargeRate:   rate,
		SurchargeAmount: surcharge,
		Chargeable:      pricing.Round(order.Total.Add(surcharge)),
		Currency:        s.currency,
		CreatedAt:       time.Now().UTC(),
	}

	if method == domain.PaymentCard {
		start := time.Now()
		intent, err := s.gateway.CreateIntent(ctx, PaymentIntentRequest{
			OrderID:        order.ID,
			RestaurantID:   order.RestaurantID,
			Amount:         payment.Chargeable,
			Currency:       s.currency,
			IdempotencyKey: order.ID + ":" + payment.Chargeable.StringFixed(2),
		})
		telem.ExternalCallDuration.WithLabelValues("payment").Observe(time.Since(start).Seconds())
		if err != nil {
			s.log.Error("payment_prepare", requestID, "failed to create payment intent", err, slog.String("order_id", order.ID))
			return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
		}
		payment.IntentID = intent.ID
		payment.ClientSecret = intent.ClientSecret
	}

	if err := s.payments.CreatePayment(ctx, payment); err != nil {
		s.log.Error("payment_prepare", requestID, "failed to store payment", err, slog.String("order_id", order.ID))
		return nil, fmt.Errorf("failed to store payment: %w", err)
	}

	s.log.Info("payment_prepare", requestID, "payment prepared",
		slog.String("order_id", order.ID),
		slog.String("method", method),
		slog.String("chargeable", payment.Chargeable.StringFixed(2)),
	)
	return payment, nil
}
