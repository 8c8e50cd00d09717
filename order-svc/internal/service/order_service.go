package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"smartmenu/logger"
	"smartmenu/order-svc/internal/delivery"
	"smartmenu/order-svc/internal/domain"
	"smartmenu/telem"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrRestaurantNotFound  = errors.New("restaurant not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrDuplicateSubmission = errors.New("order already submitted")
)

type CartItemRequest struct {
	MenuItemID      string   `json:"menu_item_id"`
	Quantity        int      `json:"quantity"`
	SelectedVariant string   `json:"selected_variant,omitempty"`
	SelectedAddOns  []string `json:"selected_addons,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

type CreateOrderRequest struct {
	RestaurantID   string                 `json:"restaurant_id"`
	ServiceType    domain.ServiceType     `json:"service_type"`
	Customer       domain.CustomerDetails `json:"customer_details"`
	Items          []CartItemRequest      `json:"items"`
	PaymentMethod  string                 `json:"payment_method"`
	DeliveryTier   *int                   `json:"delivery_tier,omitempty"`
	IdempotencyKey string                 `json:"idempotency_key,omitempty"`
}

type QuoteInput struct {
	RestaurantID string              `json:"restaurant_id"`
	Address      string              `json:"customer_address"`
	Coordinates  *domain.Coordinates `json:"coordinates,omitempty"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
}

type OrderService struct {
	restaurants RestaurantReader
	menu        MenuReader
	orders      OrderRepository
	resolver    QuoteResolver
	publisher   OrderPublisher
	marker      SubmissionMarker
	receipts    ReceiptRenderer
	assembler   *Assembler
	log         *logger.Logger
}

type OrderServiceDeps struct {
	Restaurants RestaurantReader
	Menu        MenuReader
	Orders      OrderRepository
	Resolver    QuoteResolver
	Publisher   OrderPublisher
	Marker      SubmissionMarker
	Receipts    ReceiptRenderer
	Assembler   *Assembler
	Log         *logger.Logger
}

func NewOrderService(deps OrderServiceDeps) *OrderService {
	if deps.Log == nil {
		deps.Log = logger.Discard()
	}
	return &OrderService{
		restaurants: deps.Restaurants,
		menu:        deps.Menu,
		orders:      deps.Orders,
		resolver:    deps.Resolver,
		publisher:   deps.Publisher,
		marker:      deps.Marker,
		receipts:    deps.Receipts,
		assembler:   deps.Assembler,
		log:         deps.Log,
	}
}

func (s *OrderService) restaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	rest, err := s.restaurants.GetRestaurant(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load restaurant: %w", err)
	}
	return rest, nil
}

// Create re-prices the submitted lines from the stored menu, resolves the
// delivery fee server side and stores the assembled order.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	ctx, span := telem.Tracer("orders").Start(ctx, "orders.Create")
	defer span.End()
	requestID := logger.RequestID(ctx)

	if len(req.Items) == 0 {
		return nil, domain.ValidationError{Field: "items", Message: "your cart is empty"}
	}

	rest, err := s.restaurant(ctx, req.RestaurantID)
	if err != nil {
		return nil, err
	}

	cart, err := s.buildCart(ctx, rest.ID, req.Items)
	if err != nil {
		return nil, err
	}

	var quote *delivery.Quote
	if req.ServiceType == domain.ServiceDelivery {
		q, err := s.deliveryQuote(ctx, rest, req, cart.Subtotal())
		if err != nil {
			return nil, err
		}
		quote = &q
	}

	order, err := s.assembler.Assemble(AssembleInput{
		Cart:          cart,
		Restaurant:    *rest,
		ServiceType:   req.ServiceType,
		Customer:      req.Customer,
		Quote:         quote,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		s.log.Debug("order_create", requestID, "order rejected", slog.String("reason", err.Error()))
		return nil, err
	}

	claimed, err := s.claim(ctx, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	order.ID = uuid.NewString()
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		s.log.Error("order_create", requestID, "failed to store order", err)
		if claimed {
			s.release(ctx, req.IdempotencyKey)
		}
		return nil, fmt.Errorf("failed to store order: %w", err)
	}

	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.String("order.service_type", string(order.ServiceType)),
	)
	telem.OrdersCreated.WithLabelValues(string(order.ServiceType)).Inc()
	s.log.Info("order_create", requestID, "order created",
		slog.String("order_id", order.ID),
		slog.String("restaurant_id", order.RestaurantID),
		slog.String("total", order.Total.StringFixed(2)),
	)

	if s.publisher != nil {
		if err := s.publisher.PublishOrder(ctx, orderEvent(order)); err != nil {
			s.log.Warn("order_create", requestID, "failed to publish order event", slog.String("error", err.Error()))
		}
	}

	return order, nil
}

// claim records the idempotency key of an order that passed validation.
// It reports whether the key is held by this call.
func (s *OrderService) claim(ctx context.Context, key string) (bool, error) {
	if key == "" || s.marker == nil {
		return false, nil
	}
	fresh, err := s.marker.Claim(ctx, key)
	if err != nil {
		s.log.Warn("order_create", logger.RequestID(ctx), "idempotency check failed", slog.String("error", err.Error()))
		return false, nil
	}
	if !fresh {
		return false, ErrDuplicateSubmission
	}
	return true, nil
}

func (s *OrderService) release(ctx context.Context, key string) {
	if err := s.marker.Release(ctx, key); err != nil {
		s.log.Warn("order_create", logger.RequestID(ctx), "failed to release idempotency key", slog.String("error", err.Error()))
	}
}

func (s *OrderService) buildCart(ctx context.Context, restaurantID string, lines []CartItemRequest) (*Cart, error) {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.MenuItemID)
	}
	items, err := s.menu.GetMenuItems(ctx, restaurantID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu items: %w", err)
	}

	cart := NewCart(restaurantID)
	for _, l := range lines {
		item, ok := items[l.MenuItemID]
		if !ok || !item.Available {
			return nil, domain.ValidationError{Field: "items", Message: "an item in your cart is no longer available"}
		}
		if err := cart.Add(item, l.SelectedVariant, l.SelectedAddOns, l.Notes, l.Quantity); err != nil {
			return nil, err
		}
	}
	return cart, nil
}

func (s *OrderService) deliveryQuote(ctx context.Context, rest *domain.Restaurant, req CreateOrderRequest, subtotal decimal.Decimal) (delivery.Quote, error) {
	if rest.Location == nil {
		if rest.Delivery.PricingMode != domain.PricingTier {
			return delivery.Quote{}, fmt.Errorf("%w: Delivery fee cannot be calculated for this restaurant", ErrDeliveryUnavailable)
		}
		if req.DeliveryTier == nil {
			return delivery.Quote{}, domain.ValidationError{Field: "delivery_tier", Message: "please choose your delivery distance"}
		}
		q, err := s.resolver.SelectTier(rest.Delivery, *req.DeliveryTier, subtotal)
		if err != nil {
			return delivery.Quote{}, domain.ValidationError{Field: "delivery_tier", Message: "please choose one of the listed delivery distances"}
		}
		return q, nil
	}
	return s.resolver.Quote(ctx, delivery.QuoteRequest{
		Restaurant:  *rest,
		Address:     req.Customer.Address,
		Coordinates: req.Customer.Location,
		Subtotal:    subtotal,
	}), nil
}

func orderEvent(order *domain.Order) domain.OrderEvent {
	items := make([]domain.OrderEventItem, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, domain.OrderEventItem{MenuItemID: it.MenuItemID, Name: it.Name, Quantity: it.Quantity})
	}
	return domain.OrderEvent{
		Type:         "order_created",
		OrderID:      order.ID,
		RestaurantID: order.RestaurantID,
		ServiceType:  order.ServiceType,
		Items:        items,
		Total:        order.Total,
		Timestamp:    time.Now().UTC(),
	}
}

func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return order, err
}

func (s *OrderService) List(ctx context.Context, restaurantID string, statuses []string) ([]domain.Order, error) {
	return s.orders.ListOrders(ctx, restaurantID, statuses)
}

func (s *OrderService) Quote(ctx context.Context, req QuoteInput) (delivery.Quote, error) {
	rest, err := s.restaurant(ctx, req.RestaurantID)
	if err != nil {
		return delivery.Quote{}, err
	}
	if !rest.Services.Delivery {
		return delivery.Quote{}, fmt.Errorf("%w: this restaurant does not deliver", ErrDeliveryUnavailable)
	}
	quote := s.resolver.Quote(ctx, delivery.QuoteRequest{
		Restaurant:  *rest,
		Address:     req.Address,
		Coordinates: req.Coordinates,
		Subtotal:    req.Subtotal,
	})
	if !quote.Success && !quote.ManualSelection {
		s.log.Warn("delivery_quote", logger.RequestID(ctx), "distance lookup failed",
			slog.String("restaurant_id", rest.ID),
			slog.String("error_code", quote.ErrorCode),
		)
	}
	return quote, nil
}

func (s *OrderService) SelectTier(ctx context.Context, restaurantID string, index int, subtotal decimal.Decimal) (delivery.Quote, error) {
	rest, err := s.restaurant(ctx, restaurantID)
	if err != nil {
		return delivery.Quote{}, err
	}
	return s.resolver.SelectTier(rest.Delivery, index, subtotal)
}

func (s *OrderService) Receipt(ctx context.Context, id string) ([]byte, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rest, err := s.restaurant(ctx, order.RestaurantID)
	if err != nil {
		return nil, err
	}
	return s.receipts.Render(order, rest)
}
