package service

import (
	"context"

	"smartmenu/order-svc/internal/delivery"
	"smartmenu/order-svc/internal/domain"

	"github.com/shopspring/decimal"
)

type RestaurantReader interface {
	GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error)
}

type MenuReader interface {
	GetMenuItems(ctx context.Context, restaurantID string, ids []string) (map[string]domain.MenuItem, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, restaurantID string, statuses []string) ([]domain.Order, error)
}

type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *domain.Payment) error
}

type OrderPublisher interface {
	PublishOrder(ctx context.Context, event domain.OrderEvent) error
}

// SubmissionMarker remembers idempotency keys of submitted orders.
type SubmissionMarker interface {
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type QuoteResolver interface {
	Quote(ctx context.Context, req delivery.QuoteRequest) delivery.Quote
	SelectTier(cfg domain.DeliveryConfig, index int, subtotal decimal.Decimal) (delivery.Quote, error)
}

type PaymentIntentRequest struct {
	OrderID        string
	RestaurantID   string
	Amount         decimal.Decimal
	Currency       string
	IdempotencyKey string
}

type PaymentIntent struct {
	ID           string
	ClientSecret string
}

type PaymentGateway interface {
	CreateIntent(ctx context.Context, req PaymentIntentRequest) (PaymentIntent, error)
}

type ReceiptRenderer interface {
	Render(order *domain.Order, restaurant *domain.Restaurant) ([]byte, error)
}

type OrderServiceInterface interface {
	Create(ctx context.Context, req CreateOrderRequest) (*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, restaurantID string, statuses []string) ([]domain.Order, error)
	Quote(ctx context.Context, req QuoteInput) (delivery.Quote, error)
	SelectTier(ctx context.Context, restaurantID string, index int, subtotal decimal.Decimal) (delivery.Quote, error)
	Receipt(ctx context.Context, id string) ([]byte, error)
}

type PaymentServiceInterface interface {
	Prepare(ctx context.Context, orderID, method string) (*domain.Payment, error)
}

var (
	_ OrderServiceInterface   = (*OrderService)(nil)
	_ PaymentServiceInterface = (*PaymentService)(nil)
	_ QuoteResolver           = (*delivery.Resolver)(nil)
)
