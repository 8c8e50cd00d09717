package service

import (
	"context"
	"time"

	"smartmenu/agg-svc/internal/domain"
	"smartmenu/agg-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type StoreInterface interface {
	MarkProcessed(ctx context.Context, orderID string) (bool, error)
	Unmark(ctx context.Context, orderID string) error
	RecordSales(ctx context.Context, restaurantID string, day time.Time, sales []domain.ItemSale) error
}

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type ConsumerInterface interface {
	Start(ctx context.Context) error
	ProcessOrder(ctx context.Context, event domain.OrderEvent) error
}

var (
	_ StoreInterface    = (*storage.Store)(nil)
	_ MessageReader     = (*kafka.Reader)(nil)
	_ ConsumerInterface = (*Consumer)(nil)
)
