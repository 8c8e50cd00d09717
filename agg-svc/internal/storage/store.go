package storage

import (
	"context"
	"fmt"
	"time"

	"smartmenu/agg-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

// DefaultRetention must cover the widest best-seller window menu-svc
// accepts (90 days).
const DefaultRetention = 91 * 24 * time.Hour

const dayLayout = "2006-01-02"

// Key layout shared with menu-svc's sales reader.
func QuantityKey(restaurantID string, day time.Time) string {
	return fmt.Sprintf("bestsellers:%s:qty:%s", restaurantID, day.UTC().Format(dayLayout))
}

func OrdersKey(restaurantID string, day time.Time) string {
	return fmt.Sprintf("bestsellers:%s:orders:%s", restaurantID, day.UTC().Format(dayLayout))
}

func processedKey(orderID string) string {
	return "bestsellers:processed:" + orderID
}

type Store struct {
	rdb       *redis.Client
	Retention time.Duration
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb, Retention: DefaultRetention}
}

// MarkProcessed reports whether the order is seen for the first time.
func (s *Store) MarkProcessed(ctx context.Context, orderID string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, processedKey(orderID), 1, s.Retention).Result()
	if err != nil {
		return false, fmt.Errorf("mark order %s: %w", orderID, err)
	}
	return ok, nil
}

// Unmark releases an order whose sales could not be recorded so a
// redelivery is counted.
func (s *Store) Unmark(ctx context.Context, orderID string) error {
	return s.rdb.Del(ctx, processedKey(orderID)).Err()
}

func (s *Store) RecordSales(ctx context.Context, restaurantID string, day time.Time, sales []domain.ItemSale) error {
	if len(sales) == 0 {
		return nil
	}
	qtyKey := QuantityKey(restaurantID, day)
	ordersKey := OrdersKey(restaurantID, day)

	pipe := s.rdb.TxPipeline()
	for _, sale := range sales {
		pipe.ZIncrBy(ctx, qtyKey, float64(sale.Quantity), sale.MenuItemID)
		pipe.ZIncrBy(ctx, ordersKey, 1, sale.MenuItemID)
	}
	pipe.Expire(ctx, qtyKey, s.Retention)
	pipe.Expire(ctx, ordersKey, s.Retention)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record sales for %s: %w", restaurantID, err)
	}
	return nil
}
