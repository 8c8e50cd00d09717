package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"smartmenu/agg-svc/internal/domain"
	"smartmenu/logger"
	"smartmenu/telem"
)

type Consumer struct {
	Reader MessageReader
	Store  StoreInterface
	Log    *logger.Logger
	Now    func() time.Time
}

func NewConsumer(reader MessageReader, store StoreInterface, log *logger.Logger) *Consumer {
	if log == nil {
		log = logger.Discard()
	}
	return &Consumer{
		Reader: reader,
		Store:  store,
		Log:    log,
		Now:    time.Now,
	}
}

// Start reads the orders topic until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	c.Log.Info("consumer_start", "", "Starting Aggregation Service consumer...")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.Log.Error("read_message", "", "Error reading message", err)
			continue
		}

		var event domain.OrderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			telem.SalesEvents.WithLabelValues("invalid").Inc()
			c.Log.Warn("decode_message", "", "Error unmarshaling message: "+err.Error(),
				slog.Int64("offset", message.Offset))
			continue
		}

		if err := c.ProcessOrder(ctx, event); err != nil {
			c.Log.Error("process_order", event.OrderID, "Error recording sales", err)
		}
	}
}

// ProcessOrder adds an order_created event to the restaurant's daily
// best-seller counters. Redelivered orders are counted once.
func (c *Consumer) ProcessOrder(ctx context.Context, event domain.OrderEvent) error {
	if event.Type != domain.EventOrderCreated {
		telem.SalesEvents.WithLabelValues("ignored").Inc()
		return nil
	}
	if event.RestaurantID == "" || event.OrderID == "" {
		telem.SalesEvents.WithLabelValues("invalid").Inc()
		return errors.New("order event without restaurant or order id")
	}

	sales := itemSales(event.Items)
	if len(sales) == 0 {
		telem.SalesEvents.WithLabelValues("empty").Inc()
		return nil
	}

	first, err := c.Store.MarkProcessed(ctx, event.OrderID)
	if err != nil {
		return err
	}
	if !first {
		telem.SalesEvents.WithLabelValues("duplicate").Inc()
		c.Log.Debug("process_order", event.OrderID, "order already counted")
		return nil
	}

	day := event.Timestamp
	if day.IsZero() {
		day = c.Now()
	}
	if err := c.Store.RecordSales(ctx, event.RestaurantID, day, sales); err != nil {
		if uerr := c.Store.Unmark(ctx, event.OrderID); uerr != nil {
			c.Log.Warn("process_order", event.OrderID, "failed to release order marker: "+uerr.Error())
		}
		return err
	}

	telem.SalesEvents.WithLabelValues("recorded").Inc()
	c.Log.Info("process_order", event.OrderID, "sales recorded",
		slog.String("restaurant_id", event.RestaurantID),
		slog.Int("items", len(sales)))
	return nil
}

// itemSales merges repeated lines of the same item so the order counts once
// per item. Lines without an id or quantity are dropped.
func itemSales(items []domain.OrderEventItem) []domain.ItemSale {
	index := make(map[string]int, len(items))
	sales := make([]domain.ItemSale, 0, len(items))
	for _, it := range items {
		if it.MenuItemID == "" || it.Quantity <= 0 {
			continue
		}
		if i, ok := index[it.MenuItemID]; ok {
			sales[i].Quantity += it.Quantity
			continue
		}
		index[it.MenuItemID] = len(sales)
		sales = append(sales, domain.ItemSale{MenuItemID: it.MenuItemID, Quantity: it.Quantity})
	}
	return sales
}
