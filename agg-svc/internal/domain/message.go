package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const EventOrderCreated = "order_created"

// OrderEvent is published by order-svc on the orders topic once an order
// is persisted.
type OrderEvent struct {
	Type         string           `json:"type"`
	OrderID      string           `json:"order_id"`
	RestaurantID string           `json:"restaurant_id"`
	ServiceType  string           `json:"service_type"`
	Items        []OrderEventItem `json:"items"`
	Total        decimal.Decimal  `json:"total"`
	Timestamp    time.Time        `json:"timestamp"`
}

type OrderEventItem struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
}

// ItemSale is one menu item's contribution from a single order.
type ItemSale struct {
	MenuItemID string
	Quantity   int
}
