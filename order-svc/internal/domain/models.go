package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ServiceType string

const (
	ServiceDineIn   ServiceType = "dine_in"
	ServicePickup   ServiceType = "pickup"
	ServiceDelivery ServiceType = "delivery"
)

func (s ServiceType) Valid() bool {
	switch s {
	case ServiceDineIn, ServicePickup, ServiceDelivery:
		return true
	}
	return false
}

const (
	StatusPendingPayment = "pending_payment"
	PaymentPending       = "pending"

	PaymentCard = "card"
	PaymentCash = "cash"
)

// Prices are kept as the strings the menu was saved with.
type MenuItem struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Price        string    `json:"price"`
	Variants     []Variant `json:"variants"`
	AddOns       []AddOn   `json:"addons"`
	Available    bool      `json:"available"`
}

type Variant struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

type AddOn struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type ServiceOptions struct {
	DineIn   bool `json:"dine_in"`
	Pickup   bool `json:"pickup"`
	Delivery bool `json:"delivery"`
}

func (o ServiceOptions) Allows(s ServiceType) bool {
	switch s {
	case ServiceDineIn:
		return o.DineIn
	case ServicePickup:
		return o.Pickup
	case ServiceDelivery:
		return o.Delivery
	}
	return false
}

type SurchargeSettings struct {
	Enabled bool            `json:"enabled"`
	Rate    decimal.Decimal `json:"rate"`
}

// Restaurant is the order-side view of a restaurant row: only the fields
// that affect pricing.
type Restaurant struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Address       string            `json:"address"`
	Location      *Coordinates      `json:"location,omitempty"`
	Delivery      DeliveryConfig    `json:"delivery_settings"`
	Services      ServiceOptions    `json:"service_options"`
	GSTRegistered bool              `json:"gst_registered"`
	GSTNumber     string            `json:"gst_number,omitempty"`
	Surcharge     SurchargeSettings `json:"card_surcharge"`
}

type CustomerDetails struct {
	Name       string       `json:"name,omitempty"`
	Phone      string       `json:"phone,omitempty"`
	Email      string       `json:"email,omitempty"`
	TableNo    string       `json:"table_no,omitempty"`
	PickupTime *time.Time   `json:"pickup_time,omitempty"`
	Address    string       `json:"address,omitempty"`
	Location   *Coordinates `json:"location,omitempty"`
	Notes      string       `json:"notes,omitempty"`
}

type OrderItem struct {
	MenuItemID      string          `json:"menu_item_id"`
	Name            string          `json:"name"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	LineTotal       decimal.Decimal `json:"line_total"`
	SelectedVariant string          `json:"selected_variant,omitempty"`
	SelectedAddOns  []string        `json:"selected_addons,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

type Order struct {
	ID              string          `json:"id"`
	RestaurantID    string          `json:"restaurant_id"`
	ServiceType     ServiceType     `json:"service_type"`
	Customer        CustomerDetails `json:"customer_details"`
	Items           []OrderItem     `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee"`
	SurchargeAmount decimal.Decimal `json:"surcharge_amount"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
	DeliveryKM      *float64        `json:"delivery_distance_km,omitempty"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentStatus   string          `json:"payment_status"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Payment is the chargeable amount computed when the customer picks a
// payment method. The order row itself is never rewritten.
type Payment struct {
	ID              string          `json:"id"`
	OrderID         string          `json:"order_id"`
	Method          string          `json:"payment_method"`
	OrderTotal      decimal.Decimal `json:"order_total"`
	SurchargeRate   decimal.Decimal `json:"surcharge_rate"`
	SurchargeAmount decimal.Decimal `json:"surcharge_amount"`
	Chargeable      decimal.Decimal `json:"chargeable_amount"`
	Currency        string          `json:"currency"`
	IntentID        string          `json:"payment_intent_id,omitempty"`
	ClientSecret    string          `json:"client_secret,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

type OrderEvent struct {
	Type         string           `json:"type"`
	OrderID      string           `json:"order_id"`
	RestaurantID string           `json:"restaurant_id"`
	ServiceType  ServiceType      `json:"service_type"`
	Items        []OrderEventItem `json:"items"`
	Total        decimal.Decimal  `json:"total"`
	Timestamp    time.Time        `json:"timestamp"`
}

type OrderEventItem struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
}
