package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type ServiceOptions struct {
	DineIn   bool `json:"dine_in"`
	Pickup   bool `json:"pickup"`
	Delivery bool `json:"delivery"`
}

func AllServices() ServiceOptions {
	return ServiceOptions{DineIn: true, Pickup: true, Delivery: true}
}

type SurchargeSettings struct {
	Enabled bool            `json:"enabled"`
	Rate    decimal.Decimal `json:"rate"`
}

type Restaurant struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Address       string            `json:"address"`
	Description   string            `json:"description"`
	Location      *Coordinates      `json:"location,omitempty"`
	Delivery      DeliveryConfig    `json:"delivery_settings"`
	Services      ServiceOptions    `json:"service_options"`
	GSTRegistered bool              `json:"gst_registered"`
	GSTNumber     string            `json:"gst_number,omitempty"`
	Surcharge     SurchargeSettings `json:"card_surcharge"`
	CreatedAt     time.Time         `json:"created_at"`
}

// Option is a variant (e.g. meat choice) or an add-on of a menu item.
// NameEn is the owner-entered English label. OriginalName is only set on
// translated menus; orders must reference options by it.
type Option struct {
	Name         string `json:"name"`
	NameEn       string `json:"name_en,omitempty"`
	Price        string `json:"price"`
	OriginalName string `json:"original_name,omitempty"`
}

type MenuItem struct {
	ID            string    `json:"id"`
	RestaurantID  string    `json:"restaurant_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	NameEn        string    `json:"name_en,omitempty"`
	DescriptionEn string    `json:"description_en,omitempty"`
	CategoryEn    string    `json:"category_en,omitempty"`
	Price         string    `json:"price"`
	Variants      []Option  `json:"variants"`
	AddOns        []Option  `json:"addons"`
	Available     bool      `json:"available"`
	Pinned        bool      `json:"is_best_seller"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TranslatedItem is a menu item with its display fields replaced by a
// translation. The kitchen keeps working from the original name.
type TranslatedItem struct {
	MenuItem
	OriginalName        string `json:"original_name"`
	OriginalDescription string `json:"original_description"`
}

// TranslationRecord is one cached translation of a menu item.
type TranslationRecord struct {
	MenuItemID   string    `json:"menu_id"`
	LanguageCode string    `json:"language_code"`
	Name         string    `json:"translated_name"`
	Description  string    `json:"translated_description"`
	Category     string    `json:"translated_category"`
	Variants     []string  `json:"translated_variants"`
	AddOns       []string  `json:"translated_addons"`
	SourceHash   string    `json:"source_hash"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type BestSeller struct {
	Rank          int    `json:"rank"`
	MenuItemID    string `json:"menu_id"`
	Name          string `json:"name"`
	NameEn        string `json:"name_en,omitempty"`
	Category      string `json:"category"`
	Price         string `json:"price"`
	TotalQuantity int64  `json:"total_quantity"`
	OrderCount    int64  `json:"order_count"`
	Pinned        bool   `json:"is_pinned"`
}

// SalesStat is the aggregated sales of one item over a window.
type SalesStat struct {
	Quantity   int64
	OrderCount int64
}
