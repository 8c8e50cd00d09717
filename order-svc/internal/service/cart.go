package service

import (
	"smartmenu/order-svc/internal/domain"
	"smartmenu/order-svc/internal/pricing"

	"github.com/shopspring/decimal"
)

type CartLine struct {
	MenuItemID      string          `json:"menu_item_id"`
	Name            string          `json:"name"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Quantity        int             `json:"quantity"`
	Notes           string          `json:"notes,omitempty"`
	SelectedVariant string          `json:"selected_variant,omitempty"`
	SelectedAddOns  []string        `json:"selected_addons,omitempty"`
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is a customer's basket for one restaurant. It is owned by the
// caller and handed to the Assembler by pointer.
type Cart struct {
	RestaurantID string     `json:"restaurant_id"`
	Lines        []CartLine `json:"lines"`
}

func NewCart(restaurantID string) *Cart {
	return &Cart{RestaurantID: restaurantID}
}

var (
	errQuantity  = domain.ValidationError{Field: "quantity", Message: "quantity must be at least 1"}
	errCartIndex = domain.ValidationError{Field: "items", Message: "cart item not found"}
)

// Add prices the item with the chosen options and appends a line.
func (c *Cart) Add(item domain.MenuItem, variant string, addOns []string, notes string, quantity int) error {
	if quantity < 1 {
		return errQuantity
	}
	unit, err := pricing.UnitPrice(item, variant, addOns)
	if err != nil {
		return err
	}
	c.Lines = append(c.Lines, CartLine{
		MenuItemID:      item.ID,
		Name:            item.Name,
		UnitPrice:       unit,
		Quantity:        quantity,
		Notes:           notes,
		SelectedVariant: variant,
		SelectedAddOns:  append([]string(nil), addOns...),
	})
	return nil
}

// UpdateQuantity changes a line by delta. Quantity never drops below 1;
// use Remove to delete a line.
func (c *Cart) UpdateQuantity(index, delta int) error {
	if index < 0 || index >= len(c.Lines) {
		return errCartIndex
	}
	q := c.Lines[index].Quantity + delta
	if q < 1 {
		q = 1
	}
	c.Lines[index].Quantity = q
	return nil
}

func (c *Cart) Remove(index int) error {
	if index < 0 || index >= len(c.Lines) {
		return errCartIndex
	}
	c.Lines = append(c.Lines[:index], c.Lines[index+1:]...)
	return nil
}

func (c *Cart) Clear() {
	c.Lines = nil
}

func (c *Cart) Empty() bool {
	return c == nil || len(c.Lines) == 0
}

func (c *Cart) Subtotal() decimal.Decimal {
	return pricing.Subtotal(c.Lines)
}
