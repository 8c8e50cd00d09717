package tests

import (
	"bytes"
	"testing"
	"time"

	"smartmenu/order-svc/internal/domain"
	"smartmenu/order-svc/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFReceiptRenderer_Render(t *testing.T) {
	km := 7.0
	order := &domain.Order{
		ID:           "o-1",
		RestaurantID: "rest-1",
		ServiceType:  domain.ServiceDelivery,
		Customer:     domain.CustomerDetails{Name: "Zoë", Phone: "021555", Address: "1 Queen Street"},
		Items: []domain.OrderItem{
			{Name: "Pad Thai", Quantity: 2, UnitPrice: decimal.RequireFromString("23.50"), LineTotal: decimal.RequireFromString("47.00"), SelectedVariant: "Prawn", SelectedAddOns: []string{"Egg"}},
			{Name: "Spring Rolls", Quantity: 1, UnitPrice: decimal.RequireFromString("9.00"), LineTotal: decimal.RequireFromString("9.00")},
		},
		Subtotal:    decimal.RequireFromString("56.00"),
		DeliveryFee: decimal.RequireFromString("6.00"),
		Tax:         decimal.RequireFromString("8.09"),
		Total:       decimal.RequireFromString("62.00"),
		DeliveryKM:  &km,
		CreatedAt:   time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name       string
		registered bool
	}{
		{name: "tax invoice", registered: true},
		{name: "plain receipt", registered: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			rest := testRestaurant()
			rest.GSTRegistered = testCase.registered

			pdf, err := service.PDFReceiptRenderer{}.Render(order, &rest)

			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
		})
	}
}
