package pricing

import (
	"errors"
	"testing"

	"smartmenu/order-svc/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "12.50", want: "12.5"},
		{in: " $4 ", want: "4"},
		{in: "", want: "0"},
		{in: "abc", want: "0"},
		{in: "-3", want: "0"},
		{in: "NaN", want: "0"},
	}

	for _, testCase := range tests {
		t.Run(testCase.in, func(t *testing.T) {
			assert.True(t, dec(testCase.want).Equal(ParsePrice(testCase.in)), "got %s", ParsePrice(testCase.in))
		})
	}
}

func TestUnitPrice(t *testing.T) {
	padThai := domain.MenuItem{
		ID:    "m1",
		Name:  "Pad Thai",
		Price: "18.00",
		Variants: []domain.Variant{
			{Name: "Chicken", Price: "0"},
			{Name: "Tofu", Price: "free"},
			{Name: "Prawn", Price: "4.50"},
			{Name: "Beef", Price: "oops"},
		},
		AddOns: []domain.AddOn{
			{Name: "Egg", Price: "2"},
			{Name: "Extra rice", Price: "0"},
		},
	}

	tests := []struct {
		name    string
		item    domain.MenuItem
		variant string
		addOns  []string
		want    string
		wantErr error
	}{
		{name: "zero sentinel variant", item: padThai, variant: "Chicken", want: "18"},
		{name: "free sentinel variant", item: padThai, variant: "Tofu", want: "18"},
		{name: "paid variant with add-ons", item: padThai, variant: "Prawn", addOns: []string{"Egg", "Extra rice"}, want: "24.5"},
		{name: "unparsable variant price is zero", item: padThai, variant: "Beef", want: "18"},
		{name: "unknown add-on ignored", item: padThai, variant: "Chicken", addOns: []string{"Cheese"}, want: "18"},
		{name: "variant required", item: padThai, wantErr: ErrVariantRequired},
		{name: "no variants", item: domain.MenuItem{Price: "9.90", AddOns: padThai.AddOns}, addOns: []string{"Egg"}, want: "11.9"},
		{name: "malformed base", item: domain.MenuItem{Price: "n/a"}, want: "0"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got, err := UnitPrice(testCase.item, testCase.variant, testCase.addOns)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, dec(testCase.want).Equal(got), "got %s", got)
		})
	}
}

func TestUnitPrice_UnknownVariant(t *testing.T) {
	item := domain.MenuItem{Name: "Curry", Price: "15", Variants: []domain.Variant{{Name: "Chicken", Price: "0"}}}

	_, err := UnitPrice(item, "Duck", nil)

	var verr domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "selected_variant", verr.Field)
}

type line struct{ unit, qty decimal.Decimal }

func (l line) LineTotal() decimal.Decimal { return l.unit.Mul(l.qty) }

func TestSubtotal_NoIntermediateRounding(t *testing.T) {
	lines := []line{
		{unit: dec("0.333"), qty: decimal.NewFromInt(3)},
		{unit: dec("10.005"), qty: decimal.NewFromInt(1)},
	}

	got := Subtotal(lines)

	assert.Equal(t, "11.004", got.String())
	assert.Equal(t, "11.00", Round(got).StringFixed(2))
}

func TestGSTInclusiveAmount(t *testing.T) {
	tests := []struct {
		total string
		want  string
	}{
		{total: "115.00", want: "15"},
		{total: "23", want: "3"},
		{total: "10", want: "1.3"},
		{total: "0", want: "0"},
		{total: "-5", want: "0"},
	}

	for _, testCase := range tests {
		t.Run(testCase.total, func(t *testing.T) {
			got := GSTInclusiveAmount(dec(testCase.total), DefaultGSTRate)
			assert.True(t, dec(testCase.want).Equal(got), "got %s", got)
		})
	}
}

func TestGSTInclusiveAmount_MatchesThreeTwentyThirds(t *testing.T) {
	for cents := int64(0); cents <= 50000; cents += 7 {
		total := decimal.New(cents, -2)
		exact := total.Mul(decimal.NewFromInt(3)).Div(decimal.NewFromInt(23))
		diff := GSTInclusiveAmount(total, DefaultGSTRate).Sub(exact).Abs()
		require.True(t, diff.LessThanOrEqual(dec("0.01")), "total %s diff %s", total, diff)
	}
}

func TestCardSurchargeAmount(t *testing.T) {
	assert.Equal(t, "1.25", CardSurchargeAmount(dec("50"), dec("2.5")).StringFixed(2))
	assert.Equal(t, "0.26", CardSurchargeAmount(dec("10.25"), dec("2.5")).StringFixed(2))
	assert.True(t, CardSurchargeAmount(dec("50"), decimal.Zero).IsZero())
	assert.True(t, CardSurchargeAmount(decimal.Zero, dec("2.5")).IsZero())
}
