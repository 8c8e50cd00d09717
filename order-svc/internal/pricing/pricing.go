// Package pricing holds the money rules: menu item prices, GST extraction
// and the card surcharge. Values are accumulated unrounded and rounded to
// cents with Round when they leave the package.
package pricing

import (
	"strings"

	"smartmenu/order-svc/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	DefaultGSTRate = decimal.RequireFromString("0.15")

	hundred = decimal.NewFromInt(100)
)

// ParsePrice reads a stored price string. Malformed or negative input is
// priced at zero.
func ParsePrice(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func isFreeVariant(price string) bool {
	p := strings.ToLower(strings.TrimSpace(price))
	return p == "0" || p == "free"
}

// ErrVariantRequired is returned when an item with variants is added
// without choosing one.
var ErrVariantRequired = domain.ValidationError{Field: "selected_variant", Message: "please select a meat option"}

// UnitPrice is the base price plus the selected variant surcharge and every
// selected add-on. Add-on names not offered by the item are ignored.
func UnitPrice(item domain.MenuItem, variant string, addOns []string) (decimal.Decimal, error) {
	price := ParsePrice(item.Price)

	if len(item.Variants) > 0 {
		if variant == "" {
			return decimal.Zero, ErrVariantRequired
		}
		found := false
		for _, v := range item.Variants {
			if v.Name != variant {
				continue
			}
			found = true
			if !isFreeVariant(v.Price) {
				price = price.Add(ParsePrice(v.Price))
			}
			break
		}
		if !found {
			return decimal.Zero, domain.ValidationError{
				Field:   "selected_variant",
				Message: "option " + variant + " is not available for " + item.Name,
			}
		}
	}

	for _, name := range addOns {
		for _, a := range item.AddOns {
			if a.Name == name {
				price = price.Add(ParsePrice(a.Price))
				break
			}
		}
	}

	return price, nil
}

type Line interface {
	LineTotal() decimal.Decimal
}

func Subtotal[L Line](lines []L) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// GSTInclusiveAmount extracts the tax already contained in a tax-inclusive
// total: total*rate/(1+rate). At 15% that is total*3/23.
func GSTInclusiveAmount(total, rate decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() || !rate.IsPositive() {
		return decimal.Zero
	}
	return Round(total.Mul(rate).Div(decimal.NewFromInt(1).Add(rate)))
}

// CardSurchargeAmount is ratePercent of total, e.g. 2.5 for 2.5%.
func CardSurchargeAmount(total, ratePercent decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() || !ratePercent.IsPositive() {
		return decimal.Zero
	}
	return Round(total.Mul(ratePercent).Div(hundred))
}

// Round rounds half away from zero to cents, which is half-up for the
// non-negative amounts handled here.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
