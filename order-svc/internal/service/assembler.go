package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"smartmenu/order-svc/internal/delivery"
	"smartmenu/order-svc/internal/domain"
	"smartmenu/order-svc/internal/pricing"

	"github.com/shopspring/decimal"
)

const PickupLeadTime = 30 * time.Minute

var ErrDeliveryUnavailable = errors.New("delivery unavailable")

type AssembleInput struct {
	Cart          *Cart
	Restaurant    domain.Restaurant
	ServiceType   domain.ServiceType
	Customer      domain.CustomerDetails
	Quote         *delivery.Quote
	PaymentMethod string
}

type Assembler struct {
	gstRate decimal.Decimal
	now     func() time.Time
}

func NewAssembler(gstRate decimal.Decimal, now func() time.Time) *Assembler {
	if now == nil {
		now = time.Now
	}
	return &Assembler{gstRate: gstRate, now: now}
}

// Assemble validates the customer fields for the service type and turns
// the cart into an order. The cart is cleared on success.
func (a *Assembler) Assemble(in AssembleInput) (*domain.Order, error) {
	if in.Cart.Empty() {
		return nil, domain.ValidationError{Field: "items", Message: "your cart is empty"}
	}
	if !in.ServiceType.Valid() {
		return nil, domain.ValidationError{Field: "service_type", Message: "please choose dine in, pickup or delivery"}
	}
	if !in.Restaurant.Services.Allows(in.ServiceType) {
		return nil, domain.ValidationError{Field: "service_type", Message: strings.ReplaceAll(string(in.ServiceType), "_", " ") + " is not available at this restaurant"}
	}

	method := in.PaymentMethod
	if method == "" {
		method = domain.PaymentCard
	}
	if method != domain.PaymentCard && method != domain.PaymentCash {
		return nil, domain.ValidationError{Field: "payment_method", Message: "payment method must be card or cash"}
	}

	customer := trimCustomer(in.Customer)
	deliveryFee := decimal.Zero
	var distanceKM *float64

	switch in.ServiceType {
	case domain.ServiceDineIn:
		if customer.TableNo == "" {
			return nil, domain.ValidationError{Field: "table_no", Message: "please enter your table number"}
		}
	case domain.ServicePickup:
		if err := requireContact(customer); err != nil {
			return nil, err
		}
		customer.PickupTime = a.pickupTime(customer.PickupTime)
	case domain.ServiceDelivery:
		if err := requireContact(customer); err != nil {
			return nil, err
		}
		if customer.Address == "" {
			return nil, domain.ValidationError{Field: "address", Message: "please enter your delivery address"}
		}
		if err := checkQuote(in.Quote); err != nil {
			return nil, err
		}
		deliveryFee = *in.Quote.DeliveryFee
		km := in.Quote.DistanceKM
		distanceKM = &km
	}

	subtotal := in.Cart.Subtotal()
	tax := decimal.Zero
	if in.Restaurant.GSTRegistered {
		tax = pricing.GSTInclusiveAmount(subtotal.Add(deliveryFee), a.gstRate)
	}

	items := make([]domain.OrderItem, 0, len(in.Cart.Lines))
	for _, l := range in.Cart.Lines {
		items = append(items, domain.OrderItem{
			MenuItemID:      l.MenuItemID,
			Name:            l.Name,
			Quantity:        l.Quantity,
			UnitPrice:       pricing.Round(l.UnitPrice),
			LineTotal:       pricing.Round(l.LineTotal()),
			SelectedVariant: l.SelectedVariant,
			SelectedAddOns:  l.SelectedAddOns,
			Notes:           l.Notes,
		})
	}

	order := &domain.Order{
		RestaurantID:    in.Restaurant.ID,
		ServiceType:     in.ServiceType,
		Customer:        customer,
		Items:           items,
		Subtotal:        pricing.Round(subtotal),
		DeliveryFee:     pricing.Round(deliveryFee),
		SurchargeAmount: decimal.Zero,
		Tax:             tax,
		Total:           pricing.Round(subtotal.Add(deliveryFee)),
		DeliveryKM:      distanceKM,
		PaymentMethod:   method,
		PaymentStatus:   domain.PaymentPending,
		Status:          domain.StatusPendingPayment,
		CreatedAt:       a.now(),
	}

	in.Cart.Clear()
	return order, nil
}

// pickupTime moves any time earlier than the lead time up to the earliest
// allowed minute.
func (a *Assembler) pickupTime(requested *time.Time) *time.Time {
	floor := a.now().Add(PickupLeadTime)
	earliest := floor.Truncate(time.Minute)
	if earliest.Before(floor) {
		earliest = earliest.Add(time.Minute)
	}
	if requested == nil || requested.Before(floor) {
		return &earliest
	}
	t := *requested
	return &t
}

func checkQuote(q *delivery.Quote) error {
	switch {
	case q == nil:
		return fmt.Errorf("%w: the delivery fee has not been calculated", ErrDeliveryUnavailable)
	case !q.Success:
		msg := q.Error
		if msg == "" {
			msg = "the delivery fee could not be calculated"
		}
		return fmt.Errorf("%w: %s", ErrDeliveryUnavailable, msg)
	case !q.IsWithinRange:
		msg := q.Message
		if msg == "" {
			msg = "this address is outside the delivery range"
		}
		return fmt.Errorf("%w: %s", ErrDeliveryUnavailable, msg)
	case q.DeliveryFee == nil:
		return fmt.Errorf("%w: the delivery fee has not been calculated", ErrDeliveryUnavailable)
	}
	return nil
}

func requireContact(c domain.CustomerDetails) error {
	if c.Name == "" {
		return domain.ValidationError{Field: "name", Message: "please enter your name"}
	}
	if c.Phone == "" {
		return domain.ValidationError{Field: "phone", Message: "please enter your phone number"}
	}
	return nil
}

func trimCustomer(c domain.CustomerDetails) domain.CustomerDetails {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
	c.TableNo = strings.TrimSpace(c.TableNo)
	c.Address = strings.TrimSpace(c.Address)
	c.Notes = strings.TrimSpace(c.Notes)
	return c
}
