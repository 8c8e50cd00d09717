package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"smartmenu/order-svc/internal/domain"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

const restaurantColumns = `id, name, COALESCE(address, ''), latitude, longitude,
	delivery_settings, service_options, gst_registered, COALESCE(gst_number, ''),
	card_surcharge_enabled, card_surcharge_rate`

func (r *PostgresRepository) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	var (
		rest            domain.Restaurant
		lat, lng        sql.NullFloat64
		deliveryJSON    []byte
		serviceOptsJSON []byte
	)
	err := r.DB.QueryRowContext(ctx, `SELECT `+restaurantColumns+` FROM restaurants WHERE id = $1`, id).
		Scan(&rest.ID, &rest.Name, &rest.Address, &lat, &lng,
			&deliveryJSON, &serviceOptsJSON, &rest.GSTRegistered, &rest.GSTNumber,
			&rest.Surcharge.Enabled, &rest.Surcharge.Rate)
	if err != nil {
		return nil, err
	}

	if lat.Valid && lng.Valid {
		rest.Location = &domain.Coordinates{Latitude: lat.Float64, Longitude: lng.Float64}
	}

	rest.Delivery = domain.DefaultDeliveryConfig()
	if len(deliveryJSON) > 0 {
		if err := json.Unmarshal(deliveryJSON, &rest.Delivery); err != nil {
			return nil, fmt.Errorf("decode delivery_settings: %w", err)
		}
	}

	rest.Services = domain.ServiceOptions{DineIn: true, Pickup: true, Delivery: true}
	if len(serviceOptsJSON) > 0 {
		if err := json.Unmarshal(serviceOptsJSON, &rest.Services); err != nil {
			return nil, fmt.Errorf("decode service_options: %w", err)
		}
	}

	return &rest, nil
}

func (r *PostgresRepository) GetMenuItems(ctx context.Context, restaurantID string, ids []string) (map[string]domain.MenuItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, restaurant_id, name, COALESCE(description, ''), COALESCE(category, ''), price,
			COALESCE(variants, '[]'), COALESCE(addons, '[]'), is_available
		FROM menu_items
		WHERE restaurant_id = $1 AND id = ANY($2)`, restaurantID, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[string]domain.MenuItem, len(ids))
	for rows.Next() {
		var (
			item                   domain.MenuItem
			variantsJSON, addsJSON []byte
		)
		if err := rows.Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Description, &item.Category, &item.Price,
			&variantsJSON, &addsJSON, &item.Available); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(variantsJSON, &item.Variants); err != nil {
			return nil, fmt.Errorf("decode variants of %s: %w", item.ID, err)
		}
		if err := json.Unmarshal(addsJSON, &item.AddOns); err != nil {
			return nil, fmt.Errorf("decode addons of %s: %w", item.ID, err)
		}
		items[item.ID] = item
	}
	return items, rows.Err()
}

func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	customer, err := json.Marshal(order.Customer)
	if err != nil {
		return err
	}
	items, err := json.Marshal(order.Items)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO orders (id, restaurant_id, service_type, customer_details, items,
			subtotal, delivery_fee, surcharge_amount, tax, total, delivery_distance_km,
			payment_method, payment_status, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		order.ID, order.RestaurantID, string(order.ServiceType), customer, items,
		order.Subtotal, order.DeliveryFee, order.SurchargeAmount, order.Tax, order.Total, order.DeliveryKM,
		order.PaymentMethod, order.PaymentStatus, order.Status, order.CreatedAt)
	return err
}

const orderColumns = `id, restaurant_id, service_type, customer_details, items,
	subtotal, delivery_fee, surcharge_amount, tax, total, delivery_distance_km,
	payment_method, payment_status, status, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order                   domain.Order
		serviceType             string
		customerJSON, itemsJSON []byte
		distance                sql.NullFloat64
	)
	if err := row.Scan(&order.ID, &order.RestaurantID, &serviceType, &customerJSON, &itemsJSON,
		&order.Subtotal, &order.DeliveryFee, &order.SurchargeAmount, &order.Tax, &order.Total, &distance,
		&order.PaymentMethod, &order.PaymentStatus, &order.Status, &order.CreatedAt); err != nil {
		return nil, err
	}
	order.ServiceType = domain.ServiceType(serviceType)
	if distance.Valid {
		km := distance.Float64
		order.DeliveryKM = &km
	}
	if err := json.Unmarshal(customerJSON, &order.Customer); err != nil {
		return nil, fmt.Errorf("decode customer_details: %w", err)
	}
	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return &order, nil
}

func (r *PostgresRepository) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return scanOrder(r.DB.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
}

func (r *PostgresRepository) ListOrders(ctx context.Context, restaurantID string, statuses []string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE restaurant_id = $1`
	args := []interface{}{restaurantID}
	if len(statuses) > 0 {
		query += ` AND status = ANY($2)`
		args = append(args, pq.Array(statuses))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) CreatePayment(ctx context.Context, p *domain.Payment) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO payments (id, order_id, method, order_total, surcharge_rate, surcharge_amount,
			chargeable_amount, currency, payment_intent_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10)`,
		p.ID, p.OrderID, p.Method, p.OrderTotal, p.SurchargeRate, p.SurchargeAmount,
		p.Chargeable, p.Currency, p.IntentID, p.CreatedAt)
	return err
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			restaurant_id UUID NOT NULL,
			service_type TEXT NOT NULL,
			customer_details JSONB NOT NULL,
			items JSONB NOT NULL,
			subtotal NUMERIC(10,2) NOT NULL,
			delivery_fee NUMERIC(10,2) NOT NULL DEFAULT 0,
			surcharge_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			tax NUMERIC(10,2) NOT NULL DEFAULT 0,
			total NUMERIC(10,2) NOT NULL,
			delivery_distance_km DOUBLE PRECISION,
			payment_method TEXT NOT NULL DEFAULT 'card',
			payment_status TEXT NOT NULL DEFAULT 'pending',
			status TEXT NOT NULL DEFAULT 'pending_payment',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS orders_restaurant_created_idx ON orders (restaurant_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id),
			method TEXT NOT NULL,
			order_total NUMERIC(10,2) NOT NULL,
			surcharge_rate NUMERIC(5,2) NOT NULL DEFAULT 0,
			surcharge_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			chargeable_amount NUMERIC(10,2) NOT NULL,
			currency TEXT NOT NULL,
			payment_intent_id TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range statements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}
