package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"smartmenu/menu-svc/internal/domain"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

const restaurantColumns = `id, name, COALESCE(address, ''), COALESCE(description, ''), latitude, longitude,
	delivery_settings, service_options, gst_registered, COALESCE(gst_number, ''),
	card_surcharge_enabled, card_surcharge_rate, created_at`

func scanRestaurant(row rowScanner) (*domain.Restaurant, error) {
	var (
		rest                      domain.Restaurant
		lat, lng                  sql.NullFloat64
		deliveryJSON, optionsJSON []byte
	)
	if err := row.Scan(&rest.ID, &rest.Name, &rest.Address, &rest.Description, &lat, &lng,
		&deliveryJSON, &optionsJSON, &rest.GSTRegistered, &rest.GSTNumber,
		&rest.Surcharge.Enabled, &rest.Surcharge.Rate, &rest.CreatedAt); err != nil {
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
	rest.Services = domain.AllServices()
	if len(optionsJSON) > 0 {
		if err := json.Unmarshal(optionsJSON, &rest.Services); err != nil {
			return nil, fmt.Errorf("decode service_options: %w", err)
		}
	}
	return &rest, nil
}

func restaurantArgs(rest *domain.Restaurant) ([]interface{}, error) {
	deliveryJSON, err := json.Marshal(rest.Delivery)
	if err != nil {
		return nil, err
	}
	optionsJSON, err := json.Marshal(rest.Services)
	if err != nil {
		return nil, err
	}
	var lat, lng sql.NullFloat64
	if rest.Location != nil {
		lat = sql.NullFloat64{Float64: rest.Location.Latitude, Valid: true}
		lng = sql.NullFloat64{Float64: rest.Location.Longitude, Valid: true}
	}
	return []interface{}{rest.ID, rest.Name, rest.Address, rest.Description, lat, lng,
		deliveryJSON, optionsJSON, rest.GSTRegistered, rest.GSTNumber,
		rest.Surcharge.Enabled, rest.Surcharge.Rate}, nil
}

func (r *PostgresRepository) CreateRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	args, err := restaurantArgs(rest)
	if err != nil {
		return err
	}
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO restaurants (id, name, address, description, latitude, longitude,
			delivery_settings, service_options, gst_registered, gst_number,
			card_surcharge_enabled, card_surcharge_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at`, args...).Scan(&rest.CreatedAt)
}

func (r *PostgresRepository) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+restaurantColumns+` FROM restaurants ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var restaurants []domain.Restaurant
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, *rest)
	}
	return restaurants, rows.Err()
}

func (r *PostgresRepository) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	return scanRestaurant(r.DB.QueryRowContext(ctx, `SELECT `+restaurantColumns+` FROM restaurants WHERE id = $1`, id))
}

// UpdateRestaurant overwrites every settings column. It returns
// sql.ErrNoRows when the restaurant does not exist.
func (r *PostgresRepository) UpdateRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	args, err := restaurantArgs(rest)
	if err != nil {
		return err
	}
	return r.DB.QueryRowContext(ctx, `
		UPDATE restaurants SET name = $2, address = $3, description = $4, latitude = $5, longitude = $6,
			delivery_settings = $7, service_options = $8, gst_registered = $9, gst_number = $10,
			card_surcharge_enabled = $11, card_surcharge_rate = $12
		WHERE id = $1
		RETURNING created_at`, args...).Scan(&rest.CreatedAt)
}

func (r *PostgresRepository) DeleteRestaurant(ctx context.Context, id string) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM restaurants WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const menuItemColumns = `id, restaurant_id, name, COALESCE(description, ''), COALESCE(category, ''),
	COALESCE(name_en, ''), COALESCE(description_en, ''), COALESCE(category_en, ''), price,
	COALESCE(variants, '[]'), COALESCE(addons, '[]'), is_available, is_pinned, created_at, updated_at`

func scanMenuItem(row rowScanner) (*domain.MenuItem, error) {
	var (
		item                     domain.MenuItem
		variantsJSON, addOnsJSON []byte
	)
	if err := row.Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Description, &item.Category,
		&item.NameEn, &item.DescriptionEn, &item.CategoryEn, &item.Price,
		&variantsJSON, &addOnsJSON, &item.Available, &item.Pinned, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(variantsJSON, &item.Variants); err != nil {
		return nil, fmt.Errorf("decode variants of %s: %w", item.ID, err)
	}
	if err := json.Unmarshal(addOnsJSON, &item.AddOns); err != nil {
		return nil, fmt.Errorf("decode addons of %s: %w", item.ID, err)
	}
	return &item, nil
}

func optionsJSON(opts []domain.Option) ([]byte, error) {
	if opts == nil {
		opts = []domain.Option{}
	}
	return json.Marshal(opts)
}

func (r *PostgresRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	variants, err := optionsJSON(item.Variants)
	if err != nil {
		return err
	}
	addOns, err := optionsJSON(item.AddOns)
	if err != nil {
		return err
	}
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO menu_items (id, restaurant_id, name, description, category,
			name_en, description_en, category_en, price, variants, addons, is_available, is_pinned)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`,
		item.ID, item.RestaurantID, item.Name, item.Description, item.Category,
		item.NameEn, item.DescriptionEn, item.CategoryEn, item.Price, variants, addOns, item.Available, item.Pinned).
		Scan(&item.CreatedAt, &item.UpdatedAt)
}

func (r *PostgresRepository) ListMenuItems(ctx context.Context, restaurantID string, availableOnly bool) ([]domain.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE restaurant_id = $1`
	if availableOnly {
		query += ` AND is_available`
	}
	query += ` ORDER BY category, created_at`

	rows, err := r.DB.QueryContext(ctx, query, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) GetMenuItem(ctx context.Context, restaurantID, id string) (*domain.MenuItem, error) {
	return scanMenuItem(r.DB.QueryRowContext(ctx,
		`SELECT `+menuItemColumns+` FROM menu_items WHERE id = $1 AND restaurant_id = $2`, id, restaurantID))
}

func (r *PostgresRepository) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	variants, err := optionsJSON(item.Variants)
	if err != nil {
		return err
	}
	addOns, err := optionsJSON(item.AddOns)
	if err != nil {
		return err
	}
	return r.DB.QueryRowContext(ctx, `
		UPDATE menu_items SET name = $3, description = $4, category = $5,
			name_en = $6, description_en = $7, category_en = $8, price = $9,
			variants = $10, addons = $11, is_available = $12, is_pinned = $13, updated_at = NOW()
		WHERE id = $1 AND restaurant_id = $2
		RETURNING created_at, updated_at`,
		item.ID, item.RestaurantID, item.Name, item.Description, item.Category,
		item.NameEn, item.DescriptionEn, item.CategoryEn, item.Price, variants, addOns, item.Available, item.Pinned).
		Scan(&item.CreatedAt, &item.UpdatedAt)
}

func (r *PostgresRepository) DeleteMenuItem(ctx context.Context, restaurantID, id string) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1 AND restaurant_id = $2`, id, restaurantID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) GetByLanguage(ctx context.Context, restaurantID, languageCode string) (map[string]domain.TranslationRecord, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT menu_id, language_code, translated_name, COALESCE(translated_description, ''),
			COALESCE(translated_category, ''), translated_variants, translated_addons, source_hash, updated_at
		FROM menu_translations
		WHERE restaurant_id = $1 AND language_code = $2`, restaurantID, languageCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make(map[string]domain.TranslationRecord)
	for rows.Next() {
		var rec domain.TranslationRecord
		if err := rows.Scan(&rec.MenuItemID, &rec.LanguageCode, &rec.Name, &rec.Description, &rec.Category,
			pq.Array(&rec.Variants), pq.Array(&rec.AddOns), &rec.SourceHash, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		records[rec.MenuItemID] = rec
	}
	return records, rows.Err()
}

// UpsertMany writes all records in one transaction, replacing any row for
// the same (restaurant, item, language).
func (r *PostgresRepository) UpsertMany(ctx context.Context, restaurantID, languageCode string, records []domain.TranslationRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO menu_translations (restaurant_id, menu_id, language_code, translated_name,
			translated_description, translated_category, translated_variants, translated_addons, source_hash, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (restaurant_id, menu_id, language_code) DO UPDATE SET
			translated_name = EXCLUDED.translated_name,
			translated_description = EXCLUDED.translated_description,
			translated_category = EXCLUDED.translated_category,
			translated_variants = EXCLUDED.translated_variants,
			translated_addons = EXCLUDED.translated_addons,
			source_hash = EXCLUDED.source_hash,
			updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, restaurantID, rec.MenuItemID, languageCode, rec.Name,
			rec.Description, rec.Category, pq.Array(rec.Variants), pq.Array(rec.AddOns), rec.SourceHash, rec.UpdatedAt); err != nil {
			return fmt.Errorf("upsert translation of %s: %w", rec.MenuItemID, err)
		}
	}
	return tx.Commit()
}

func (r *PostgresRepository) DeleteByItem(ctx context.Context, restaurantID, menuItemID string) (int64, error) {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM menu_translations WHERE restaurant_id = $1 AND menu_id = $2`, restaurantID, menuItemID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ClearRestaurant removes the restaurant's translations in one language,
// or in every language when languageCode is empty.
func (r *PostgresRepository) ClearRestaurant(ctx context.Context, restaurantID, languageCode string) (int64, error) {
	query := `DELETE FROM menu_translations WHERE restaurant_id = $1`
	args := []interface{}{restaurantID}
	if languageCode != "" {
		query += ` AND language_code = $2`
		args = append(args, languageCode)
	}
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS restaurants (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			address TEXT,
			description TEXT,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			delivery_settings JSONB,
			service_options JSONB,
			gst_registered BOOLEAN NOT NULL DEFAULT FALSE,
			gst_number TEXT,
			card_surcharge_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			card_surcharge_rate NUMERIC(5,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS menu_items (
			id UUID PRIMARY KEY,
			restaurant_id UUID NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			description TEXT,
			category TEXT,
			name_en TEXT,
			description_en TEXT,
			category_en TEXT,
			price TEXT NOT NULL,
			variants JSONB NOT NULL DEFAULT '[]',
			addons JSONB NOT NULL DEFAULT '[]',
			is_available BOOLEAN NOT NULL DEFAULT TRUE,
			is_pinned BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS menu_items_restaurant_idx ON menu_items (restaurant_id)`,
		`CREATE TABLE IF NOT EXISTS menu_translations (
			restaurant_id UUID NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
			menu_id UUID NOT NULL REFERENCES menu_items(id) ON DELETE CASCADE,
			language_code TEXT NOT NULL,
			translated_name TEXT NOT NULL,
			translated_description TEXT,
			translated_category TEXT,
			translated_variants TEXT[] NOT NULL DEFAULT '{}',
			translated_addons TEXT[] NOT NULL DEFAULT '{}',
			source_hash TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (restaurant_id, menu_id, language_code)
		)`,
	}
	for _, stmt := range statements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}
