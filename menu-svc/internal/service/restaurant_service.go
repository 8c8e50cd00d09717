package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"smartmenu/logger"
	"smartmenu/menu-svc/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var maxSurchargeRate = decimal.NewFromInt(10)

type RestaurantService struct {
	repo RestaurantRepository
	qr   QRGenerator
	log  *logger.Logger
}

func NewRestaurantService(repo RestaurantRepository, qr QRGenerator, log *logger.Logger) *RestaurantService {
	if log == nil {
		log = logger.Discard()
	}
	return &RestaurantService{repo: repo, qr: qr, log: log}
}

// validateRestaurant checks the settings a restaurant owner can edit and
// normalizes the delivery tiers into resolution order.
func validateRestaurant(rest *domain.Restaurant) error {
	rest.Name = strings.TrimSpace(rest.Name)
	if rest.Name == "" {
		return domain.ValidationError{Field: "name", Message: "restaurant name is required"}
	}
	if loc := rest.Location; loc != nil {
		if loc.Latitude < -90 || loc.Latitude > 90 || loc.Longitude < -180 || loc.Longitude > 180 {
			return domain.ValidationError{Field: "location", Message: "latitude or longitude is out of range"}
		}
	}
	if err := rest.Delivery.Normalize(); err != nil {
		return domain.ValidationError{Field: "delivery_settings", Message: err.Error()}
	}
	if rest.Surcharge.Rate.IsNegative() || rest.Surcharge.Rate.GreaterThan(maxSurchargeRate) {
		return domain.ValidationError{Field: "card_surcharge", Message: "surcharge rate must be between 0 and 10 percent"}
	}
	rest.GSTNumber = strings.TrimSpace(rest.GSTNumber)
	if rest.GSTRegistered && rest.GSTNumber == "" {
		return domain.ValidationError{Field: "gst_number", Message: "GST number is required when GST registered"}
	}
	if !rest.Services.DineIn && !rest.Services.Pickup && !rest.Services.Delivery {
		return domain.ValidationError{Field: "service_options", Message: "at least one service type must be enabled"}
	}
	return nil
}

func (s *RestaurantService) Create(ctx context.Context, rest *domain.Restaurant) error {
	if err := validateRestaurant(rest); err != nil {
		return err
	}
	if rest.ID == "" {
		rest.ID = uuid.NewString()
	}
	if err := s.repo.CreateRestaurant(ctx, rest); err != nil {
		return fmt.Errorf("create restaurant: %w", err)
	}
	return nil
}

func (s *RestaurantService) List(ctx context.Context) ([]domain.Restaurant, error) {
	return s.repo.ListRestaurants(ctx)
}

func (s *RestaurantService) Get(ctx context.Context, id string) (*domain.Restaurant, error) {
	rest, err := s.repo.GetRestaurant(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRestaurantNotFound
	}
	return rest, err
}

func (s *RestaurantService) Update(ctx context.Context, rest *domain.Restaurant) error {
	if err := validateRestaurant(rest); err != nil {
		return err
	}
	err := s.repo.UpdateRestaurant(ctx, rest)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRestaurantNotFound
	}
	if err != nil {
		return fmt.Errorf("update restaurant: %w", err)
	}
	s.log.Info("restaurant_update", logger.RequestID(ctx), "restaurant settings saved")
	return nil
}

func (s *RestaurantService) Delete(ctx context.Context, id string) error {
	n, err := s.repo.DeleteRestaurant(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRestaurantNotFound
	}
	return nil
}

func (s *RestaurantService) TableQRCode(ctx context.Context, id, table string) ([]byte, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return nil, domain.ValidationError{Field: "table", Message: "table number is required"}
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.qr.Generate(id, table)
}
