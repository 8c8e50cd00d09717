package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"smartmenu/logger"
	"smartmenu/menu-svc/internal/domain"
	"smartmenu/menu-svc/internal/translation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MenuService struct {
	restaurants  RestaurantRepository
	repo         MenuRepository
	translations TranslationStore
	translator   MenuTranslator
	log          *logger.Logger
}

func NewMenuService(restaurants RestaurantRepository, repo MenuRepository, translations TranslationStore, translator MenuTranslator, log *logger.Logger) *MenuService {
	if log == nil {
		log = logger.Discard()
	}
	return &MenuService{
		restaurants:  restaurants,
		repo:         repo,
		translations: translations,
		translator:   translator,
		log:          log,
	}
}

func validPrice(s string) bool {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	return err == nil && !d.IsNegative()
}

func validateMenuItem(item *domain.MenuItem) error {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return domain.ValidationError{Field: "name", Message: "item name is required"}
	}
	item.Price = strings.TrimSpace(item.Price)
	if !validPrice(item.Price) {
		return domain.ValidationError{Field: "price", Message: "price must be a number of at least 0"}
	}
	for i := range item.Variants {
		v := &item.Variants[i]
		v.Name = strings.TrimSpace(v.Name)
		if v.Name == "" {
			return domain.ValidationError{Field: "variants", Message: fmt.Sprintf("option %d needs a name", i+1)}
		}
		// "free" and "0" are both zero-cost variants.
		if !strings.EqualFold(v.Price, "free") && !validPrice(v.Price) {
			return domain.ValidationError{Field: "variants", Message: fmt.Sprintf("option %q has an invalid price", v.Name)}
		}
	}
	for i := range item.AddOns {
		a := &item.AddOns[i]
		a.Name = strings.TrimSpace(a.Name)
		if a.Name == "" {
			return domain.ValidationError{Field: "addons", Message: fmt.Sprintf("add-on %d needs a name", i+1)}
		}
		if !validPrice(a.Price) {
			return domain.ValidationError{Field: "addons", Message: fmt.Sprintf("add-on %q has an invalid price", a.Name)}
		}
	}
	return nil
}

func (s *MenuService) ensureRestaurant(ctx context.Context, id string) error {
	_, err := s.restaurants.GetRestaurant(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRestaurantNotFound
	}
	return err
}

func (s *MenuService) Create(ctx context.Context, item *domain.MenuItem) error {
	if err := validateMenuItem(item); err != nil {
		return err
	}
	if err := s.ensureRestaurant(ctx, item.RestaurantID); err != nil {
		return err
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if err := s.repo.CreateMenuItem(ctx, item); err != nil {
		return fmt.Errorf("create menu item: %w", err)
	}
	return nil
}

func (s *MenuService) List(ctx context.Context, restaurantID string) ([]domain.MenuItem, error) {
	return s.repo.ListMenuItems(ctx, restaurantID, false)
}

func (s *MenuService) Get(ctx context.Context, restaurantID, id string) (*domain.MenuItem, error) {
	item, err := s.repo.GetMenuItem(ctx, restaurantID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMenuItemNotFound
	}
	return item, err
}

// Update saves the item and drops its stored translations when any
// translatable field changed.
func (s *MenuService) Update(ctx context.Context, item *domain.MenuItem) error {
	if err := validateMenuItem(item); err != nil {
		return err
	}
	current, err := s.Get(ctx, item.RestaurantID, item.ID)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateMenuItem(ctx, item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMenuItemNotFound
		}
		return fmt.Errorf("update menu item: %w", err)
	}

	if translation.SourceHash(*current) != translation.SourceHash(*item) {
		s.invalidate(ctx, item.RestaurantID, item.ID)
	}
	return nil
}

func (s *MenuService) Delete(ctx context.Context, restaurantID, id string) error {
	n, err := s.repo.DeleteMenuItem(ctx, restaurantID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMenuItemNotFound
	}
	s.invalidate(ctx, restaurantID, id)
	return nil
}

// invalidate is best effort: a stale row is also caught by the source
// hash on the next resolve.
func (s *MenuService) invalidate(ctx context.Context, restaurantID, id string) {
	n, err := s.translations.DeleteByItem(ctx, restaurantID, id)
	if err != nil {
		s.log.Warn("translation_invalidate", logger.RequestID(ctx), "failed to drop translations",
			slog.String("menu_id", id), slog.String("error", err.Error()))
		return
	}
	s.log.Debug("translation_invalidate", logger.RequestID(ctx), "dropped translations",
		slog.String("menu_id", id), slog.Int64("rows", n))
}

// Translated returns the customer menu (available items only) in lang.
func (s *MenuService) Translated(ctx context.Context, restaurantID, lang string) (translation.Resolution, error) {
	if err := s.ensureRestaurant(ctx, restaurantID); err != nil {
		return translation.Resolution{}, err
	}
	items, err := s.repo.ListMenuItems(ctx, restaurantID, true)
	if err != nil {
		return translation.Resolution{}, err
	}
	return s.translator.Resolve(ctx, restaurantID, items, lang), nil
}

func (s *MenuService) Translations(ctx context.Context, restaurantID, lang string) ([]domain.TranslationRecord, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return nil, domain.ValidationError{Field: "language_code", Message: "language_code is required"}
	}
	byItem, err := s.translations.GetByLanguage(ctx, restaurantID, lang)
	if err != nil {
		return nil, err
	}
	records := make([]domain.TranslationRecord, 0, len(byItem))
	for _, rec := range byItem {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].MenuItemID < records[j].MenuItemID })
	return records, nil
}

func (s *MenuService) DeleteItemTranslations(ctx context.Context, restaurantID, menuItemID string) (int64, error) {
	return s.translations.DeleteByItem(ctx, restaurantID, menuItemID)
}

func (s *MenuService) ClearTranslations(ctx context.Context, restaurantID, lang string) (int64, error) {
	n, err := s.translations.ClearRestaurant(ctx, restaurantID, strings.ToLower(strings.TrimSpace(lang)))
	if err != nil {
		return 0, err
	}
	s.log.Info("translation_clear", logger.RequestID(ctx), "cleared translations",
		slog.String("restaurant_id", restaurantID), slog.String("language", lang), slog.Int64("rows", n))
	return n, nil
}
