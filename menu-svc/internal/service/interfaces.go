package service

import (
	"context"
	"errors"
	"time"

	"smartmenu/menu-svc/internal/domain"
	"smartmenu/menu-svc/internal/translation"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrMenuItemNotFound   = errors.New("menu item not found")
)

type RestaurantRepository interface {
	CreateRestaurant(ctx context.Context, rest *domain.Restaurant) error
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error)
	UpdateRestaurant(ctx context.Context, rest *domain.Restaurant) error
	DeleteRestaurant(ctx context.Context, id string) (int64, error)
}

type MenuRepository interface {
	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
	ListMenuItems(ctx context.Context, restaurantID string, availableOnly bool) ([]domain.MenuItem, error)
	GetMenuItem(ctx context.Context, restaurantID, id string) (*domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error
	DeleteMenuItem(ctx context.Context, restaurantID, id string) (int64, error)
}

type TranslationStore interface {
	translation.Store
	DeleteByItem(ctx context.Context, restaurantID, menuItemID string) (int64, error)
	ClearRestaurant(ctx context.Context, restaurantID, languageCode string) (int64, error)
}

type MenuTranslator interface {
	Resolve(ctx context.Context, restaurantID string, items []domain.MenuItem, lang string) translation.Resolution
}

type SalesReader interface {
	SalesSince(ctx context.Context, restaurantID string, days int, now time.Time) (map[string]domain.SalesStat, error)
}

type RestaurantServiceInterface interface {
	Create(ctx context.Context, rest *domain.Restaurant) error
	List(ctx context.Context) ([]domain.Restaurant, error)
	Get(ctx context.Context, id string) (*domain.Restaurant, error)
	Update(ctx context.Context, rest *domain.Restaurant) error
	Delete(ctx context.Context, id string) error
	TableQRCode(ctx context.Context, id, table string) ([]byte, error)
}

type MenuServiceInterface interface {
	Create(ctx context.Context, item *domain.MenuItem) error
	List(ctx context.Context, restaurantID string) ([]domain.MenuItem, error)
	Get(ctx context.Context, restaurantID, id string) (*domain.MenuItem, error)
	Update(ctx context.Context, item *domain.MenuItem) error
	Delete(ctx context.Context, restaurantID, id string) error
	Translated(ctx context.Context, restaurantID, lang string) (translation.Resolution, error)
	Translations(ctx context.Context, restaurantID, lang string) ([]domain.TranslationRecord, error)
	DeleteItemTranslations(ctx context.Context, restaurantID, menuItemID string) (int64, error)
	ClearTranslations(ctx context.Context, restaurantID, lang string) (int64, error)
}

type BestSellerServiceInterface interface {
	Top(ctx context.Context, restaurantID string, days, limit int) ([]domain.BestSeller, error)
}

var (
	_ RestaurantServiceInterface = (*RestaurantService)(nil)
	_ MenuServiceInterface       = (*MenuService)(nil)
	_ BestSellerServiceInterface = (*BestSellerService)(nil)
	_ MenuTranslator             = (*translation.Cache)(nil)
)
