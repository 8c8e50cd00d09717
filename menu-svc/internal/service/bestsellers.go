package service

import (
	"context"
	"sort"
	"time"

	"smartmenu/menu-svc/internal/domain"
)

const (
	DefaultBestSellerDays  = 14
	DefaultBestSellerLimit = 5
	MaxBestSellerDays      = 90
	MaxBestSellerLimit     = 50

	// Items selling at least this many units in the window rank above
	// pinned items.
	HighVolumeQuantity = 20
)

type BestSellerService struct {
	menu  MenuRepository
	sales SalesReader
	Now   func() time.Time
}

func NewBestSellerService(menu MenuRepository, sales SalesReader) *BestSellerService {
	return &BestSellerService{menu: menu, sales: sales, Now: time.Now}
}

func clamp(v, def, max int) int {
	if v <= 0 {
		return def
	}
	if v > max {
		return max
	}
	return v
}

// Top ranks available items: high volume sellers first, then items the
// owner pinned, then everything else that sold. Ties go to quantity, then
// number of orders.
func (s *BestSellerService) Top(ctx context.Context, restaurantID string, days, limit int) ([]domain.BestSeller, error) {
	days = clamp(days, DefaultBestSellerDays, MaxBestSellerDays)
	limit = clamp(limit, DefaultBestSellerLimit, MaxBestSellerLimit)

	items, err := s.menu.ListMenuItems(ctx, restaurantID, true)
	if err != nil {
		return nil, err
	}
	stats, err := s.sales.SalesSince(ctx, restaurantID, days, s.Now())
	if err != nil {
		return nil, err
	}

	type candidate struct {
		seller   domain.BestSeller
		priority int
	}
	var candidates []candidate
	for _, item := range items {
		stat := stats[item.ID]
		if stat.Quantity <= 0 && !item.Pinned {
			continue
		}
		priority := 2
		switch {
		case stat.Quantity >= HighVolumeQuantity:
			priority = 0
		case item.Pinned:
			priority = 1
		}
		candidates = append(candidates, candidate{
			priority: priority,
			seller: domain.BestSeller{
				MenuItemID:    item.ID,
				Name:          item.Name,
				NameEn:        item.NameEn,
				Category:      item.Category,
				Price:         item.Price,
				TotalQuantity: stat.Quantity,
				OrderCount:    stat.OrderCount,
				Pinned:        item.Pinned,
			},
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.priority != b.priority {
			return a.priority < b.priority
		}
		if a.seller.TotalQuantity != b.seller.TotalQuantity {
			return a.seller.TotalQuantity > b.seller.TotalQuantity
		}
		return a.seller.OrderCount > b.seller.OrderCount
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]domain.BestSeller, len(candidates))
	for i, c := range candidates {
		c.seller.Rank = i + 1
		out[i] = c.seller
	}
	return out, nil
}
