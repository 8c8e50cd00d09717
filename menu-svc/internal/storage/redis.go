package storage

import (
	"context"
	"encoding/json"
	"time"

	"smartmenu/menu-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

// TranslationBackend is the durable translation store behind the Redis
// read-through layer.
type TranslationBackend interface {
	GetByLanguage(ctx context.Context, restaurantID, languageCode string) (map[string]domain.TranslationRecord, error)
	UpsertMany(ctx context.Context, restaurantID, languageCode string, records []domain.TranslationRecord) error
	DeleteByItem(ctx context.Context, restaurantID, menuItemID string) (int64, error)
	ClearRestaurant(ctx context.Context, restaurantID, languageCode string) (int64, error)
}

// CachedTranslationStore keeps one Redis hash per (restaurant, language)
// in front of the backend. Writes go to the backend first and drop the
// affected hashes.
type CachedTranslationStore struct {
	Backend TranslationBackend
	Client  *redis.Client
	TTL     time.Duration
}

func NewCachedTranslationStore(backend TranslationBackend, client *redis.Client, ttl time.Duration) *CachedTranslationStore {
	return &CachedTranslationStore{Backend: backend, Client: client, TTL: ttl}
}

func translationKey(restaurantID, languageCode string) string {
	return "translations:" + restaurantID + ":" + languageCode
}

// translationGenKey is bumped by every write for the restaurant. A read
// only repopulates its hash if the generation is unchanged since the
// backend read started.
func translationGenKey(restaurantID string) string {
	return "translations-gen:" + restaurantID
}

func (s *CachedTranslationStore) GetByLanguage(ctx context.Context, restaurantID, languageCode string) (map[string]domain.TranslationRecord, error) {
	key := translationKey(restaurantID, languageCode)
	if cached, err := s.Client.HGetAll(ctx, key).Result(); err == nil && len(cached) > 0 {
		records := make(map[string]domain.TranslationRecord, len(cached))
		corrupt := false
		for id, raw := range cached {
			var rec domain.TranslationRecord
			if err := json.Unmarshal([]byte(raw), &rec); err != nil {
				corrupt = true
				break
			}
			records[id] = rec
		}
		if !corrupt {
			return records, nil
		}
		s.Client.Del(ctx, key)
	}

	genKey := translationGenKey(restaurantID)
	gen, genErr := s.Client.Get(ctx, genKey).Result()
	if genErr == redis.Nil {
		genErr = nil
	}

	records, err := s.Backend.GetByLanguage(ctx, restaurantID, languageCode)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || genErr != nil {
		return records, nil
	}

	fields := make(map[string]interface{}, len(records))
	for id, rec := range records {
		payload, err := json.Marshal(rec)
		if err != nil {
			return records, nil
		}
		fields[id] = payload
	}
	// A write that lands while this runs fails the transaction and leaves
	// the hash empty.
	_ = s.Client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Result()
		if err != nil && err != redis.Nil {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fields)
			pipe.Expire(ctx, key, s.TTL)
			return nil
		})
		return err
	}, genKey)
	return records, nil
}

// bumpGeneration marks every cached language of the restaurant as stale
// for reads already in flight.
func (s *CachedTranslationStore) bumpGeneration(ctx context.Context, restaurantID string) error {
	genKey := translationGenKey(restaurantID)
	pipe := s.Client.TxPipeline()
	pipe.Incr(ctx, genKey)
	if s.TTL > 0 {
		pipe.Expire(ctx, genKey, s.TTL)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *CachedTranslationStore) UpsertMany(ctx context.Context, restaurantID, languageCode string, records []domain.TranslationRecord) error {
	if err := s.Backend.UpsertMany(ctx, restaurantID, languageCode, records); err != nil {
		return err
	}
	if err := s.bumpGeneration(ctx, restaurantID); err != nil {
		return err
	}
	return s.Client.Del(ctx, translationKey(restaurantID, languageCode)).Err()
}

func (s *CachedTranslationStore) DeleteByItem(ctx context.Context, restaurantID, menuItemID string) (int64, error) {
	n, err := s.Backend.DeleteByItem(ctx, restaurantID, menuItemID)
	if err != nil {
		return 0, err
	}
	if err := s.bumpGeneration(ctx, restaurantID); err != nil {
		return n, err
	}
	return n, s.dropKeys(ctx, restaurantID)
}

func (s *CachedTranslationStore) ClearRestaurant(ctx context.Context, restaurantID, languageCode string) (int64, error) {
	n, err := s.Backend.ClearRestaurant(ctx, restaurantID, languageCode)
	if err != nil {
		return 0, err
	}
	if err := s.bumpGeneration(ctx, restaurantID); err != nil {
		return n, err
	}
	if languageCode != "" {
		return n, s.Client.Del(ctx, translationKey(restaurantID, languageCode)).Err()
	}
	return n, s.dropKeys(ctx, restaurantID)
}

func (s *CachedTranslationStore) dropKeys(ctx context.Context, restaurantID string) error {
	iter := s.Client.Scan(ctx, 0, translationKey(restaurantID, "*"), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.Client.Del(ctx, keys...).Err()
}

const dayLayout = "2006-01-02"

// BestSellerQuantityKey is the daily sorted set of item quantities
// written by agg-svc.
func BestSellerQuantityKey(restaurantID string, day time.Time) string {
	return "bestsellers:" + restaurantID + ":qty:" + day.UTC().Format(dayLayout)
}

// BestSellerOrdersKey counts the orders containing each item.
func BestSellerOrdersKey(restaurantID string, day time.Time) string {
	return "bestsellers:" + restaurantID + ":orders:" + day.UTC().Format(dayLayout)
}

type SalesStore struct {
	Client *redis.Client
}

func NewSalesStore(client *redis.Client) *SalesStore {
	return &SalesStore{Client: client}
}

// SalesSince sums the daily aggregates of the last days days, today
// included.
func (s *SalesStore) SalesSince(ctx context.Context, restaurantID string, days int, now time.Time) (map[string]domain.SalesStat, error) {
	pipe := s.Client.Pipeline()
	qty := make([]*redis.ZSliceCmd, 0, days)
	orders := make([]*redis.ZSliceCmd, 0, days)
	for d := 0; d < days; d++ {
		day := now.AddDate(0, 0, -d)
		qty = append(qty, pipe.ZRangeWithScores(ctx, BestSellerQuantityKey(restaurantID, day), 0, -1))
		orders = append(orders, pipe.ZRangeWithScores(ctx, BestSellerOrdersKey(restaurantID, day), 0, -1))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, err
	}

	stats := make(map[string]domain.SalesStat)
	for _, cmd := range qty {
		for _, z := range cmd.Val() {
			id, _ := z.Member.(string)
			stat := stats[id]
			stat.Quantity += int64(z.Score)
			stats[id] = stat
		}
	}
	for _, cmd := range orders {
		for _, z := range cmd.Val() {
			id, _ := z.Member.(string)
			stat := stats[id]
			stat.OrderCount += int64(z.Score)
			stats[id] = stat
		}
	}
	return stats, nil
}
