package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"smartmenu/menu-svc/internal/domain"
	"smartmenu/menu-svc/internal/mocks"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestCachedTranslationStore_ReadThrough(t *testing.T) {
	client, mr := setupTestRedis(t)
	backend := mocks.NewTranslationStore(t)
	store := NewCachedTranslationStore(backend, client, time.Hour)
	ctx := context.Background()

	records := map[string]domain.TranslationRecord{
		"m1": {MenuItemID: "m1", LanguageCode: "ja", Name: "パッタイ", Variants: []string{"チキン"}, SourceHash: "abc"},
	}
	backend.On("GetByLanguage", mock.Anything, "r-1", "ja").Return(records, nil).Once()

	first, err := store.GetByLanguage(ctx, "r-1", "ja")
	require.NoError(t, err)
	assert.Equal(t, records, first)
	assert.True(t, mr.Exists("translations:r-1:ja"))
	assert.Equal(t, time.Hour, mr.TTL("translations:r-1:ja"))

	second, err := store.GetByLanguage(ctx, "r-1", "ja")
	require.NoError(t, err)
	assert.Equal(t, "パッタイ", second["m1"].Name)
	assert.Equal(t, []string{"チキン"}, second["m1"].Variants)
}

func TestCachedTranslationStore_EmptyResultIsNotCached(t *testing.T) {
	client, mr := setupTestRedis(t)
	backend := mocks.NewTranslationStore(t)
	store := NewCachedTranslationStore(backend, client, time.Hour)

	backend.On("GetByLanguage", mock.Anything, "r-1", "ko").Return(map[string]domain.TranslationRecord{}, nil).Twice()

	for i := 0; i < 2; i++ {
		records, err := store.GetByLanguage(context.Background(), "r-1", "ko")
		require.NoError(t, err)
		assert.Empty(t, records)
	}
	assert.False(t, mr.Exists("translations:r-1:ko"))
}

func TestCachedTranslationStore_CorruptEntryFallsBack(t *testing.T) {
	client, mr := setupTestRedis(t)
	backend := mocks.NewTranslationStore(t)
	store := NewCachedTranslationStore(backend, client, time.Hour)

	mr.HSet("translations:r-1:ja", "m1", "{not json")
	backend.On("GetByLanguage", mock.Anything, "r-1", "ja").
		Return(map[string]domain.TranslationRecord{"m1": {MenuItemID: "m1", Name: "パッタイ"}}, nil).Once()

	records, err := store.GetByLanguage(context.Background(), "r-1", "ja")

	require.NoError(t, err)
	assert.Equal(t, "パッタイ", records["m1"].Name)
}

func TestCachedTranslationStore_WriteDuringReadSkipsRepopulate(t *testing.T) {
	client, mr := setupTestRedis(t)
	backend := mocks.NewTranslationStore(t)
	store := NewCachedTranslationStore(backend, client, time.Hour)
	ctx := context.Background()

	stale := map[string]domain.TranslationRecord{"m1": {MenuItemID: "m1", LanguageCode: "ja", Name: "古い"}}
	backend.On("UpsertMany", mock.Anything, "r-1", "ja", mock.Anything).Return(nil).Once()
	backend.On("GetByLanguage", mock.Anything, "r-1", "ja").Run(func(mock.Arguments) {
		require.NoError(t, store.UpsertMany(ctx, "r-1", "ja", []domain.TranslationRecord{{MenuItemID: "m1", Name: "新しい"}}))
	}).Return(stale, nil).Once()

	records, err := store.GetByLanguage(ctx, "r-1", "ja")

	require.NoError(t, err)
	assert.Equal(t, stale, records)
	assert.False(t, mr.Exists("translations:r-1:ja"))
	assert.True(t, mr.Exists("translations-gen:r-1"))
}

func TestCachedTranslationStore_ReadAfterWriteRepopulates(t *testing.T) {
	client, mr := setupTestRedis(t)
	backend := mocks.NewTranslationStore(t)
	store := NewCachedTranslationStore(backend, client, time.Hour)
	ctx := context.Background()

	backend.On("UpsertMany", mock.Anything, "r-1", "ja", mock.Anything).Return(nil).Once()
	backend.On("GetByLanguage", mock.Anything, "r-1", "ja").
		Return(map[string]domain.TranslationRecord{"m1": {MenuItemID: "m1", Name: "新しい"}}, nil).Once()

	require.NoError(t, store.UpsertMany(ctx, "r-1", "ja", []domain.TranslationRecord{{MenuItemID: "m1"}}))
	_, err := store.GetByLanguage(ctx, "r-1", "ja")

	require.NoError(t, err)
	assert.True(t, mr.Exists("translations:r-1:ja"))
}

func TestCachedTranslationStore_WritesInvalidate(t *testing.T) {
	ctx := context.Background()

	t.Run("upsert drops the language", func(t *testing.T) {
		client, mr := setupTestRedis(t)
		backend := mocks.NewTranslationStore(t)
		store := NewCachedTranslationStore(backend, client, time.Hour)
		mr.HSet("translations:r-1:ja", "m1", "{}")
		mr.HSet("translations:r-1:th", "m1", "{}")
		backend.On("UpsertMany", mock.Anything, "r-1", "ja", mock.Anything).Return(nil).Once()

		require.NoError(t, store.UpsertMany(ctx, "r-1", "ja", []domain.TranslationRecord{{MenuItemID: "m1"}}))

		assert.False(t, mr.Exists("translations:r-1:ja"))
		assert.True(t, mr.Exists("translations:r-1:th"))
	})

	t.Run("failed upsert keeps cache", func(t *testing.T) {
		client, mr := setupTestRedis(t)
		backend := mocks.NewTranslationStore(t)
		store := NewCachedTranslationStore(backend, client, time.Hour)
		mr.HSet("translations:r-1:ja", "m1", "{}")
		backend.On("UpsertMany", mock.Anything, "r-1", "ja", mock.Anything).Return(errors.New("db down")).Once()

		assert.Error(t, store.UpsertMany(ctx, "r-1", "ja", nil))
		assert.True(t, mr.Exists("translations:r-1:ja"))
	})

	t.Run("item delete drops every language", func(t *testing.T) {
		client, mr := setupTestRedis(t)
		backend := mocks.NewTranslationStore(t)
		store := NewCachedTranslationStore(backend, client, time.Hour)
		mr.HSet("translations:r-1:ja", "m1", "{}")
		mr.HSet("translations:r-1:th", "m1", "{}")
		mr.HSet("translations:r-2:ja", "m7", "{}")
		backend.On("DeleteByItem", mock.Anything, "r-1", "m1").Return(int64(2), nil).Once()

		n, err := store.DeleteByItem(ctx, "r-1", "m1")

		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		assert.False(t, mr.Exists("translations:r-1:ja"))
		assert.False(t, mr.Exists("translations:r-1:th"))
		assert.True(t, mr.Exists("translations:r-2:ja"))
	})

	t.Run("clear one language", func(t *testing.T) {
		client, mr := setupTestRedis(t)
		backend := mocks.NewTranslationStore(t)
		store := NewCachedTranslationStore(backend, client, time.Hour)
		mr.HSet("translations:r-1:ja", "m1", "{}")
		mr.HSet("translations:r-1:th", "m1", "{}")
		backend.On("ClearRestaurant", mock.Anything, "r-1", "th").Return(int64(1), nil).Once()

		_, err := store.ClearRestaurant(ctx, "r-1", "th")

		require.NoError(t, err)
		assert.True(t, mr.Exists("translations:r-1:ja"))
		assert.False(t, mr.Exists("translations:r-1:th"))
	})
}

func TestSalesStore_SalesSince(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewSalesStore(client)
	now := time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC)

	mr.ZAdd(BestSellerQuantityKey("r-1", now), 5, "m1")
	mr.ZAdd(BestSellerOrdersKey("r-1", now), 3, "m1")
	mr.ZAdd(BestSellerQuantityKey("r-1", now.AddDate(0, 0, -6)), 10, "m1")
	mr.ZAdd(BestSellerOrdersKey("r-1", now.AddDate(0, 0, -6)), 4, "m1")
	mr.ZAdd(BestSellerQuantityKey("r-1", now.AddDate(0, 0, -6)), 2, "m2")
	mr.ZAdd(BestSellerOrdersKey("r-1", now.AddDate(0, 0, -6)), 2, "m2")
	// outside a 7 day window
	mr.ZAdd(BestSellerQuantityKey("r-1", now.AddDate(0, 0, -7)), 100, "m2")
	// another restaurant
	mr.ZAdd(BestSellerQuantityKey("r-2", now), 50, "m1")

	stats, err := store.SalesSince(context.Background(), "r-1", 7, now)

	require.NoError(t, err)
	assert.Equal(t, domain.SalesStat{Quantity: 15, OrderCount: 7}, stats["m1"])
	assert.Equal(t, domain.SalesStat{Quantity: 2, OrderCount: 2}, stats["m2"])
	assert.Len(t, stats, 2)
}

func TestBestSellerKeys(t *testing.T) {
	day := time.Date(2026, 3, 14, 23, 30, 0, 0, time.FixedZone("NZDT", 13*3600))

	assert.Equal(t, "bestsellers:r-1:qty:2026-03-14", BestSellerQuantityKey("r-1", day))
	assert.Equal(t, "bestsellers:r-1:orders:2026-03-14", BestSellerOrdersKey("r-1", day))
}
