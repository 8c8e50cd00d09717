package main

import (
	"context"
	"os"
	"time"

	"smartmenu/config"
	"smartmenu/logger"
	httpapi "smartmenu/menu-svc/internal/api/http"
	"smartmenu/menu-svc/internal/service"
	"smartmenu/menu-svc/internal/storage"
	"smartmenu/menu-svc/internal/translation"
	"smartmenu/telem"
)

func main() {
	config.Load()
	log := logger.NewLogger("menu-svc")

	telem.Init()
	shutdown, err := telem.InitTracing("menu-svc", config.GetEnv("OTEL_EXPORTER_ENDPOINT", ""))
	if err != nil {
		log.Warn("startup", "", "tracing disabled: "+err.Error())
	} else {
		defer shutdown(context.Background())
	}

	db := config.MustInitPostgres()
	defer db.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		log.Error("startup", "", "failed to ensure schema", err)
		os.Exit(1)
	}

	rdb := config.MustInitRedis()
	defer rdb.Close()

	translations := storage.NewCachedTranslationStore(repo, rdb, config.GetDuration("TRANSLATION_CACHE_TTL", time.Hour))
	cache := translation.NewCache(translations,
		storage.NewHTTPTranslator(config.GetEnv("TRANSLATE_API_URL", "http://localhost:5000/translate"),
			config.GetDuration("TRANSLATE_TIMEOUT", storage.DefaultTranslateTimeout)),
		log)
	defer cache.Wait()

	restaurants := service.NewRestaurantService(repo,
		service.DefaultQRGenerator{BaseURL: config.GetEnv("PUBLIC_BASE_URL", "http://localhost:3000")}, log)
	menu := service.NewMenuService(repo, repo, translations, cache, log)
	bestSellers := service.NewBestSellerService(repo, storage.NewSalesStore(rdb))

	handler := httpapi.NewHandler(restaurants, menu, bestSellers, log)
	addr := ":" + config.GetEnv("PORT", "8083")
	if err := httpapi.StartServer(addr, httpapi.NewRouter(handler), log); err != nil {
		log.Error("startup", "", "server stopped", err)
	}
}
