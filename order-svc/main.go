package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"smartmenu/config"
	"smartmenu/logger"
	httpapi "smartmenu/order-svc/internal/api/http"
	"smartmenu/order-svc/internal/delivery"
	"smartmenu/order-svc/internal/service"
	"smartmenu/order-svc/internal/storage"
	"smartmenu/telem"

	"github.com/shopspring/decimal"
)

func main() {
	config.Load()
	log := logger.NewLogger("order-svc")

	telem.Init()
	shutdown, err := telem.InitTracing("order-svc", config.GetEnv("OTEL_EXPORTER_ENDPOINT", ""))
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

	writer := config.NewKafkaWriter(config.TopicOrders)
	defer writer.Close()

	geocoder := delivery.NewGeoDistanceService(delivery.GeoConfig{
		BaseURL:     config.GetEnv("NOMINATIM_URL", ""),
		CountryCode: config.GetEnv("GEOCODE_COUNTRY", "nz"),
		RateLimit:   config.GetFloat("GEOCODE_RATE_LIMIT", 1),
	}, &http.Client{Timeout: delivery.DefaultTimeout}, storage.NewRedisCache(rdb, 7*24*time.Hour))

	orders := service.NewOrderService(service.OrderServiceDeps{
		Restaurants: repo,
		Menu:        repo,
		Orders:      repo,
		Resolver:    delivery.NewResolver(geocoder, config.GetDuration("DISTANCE_TIMEOUT", delivery.DefaultTimeout)),
		Publisher:   storage.NewKafkaPublisher(writer),
		Marker:      storage.NewRedisCache(rdb, 10*time.Minute),
		Receipts:    service.PDFReceiptRenderer{},
		Assembler:   service.NewAssembler(decimal.NewFromFloat(config.GetFloat("GST_RATE", 0.15)), nil),
		Log:         log,
	})
	payments := service.NewPaymentService(repo, repo, repo,
		storage.NewStripeGateway(config.GetEnv("STRIPE_SECRET_KEY", "")),
		config.GetEnv("CURRENCY", "nzd"), log)

	handler := httpapi.NewHandler(orders, payments, delivery.NewTracker(), log)
	addr := ":" + config.GetEnv("PORT", "8084")
	if err := httpapi.StartServer(addr, httpapi.NewRouter(handler), log); err != nil {
		log.Error("startup", "", "server stopped", err)
		os.Exit(1)
	}
}
