package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"smartmenu/agg-svc/internal/service"
	"smartmenu/agg-svc/internal/storage"
	"smartmenu/config"
	"smartmenu/logger"
	"smartmenu/telem"
)

func main() {
	config.Load()
	log := logger.NewLogger("agg-svc")
	telem.Init()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	reader := config.NewKafkaReader(config.TopicOrders, config.GetEnv("KAFKA_GROUP_ID", "agg-svc"))
	defer reader.Close()

	go func() {
		addr := ":" + config.GetEnv("METRICS_PORT", "9102")
		if err := http.ListenAndServe(addr, telem.Handler()); err != nil {
			log.Error("metrics", "", "metrics listener stopped", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := service.NewConsumer(reader, storage.NewStore(rdb), log)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("consumer", "", "consumer stopped", err)
	}
}
