package main

import (
	"net/http"
	"os"

	"smartmenu/api-gateway/internal/gateway"
	"smartmenu/config"
	"smartmenu/logger"

	"github.com/rs/cors"
)

func main() {
	config.Load()
	log := logger.NewLogger("api-gateway")

	gw := gateway.NewGateway(gateway.Config{
		MenuSvcURL:  config.GetEnv("MENU_SVC_URL", "http://localhost:8083"),
		OrderSvcURL: config.GetEnv("ORDER_SVC_URL", "http://localhost:8084"),
		FrontendDir: config.GetEnv("FRONTEND_DIR", "./frontend"),
	}, &http.Client{Timeout: config.GetDuration("PROXY_TIMEOUT", 0)}, log)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8080", "http://127.0.0.1:8080", "*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	handler := c.Handler(gw.SetupRoutes())

	addr := ":" + config.GetEnv("PORT", "8080")
	log.Info("server_start", "", "API Gateway starting on "+addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Error("startup", "", "server stopped", err)
		os.Exit(1)
	}
}
