package httpapi

import (
	"net/http"

	"smartmenu/logger"
	"smartmenu/telem"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func NewRouter(handler *Handler) http.Handler {
	r := mux.NewRouter()
	r.Use(logger.Middleware(handler.Log))
	r.Handle("/metrics", telem.Handler()).Methods("GET")
	handler.RegisterRoutes(r)
	return cors.Default().Handler(r)
}

func StartServer(addr string, handler http.Handler, log *logger.Logger) error {
	log.Info("server_start", "", "Menu Service starting on "+addr)
	return http.ListenAndServe(addr, handler)
}
