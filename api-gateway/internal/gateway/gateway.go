package gateway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"smartmenu/logger"

	"github.com/gorilla/mux"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	MenuSvcURL  string
	OrderSvcURL string
	FrontendDir string
}

type Gateway struct {
	config Config
	client HTTPClient
	log    *logger.Logger
}

func NewGateway(config Config, client HTTPClient, log *logger.Logger) *Gateway {
	if log == nil {
		log = logger.Discard()
	}
	if config.FrontendDir == "" {
		config.FrontendDir = "./frontend"
	}
	return &Gateway{
		config: config,
		client: client,
		log:    log,
	}
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":  "healthy",
		"service": "api-gateway",
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	requestID := logger.RequestID(r.Context())
	g.log.Debug("proxy", requestID, r.Method+" "+r.URL.Path, slog.String("target", targetURL))

	url := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		g.log.Error("proxy", requestID, "failed to create request", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	for k, v := range r.Header {
		req.Header[k] = v
	}
	if requestID != "" {
		req.Header.Set(logger.HeaderRequestID, requestID)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Error("proxy", requestID, "failed to proxy to "+targetURL, err)
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		g.log.Warn("proxy", requestID, "failed to copy response: "+err.Error())
	}
}

// isOrderRoute reports whether path belongs to order-svc. Everything else
// under /api/restaurants and /api/translations is served by menu-svc.
func isOrderRoute(path string) bool {
	if strings.HasPrefix(path, "/api/orders") || strings.HasPrefix(path, "/api/delivery/") {
		return true
	}
	if strings.HasPrefix(path, "/api/restaurants/") {
		parts := strings.Split(strings.Trim(path, "/"), "/")
		return len(parts) == 4 && parts[3] == "orders"
	}
	return false
}

func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	// Legacy QR links printed before the restaurants rename.
	if strings.HasPrefix(path, "/api/cafe/") && strings.HasSuffix(path, "/menu") {
		parts := strings.Split(strings.Trim(path, "/"), "/")
		if len(parts) == 4 {
			r.URL.Path = "/api/restaurants/" + parts[2] + "/menu"
			g.log.Debug("route", logger.RequestID(r.Context()), "rewrote "+path+" to "+r.URL.Path)
			g.ProxyRequest(w, r, g.config.MenuSvcURL)
			return
		}
	}

	if (path == "/api/cafes" || path == "/api/cafes/") && r.Method == http.MethodGet {
		r.URL.Path = "/api/restaurants"
		g.ProxyRequest(w, r, g.config.MenuSvcURL)
		return
	}

	if isOrderRoute(path) {
		g.ProxyRequest(w, r, g.config.OrderSvcURL)
		return
	}

	if path == "/api/restaurants" || strings.HasPrefix(path, "/api/restaurants/") ||
		strings.HasPrefix(path, "/api/translations/") {
		g.ProxyRequest(w, r, g.config.MenuSvcURL)
		return
	}

	if strings.HasPrefix(path, "/api/") {
		g.log.Warn("route", logger.RequestID(r.Context()), "unmatched API route: "+path)
		http.Error(w, "API route not found", http.StatusNotFound)
		return
	}

	http.ServeFile(w, r, g.config.FrontendDir+"/index.html")
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.Use(logger.Middleware(g.log))
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.PathPrefix("/api/").HandlerFunc(g.RouteHandler)
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(g.config.FrontendDir))))
	r.PathPrefix("/").HandlerFunc(g.RouteHandler)
	return r
}
