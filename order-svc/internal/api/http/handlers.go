package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"smartmenu/logger"
	"smartmenu/order-svc/internal/delivery"
	"smartmenu/order-svc/internal/domain"
	"smartmenu/order-svc/internal/service"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type Handler struct {
	Orders   service.OrderServiceInterface
	Payments service.PaymentServiceInterface
	Tracker  *delivery.Tracker
	Log      *logger.Logger
}

func NewHandler(orders service.OrderServiceInterface, payments service.PaymentServiceInterface, tracker *delivery.Tracker, log *logger.Logger) *Handler {
	if tracker == nil {
		tracker = delivery.NewTracker()
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{Orders: orders, Payments: payments, Tracker: tracker, Log: log}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/delivery/calculate", h.calculateDelivery).Methods("POST")
	r.HandleFunc("/api/delivery/select-tier", h.selectTier).Methods("POST")

	r.HandleFunc("/api/orders", h.createOrder).Methods("POST")
	r.HandleFunc("/api/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id}/receipt", h.getReceipt).Methods("GET")
	r.HandleFunc("/api/orders/{id}/payment", h.preparePayment).Methods("POST")
	r.HandleFunc("/api/restaurants/{id}/orders", h.listRestaurantOrders).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "order-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

type quoteRequest struct {
	RestaurantID    string          `json:"restaurant_id"`
	CustomerAddress string          `json:"customer_address"`
	Latitude        *float64        `json:"latitude"`
	Longitude       *float64        `json:"longitude"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	SessionID       string          `json:"session_id"`
	RequestToken    uint64          `json:"request_token"`
}

func (h *Handler) calculateDelivery(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON format: "+err.Error())
		return
	}
	if req.RestaurantID == "" {
		writeError(w, domain.ValidationError{Field: "restaurant_id", Message: "restaurant_id is required"})
		return
	}

	input := service.QuoteInput{
		RestaurantID: req.RestaurantID,
		Address:      strings.TrimSpace(req.CustomerAddress),
		Subtotal:     req.Subtotal,
	}
	if req.Latitude != nil && req.Longitude != nil {
		input.Coordinates = &domain.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude}
	}

	ctx := r.Context()
	var token uint64
	if req.SessionID != "" {
		tracked, t, release, err := h.Tracker.Begin(ctx, req.SessionID, req.RequestToken)
		if err != nil {
			writeError(w, err)
			return
		}
		defer release()
		ctx, token = tracked, t
	}

	quote, err := h.Orders.Quote(ctx, input)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.SessionID != "" && !h.Tracker.Current(req.SessionID, token) {
		writeError(w, delivery.ErrSuperseded)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (h *Handler) selectTier(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RestaurantID string          `json:"restaurant_id"`
		TierIndex    int             `json:"tier_index"`
		Subtotal     decimal.Decimal `json:"subtotal"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON format: "+err.Error())
		return
	}
	quote, err := h.Orders.SelectTier(r.Context(), req.RestaurantID, req.TierIndex, req.Subtotal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req service.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON format: "+err.Error())
		return
	}
	if key := r.Header.Get("Idempotency-Key"); key != "" && req.IdempotencyKey == "" {
		req.IdempotencyKey = key
	}

	order, err := h.Orders.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getReceipt(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	pdf, err := h.Orders.Receipt(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="receipt-`+id+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

func (h *Handler) preparePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaymentMethod string `json:"payment_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON format: "+err.Error())
		return
	}
	payment, err := h.Payments.Prepare(r.Context(), mux.Vars(r)["id"], req.PaymentMethod)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (h *Handler) listRestaurantOrders(w http.ResponseWriter, r *http.Request) {
	var statuses []string
	if raw := r.URL.Query().Get("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				statuses = append(statuses, s)
			}
		}
	}
	orders, err := h.Orders.List(r.Context(), mux.Vars(r)["id"], statuses)
	if err != nil {
		writeError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeError(w http.ResponseWriter, err error) {
	var verr domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, verr)
	case errors.Is(err, service.ErrRestaurantNotFound), errors.Is(err, service.ErrOrderNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDeliveryUnavailable):
		writeMessage(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, delivery.ErrTierNotFound):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, delivery.ErrSuperseded):
		writeJSON(w, http.StatusConflict, map[string]interface{}{"error": err.Error(), "superseded": true})
	case errors.Is(err, service.ErrDuplicateSubmission), errors.Is(err, service.ErrOrderNotPayable):
		writeMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrPaymentFailed):
		writeMessage(w, http.StatusBadGateway, "payment could not be started, please try again")
	default:
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
