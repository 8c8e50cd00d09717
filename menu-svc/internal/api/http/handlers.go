package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"smartmenu/logger"
	"smartmenu/menu-svc/internal/domain"
	"smartmenu/menu-svc/internal/service"

	"github.com/gorilla/mux"
)

type Handler struct {
	Restaurants service.RestaurantServiceInterface
	Menu        service.MenuServiceInterface
	BestSellers service.BestSellerServiceInterface
	Log         *logger.Logger
}

func NewHandler(restSvc service.RestaurantServiceInterface, menuSvc service.MenuServiceInterface, bestSvc service.BestSellerServiceInterface, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{
		Restaurants: restSvc,
		Menu:        menuSvc,
		BestSellers: bestSvc,
		Log:         log,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/restaurants", h.createRestaurant).Methods("POST")
	r.HandleFunc("/api/restaurants", h.getRestaurants).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}", h.getRestaurant).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}", h.updateRestaurant).Methods("PUT")
	r.HandleFunc("/api/restaurants/{id}", h.deleteRestaurant).Methods("DELETE")
	r.HandleFunc("/api/restaurants/{id}/qrcode", h.getTableQRCode).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}/best-sellers", h.getBestSellers).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}/menu", h.getTranslatedMenu).Methods("GET")

	r.HandleFunc("/api/restaurants/{restaurantId}/menu-items", h.createMenuItem).Methods("POST")
	r.HandleFunc("/api/restaurants/{restaurantId}/menu-items", h.getMenuItems).Methods("GET")
	r.HandleFunc("/api/restaurants/{restaurantId}/menu-items/{itemId}", h.getMenuItem).Methods("GET")
	r.HandleFunc("/api/restaurants/{restaurantId}/menu-items/{itemId}", h.updateMenuItem).Methods("PUT")
	r.HandleFunc("/api/restaurants/{restaurantId}/menu-items/{itemId}", h.deleteMenuItem).Methods("DELETE")

	r.HandleFunc("/api/translations/menu/{restaurantId}", h.getTranslations).Methods("GET")
	r.HandleFunc("/api/translations/menu/{restaurantId}", h.clearTranslations).Methods("DELETE")
	r.HandleFunc("/api/translations/menu/{restaurantId}/{menuId}", h.deleteItemTranslations).Methods("DELETE")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "menu-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// newRestaurant holds the defaults a request body is decoded over.
func newRestaurant() domain.Restaurant {
	return domain.Restaurant{Delivery: domain.DefaultDeliveryConfig(), Services: domain.AllServices()}
}

func (h *Handler) createRestaurant(w http.ResponseWriter, r *http.Request) {
	rest := newRestaurant()
	if err := json.NewDecoder(r.Body).Decode(&rest); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON format: "+err.Error())
		return
	}
	if err := h.Restaurants.Create(r.Context(), &rest); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rest)
}

func (h *Handler) getRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.Restaurants.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if restaurants == nil {
		restaurants = []domain.Restaurant{}
	}
	writeJSON(w, http.StatusOK, restaurants)
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	rest, err := h.Restaurants.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *Handler) updateRestaurant(w http.ResponseWriter, r *http.Request) {
	rest := newRestaurant()
	if err := json.NewDecoder(r.Body).Decode(&rest); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON format: "+err.Error())
		return
	}
	rest.ID = mux.Vars(r)["id"]
	if err := h.Restaurants.Update(r.Context(), &rest); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *Handler) deleteRestaurant(w http.ResponseWriter, r *http.Request) {
	if err := h.Restaurants.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getTableQRCode(w http.ResponseWriter, r *http.Request) {
	png, err := h.Restaurants.TableQRCode(r.Context(), mux.Vars(r)["id"], r.URL.Query().Get("table"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

func (h *Handler) getBestSellers(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.BestSellers.Top(r.Context(), mux.Vars(r)["id"], queryInt(r, "days"), queryInt(r, "limit"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if sellers == nil {
		sellers = []domain.BestSeller{}
	}
	writeJSON(w, http.StatusOK, sellers)
}

func (h *Handler) getTranslatedMenu(w http.ResponseWriter, r *http.Request) {
	res, err := h.Menu.Translated(r.Context(), mux.Vars(r)["id"], r.URL.Query().Get("lang"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if res.Items == nil {
		res.Items = []domain.TranslatedItem{}
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	item := domain.MenuItem{Available: true}
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON format: "+err.Error())
		return
	}
	item.RestaurantID = mux.Vars(r)["restaurantId"]
	if err := h.Menu.Create(r.Context(), &item); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) getMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Menu.List(r.Context(), mux.Vars(r)["restaurantId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.MenuItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	item, err := h.Menu.Get(r.Context(), vars["restaurantId"], vars["itemId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	item := domain.MenuItem{Available: true}
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON format: "+err.Error())
		return
	}
	vars := mux.Vars(r)
	item.RestaurantID = vars["restaurantId"]
	item.ID = vars["itemId"]
	if err := h.Menu.Update(r.Context(), &item); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.Menu.Delete(r.Context(), vars["restaurantId"], vars["itemId"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getTranslations(w http.ResponseWriter, r *http.Request) {
	records, err := h.Menu.Translations(r.Context(), mux.Vars(r)["restaurantId"], r.URL.Query().Get("language_code"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"translations": records})
}

func (h *Handler) deleteItemTranslations(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	n, err := h.Menu.DeleteItemTranslations(r.Context(), vars["restaurantId"], vars["menuId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": n})
}

func (h *Handler) clearTranslations(w http.ResponseWriter, r *http.Request) {
	n, err := h.Menu.ClearTranslations(r.Context(), mux.Vars(r)["restaurantId"], r.URL.Query().Get("language_code"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": n})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, verr)
	case errors.Is(err, service.ErrRestaurantNotFound), errors.Is(err, service.ErrMenuItemNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	default:
		h.Log.Error("request_failed", logger.RequestID(r.Context()), r.Method+" "+r.URL.Path, err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
