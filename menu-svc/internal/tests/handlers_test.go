package tests

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	httpapi "smartmenu/menu-svc/internal/api/http"
	"smartmenu/menu-svc/internal/domain"
	"smartmenu/menu-svc/internal/mocks"
	"smartmenu/menu-svc/internal/service"
	"smartmenu/menu-svc/internal/translation"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type handlerMocks struct {
	menuMocks
	qr    *mocks.QRGenerator
	sales *mocks.SalesReader
}

func newTestHandler(t *testing.T) (http.Handler, handlerMocks) {
	menuSvc, mm := newMenuService(t)
	m := handlerMocks{menuMocks: mm, qr: mocks.NewQRGenerator(t), sales: mocks.NewSalesReader(t)}
	bestSvc := service.NewBestSellerService(mm.repo, m.sales)
	handler := httpapi.NewHandler(service.NewRestaurantService(mm.restaurants, m.qr, nil), menuSvc, bestSvc, nil)
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	return r, m
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCreateRestaurantHandler(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		setupMock func(m handlerMocks)
		wantCode  int
		wantField string
	}{
		{
			name: "valid request",
			body: `{"name":"Bangkok Kitchen","address":"10 Dominion Road","service_options":{"dine_in":true},"delivery_settings":{"pricing_mode":"tier","rates":[{"distance_km":5,"price":"3.50"}]}}`,
			setupMock: func(m handlerMocks) {
				m.restaurants.On("CreateRestaurant", mock.Anything, mock.AnythingOfType("*domain.Restaurant")).Return(nil).Once()
			},
			wantCode: http.StatusCreated,
		},
		{
			name:      "invalid JSON",
			body:      `{invalid}`,
			setupMock: func(handlerMocks) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "validation error",
			body:      `{"name":"Bangkok Kitchen","service_options":{"pickup":true},"card_surcharge":{"enabled":true,"rate":"12"}}`,
			setupMock: func(handlerMocks) {},
			wantCode:  http.StatusBadRequest,
			wantField: "card_surcharge",
		},
		{
			name: "database error",
			body: `{"name":"Bangkok Kitchen","service_options":{"pickup":true}}`,
			setupMock: func(m handlerMocks) {
				m.restaurants.On("CreateRestaurant", mock.Anything, mock.AnythingOfType("*domain.Restaurant")).Return(assert.AnError).Once()
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			h, m := newTestHandler(t)
			testCase.setupMock(m)

			req := httptest.NewRequest("POST", "/api/restaurants", bytes.NewBufferString(testCase.body))
			req.Header.Set("Content-Type", "application/json")
			w := serve(h, req)

			assert.Equal(t, testCase.wantCode, w.Code)
			if testCase.wantField != "" {
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, testCase.wantField, body["field"])
			}
		})
	}
}

func TestGetRestaurantHandler(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		h, m := newTestHandler(t)
		rest := validRestaurant()
		rest.ID = "r-1"
		m.restaurants.On("GetRestaurant", mock.Anything, "r-1").Return(rest, nil).Once()

		w := serve(h, httptest.NewRequest("GET", "/api/restaurants/r-1", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"delivery_settings"`)
	})

	t.Run("not found", func(t *testing.T) {
		h, m := newTestHandler(t)
		m.restaurants.On("GetRestaurant", mock.Anything, "r-9").Return(nil, sql.ErrNoRows).Once()

		w := serve(h, httptest.NewRequest("GET", "/api/restaurants/r-9", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUpdateMenuItemHandler(t *testing.T) {
	h, m := newTestHandler(t)
	current := &domain.MenuItem{ID: "m1", RestaurantID: "r-1", Name: "Pad Thai", Price: "18.50"}
	m.repo.On("GetMenuItem", mock.Anything, "r-1", "m1").Return(current, nil).Once()
	m.repo.On("UpdateMenuItem", mock.Anything, mock.MatchedBy(func(item *domain.MenuItem) bool {
		return item.ID == "m1" && item.RestaurantID == "r-1" && item.Name == "Pad See Ew"
	})).Return(nil).Once()
	m.translations.On("DeleteByItem", mock.Anything, "r-1", "m1").Return(int64(2), nil).Once()

	req := httptest.NewRequest("PUT", "/api/restaurants/r-1/menu-items/m1", bytes.NewBufferString(`{"name":"Pad See Ew","price":"18.50"}`))
	w := serve(h, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTranslatedMenuHandler(t *testing.T) {
	h, m := newTestHandler(t)
	items := sourceMenu()
	m.restaurants.On("GetRestaurant", mock.Anything, "r-1").Return(validRestaurant(), nil).Once()
	m.repo.On("ListMenuItems", mock.Anything, "r-1", true).Return(items, nil).Once()
	m.translator.On("Resolve", mock.Anything, "r-1", items, "th").Return(translation.Resolution{
		Language: "th",
		Items:    []domain.TranslatedItem{{MenuItem: domain.MenuItem{ID: "m1", Name: "ผัดไทย"}, OriginalName: "Pad Thai"}},
		Degraded: true,
	}).Once()

	w := serve(h, httptest.NewRequest("GET", "/api/restaurants/r-1/menu?lang=th", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Language string                  `json:"language"`
		Items    []domain.TranslatedItem `json:"items"`
		Degraded bool                    `json:"degraded"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "th", body.Language)
	assert.True(t, body.Degraded)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Pad Thai", body.Items[0].OriginalName)
}

func TestTranslationEndpoints(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		setup    func(m handlerMocks)
		wantCode int
		wantBody string
	}{
		{
			name:   "list cached translations",
			method: "GET",
			path:   "/api/translations/menu/r-1?language_code=th",
			setup: func(m handlerMocks) {
				m.translations.On("GetByLanguage", mock.Anything, "r-1", "th").
					Return(map[string]domain.TranslationRecord{"m1": {MenuItemID: "m1", Name: "ผัดไทย"}}, nil).Once()
			},
			wantCode: http.StatusOK,
			wantBody: `"menu_id":"m1"`,
		},
		{
			name:     "list requires language",
			method:   "GET",
			path:     "/api/translations/menu/r-1",
			setup:    func(handlerMocks) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name:   "delete one item",
			method: "DELETE",
			path:   "/api/translations/menu/r-1/m1",
			setup: func(m handlerMocks) {
				m.translations.On("DeleteByItem", mock.Anything, "r-1", "m1").Return(int64(3), nil).Once()
			},
			wantCode: http.StatusOK,
			wantBody: `"deleted":3`,
		},
		{
			name:   "clear one language",
			method: "DELETE",
			path:   "/api/translations/menu/r-1?language_code=ja",
			setup: func(m handlerMocks) {
				m.translations.On("ClearRestaurant", mock.Anything, "r-1", "ja").Return(int64(5), nil).Once()
			},
			wantCode: http.StatusOK,
			wantBody: `"deleted":5`,
		},
		{
			name:   "clear all languages",
			method: "DELETE",
			path:   "/api/translations/menu/r-1",
			setup: func(m handlerMocks) {
				m.translations.On("ClearRestaurant", mock.Anything, "r-1", "").Return(int64(0), assert.AnError).Once()
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			h, m := newTestHandler(t)
			testCase.setup(m)

			w := serve(h, httptest.NewRequest(testCase.method, testCase.path, nil))

			assert.Equal(t, testCase.wantCode, w.Code)
			if testCase.wantBody != "" {
				assert.Contains(t, w.Body.String(), testCase.wantBody)
			}
		})
	}
}

func TestBestSellersHandler(t *testing.T) {
	h, m := newTestHandler(t)
	m.repo.On("ListMenuItems", mock.Anything, "r-1", true).Return([]domain.MenuItem{{ID: "m1", Name: "Pad Thai"}}, nil).Once()
	m.sales.On("SalesSince", mock.Anything, "r-1", 7, mock.Anything).
		Return(map[string]domain.SalesStat{"m1": {Quantity: 4, OrderCount: 3}}, nil).Once()

	w := serve(h, httptest.NewRequest("GET", "/api/restaurants/r-1/best-sellers?days=7&limit=3", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var sellers []domain.BestSeller
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sellers))
	require.Len(t, sellers, 1)
	assert.Equal(t, 1, sellers[0].Rank)
	assert.Equal(t, int64(4), sellers[0].TotalQuantity)
}

func TestTableQRCodeHandler(t *testing.T) {
	h, m := newTestHandler(t)
	m.restaurants.On("GetRestaurant", mock.Anything, "r-1").Return(validRestaurant(), nil).Once()
	m.qr.On("Generate", "r-1", "7").Return([]byte("\x89PNG..."), nil).Once()

	w := serve(h, httptest.NewRequest("GET", "/api/restaurants/r-1/qrcode?table=7", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
}

func TestMenuHealthCheck(t *testing.T) {
	h, _ := newTestHandler(t)

	w := serve(h, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"menu-svc"`)
}
