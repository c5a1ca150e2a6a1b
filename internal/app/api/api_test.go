package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dealdrop/dealdrop/internal/app/tracking"
	"github.com/dealdrop/dealdrop/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) AddOrRefresh(ctx context.Context, params tracking.AddOrRefreshParams) (*models.SessionOutcome, error) {
	args := m.Called(ctx, params)
	outcome, _ := args.Get(0).(*models.SessionOutcome)
	return outcome, args.Error(1)
}

func (m *mockService) Delete(ctx context.Context, params tracking.DeleteParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *mockService) ListProducts(ctx context.Context, ownerID string) ([]models.TrackedProduct, error) {
	args := m.Called(ctx, ownerID)
	products, _ := args.Get(0).([]models.TrackedProduct)
	return products, args.Error(1)
}

func (m *mockService) ListHistory(ctx context.Context, productID string) ([]models.PriceHistoryEntry, error) {
	args := m.Called(ctx, productID)
	entries, _ := args.Get(0).([]models.PriceHistoryEntry)
	return entries, args.Error(1)
}

func newTestServer(t *testing.T) (*Server, *mockService) {
	t.Helper()

	service := &mockService{}

	server, err := NewServer(
		Config{Addr: ":0"},
		Dependencies{Service: service},
	)
	require.NoError(t, err)

	return server, service
}

func withOwnerHeaders(r *http.Request) *http.Request {
	r.Header.Set("X-Owner-Id", "owner-1")
	r.Header.Set("X-Owner-Email", "buyer@example.com")
	return r
}

func TestHandleAddProduct(t *testing.T) {
	t.Run("CreatedReturns201", func(t *testing.T) {
		server, service := newTestServer(t)

		product := &models.TrackedProduct{
			ID:           "product-1",
			Name:         "Widget",
			CurrentPrice: decimal.RequireFromString("20"),
			Currency:     "USD",
		}

		service.
			On("AddOrRefresh", mock.Anything, mock.MatchedBy(func(p tracking.AddOrRefreshParams) bool {
				return p.Owner.ID == "owner-1" && p.URL == "https://shop.example/widget"
			})).
			Return(&models.SessionOutcome{
				Status:  models.SessionStatusCreated,
				Product: product,
				Message: "Product added successfully!",
			}, nil)

		body := bytes.NewBufferString(`{"url":"https://shop.example/widget"}`)
		r := withOwnerHeaders(httptest.NewRequest(http.MethodPost, "/api/v1/products", body))
		w := httptest.NewRecorder()

		server.Router().ServeHTTP(w, r)

		require.Equal(t, http.StatusCreated, w.Code)

		var resp sessionResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "Product added successfully!", resp.Message)
		assert.Equal(t, "product-1", resp.Product.ID)
	})

	t.Run("RefreshReturns200", func(t *testing.T) {
		server, service := newTestServer(t)

		service.
			On("AddOrRefresh", mock.Anything, mock.Anything).
			Return(&models.SessionOutcome{
				Status:  models.SessionStatusUpdated,
				Message: "Product updated with latest price!",
			}, nil)

		body := bytes.NewBufferString(`{"url":"https://shop.example/widget"}`)
		r := withOwnerHeaders(httptest.NewRequest(http.MethodPost, "/api/v1/products", body))
		w := httptest.NewRecorder()

		server.Router().ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("MissingURLReturns400", func(t *testing.T) {
		server, service := newTestServer(t)

		body := bytes.NewBufferString(`{}`)
		r := withOwnerHeaders(httptest.NewRequest(http.MethodPost, "/api/v1/products", body))
		w := httptest.NewRecorder()

		server.Router().ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "URL is required")
		service.AssertNotCalled(t, "AddOrRefresh")
	})

	t.Run("MalformedBodyReturns400", func(t *testing.T) {
		server, service := newTestServer(t)

		body := bytes.NewBufferString(`{not json`)
		r := withOwnerHeaders(httptest.NewRequest(http.MethodPost, "/api/v1/products", body))
		w := httptest.NewRecorder()

		server.Router().ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		service.AssertNotCalled(t, "AddOrRefresh")
	})

	t.Run("BadTelegramHeaderReturns400", func(t *testing.T) {
		server, service := newTestServer(t)

		body := bytes.NewBufferString(`{"url":"https://shop.example/widget"}`)
		r := withOwnerHeaders(httptest.NewRequest(http.MethodPost, "/api/v1/products", body))
		r.Header.Set("X-Owner-Telegram-Chat", "not-a-number")
		w := httptest.NewRecorder()

		server.Router().ServeHTTP(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		service.AssertNotCalled(t, "AddOrRefresh")
	})
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"Unauthenticated", models.ErrUnauthenticated, http.StatusUnauthorized},
		{"InvalidInput", models.ErrInvalidInput, http.StatusBadRequest},
		{"InvalidSnapshot", models.ErrInvalidSnapshot, http.StatusUnprocessableEntity},
		{"ExtractionFailed", models.ErrExtractionFailed, http.StatusBadGateway},
		{"PersistenceFailed", models.ErrPersistenceFailed, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server, service := newTestServer(t)

			service.
				On("AddOrRefresh", mock.Anything, mock.Anything).
				Return(nil, tc.err)

			body := bytes.NewBufferString(`{"url":"https://shop.example/widget"}`)
			r := withOwnerHeaders(httptest.NewRequest(http.MethodPost, "/api/v1/products", body))
			w := httptest.NewRecorder()

			server.Router().ServeHTTP(w, r)

			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestHandleListProducts(t *testing.T) {
	server, service := newTestServer(t)

	service.
		On("ListProducts", mock.Anything, "owner-1").
		Return([]models.TrackedProduct{
			{ID: "product-1", Name: "Widget"},
			{ID: "product-2", Name: "Gadget"},
		}, nil)

	r := withOwnerHeaders(httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	w := httptest.NewRecorder()

	server.Router().ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var products []models.TrackedProduct
	require.NoError(t, json.NewDecoder(w.Body).Decode(&products))
	assert.Len(t, products, 2)
}

func TestHandleDeleteProduct(t *testing.T) {
	server, service := newTestServer(t)

	service.
		On("Delete", mock.Anything, tracking.DeleteParams{
			OwnerID:   "owner-1",
			ProductID: "product-1",
		}).
		Return(nil).
		Once()

	r := withOwnerHeaders(httptest.NewRequest(http.MethodDelete, "/api/v1/products/product-1", nil))
	w := httptest.NewRecorder()

	server.Router().ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	service.AssertExpectations(t)
}

func TestHandleListHistory(t *testing.T) {
	server, service := newTestServer(t)

	service.
		On("ListHistory", mock.Anything, "product-1").
		Return([]models.PriceHistoryEntry{
			{ProductID: "product-1", Price: decimal.RequireFromString("20"), Currency: "USD"},
		}, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/products/product-1/history", nil)
	w := httptest.NewRecorder()

	server.Router().ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var entries []models.PriceHistoryEntry
	require.NoError(t, json.NewDecoder(w.Body).Decode(&entries))
	require.Len(t, entries, 1)
}

func TestHandleHealth(t *testing.T) {
	server, _ := newTestServer(t)

	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	server.Router().ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
