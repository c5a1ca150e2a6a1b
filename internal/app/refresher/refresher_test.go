package refresher

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/dealdrop/dealdrop/internal/alerter"
	"github.com/dealdrop/dealdrop/internal/app/tracking"
	"github.com/dealdrop/dealdrop/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, params models.ExtractParams) (*models.RawExtraction, error) {
	args := m.Called(ctx, params)
	raw, _ := args.Get(0).(*models.RawExtraction)
	return raw, args.Error(1)
}

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) WithTransaction(ctx context.Context, callback func(ctx context.Context) error) error {
	return callback(ctx)
}

func (m *mockStorage) FindProduct(ctx context.Context, ownerID, url string) (*models.TrackedProduct, error) {
	args := m.Called(ctx, ownerID, url)
	product, _ := args.Get(0).(*models.TrackedProduct)
	return product, args.Error(1)
}

func (m *mockStorage) UpsertProduct(ctx context.Context, params models.UpsertProductParams) (*models.TrackedProduct, error) {
	args := m.Called(ctx, params)
	product, _ := args.Get(0).(*models.TrackedProduct)
	return product, args.Error(1)
}

func (m *mockStorage) AppendHistory(ctx context.Context, entry models.PriceHistoryEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockStorage) DeleteProduct(ctx context.Context, ownerID, productID string) error {
	return m.Called(ctx, ownerID, productID).Error(0)
}

func (m *mockStorage) ListProducts(ctx context.Context, ownerID string) ([]models.TrackedProduct, error) {
	args := m.Called(ctx, ownerID)
	products, _ := args.Get(0).([]models.TrackedProduct)
	return products, args.Error(1)
}

func (m *mockStorage) ListHistory(ctx context.Context, productID string) ([]models.PriceHistoryEntry, error) {
	args := m.Called(ctx, productID)
	entries, _ := args.Get(0).([]models.PriceHistoryEntry)
	return entries, args.Error(1)
}

func (m *mockStorage) ScanProducts(ctx context.Context, callback func(ctx context.Context, product *models.TrackedProduct) error) error {
	args := m.Called(ctx, mock.Anything)

	products, _ := args.Get(0).([]models.TrackedProduct)
	for i := range products {
		if err := callback(ctx, &products[i]); err != nil {
			return err
		}
	}

	return args.Error(1)
}

type mockAlerter struct {
	mock.Mock
}

func (m *mockAlerter) NotifyPriceDrop(ctx context.Context, params alerter.NotifyPriceDropParams) error {
	return m.Called(ctx, params).Error(0)
}

func trackedWidget(id, url, price string) models.TrackedProduct {
	return models.TrackedProduct{
		ID:           id,
		OwnerID:      "owner-1",
		URL:          url,
		Name:         "Widget",
		CurrentPrice: decimal.RequireFromString(price),
		Currency:     "USD",
		Notify:       models.NotifyParams{Email: "buyer@example.com"},
	}
}

func newTestRefresher(t *testing.T, storage *mockStorage, extractor *mockExtractor, alerts *mockAlerter) *Refresher {
	t.Helper()

	trk, err := tracking.NewTracking(tracking.Dependencies{
		Extractor: extractor,
		Storage:   storage,
		Alerter:   alerts,
	})
	require.NoError(t, err)

	refresher, err := NewRefresher(Config{Workers: 2}, Dependencies{
		Tracking: trk,
		Storage:  storage,
	})
	require.NoError(t, err)

	return refresher
}

func TestRunOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("RefreshesEveryProduct", func(t *testing.T) {
		storage := &mockStorage{}
		extractor := &mockExtractor{}
		alerts := &mockAlerter{}

		first := trackedWidget("product-1", "https://shop.example/one", "20")
		second := trackedWidget("product-2", "https://shop.example/two", "10")

		storage.
			On("ScanProducts", ctx, mock.Anything).
			Return([]models.TrackedProduct{first, second}, nil)

		// First product dropped, second unchanged.
		extractor.
			On("Extract", mock.Anything, models.ExtractParams{URL: first.URL}).
			Return(&models.RawExtraction{
				ProductName:  "Widget",
				CurrentPrice: json.Number("15"),
				CurrencyCode: "USD",
			}, nil)
		extractor.
			On("Extract", mock.Anything, models.ExtractParams{URL: second.URL}).
			Return(&models.RawExtraction{
				ProductName:  "Widget",
				CurrentPrice: json.Number("10"),
				CurrencyCode: "USD",
			}, nil)

		storage.On("FindProduct", mock.Anything, "owner-1", first.URL).Return(&first, nil)
		storage.On("FindProduct", mock.Anything, "owner-1", second.URL).Return(&second, nil)

		droppedFirst := trackedWidget("product-1", first.URL, "15")
		storage.
			On("UpsertProduct", mock.Anything, mock.MatchedBy(func(p models.UpsertProductParams) bool {
				return p.URL == first.URL
			})).
			Return(&droppedFirst, nil)
		storage.
			On("UpsertProduct", mock.Anything, mock.MatchedBy(func(p models.UpsertProductParams) bool {
				return p.URL == second.URL
			})).
			Return(&second, nil)

		storage.
			On("AppendHistory", mock.Anything, mock.MatchedBy(func(e models.PriceHistoryEntry) bool {
				return e.ProductID == "product-1"
			})).
			Return(nil).
			Once()

		alerts.
			On("NotifyPriceDrop", mock.Anything, mock.MatchedBy(func(p alerter.NotifyPriceDropParams) bool {
				return p.Product.ID == "product-1" &&
					p.NewPrice.Equal(decimal.RequireFromString("15"))
			})).
			Return(nil).
			Once()

		refresher := newTestRefresher(t, storage, extractor, alerts)

		err := refresher.RunOnce(ctx)

		require.NoError(t, err)
		storage.AssertExpectations(t)
		alerts.AssertExpectations(t)
	})

	t.Run("FailedProductDoesNotAbortSweep", func(t *testing.T) {
		storage := &mockStorage{}
		extractor := &mockExtractor{}
		alerts := &mockAlerter{}

		broken := trackedWidget("product-1", "https://shop.example/broken", "20")
		healthy := trackedWidget("product-2", "https://shop.example/healthy", "10")

		storage.
			On("ScanProducts", ctx, mock.Anything).
			Return([]models.TrackedProduct{broken, healthy}, nil)

		extractor.
			On("Extract", mock.Anything, models.ExtractParams{URL: broken.URL}).
			Return(nil, models.ErrExtractionFailed)
		extractor.
			On("Extract", mock.Anything, models.ExtractParams{URL: healthy.URL}).
			Return(&models.RawExtraction{
				ProductName:  "Widget",
				CurrentPrice: json.Number("10"),
				CurrencyCode: "USD",
			}, nil)

		storage.On("FindProduct", mock.Anything, "owner-1", healthy.URL).Return(&healthy, nil)
		storage.On("UpsertProduct", mock.Anything, mock.Anything).Return(&healthy, nil)

		refresher := newTestRefresher(t, storage, extractor, alerts)

		err := refresher.RunOnce(ctx)

		require.NoError(t, err)
		storage.AssertCalled(t, "UpsertProduct", mock.Anything, mock.MatchedBy(func(p models.UpsertProductParams) bool {
			return p.URL == healthy.URL
		}))
		alerts.AssertNotCalled(t, "NotifyPriceDrop")
	})

	t.Run("ScanFailureReported", func(t *testing.T) {
		storage := &mockStorage{}
		extractor := &mockExtractor{}
		alerts := &mockAlerter{}

		storage.
			On("ScanProducts", ctx, mock.Anything).
			Return(nil, models.ErrPersistenceFailed)

		refresher := newTestRefresher(t, storage, extractor, alerts)

		err := refresher.RunOnce(ctx)

		assert.ErrorIs(t, err, models.ErrPersistenceFailed)
	})
}
