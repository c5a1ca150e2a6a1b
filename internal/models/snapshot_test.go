package models_test

import (
	"encoding/json"
	"testing"

	"github.com/dealdrop/dealdrop/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProductSnapshot(t *testing.T) {
	t.Run("RejectsEmptyName", func(t *testing.T) {
		_, err := models.NewProductSnapshot(models.RawExtraction{
			ProductName:  "",
			CurrentPrice: json.Number("10"),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrInvalidSnapshot)
	})

	t.Run("RejectsWhitespaceName", func(t *testing.T) {
		_, err := models.NewProductSnapshot(models.RawExtraction{
			ProductName:  "   ",
			CurrentPrice: json.Number("10"),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrInvalidSnapshot)
	})

	t.Run("RejectsMissingPrice", func(t *testing.T) {
		_, err := models.NewProductSnapshot(models.RawExtraction{
			ProductName: "Widget",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrInvalidSnapshot)
	})

	t.Run("RejectsNonNumericPrice", func(t *testing.T) {
		_, err := models.NewProductSnapshot(models.RawExtraction{
			ProductName:  "Widget",
			CurrentPrice: json.Number("not-a-price"),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrInvalidSnapshot)
	})

	t.Run("RejectsNegativePrice", func(t *testing.T) {
		_, err := models.NewProductSnapshot(models.RawExtraction{
			ProductName:  "Widget",
			CurrentPrice: json.Number("-5"),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrInvalidSnapshot)
	})

	t.Run("DefaultsCurrencyToUSD", func(t *testing.T) {
		snapshot, err := models.NewProductSnapshot(models.RawExtraction{
			ProductName:  "Widget",
			CurrentPrice: json.Number("10"),
		})
		require.NoError(t, err)
		assert.Equal(t, "USD", snapshot.Currency)
	})

	t.Run("UppercasesCurrency", func(t *testing.T) {
		snapshot, err := models.NewProductSnapshot(models.RawExtraction{
			ProductName:  "Widget",
			CurrentPrice: json.Number("10"),
			CurrencyCode: "eur",
		})
		require.NoError(t, err)
		assert.Equal(t, "EUR", snapshot.Currency)
	})

	t.Run("SanitizesName", func(t *testing.T) {
		snapshot, err := models.NewProductSnapshot(models.RawExtraction{
			ProductName:  "  <b>Fancy</b>   Widget  ",
			CurrentPrice: json.Number("19.99"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Fancy Widget", snapshot.Name)
		assert.True(t, decimal.RequireFromString("19.99").Equal(snapshot.Price))
	})

	t.Run("CarriesImageURL", func(t *testing.T) {
		snapshot, err := models.NewProductSnapshot(models.RawExtraction{
			ProductName:     "Widget",
			CurrentPrice:    json.Number("10"),
			ProductImageURL: "https://cdn.shop/widget.png",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.shop/widget.png", snapshot.ImageURL)
	})

	t.Run("AcceptsZeroPrice", func(t *testing.T) {
		snapshot, err := models.NewProductSnapshot(models.RawExtraction{
			ProductName:  "Widget",
			CurrentPrice: json.Number("0"),
		})
		require.NoError(t, err)
		assert.True(t, snapshot.Price.IsZero())
	})
}
