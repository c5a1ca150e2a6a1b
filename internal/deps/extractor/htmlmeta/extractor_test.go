package htmlmeta

import (
	"encoding/json"
	"testing"

	"github.com/dealdrop/dealdrop/pkg/parser/xpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFixture(t *testing.T, content string) *xpath.HtmlDocument {
	t.Helper()

	doc, err := xpath.ParseDocument([]byte(content), "https://shop.example/widget")
	require.NoError(t, err)

	return doc
}

func TestExtractFromDocument(t *testing.T) {
	t.Run("OpenGraphProduct", func(t *testing.T) {
		doc := parseFixture(t, `<html><head>
			<meta property="og:title" content="Fancy Widget">
			<meta property="product:price:amount" content="129.99">
			<meta property="product:price:currency" content="EUR">
			<meta property="og:image" content="https://cdn.shop/widget.png">
		</head><body></body></html>`)

		raw := ExtractFromDocument(doc)

		assert.Equal(t, "Fancy Widget", raw.ProductName)
		assert.Equal(t, json.Number("129.99"), raw.CurrentPrice)
		assert.Equal(t, "EUR", raw.CurrencyCode)
		assert.Equal(t, "https://cdn.shop/widget.png", raw.ProductImageURL)
	})

	t.Run("FallsBackToTitleTag", func(t *testing.T) {
		doc := parseFixture(t, `<html><head>
			<title>Plain Widget</title>
			<meta itemprop="price" content="19.90">
		</head><body></body></html>`)

		raw := ExtractFromDocument(doc)

		assert.Equal(t, "Plain Widget", raw.ProductName)
		assert.Equal(t, json.Number("19.90"), raw.CurrentPrice)
	})

	t.Run("ItempropPriceFromBody", func(t *testing.T) {
		doc := parseFixture(t, `<html><head><title>Widget</title></head><body>
			<span itemprop="price" content="49.00">49,00</span>
		</body></html>`)

		raw := ExtractFromDocument(doc)

		assert.Equal(t, json.Number("49.00"), raw.CurrentPrice)
	})

	t.Run("NormalizesLocalizedPrice", func(t *testing.T) {
		doc := parseFixture(t, `<html><head>
			<title>Widget</title>
			<meta property="og:price:amount" content="1 299,00">
		</head><body></body></html>`)

		raw := ExtractFromDocument(doc)

		assert.Equal(t, json.Number("1299.00"), raw.CurrentPrice)
	})

	t.Run("MissingPriceYieldsEmptyNumber", func(t *testing.T) {
		doc := parseFixture(t, `<html><head>
			<meta property="og:title" content="Widget Without Price">
		</head><body></body></html>`)

		raw := ExtractFromDocument(doc)

		assert.Equal(t, "Widget Without Price", raw.ProductName)
		assert.Empty(t, string(raw.CurrentPrice))
	})

	t.Run("NonNumericPriceYieldsEmptyNumber", func(t *testing.T) {
		doc := parseFixture(t, `<html><head>
			<title>Widget</title>
			<meta itemprop="price" content="call for price">
		</head><body></body></html>`)

		raw := ExtractFromDocument(doc)

		assert.Empty(t, string(raw.CurrentPrice))
	})

	t.Run("PrefersImageWithKnownExtension", func(t *testing.T) {
		doc := parseFixture(t, `<html><head>
			<title>Widget</title>
			<meta property="og:image" content="https://cdn.shop/widget-page">
			<meta name="twitter:image" content="https://cdn.shop/widget.jpg">
		</head><body></body></html>`)

		raw := ExtractFromDocument(doc)

		assert.Equal(t, "https://cdn.shop/widget.jpg", raw.ProductImageURL)
	})

	t.Run("KeepsFirstImageWhenNoneMatchExtension", func(t *testing.T) {
		doc := parseFixture(t, `<html><head>
			<title>Widget</title>
			<meta property="og:image" content="https://cdn.shop/first">
			<meta name="twitter:image" content="https://cdn.shop/second">
		</head><body></body></html>`)

		raw := ExtractFromDocument(doc)

		assert.Equal(t, "https://cdn.shop/first", raw.ProductImageURL)
	})
}
