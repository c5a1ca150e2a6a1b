package models

import (
	"fmt"

	"github.com/dealdrop/dealdrop/pkg/stringer"
	"github.com/shopspring/decimal"
)

const DefaultCurrency = "USD"

// ProductSnapshot is one validated point-in-time read of a product page.
type ProductSnapshot struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	ImageURL string          `json:"image_url"`
}

// NewProductSnapshot coerces a raw extraction into a canonical snapshot.
// A result missing a usable name or price never reaches reconciliation.
func NewProductSnapshot(raw RawExtraction) (*ProductSnapshot, error) {
	name := stringer.SanitizeString(stringer.StripTags(raw.ProductName))
	if stringer.IsEmptyStr(name) {
		return nil, fmt.Errorf("%w: product name is empty", ErrInvalidSnapshot)
	}

	if stringer.IsEmptyStr(raw.CurrentPrice.String()) {
		return nil, fmt.Errorf("%w: product price is missing", ErrInvalidSnapshot)
	}

	price, err := decimal.NewFromString(raw.CurrentPrice.String())
	if err != nil {
		return nil, fmt.Errorf("%w: product price %q is not a number", ErrInvalidSnapshot, raw.CurrentPrice)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: product price %s is negative", ErrInvalidSnapshot, price)
	}

	currency := stringer.ToUpper(stringer.Strip(raw.CurrencyCode))
	if currency == "" {
		currency = DefaultCurrency
	}

	return &ProductSnapshot{
		Name:     name,
		Price:    price,
		Currency: currency,
		ImageURL: stringer.Strip(raw.ProductImageURL),
	}, nil
}
