package models

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// RawExtraction is the extraction backend payload, carried verbatim.
// CurrentPrice stays a json.Number until the normalizer validates it.
type RawExtraction struct {
	ProductName     string      `json:"productName"`
	CurrentPrice    json.Number `json:"currentPrice"`
	CurrencyCode    string      `json:"currencyCode"`
	ProductImageURL string      `json:"productImageUrl"`
}

type ExtractParams struct {
	URL string `json:"url" validate:"required,url"`
}

func (p *ExtractParams) Validate() error {
	return validator.New().Struct(p)
}

// Extractor turns a product page URL into a structured extraction result.
// Implementations issue exactly one request and do not retry.
type Extractor interface {
	Extract(ctx context.Context, params ExtractParams) (*RawExtraction, error)
}
