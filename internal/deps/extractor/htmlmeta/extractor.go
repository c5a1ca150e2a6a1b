package htmlmeta

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dealdrop/dealdrop/internal/models"
	"github.com/dealdrop/dealdrop/pkg/extension"
	"github.com/dealdrop/dealdrop/pkg/parser/xpath"
	"github.com/dealdrop/dealdrop/pkg/stringer"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

// Extractor reads product data from Open Graph and schema.org page metadata.
// It backs the extraction contract when no structured-extraction backend is
// configured; pages without price metadata yield an incomplete raw result
// that the snapshot normalizer rejects.
type Extractor struct {
	deps Dependencies
}

type Dependencies struct {
	Xpath *xpath.Parser `validate:"required"`
}

func (c *Dependencies) Validate() error {
	return validator.New().Struct(c)
}

func NewExtractor(deps Dependencies) (*Extractor, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}

	return &Extractor{deps: deps}, nil
}

func (e *Extractor) Extract(ctx context.Context, params models.ExtractParams) (*models.RawExtraction, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid params: %v", models.ErrInvalidInput, err)
	}

	log.
		WithField("params.url", params.URL).
		Debug("html metadata extraction started")

	doc, err := e.deps.Xpath.GetHtmlDoc(ctx, params.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: e.deps.Xpath.GetHtmlDoc: %v", models.ErrExtractionFailed, err)
	}

	return ExtractFromDocument(doc), nil
}

// ExtractFromDocument walks an already fetched document. Split out so the
// metadata queries are testable without network access.
func ExtractFromDocument(doc *xpath.HtmlDocument) *models.RawExtraction {
	return &models.RawExtraction{
		ProductName:     findName(doc),
		CurrentPrice:    findPrice(doc),
		CurrencyCode:    findCurrency(doc),
		ProductImageURL: findImage(doc),
	}
}

func findName(doc *xpath.HtmlDocument) string {
	if content, ok := findMetaContent(doc,
		`//meta[@property='og:title']`,
		`//meta[@name='twitter:title']`,
	); ok {
		return content
	}

	if content, ok := xpath.GetContent(xpath.GetFirstElement(doc, `//title`)); ok {
		return content
	}

	return ""
}

func findPrice(doc *xpath.HtmlDocument) json.Number {
	content, ok := findMetaContent(doc,
		`//meta[@property='product:price:amount']`,
		`//meta[@property='og:price:amount']`,
		`//meta[@itemprop='price']`,
	)
	if !ok {
		node := xpath.GetFirstElement(doc, `//*[@itemprop='price']`)

		if content, ok = xpath.GetAttribute(node, "content"); !ok {
			content, ok = xpath.GetContent(node)
		}
	}

	if !ok || stringer.IsEmptyStr(content) {
		return ""
	}

	// NormalizeFloatStr maps digit-free strings to "0"; a price label without
	// digits is no price at all.
	if !strings.ContainsAny(content, "0123456789") {
		return ""
	}

	normalized := stringer.NormalizeFloatStr(content)

	if _, err := cast.ToFloat64E(normalized); err != nil {
		return ""
	}

	return json.Number(normalized)
}

func findCurrency(doc *xpath.HtmlDocument) string {
	content, ok := findMetaContent(doc,
		`//meta[@property='product:price:currency']`,
		`//meta[@property='og:price:currency']`,
		`//meta[@itemprop='priceCurrency']`,
	)
	if !ok {
		content, _ = xpath.GetAttribute(xpath.GetFirstElement(doc, `//*[@itemprop='priceCurrency']`), "content")
	}

	return content
}

func findImage(doc *xpath.HtmlDocument) string {
	var candidates []string

	for _, query := range []string{
		`//meta[@property='og:image']`,
		`//meta[@itemprop='image']`,
		`//meta[@name='twitter:image']`,
	} {
		for _, node := range xpath.CollectElements(doc, query) {
			if content, ok := xpath.GetAttribute(node, "content"); ok {
				candidates = append(candidates, content)
			}
		}
	}

	for _, candidate := range candidates {
		if extension.IsImage(candidate) {
			return candidate
		}
	}

	if len(candidates) > 0 {
		return candidates[0]
	}

	return ""
}

func findMetaContent(doc *xpath.HtmlDocument, queries ...string) (string, bool) {
	for _, query := range queries {
		node := xpath.GetFirstElement(doc, query)

		if content, ok := xpath.GetAttribute(node, "content"); ok && !stringer.IsEmptyStr(content) {
			return content, true
		}
	}

	return "", false
}
